package repository

import (
	"errors"
	"time"

	schooldomain "classlink-backend/internal/school/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudentRepository defines directory lookups over students and classes.
type StudentRepository interface {
	CreateStudent(student *schooldomain.Student) error
	CreateClass(class *schooldomain.Class) error
	FindStudentByID(id string) (*schooldomain.Student, error)
	FindStudentsByClassID(classID string) ([]schooldomain.Student, error)
	FindStudentsByClassIDs(classIDs []string) ([]schooldomain.Student, error)
	FindStudentsByParentID(parentID string) ([]schooldomain.Student, error)
	LinkParent(parentID, studentID string) error
	UnlinkParent(parentID, studentID string) error
	ListClasses() ([]schooldomain.Class, error)
}

// studentRepository implements StudentRepository interface
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new instance of studentRepository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{
		db: db,
	}
}

func (r *studentRepository) CreateStudent(student *schooldomain.Student) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	return r.db.Create(student).Error
}

func (r *studentRepository) CreateClass(class *schooldomain.Class) error {
	if class.ID == "" {
		class.ID = uuid.New().String()
	}
	class.CreatedAt = time.Now()
	return r.db.Create(class).Error
}

func (r *studentRepository) FindStudentByID(id string) (*schooldomain.Student, error) {
	var student schooldomain.Student
	err := r.db.Where("id = ?", id).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindStudentsByClassID(classID string) ([]schooldomain.Student, error) {
	var students []schooldomain.Student
	err := r.db.Where("class_id = ?", classID).Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) FindStudentsByClassIDs(classIDs []string) ([]schooldomain.Student, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	var students []schooldomain.Student
	err := r.db.Where("class_id IN ?", classIDs).Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) FindStudentsByParentID(parentID string) ([]schooldomain.Student, error) {
	var students []schooldomain.Student
	err := r.db.
		Joins("JOIN parent_students ps ON ps.student_id = students.id").
		Where("ps.parent_id = ?", parentID).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// LinkParent creates the parent-student link; linking twice is a no-op.
func (r *studentRepository) LinkParent(parentID, studentID string) error {
	link := &schooldomain.ParentStudent{
		ParentID:  parentID,
		StudentID: studentID,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
}

func (r *studentRepository) UnlinkParent(parentID, studentID string) error {
	return r.db.
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Delete(&schooldomain.ParentStudent{}).Error
}

func (r *studentRepository) ListClasses() ([]schooldomain.Class, error) {
	var classes []schooldomain.Class
	err := r.db.Order("name").Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}
