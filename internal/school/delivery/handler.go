package delivery

import (
	"net/http"

	authrepo "classlink-backend/internal/auth/repository"
	schooldomain "classlink-backend/internal/school/domain"
	"classlink-backend/internal/school/repository"

	"github.com/gin-gonic/gin"
)

type SchoolHandler struct {
	studentRepo repository.StudentRepository
	userRepo    authrepo.UserRepository
}

func NewSchoolHandler(studentRepo repository.StudentRepository, userRepo authrepo.UserRepository) *SchoolHandler {
	return &SchoolHandler{
		studentRepo: studentRepo,
		userRepo:    userRepo,
	}
}

type createClassRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *SchoolHandler) CreateClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := &schooldomain.Class{Name: req.Name}
	if err := h.studentRepo.CreateClass(class); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *SchoolHandler) ListClasses(c *gin.Context) {
	classes, err := h.studentRepo.ListClasses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

type createStudentRequest struct {
	Name    string `json:"name" binding:"required"`
	ClassID string `json:"class_id" binding:"required"`
}

func (h *SchoolHandler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student := &schooldomain.Student{Name: req.Name, ClassID: req.ClassID}
	if err := h.studentRepo.CreateStudent(student); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, student)
}

type linkParentRequest struct {
	ParentID  string `json:"parent_id" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

// LinkParent attaches a parent account to a student so the parent starts
// receiving that student's comments and class notifications.
func (h *SchoolHandler) LinkParent(c *gin.Context) {
	var req linkParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parent, err := h.userRepo.FindByID(req.ParentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if parent == nil || !parent.IsParent() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent account not found"})
		return
	}

	student, err := h.studentRepo.FindStudentByID(req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if student == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student not found"})
		return
	}

	if err := h.studentRepo.LinkParent(req.ParentID, req.StudentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "parent linked"})
}

func (h *SchoolHandler) UnlinkParent(c *gin.Context) {
	var req linkParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.studentRepo.UnlinkParent(req.ParentID, req.StudentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "parent unlinked"})
}

// MyStudents lists the students linked to the calling parent.
func (h *SchoolHandler) MyStudents(c *gin.Context) {
	userID := c.GetString("userID")
	students, err := h.studentRepo.FindStudentsByParentID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}
