package repository

import (
	"errors"
	"time"

	readdomain "classlink-backend/internal/readstate/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadStateRepository is the read-state ledger: it seeds one unread record
// per recipient when an event is created and flips records to read on the
// recipient's own action.
type ReadStateRepository interface {
	Seed(eventID string, userIDs []string) error
	MarkRead(eventID, userID string) error
	Find(eventID, userID string) (*readdomain.ReadState, error)
	FindByEventIDs(eventIDs []string, userID string) (map[string]readdomain.ReadState, error)
}

// readStateRepository implements ReadStateRepository interface
type readStateRepository struct {
	db *gorm.DB
}

// NewReadStateRepository creates a new instance of readStateRepository
func NewReadStateRepository(db *gorm.DB) ReadStateRepository {
	return &readStateRepository{
		db: db,
	}
}

// Seed inserts one unread record per recipient. The insert ignores conflicts
// on the (event, user) key, so reprocessing the same event never duplicates
// records and never flips an already-read record back to unread.
func (r *readStateRepository) Seed(eventID string, userIDs []string) error {
	if eventID == "" || len(userIDs) == 0 {
		return nil
	}

	states := make([]readdomain.ReadState, 0, len(userIDs))
	for _, userID := range userIDs {
		states = append(states, readdomain.ReadState{
			EventID: eventID,
			UserID:  userID,
			IsRead:  false,
			ReadAt:  nil,
		})
	}

	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&states).Error
}

// MarkRead flips the record to read with the current time. A missing record
// (seeding failed or raced the push) is created directly in the read state so
// the recipient's action is never lost.
func (r *readStateRepository) MarkRead(eventID, userID string) error {
	now := time.Now()
	state := readdomain.ReadState{
		EventID: eventID,
		UserID:  userID,
		IsRead:  true,
		ReadAt:  &now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_read", "read_at"}),
	}).Create(&state).Error
}

func (r *readStateRepository) Find(eventID, userID string) (*readdomain.ReadState, error) {
	var state readdomain.ReadState
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// FindByEventIDs returns the user's read states for the given events, keyed
// by event ID. Events with no record yet are simply absent from the map.
func (r *readStateRepository) FindByEventIDs(eventIDs []string, userID string) (map[string]readdomain.ReadState, error) {
	if len(eventIDs) == 0 {
		return map[string]readdomain.ReadState{}, nil
	}

	var states []readdomain.ReadState
	err := r.db.Where("event_id IN ? AND user_id = ?", eventIDs, userID).Find(&states).Error
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string]readdomain.ReadState, len(states))
	for _, state := range states {
		byEvent[state.EventID] = state
	}
	return byEvent, nil
}
