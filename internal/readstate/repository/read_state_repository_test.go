package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	readdomain "classlink-backend/internal/readstate/domain"
)

func setupRepo(t *testing.T) ReadStateRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&readdomain.ReadState{}))
	return NewReadStateRepository(db)
}

func TestSeedCreatesUnreadRecords(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("event1", []string{"parentA", "parentB"}))

	state, err := repo.Find("event1", "parentA")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.False(t, state.IsRead)
	require.Nil(t, state.ReadAt)

	state, err = repo.Find("event1", "parentB")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.False(t, state.IsRead)
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("event1", []string{"parentA"}))
	require.NoError(t, repo.Seed("event1", []string{"parentA"}))

	states, err := repo.FindByEventIDs([]string{"event1"}, "parentA")
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.False(t, states["event1"].IsRead)
}

func TestSeedNeverRevertsReadState(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("event1", []string{"parentA"}))
	require.NoError(t, repo.MarkRead("event1", "parentA"))

	// A late-arriving reseed must not clobber the read flag.
	require.NoError(t, repo.Seed("event1", []string{"parentA"}))

	state, err := repo.Find("event1", "parentA")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.True(t, state.IsRead)
	require.NotNil(t, state.ReadAt)
}

func TestMarkReadSetsTimestamp(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("event1", []string{"parentA"}))
	require.NoError(t, repo.MarkRead("event1", "parentA"))

	state, err := repo.Find("event1", "parentA")
	require.NoError(t, err)
	require.True(t, state.IsRead)
	require.NotNil(t, state.ReadAt)
}

func TestMarkReadWithoutSeedCreatesReadRecord(t *testing.T) {
	repo := setupRepo(t)

	// Seeding failed or raced the push; the recipient's action still sticks.
	require.NoError(t, repo.MarkRead("event1", "parentA"))

	state, err := repo.Find("event1", "parentA")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.True(t, state.IsRead)
}

func TestSeedEmptyInputsAreNoOps(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("", []string{"parentA"}))
	require.NoError(t, repo.Seed("event1", nil))

	state, err := repo.Find("event1", "parentA")
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestFindByEventIDsOnlyReturnsExistingRecords(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Seed("event1", []string{"parentA"}))

	states, err := repo.FindByEventIDs([]string{"event1", "event2"}, "parentA")
	require.NoError(t, err)
	require.Len(t, states, 1)
	_, ok := states["event2"]
	require.False(t, ok)
}
