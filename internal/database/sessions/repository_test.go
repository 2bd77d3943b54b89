package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/neuroplay/neuroplay/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, uint) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Specialty{},
		&entities.Specialist{},
		&entities.Child{},
		&entities.GameSession{},
	)
	require.NoError(t, err)

	user := &entities.User{Username: "kid_a", PasswordHash: "h", Salt: "s", Role: entities.UserRoleChild}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entities.Child{UserID: user.ID, FullName: "Ann"}).Error)

	return db, NewRepository(db), user.ID
}

func insertAt(t *testing.T, repo *Repository, childID uint, gameType entities.GameType, createdAt time.Time) *entities.GameSession {
	t.Helper()
	session := &entities.GameSession{
		ChildUserID: childID,
		GameType:    gameType,
		Stars:       2,
		TimeTaken:   30000,
		Attempts:    10,
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Insert(session))
	return session
}

func TestForChildOrdering(t *testing.T) {
	_, repo, childID := setupTestDB(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	insertAt(t, repo, childID, entities.GameTypeMemory, base)
	insertAt(t, repo, childID, entities.GameTypeEmotions, base.Add(time.Hour))
	insertAt(t, repo, childID, entities.GameTypeMemory, base.Add(2*time.Hour))

	list, err := repo.ForChild(childID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entities.GameTypeMemory, list[0].GameType)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt), "newest first")
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}

func TestForChildAndType(t *testing.T) {
	_, repo, childID := setupTestDB(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	insertAt(t, repo, childID, entities.GameTypeMemory, base)
	insertAt(t, repo, childID, entities.GameTypeEmotions, base.Add(time.Hour))
	insertAt(t, repo, childID, entities.GameTypeMemory, base.Add(2*time.Hour))

	list, err := repo.ForChildAndType(childID, entities.GameTypeMemory)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.ForChildAndType(childID, entities.GameTypePronunciation)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestByDateRangeInclusiveBounds(t *testing.T) {
	_, repo, childID := setupTestDB(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := insertAt(t, repo, childID, entities.GameTypeMemory, base)
	second := insertAt(t, repo, childID, entities.GameTypeMemory, base.Add(time.Hour))
	insertAt(t, repo, childID, entities.GameTypeMemory, base.Add(2*time.Hour))

	list, err := repo.ByDateRange(childID, first.CreatedAt.UnixMilli(), second.CreatedAt.UnixMilli())
	require.NoError(t, err)
	require.Len(t, list, 2, "both boundary sessions are included")

	list, err = repo.ByDateRange(childID, base.Add(3*time.Hour).UnixMilli(), base.Add(4*time.Hour).UnixMilli())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInsertUnknownChildFails(t *testing.T) {
	_, repo, _ := setupTestDB(t)

	err := repo.Insert(&entities.GameSession{
		ChildUserID: 9999,
		GameType:    entities.GameTypeMemory,
		Stars:       1,
		TimeTaken:   1000,
		Attempts:    1,
	})
	assert.Error(t, err, "foreign key violation must surface")
}

func TestCountForChild(t *testing.T) {
	_, repo, childID := setupTestDB(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	insertAt(t, repo, childID, entities.GameTypeMemory, base)
	insertAt(t, repo, childID, entities.GameTypeEmotions, base.Add(time.Minute))

	count, err := repo.CountForChild(childID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = repo.CountForChild(4242)
	require.NoError(t, err)
	assert.Zero(t, count)
}
