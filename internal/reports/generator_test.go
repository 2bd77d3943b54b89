package reports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/neuroplay/neuroplay/internal/database/sessions"
	"github.com/neuroplay/neuroplay/internal/entities"
	"github.com/neuroplay/neuroplay/internal/progress"
)

func setupGenerator(t *testing.T) (*gorm.DB, *Generator, uint) {
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
		&entities.ProgressReport{},
	)
	require.NoError(t, err)

	user := &entities.User{Username: "kid_a", PasswordHash: "h", Salt: "s", Role: entities.UserRoleChild}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entities.Child{UserID: user.ID, FullName: "Ann"}).Error)

	progressRepo := progress.NewRepository(sessions.NewRepository(db))
	return db, NewGenerator(db, progressRepo), user.ID
}

func TestRequest(t *testing.T) {
	_, gen, childID := setupGenerator(t)

	report, err := gen.Request(childID, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ReportStatusPending, report.Status)
	assert.Equal(t, childID, report.ChildUserID)
	assert.NotZero(t, report.ID)
}

func TestRequestUnknownChild(t *testing.T) {
	_, gen, _ := setupGenerator(t)

	_, err := gen.Request(9999, 1)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestGenerate(t *testing.T) {
	db, gen, childID := setupGenerator(t)

	require.NoError(t, db.Create(&entities.GameSession{
		ChildUserID: childID,
		GameType:    entities.GameTypeMemory,
		Stars:       3,
		TimeTaken:   20000,
		Attempts:    8,
	}).Error)
	require.NoError(t, db.Create(&entities.GameSession{
		ChildUserID: childID,
		GameType:    entities.GameTypeEmotions,
		Stars:       1,
		TimeTaken:   60000,
		Attempts:    4,
	}).Error)

	report, err := gen.Request(childID, 1)
	require.NoError(t, err)
	require.NoError(t, gen.Generate(report.ID))

	got, err := gen.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReportStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(got.Payload), &payload))
	assert.Equal(t, 2, payload.Overall.SessionCount)
	assert.InDelta(t, 2.0, payload.Overall.AverageStars, 1e-9)
	assert.Equal(t, 1, payload.PerGame[entities.GameTypeMemory].SessionCount)
	assert.Equal(t, 1, payload.PerGame[entities.GameTypeEmotions].SessionCount)
	assert.Zero(t, payload.PerGame[entities.GameTypeCoordination].SessionCount)
}

func TestGenerateUnknownReport(t *testing.T) {
	_, gen, _ := setupGenerator(t)
	assert.ErrorIs(t, gen.Generate(9999), ErrReportNotFound)
}

func TestListForChild(t *testing.T) {
	_, gen, childID := setupGenerator(t)

	first, err := gen.Request(childID, 1)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = gen.Request(childID, 1)
	require.NoError(t, err)

	list, err := gen.ListForChild(childID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[len(list)-1].ID, "newest first")
}

func TestDeleteOldReports(t *testing.T) {
	db, gen, childID := setupGenerator(t)

	old := &entities.ProgressReport{
		ChildUserID: childID,
		RequestedBy: 1,
		Status:      entities.ReportStatusCompleted,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(old).Error)

	fresh, err := gen.Request(childID, 1)
	require.NoError(t, err)

	deleted, err := gen.DeleteOldReports(24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = gen.Get(old.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = gen.Get(fresh.ID)
	assert.NoError(t, err)
}
