package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/neuroplay/neuroplay/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Specialty{},
		&entities.Specialist{},
		&entities.Game{},
		&entities.SpecialtyGame{},
	)
	require.NoError(t, err)

	return db, NewRepository(db)
}

func createGame(t *testing.T, db *gorm.DB, code entities.GameType, name string) *entities.Game {
	t.Helper()
	game := &entities.Game{Code: code, DisplayName: name, Route: "/games/" + string(code)}
	require.NoError(t, db.Create(game).Error)
	return game
}

func TestCreateAndListSpecialties(t *testing.T) {
	_, repo := setupTestDB(t)

	_, err := repo.CreateSpecialty("Speech therapy")
	require.NoError(t, err)
	_, err = repo.CreateSpecialty("Occupational therapy")
	require.NoError(t, err)

	list, err := repo.ListSpecialties()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Occupational therapy", list[0].Name, "sorted by name")
}

func TestDeleteSpecialty(t *testing.T) {
	_, repo := setupTestDB(t)

	specialty, err := repo.CreateSpecialty("Speech therapy")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSpecialty(specialty.ID))
	assert.ErrorIs(t, repo.DeleteSpecialty(specialty.ID), ErrSpecialtyNotFound)
}

func TestDeleteSpecialtyInUse(t *testing.T) {
	db, repo := setupTestDB(t)

	specialty, err := repo.CreateSpecialty("Speech therapy")
	require.NoError(t, err)

	user := &entities.User{Username: "dr_lee", PasswordHash: "h", Salt: "s", Role: entities.UserRoleSpecialist}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entities.Specialist{
		UserID:      user.ID,
		FullName:    "Dr. Lee",
		SpecialtyID: specialty.ID,
	}).Error)

	assert.ErrorIs(t, repo.DeleteSpecialty(specialty.ID), ErrSpecialtyInUse)

	// Still present
	_, err = repo.GetSpecialty(specialty.ID)
	assert.NoError(t, err)
}

func TestGetGameByCode(t *testing.T) {
	db, repo := setupTestDB(t)
	createGame(t, db, entities.GameTypeMemory, "Memory Match")

	game, err := repo.GetGameByCode(entities.GameTypeMemory)
	require.NoError(t, err)
	assert.Equal(t, "Memory Match", game.DisplayName)

	_, err = repo.GetGameByCode(entities.GameTypePronunciation)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLinkAndUnlinkGame(t *testing.T) {
	db, repo := setupTestDB(t)

	specialty, err := repo.CreateSpecialty("Speech therapy")
	require.NoError(t, err)
	memory := createGame(t, db, entities.GameTypeMemory, "Memory Match")
	pron := createGame(t, db, entities.GameTypePronunciation, "Say It Right")

	require.NoError(t, repo.LinkGame(specialty.ID, memory.ID))
	require.NoError(t, repo.LinkGame(specialty.ID, pron.ID))
	// Linking twice is a no-op
	require.NoError(t, repo.LinkGame(specialty.ID, memory.ID))

	games, err := repo.GamesForSpecialty(specialty.ID)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	require.NoError(t, repo.UnlinkGame(specialty.ID, memory.ID))
	games, err = repo.GamesForSpecialty(specialty.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, entities.GameTypePronunciation, games[0].Code)
}

func TestDeletingSpecialtyRemovesLinks(t *testing.T) {
	db, repo := setupTestDB(t)

	specialty, err := repo.CreateSpecialty("Speech therapy")
	require.NoError(t, err)
	game := createGame(t, db, entities.GameTypeMemory, "Memory Match")
	require.NoError(t, repo.LinkGame(specialty.ID, game.ID))

	require.NoError(t, repo.DeleteSpecialty(specialty.ID))

	var links int64
	require.NoError(t, db.Model(&entities.SpecialtyGame{}).Where("specialty_id = ?", specialty.ID).Count(&links).Error)
	assert.Zero(t, links, "links cascade with the specialty")

	// The game itself survives
	_, err = repo.GetGameByCode(entities.GameTypeMemory)
	assert.NoError(t, err)
}
