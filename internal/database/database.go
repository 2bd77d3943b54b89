// Package database owns the SQLite store: connection setup, schema
// migration and first-run seeding. Typed query surfaces live in the
// per-domain subpackages (users, profiles, catalog, sessions).
package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// defaultGames is the built-in mini-game catalog seeded on first run.
var defaultGames = []entities.Game{
	{Code: entities.GameTypeMemory, DisplayName: "Memory Match", Route: "/games/memory"},
	{Code: entities.GameTypeCoordination, DisplayName: "Quick Taps", Route: "/games/coordination"},
	{Code: entities.GameTypeEmotions, DisplayName: "Emotion Cards", Route: "/games/emotions"},
	{Code: entities.GameTypePronunciation, DisplayName: "Say It Right", Route: "/games/pronunciation"},
}

// Database holds the process-wide store handle. It is constructed once and
// passed explicitly to repositories; there is no global instance.
type Database struct {
	DB *gorm.DB
}

// BootstrapAdmin describes the administrator account seeded into an empty
// database.
type BootstrapAdmin struct {
	Username string
	Password string
}

// NewDatabase opens (or creates) the SQLite database, migrates the schema,
// and seeds the game catalog and the bootstrap admin account.
// Foreign key enforcement is switched on at the connection level so the
// cascade/restrict/set-null rules declared on the entities actually apply.
func NewDatabase(dbPath string, admin BootstrapAdmin) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	database := &Database{DB: db}

	if err := database.seedGames(); err != nil {
		return nil, fmt.Errorf("failed to seed games: %w", err)
	}
	if err := database.seedAdmin(admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.User{},
		&entities.Specialty{},
		&entities.Specialist{},
		&entities.Child{},
		&entities.Game{},
		&entities.SpecialtyGame{},
		&entities.GameSession{},
		&entities.ProgressReport{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedGames() error {
	for _, game := range defaultGames {
		var existing entities.Game
		result := d.DB.Where("code = ?", game.Code).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&game).Error; err != nil {
				return fmt.Errorf("failed to create game %s: %w", game.Code, err)
			}
			log.Printf("Created game: %s", game.DisplayName)
		}
	}
	return nil
}

// seedAdmin creates the default administrator account if no users exist.
// The fixed initial password is stored with a freshly generated random salt.
func (d *Database) seedAdmin(admin BootstrapAdmin) error {
	var count int64
	if err := d.DB.Model(&entities.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	salt, hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &entities.User{
		Username:     admin.Username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         entities.UserRoleAdmin,
	}
	if err := d.DB.Create(user).Error; err != nil {
		return err
	}

	log.Printf("Seeded default admin account '%s' (change the initial password)", admin.Username)
	return nil
}
