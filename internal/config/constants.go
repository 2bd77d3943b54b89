package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./neuroplay.db"

	// DefaultAdminUsername is the account seeded into an empty database
	DefaultAdminUsername = "admin"

	// DefaultAdminPassword is the initial password for the seeded admin
	// account. Change it after the first login.
	DefaultAdminPassword = "admin1234"
)
