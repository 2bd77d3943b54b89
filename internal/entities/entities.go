package entities

import "time"

// UserRole is the closed set of account roles.
type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleSpecialist UserRole = "SPECIALIST"
	UserRoleChild      UserRole = "CHILD"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSpecialist, UserRoleChild:
		return true
	}
	return false
}

// GameType identifies one of the built-in mini-games.
type GameType string

const (
	GameTypeMemory        GameType = "memory"
	GameTypeCoordination  GameType = "coordination"
	GameTypeEmotions      GameType = "emotions"
	GameTypePronunciation GameType = "pronunciation"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:64" json:"-"`
	Salt         string    `gorm:"size:32" json:"-"`
	Role         UserRole  `gorm:"size:20" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Specialist is the professional profile owned by a User with role SPECIALIST.
// It shares the primary key with the owning user row and is removed together
// with it. The referenced specialty cannot be deleted while in use.
type Specialist struct {
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	FullName    string    `gorm:"size:200" json:"full_name"`
	Email       string    `gorm:"size:255" json:"email,omitempty"`
	Phone       string    `gorm:"size:30" json:"phone,omitempty"`
	SpecialtyID uint      `gorm:"index" json:"specialty_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Specialty   Specialty `gorm:"foreignKey:SpecialtyID;constraint:OnDelete:RESTRICT" json:"specialty,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Child is the profile owned by a User with role CHILD. The specialist
// assignment is optional and is cleared, not cascaded, when the assigned
// specialist is deleted.
type Child struct {
	UserID       uint        `gorm:"primaryKey" json:"user_id"`
	FullName     string      `gorm:"size:200" json:"full_name"`
	BirthDate    *time.Time  `json:"birth_date,omitempty"`
	Diagnosis    string      `gorm:"size:255" json:"diagnosis,omitempty"`
	GuardianName string      `gorm:"size:200" json:"guardian_name,omitempty"`
	GuardianPhone string     `gorm:"size:30" json:"guardian_phone,omitempty"`
	SpecialistID *uint       `gorm:"index" json:"specialist_id,omitempty"`
	User         User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Specialist   *Specialist `gorm:"foreignKey:SpecialistID;references:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Specialty struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Game is a catalog entry for a playable mini-game.
type Game struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        GameType  `gorm:"uniqueIndex;size:50" json:"code"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	Route       string    `gorm:"size:200" json:"route"`
	CreatedAt   time.Time `json:"created_at"`
}

// SpecialtyGame links a specialty to the games recommended for it.
// Deleting either side removes the link.
type SpecialtyGame struct {
	SpecialtyID uint      `gorm:"primaryKey" json:"specialty_id"`
	GameID      uint      `gorm:"primaryKey" json:"game_id"`
	Specialty   Specialty `gorm:"foreignKey:SpecialtyID;constraint:OnDelete:CASCADE" json:"-"`
	Game        Game      `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// GameSession is the immutable record of one completed play of a mini-game.
// Rows are only ever inserted, and removed via cascade when the owning child
// is deleted.
type GameSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChildUserID uint      `gorm:"index" json:"child_user_id"`
	GameType    GameType  `gorm:"index;size:50" json:"game_type"`
	Stars       int       `json:"stars"`
	TimeTaken   int64     `json:"time_taken"` // milliseconds
	Attempts    int       `json:"attempts"`
	Child       Child     `gorm:"foreignKey:ChildUserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// ReportStatus tracks the lifecycle of an asynchronously generated report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// ProgressReport is a stored snapshot of a child's per-game progress,
// generated by a background task on a specialist's request.
type ProgressReport struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ChildUserID uint         `gorm:"index" json:"child_user_id"`
	RequestedBy uint         `json:"requested_by"`
	Status      ReportStatus `gorm:"size:20;default:'pending'" json:"status"`
	Payload     string       `gorm:"type:text" json:"payload,omitempty"` // JSON summary per game type
	Error       string       `gorm:"size:500" json:"error,omitempty"`
	Child       Child        `gorm:"foreignKey:ChildUserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (Specialist) TableName() string {
	return "specialists"
}

func (Child) TableName() string {
	return "children"
}

func (Specialty) TableName() string {
	return "specialties"
}

func (Game) TableName() string {
	return "games"
}

func (SpecialtyGame) TableName() string {
	return "specialty_games"
}

func (GameSession) TableName() string {
	return "game_sessions"
}

func (ProgressReport) TableName() string {
	return "progress_reports"
}
