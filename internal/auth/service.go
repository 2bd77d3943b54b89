package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
)

// usernamePattern: 3-64 chars, alphanumeric + underscore/hyphen
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUserExists        = errors.New("user already exists")
	ErrSpecialtyNotFound = errors.New("specialty not found")
	ErrSpecialistNotFound = errors.New("specialist not found")
	ErrChildNotFound     = errors.New("child not found")
	ErrUsernameRequired  = errors.New("username is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrUsernameInvalid   = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
)

// Service handles authentication and account registration. It creates the
// identity row and the role profile together; referential integrity between
// them is left to the store's cascade rules afterwards.
type Service struct {
	db *gorm.DB
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Login validates credentials and returns the user. The failure reason
// distinguishes an unknown username from a wrong password.
func (s *Service) Login(username, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	return &user, nil
}

// RegisterSpecialistInput carries the fields for a new specialist account.
type RegisterSpecialistInput struct {
	Username    string
	Password    string
	FullName    string
	Email       string
	Phone       string
	SpecialtyID uint
}

// RegisterSpecialist creates a SPECIALIST user and its linked profile.
// Returns the new user id.
func (s *Service) RegisterSpecialist(input RegisterSpecialistInput) (uint, error) {
	if err := s.validateCredentials(input.Username, input.Password); err != nil {
		return 0, err
	}
	if err := s.checkUsernameFree(input.Username); err != nil {
		return 0, err
	}

	var specialty entities.Specialty
	if err := s.db.First(&specialty, input.SpecialtyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSpecialtyNotFound
		}
		return 0, fmt.Errorf("failed to check specialty: %w", err)
	}

	user, err := s.newUser(input.Username, input.Password, entities.UserRoleSpecialist)
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		specialist := &entities.Specialist{
			UserID:      user.ID,
			FullName:    input.FullName,
			Email:       input.Email,
			Phone:       input.Phone,
			SpecialtyID: input.SpecialtyID,
		}
		if err := tx.Create(specialist).Error; err != nil {
			return fmt.Errorf("failed to create specialist profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// RegisterChildInput carries the fields for a new child account. The
// specialist assignment is optional.
type RegisterChildInput struct {
	Username      string
	Password      string
	FullName      string
	BirthDate     *time.Time
	Diagnosis     string
	GuardianName  string
	GuardianPhone string
	SpecialistID  *uint
}

// RegisterChild creates a CHILD user and its linked profile. Returns the new
// user id.
func (s *Service) RegisterChild(input RegisterChildInput) (uint, error) {
	if err := s.validateCredentials(input.Username, input.Password); err != nil {
		return 0, err
	}
	if err := s.checkUsernameFree(input.Username); err != nil {
		return 0, err
	}

	if input.SpecialistID != nil {
		var specialist entities.Specialist
		err := s.db.First(&specialist, "user_id = ?", *input.SpecialistID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrSpecialistNotFound
			}
			return 0, fmt.Errorf("failed to check specialist: %w", err)
		}
	}

	user, err := s.newUser(input.Username, input.Password, entities.UserRoleChild)
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		child := &entities.Child{
			UserID:        user.ID,
			FullName:      input.FullName,
			BirthDate:     input.BirthDate,
			Diagnosis:     input.Diagnosis,
			GuardianName:  input.GuardianName,
			GuardianPhone: input.GuardianPhone,
			SpecialistID:  input.SpecialistID,
		}
		if err := tx.Create(child).Error; err != nil {
			return fmt.Errorf("failed to create child profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// DeleteUser removes a user row. The store cascades the deletion to the role
// profile and, for children, to their game sessions.
func (s *Service) DeleteUser(userID uint) error {
	result := s.db.Delete(&entities.User{}, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword re-salts and re-hashes a user's password after verifying
// the old one.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, user.Salt, user.PasswordHash) {
		return ErrIncorrectPassword
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}

	salt, hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.Model(user).Updates(map[string]any{
		"salt":          salt,
		"password_hash": hash,
	}).Error
}

func (s *Service) validateCredentials(username, password string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

func (s *Service) checkUsernameFree(username string) error {
	var existing entities.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	return nil
}

func (s *Service) newUser(username, password string, role entities.UserRole) (*entities.User, error) {
	salt, hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &entities.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
	}, nil
}
