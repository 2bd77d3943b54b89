package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/database/users"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// UsersController handles account registration and administration.
type UsersController struct {
	service *auth.Service
	store   *users.Repository
}

func NewUsersController(service *auth.Service, store *users.Repository) *UsersController {
	return &UsersController{service: service, store: store}
}

type registerSpecialistRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SpecialtyID uint   `json:"specialty_id" binding:"required"`
}

// RegisterSpecialist creates a specialist account with its profile.
// POST /api/specialists
func (uc *UsersController) RegisterSpecialist(c *gin.Context) {
	var req registerSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, err := uc.service.RegisterSpecialist(auth.RegisterSpecialistInput{
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		SpecialtyID: req.SpecialtyID,
	})
	if err != nil {
		uc.respondRegistrationError(c, err)
		return
	}

	respondCreated(c, gin.H{"user_id": userID, "role": entities.UserRoleSpecialist})
}

type registerChildRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"full_name" binding:"required"`
	BirthDate     string `json:"birth_date"`
	Diagnosis     string `json:"diagnosis"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	SpecialistID  *uint  `json:"specialist_id"`
}

// RegisterChild creates a child account with its profile.
// POST /api/children
func (uc *UsersController) RegisterChild(c *gin.Context) {
	var req registerChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			respondBadRequest(c, "birth_date must be formatted as YYYY-MM-DD")
			return
		}
		birthDate = &parsed
	}

	userID, err := uc.service.RegisterChild(auth.RegisterChildInput{
		Username:      req.Username,
		Password:      req.Password,
		FullName:      req.FullName,
		BirthDate:     birthDate,
		Diagnosis:     req.Diagnosis,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		SpecialistID:  req.SpecialistID,
	})
	if err != nil {
		uc.respondRegistrationError(c, err)
		return
	}

	respondCreated(c, gin.H{"user_id": userID, "role": entities.UserRoleChild})
}

// ListUsers returns users filtered by role.
// GET /api/users?role=SPECIALIST
func (uc *UsersController) ListUsers(c *gin.Context) {
	role := entities.UserRole(c.Query("role"))
	if !role.Valid() {
		respondBadRequest(c, "role query parameter must be one of ADMIN, SPECIALIST, CHILD")
		return
	}

	list, err := uc.store.ListByRole(role)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "total": len(list)})
}

// DeleteUser removes an account. Profile rows and game sessions cascade.
// DELETE /api/users/:id
func (uc *UsersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id == auth.GetUserID(c) {
		respondBadRequest(c, "cannot delete your own account")
		return
	}

	if err := uc.service.DeleteUser(id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted")
}

// ChangePassword updates the authenticated user's password.
// POST /api/auth/password
func (uc *UsersController) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := uc.service.ChangePassword(auth.GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrIncorrectPassword):
			respondForbidden(c, err.Error())
		case errors.Is(err, auth.ErrPasswordRequired):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}
	respondSuccess(c, "password changed")
}

func (uc *UsersController) respondRegistrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		respondConflict(c, err.Error())
	case errors.Is(err, auth.ErrSpecialtyNotFound),
		errors.Is(err, auth.ErrSpecialistNotFound):
		respondBadRequest(c, err.Error())
	case errors.Is(err, auth.ErrUsernameRequired),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrUsernameInvalid):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "register user")
	}
}
