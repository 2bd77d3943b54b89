package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/database/profiles"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// SpecialistsController serves specialist profiles.
type SpecialistsController struct {
	store *profiles.Repository
}

func NewSpecialistsController(store *profiles.Repository) *SpecialistsController {
	return &SpecialistsController{store: store}
}

// ListSpecialists returns all specialist profiles.
// GET /api/specialists
func (sc *SpecialistsController) ListSpecialists(c *gin.Context) {
	list, err := sc.store.ListSpecialists()
	if err != nil {
		respondInternalError(c, err, "list specialists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"specialists": list, "total": len(list)})
}

// GetSpecialist returns one specialist profile.
// GET /api/specialists/:id
func (sc *SpecialistsController) GetSpecialist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	specialist, err := sc.store.GetSpecialist(id)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			respondNotFound(c, "specialist")
			return
		}
		respondInternalError(c, err, "get specialist")
		return
	}
	c.JSON(http.StatusOK, specialist)
}

type updateSpecialistRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SpecialtyID uint   `json:"specialty_id" binding:"required"`
}

// UpdateSpecialist mutates a specialist profile. Admins may edit anyone;
// a specialist may only edit their own profile.
// PUT /api/specialists/:id
func (sc *SpecialistsController) UpdateSpecialist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if auth.GetUserRole(c) != entities.UserRoleAdmin && auth.GetUserID(c) != id {
		respondForbidden(c, "cannot edit another specialist's profile")
		return
	}

	var req updateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := sc.store.UpdateSpecialist(id, profiles.SpecialistUpdate{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		SpecialtyID: req.SpecialtyID,
	})
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			respondNotFound(c, "specialist")
			return
		}
		respondInternalError(c, err, "update specialist")
		return
	}
	respondSuccess(c, "specialist updated")
}

// ListAssignedChildren returns the children assigned to a specialist.
// GET /api/specialists/:id/children
func (sc *SpecialistsController) ListAssignedChildren(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := sc.store.ListChildrenForSpecialist(id)
	if err != nil {
		respondInternalError(c, err, "list assigned children")
		return
	}
	c.JSON(http.StatusOK, gin.H{"children": list, "total": len(list)})
}
