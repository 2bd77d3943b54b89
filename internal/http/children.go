package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/database/profiles"
)

// ChildrenController serves child profiles and specialist assignment.
type ChildrenController struct {
	store *profiles.Repository
}

func NewChildrenController(store *profiles.Repository) *ChildrenController {
	return &ChildrenController{store: store}
}

// ListChildren returns all child profiles.
// GET /api/children
func (cc *ChildrenController) ListChildren(c *gin.Context) {
	list, err := cc.store.ListChildren()
	if err != nil {
		respondInternalError(c, err, "list children")
		return
	}
	c.JSON(http.StatusOK, gin.H{"children": list, "total": len(list)})
}

// GetChild returns one child profile. A child account may only fetch itself.
// GET /api/children/:id
func (cc *ChildrenController) GetChild(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !canAccessChild(c, id) {
		respondForbidden(c, "cannot access another child's profile")
		return
	}

	child, err := cc.store.GetChild(id)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			respondNotFound(c, "child")
			return
		}
		respondInternalError(c, err, "get child")
		return
	}
	c.JSON(http.StatusOK, child)
}

type updateChildRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Diagnosis     string `json:"diagnosis"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	SpecialistID  *uint  `json:"specialist_id"`
}

// UpdateChild mutates a child profile.
// PUT /api/children/:id
func (cc *ChildrenController) UpdateChild(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := cc.store.UpdateChild(id, profiles.ChildUpdate{
		FullName:      req.FullName,
		Diagnosis:     req.Diagnosis,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		SpecialistID:  req.SpecialistID,
	})
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			respondNotFound(c, "child")
			return
		}
		respondInternalError(c, err, "update child")
		return
	}
	respondSuccess(c, "child updated")
}

// AssignSpecialist sets or clears a child's specialist assignment.
// PUT /api/children/:id/specialist
func (cc *ChildrenController) AssignSpecialist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		SpecialistID *uint `json:"specialist_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := cc.store.AssignSpecialist(id, req.SpecialistID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			respondNotFound(c, "child")
			return
		}
		respondInternalError(c, err, "assign specialist")
		return
	}
	respondSuccess(c, "specialist assignment updated")
}
