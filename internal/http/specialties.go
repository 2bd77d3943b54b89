package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/database/catalog"
)

// CatalogController manages specialties, the game catalog and the
// specialty-to-game recommendations.
type CatalogController struct {
	store *catalog.Repository
}

func NewCatalogController(store *catalog.Repository) *CatalogController {
	return &CatalogController{store: store}
}

// CreateSpecialty adds a new specialty.
// POST /api/specialties
func (cc *CatalogController) CreateSpecialty(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	specialty, err := cc.store.CreateSpecialty(req.Name)
	if err != nil {
		respondInternalError(c, err, "create specialty")
		return
	}
	respondCreated(c, specialty)
}

// GetSpecialty returns one specialty.
// GET /api/specialties/:id
func (cc *CatalogController) GetSpecialty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	specialty, err := cc.store.GetSpecialty(id)
	if err != nil {
		if errors.Is(err, catalog.ErrSpecialtyNotFound) {
			respondNotFound(c, "specialty")
			return
		}
		respondInternalError(c, err, "get specialty")
		return
	}
	c.JSON(http.StatusOK, specialty)
}

// ListSpecialties returns all specialties.
// GET /api/specialties
func (cc *CatalogController) ListSpecialties(c *gin.Context) {
	list, err := cc.store.ListSpecialties()
	if err != nil {
		respondInternalError(c, err, "list specialties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"specialties": list, "total": len(list)})
}

// DeleteSpecialty removes a specialty. Fails while any specialist still
// references it; game links are removed along with it.
// DELETE /api/specialties/:id
func (cc *CatalogController) DeleteSpecialty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := cc.store.DeleteSpecialty(id)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSpecialtyNotFound):
			respondNotFound(c, "specialty")
		case errors.Is(err, catalog.ErrSpecialtyInUse):
			respondConflict(c, err.Error())
		default:
			respondInternalError(c, err, "delete specialty")
		}
		return
	}
	respondSuccess(c, "specialty deleted")
}

// ListGames returns the game catalog.
// GET /api/games
func (cc *CatalogController) ListGames(c *gin.Context) {
	list, err := cc.store.ListGames()
	if err != nil {
		respondInternalError(c, err, "list games")
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": list, "total": len(list)})
}

// GamesForSpecialty returns the games recommended for a specialty.
// GET /api/specialties/:id/games
func (cc *CatalogController) GamesForSpecialty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := cc.store.GetSpecialty(id); err != nil {
		if errors.Is(err, catalog.ErrSpecialtyNotFound) {
			respondNotFound(c, "specialty")
			return
		}
		respondInternalError(c, err, "get specialty")
		return
	}

	list, err := cc.store.GamesForSpecialty(id)
	if err != nil {
		respondInternalError(c, err, "list specialty games")
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": list, "total": len(list)})
}

// LinkGame recommends a game for a specialty. Idempotent.
// POST /api/specialties/:id/games/:gameId
func (cc *CatalogController) LinkGame(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	gameID, ok := parseIDParam(c, "gameId")
	if !ok {
		return
	}

	if err := cc.store.LinkGame(id, gameID); err != nil {
		respondInternalError(c, err, "link game")
		return
	}
	respondSuccess(c, "game linked")
}

// UnlinkGame removes a recommendation.
// DELETE /api/specialties/:id/games/:gameId
func (cc *CatalogController) UnlinkGame(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	gameID, ok := parseIDParam(c, "gameId")
	if !ok {
		return
	}

	if err := cc.store.UnlinkGame(id, gameID); err != nil {
		respondInternalError(c, err, "unlink game")
		return
	}
	respondSuccess(c, "game unlinked")
}
