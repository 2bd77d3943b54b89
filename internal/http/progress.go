package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/entities"
	"github.com/neuroplay/neuroplay/internal/progress"
)

// ProgressController records completed game sessions and serves the derived
// statistics, including server-sent event streams that push fresh results
// after every new session.
type ProgressController struct {
	progress *progress.Repository
}

func NewProgressController(progressRepo *progress.Repository) *ProgressController {
	return &ProgressController{progress: progressRepo}
}

type recordSessionRequest struct {
	ChildUserID uint              `json:"child_user_id"`
	GameType    entities.GameType `json:"game_type" binding:"required"`
	Score       int               `json:"score"`
	Attempts    int               `json:"attempts"`
	Rounds      int               `json:"rounds"`
	TimeTakenMS int64             `json:"time_taken_ms" binding:"required"`
}

// RecordSession stores a completed game session. The star rating is computed
// server-side from the reported outcome. A child account always records
// against itself; specialists and admins must name the child.
// POST /api/progress/sessions
func (pc *ProgressController) RecordSession(c *gin.Context) {
	var req recordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	childID := req.ChildUserID
	if auth.GetUserRole(c) == entities.UserRoleChild {
		childID = auth.GetUserID(c)
	}
	if childID == 0 {
		respondBadRequest(c, "child_user_id is required")
		return
	}

	stars, err := progress.Rate(req.GameType, progress.Outcome{
		Score:    req.Score,
		Attempts: req.Attempts,
		Rounds:   req.Rounds,
		Duration: time.Duration(req.TimeTakenMS) * time.Millisecond,
	})
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	session := &entities.GameSession{
		ChildUserID: childID,
		GameType:    req.GameType,
		Stars:       stars,
		TimeTaken:   req.TimeTakenMS,
		Attempts:    req.Attempts,
	}
	if err := pc.progress.SaveSession(session); err != nil {
		respondInternalError(c, err, "record session")
		return
	}

	respondCreated(c, session)
}

// ListSessions returns a child's sessions, newest first. Optional query
// filters: type (game type), from/to (epoch milliseconds).
// GET /api/children/:id/sessions
func (pc *ProgressController) ListSessions(c *gin.Context) {
	childID, ok := pc.authorizeChild(c)
	if !ok {
		return
	}

	list, handled, err := pc.querySessions(c, childID)
	if handled {
		return
	}
	if err != nil {
		respondInternalError(c, err, "list sessions")
		return
	}
	if list == nil {
		list = []entities.GameSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list, "total": len(list)})
}

// GetSummary returns the aggregate over a child's sessions, optionally
// restricted by from/to epoch millisecond bounds.
// GET /api/children/:id/summary
func (pc *ProgressController) GetSummary(c *gin.Context) {
	childID, ok := pc.authorizeChild(c)
	if !ok {
		return
	}

	var (
		summary progress.Summary
		err     error
	)
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		summary, err = pc.progress.SummaryByDateRange(childID, from, to)
	} else {
		summary, err = pc.progress.SummaryForChild(childID)
	}
	if err != nil {
		respondInternalError(c, err, "get summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// StreamSessions pushes the child's session list over SSE: once on connect
// and again after every new session. Supports the same filters as
// ListSessions.
// GET /api/children/:id/sessions/stream
func (pc *ProgressController) StreamSessions(c *gin.Context) {
	childID, ok := pc.authorizeChild(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var stream <-chan []entities.GameSession

	switch {
	case c.Query("type") != "":
		gameType := entities.GameType(c.Query("type"))
		stream = pc.progress.WatchSessionsByType(ctx, childID, gameType)
	case c.Query("from") != "" || c.Query("to") != "":
		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		stream = pc.progress.WatchSessionsByDateRange(ctx, childID, from, to)
	default:
		stream = pc.progress.WatchSessions(ctx, childID)
	}

	setSSEHeaders(c)
	c.Stream(func(w io.Writer) bool {
		list, open := <-stream
		if !open {
			return false
		}
		c.SSEvent("sessions", gin.H{"sessions": list, "total": len(list)})
		return true
	})
}

// StreamSummary pushes the child's aggregate over SSE, recomputed after
// every new session.
// GET /api/children/:id/summary/stream
func (pc *ProgressController) StreamSummary(c *gin.Context) {
	childID, ok := pc.authorizeChild(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var stream <-chan progress.Summary
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		stream = pc.progress.WatchSummaryByDateRange(ctx, childID, from, to)
	} else {
		stream = pc.progress.WatchSummary(ctx, childID)
	}

	setSSEHeaders(c)
	c.Stream(func(w io.Writer) bool {
		summary, open := <-stream
		if !open {
			return false
		}
		c.SSEvent("summary", summary)
		return true
	})
}

// authorizeChild parses the :id parameter and enforces the child-access rule.
func (pc *ProgressController) authorizeChild(c *gin.Context) (uint, bool) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}
	if !canAccessChild(c, childID) {
		respondForbidden(c, "cannot access another child's progress")
		return 0, false
	}
	return childID, true
}

// querySessions applies the optional type and date filters. handled is true
// when a 400 response was already written.
func (pc *ProgressController) querySessions(c *gin.Context, childID uint) (list []entities.GameSession, handled bool, err error) {
	if t := c.Query("type"); t != "" {
		list, err = pc.progress.SessionsForChildAndType(childID, entities.GameType(t))
		return list, false, err
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, ok := parseDateRange(c)
		if !ok {
			return nil, true, nil
		}
		list, err = pc.progress.SessionsByDateRange(childID, from, to)
		return list, false, err
	}
	list, err = pc.progress.SessionsForChild(childID)
	return list, false, err
}

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}
