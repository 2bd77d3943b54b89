package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/database/sessions"
	"github.com/neuroplay/neuroplay/internal/entities"
	"github.com/neuroplay/neuroplay/internal/progress"
)

// asUser injects an authenticated identity, standing in for the session
// middleware chain.
func asUser(userID uint, role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Set(auth.ContextKeyRole, role)
		c.Next()
	}
}

func setupProgressTest(t *testing.T) (*progress.Repository, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Specialty{},
		&entities.Specialist{},
		&entities.Child{},
		&entities.GameSession{},
	)
	require.NoError(t, err)

	user := &entities.User{Username: "kid_a", PasswordHash: "h", Salt: "s", Role: entities.UserRoleChild}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entities.Child{UserID: user.ID, FullName: "Ann"}).Error)

	return progress.NewRepository(sessions.NewRepository(db)), user.ID
}

func progressRouter(repo *progress.Repository, userID uint, role entities.UserRole) *gin.Engine {
	controller := NewProgressController(repo)
	router := gin.New()
	router.Use(asUser(userID, role))
	router.POST("/api/progress/sessions", controller.RecordSession)
	router.GET("/api/children/:id/sessions", controller.ListSessions)
	router.GET("/api/children/:id/summary", controller.GetSummary)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRecordSessionComputesStars(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, childID, entities.UserRoleChild)

	w := postJSON(router, "/api/progress/sessions",
		`{"game_type":"memory","attempts":8,"rounds":4,"time_taken_ms":25000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session entities.GameSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, 3, session.Stars, "8 attempts on 4 pairs in 25s earns three stars")
	assert.Equal(t, childID, session.ChildUserID, "child accounts always record against themselves")
}

func TestRecordSessionChildIgnoresForeignID(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, childID, entities.UserRoleChild)

	// A child naming another child still records against itself
	w := postJSON(router, "/api/progress/sessions",
		`{"child_user_id":4242,"game_type":"emotions","score":4,"rounds":4,"time_taken_ms":15000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session entities.GameSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, childID, session.ChildUserID)
	assert.Equal(t, 3, session.Stars)
}

func TestRecordSessionUnknownGameType(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, childID, entities.UserRoleChild)

	w := postJSON(router, "/api/progress/sessions",
		`{"game_type":"tetris","time_taken_ms":1000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordSessionSpecialistMustNameChild(t *testing.T) {
	repo, _ := setupProgressTest(t)
	router := progressRouter(repo, 77, entities.UserRoleSpecialist)

	w := postJSON(router, "/api/progress/sessions",
		`{"game_type":"memory","attempts":8,"rounds":4,"time_taken_ms":25000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSessionsAndSummary(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, childID, entities.UserRoleChild)

	for _, body := range []string{
		`{"game_type":"memory","attempts":8,"rounds":4,"time_taken_ms":20000}`,
		`{"game_type":"coordination","score":20,"attempts":25,"time_taken_ms":30000}`,
	} {
		w := postJSON(router, "/api/progress/sessions", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := getPath(router, "/api/children/"+uintString(childID)+"/sessions")
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Sessions []entities.GameSession `json:"sessions"`
		Total    int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Total)

	w = getPath(router, "/api/children/"+uintString(childID)+"/sessions?type=memory")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Total)

	w = getPath(router, "/api/children/"+uintString(childID)+"/summary")
	require.Equal(t, http.StatusOK, w.Code)
	var summary progress.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.SessionCount)
	assert.InDelta(t, 3.0, summary.AverageStars, 1e-9)
	assert.InDelta(t, 25.0, summary.AverageTimeSeconds, 1e-9)
}

func TestChildCannotReadAnotherChild(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, childID, entities.UserRoleChild)

	w := getPath(router, "/api/children/"+uintString(childID+1)+"/sessions")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getPath(router, "/api/children/"+uintString(childID+1)+"/summary")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSpecialistCanReadAnyChild(t *testing.T) {
	repo, childID := setupProgressTest(t)
	router := progressRouter(repo, 77, entities.UserRoleSpecialist)

	w := getPath(router, "/api/children/"+uintString(childID)+"/sessions")
	assert.Equal(t, http.StatusOK, w.Code)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
