package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/reports"
	"github.com/neuroplay/neuroplay/internal/tasks"
)

// ReportsController serves stored progress reports. Generation happens on
// the task queue; without a task client the report is computed inline.
type ReportsController struct {
	generator  *reports.Generator
	taskClient *tasks.Client
}

func NewReportsController(generator *reports.Generator, taskClient *tasks.Client) *ReportsController {
	return &ReportsController{generator: generator, taskClient: taskClient}
}

// RequestReport creates a pending report for a child and schedules its
// generation.
// POST /api/children/:id/reports
func (rc *ReportsController) RequestReport(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := rc.generator.Request(childID, auth.GetUserID(c))
	if err != nil {
		if errors.Is(err, reports.ErrChildNotFound) {
			respondNotFound(c, "child")
			return
		}
		respondInternalError(c, err, "request report")
		return
	}

	if rc.taskClient != nil {
		_, err = rc.taskClient.Add(tasks.GenerateReportTask{ReportID: report.ID}).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue report generation")
			return
		}
	} else {
		if err := rc.generator.Generate(report.ID); err != nil {
			respondInternalError(c, err, "generate report")
			return
		}
		report, err = rc.generator.Get(report.ID)
		if err != nil {
			respondInternalError(c, err, "reload report")
			return
		}
	}

	respondAccepted(c, "report requested", report)
}

// GetReport returns one report, including the JSON payload once completed.
// GET /api/reports/:id
func (rc *ReportsController) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := rc.generator.Get(id)
	if err != nil {
		if errors.Is(err, reports.ErrReportNotFound) {
			respondNotFound(c, "report")
			return
		}
		respondInternalError(c, err, "get report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports returns a child's reports, newest first.
// GET /api/children/:id/reports
func (rc *ReportsController) ListReports(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := rc.generator.ListForChild(childID)
	if err != nil {
		respondInternalError(c, err, "list reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list, "total": len(list)})
}
