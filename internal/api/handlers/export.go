package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// ExportHandler handles export job endpoints
type ExportHandler struct {
	exports   *service.ExportService
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *service.ExportService, dashboard *service.DashboardService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exports:   exports,
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateExportRequest is the payload for submitting an export job
type CreateExportRequest struct {
	Title       string   `json:"title"`
	Format      string   `json:"format" binding:"required,exportformat"`
	WidgetIDs   []string `json:"widgetIds"`
	IncludeData bool     `json:"includeData"`
}

// Create submits an export job; every submission is an independent job
func (h *ExportHandler) Create(c *gin.Context) {
	var req CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	job, err := h.exports.Submit(domain.ExportConfig{
		Title:       req.Title,
		Format:      domain.ExportFormat(req.Format),
		WidgetIDs:   req.WidgetIDs,
		IncludeData: req.IncludeData,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// Get returns an export job; expired jobs read as not found
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.exports.Get(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Download serves the artifact for a completed job. CSV and Excel render
// as CSV; PDF and PNG ship the export document itself, since the server
// does not rasterize.
func (h *ExportHandler) Download(c *gin.Context) {
	job, err := h.exports.Download(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	widgets := h.exportedWidgets(job.Config)
	name := job.Config.Title
	if name == "" {
		name = "dashboard-export-" + job.ID
	}

	switch job.Config.Format {
	case domain.FormatCSV, domain.FormatExcel:
		body, err := renderWidgetCSV(widgets)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		c.Data(http.StatusOK, "text/csv", body)
	default:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".json"))
		c.JSON(http.StatusOK, gin.H{
			"title":       job.Config.Title,
			"format":      job.Config.Format,
			"generatedAt": time.Now().UTC(),
			"settings":    h.dashboard.Settings(),
			"widgets":     widgets,
		})
	}
}

// exportedWidgets resolves the job's widget selection against the live
// set, honoring includeData.
func (h *ExportHandler) exportedWidgets(cfg domain.ExportConfig) []domain.Widget {
	all := h.dashboard.ListWidgets()

	keep := make(map[string]bool, len(cfg.WidgetIDs))
	for _, id := range cfg.WidgetIDs {
		keep[id] = true
	}

	out := make([]domain.Widget, 0, len(all))
	for _, w := range all {
		if len(keep) > 0 && !keep[w.ID] {
			continue
		}
		if !cfg.IncludeData {
			w.Data = nil
		}
		out = append(out, w)
	}
	return out
}

func renderWidgetCSV(widgets []domain.Widget) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "title", "kind", "position", "lastUpdated"}); err != nil {
		return nil, err
	}
	for _, widget := range widgets {
		updated := ""
		if !widget.LastUpdated.IsZero() {
			updated = widget.LastUpdated.UTC().Format(time.RFC3339)
		}
		row := []string{widget.ID, widget.Title, string(widget.Kind), strconv.Itoa(widget.Position), updated}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
