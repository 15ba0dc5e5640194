package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/reporting"
)

const defaultSnapshotLimit = 30

// ReportHandler exposes snapshots and the spreadsheet export.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the reporting handler.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// ListSnapshots returns stored snapshots, newest first.
func (h *ReportHandler) ListSnapshots(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSnapshotLimit)))
	if err != nil || limit < 0 {
		respondError(c, h.logger, models.NewError(models.KindBadRequest, http.StatusBadRequest, "limit must be a non-negative integer", err))
		return
	}

	snapshots, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, snapshots, "")
}

// TakeSnapshot generates and stores a snapshot now.
func (h *ReportHandler) TakeSnapshot(c *gin.Context) {
	snapshot, err := h.svc.TakeSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, snapshot, "Snapshot stored")
}

// ExportSheets writes the article table to the configured spreadsheet.
func (h *ReportHandler) ExportSheets(c *gin.Context) {
	count, err := h.svc.ExportArticlesToSheet(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"exported": count}, "Articles exported")
}
