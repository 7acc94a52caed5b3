package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/collector"
	"github.com/hipaaguard/hipaaguard/internal/store"
)

// HandleHealthz returns a simple health check response.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type createScanRequest struct {
	ProjectID string        `json:"project_id"`
	Assets    []asset.Asset `json:"assets"`
}

// HandleCreateScan runs a scan synchronously and returns the full report.
// When the request carries an inline asset list, that list is the inventory;
// otherwise the configured collector supplies it.
func (h *Handlers) HandleCreateScan(c *echo.Context) error {
	var req createScanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.ProjectID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "project_id is required"})
	}

	scanner := *h.Scanner
	if req.Assets != nil {
		scanner.Collector = collector.Snapshot(req.Assets)
	}

	rep, err := scanner.Run(c.Request().Context(), req.ProjectID)
	if err != nil && rep.ScanID == "" {
		return err
	}
	// A failed-status report is still the scan's record; the client gets it
	// with the violations intact.
	return c.JSON(http.StatusCreated, scanCreatedResponse{Report: rep})
}

// HandleListScans returns recent scan summaries from the index, newest first.
func (h *Handlers) HandleListScans(c *echo.Context) error {
	if h.Index == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "scan index is not configured"})
	}

	limit := defaultListLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}

	records, err := h.Index.List(c.Request().Context(), c.QueryParam("project_id"), limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []store.ScanRecord{}
	}
	return c.JSON(http.StatusOK, map[string]any{"scans": records})
}

// HandleGetScan returns one scan. The full archived report is served when the
// archive has it; otherwise the index summary row is returned.
func (h *Handlers) HandleGetScan(c *echo.Context) error {
	if h.Index == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "scan index is not configured"})
	}

	scanID := strings.TrimSpace(c.Param("id"))
	rec, err := h.Index.Get(c.Request().Context(), scanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "scan not found"})
		}
		return err
	}

	if h.Archive != nil {
		rep, err := h.Archive.Get(c.Request().Context(), rec.ProjectID, rec.ScanID)
		if err == nil {
			return c.JSON(http.StatusOK, rep)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return c.JSON(http.StatusOK, rec)
}
