// Package handlers contains HTTP handler logic for the scan API.
package handlers

import (
	"context"

	"github.com/hipaaguard/hipaaguard/internal/policy"
	"github.com/hipaaguard/hipaaguard/internal/report"
	"github.com/hipaaguard/hipaaguard/internal/scan"
	"github.com/hipaaguard/hipaaguard/internal/store"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	defaultListLimit = 50
	maxListLimit     = 500
)

// ScanIndex is the slice of *store.Index the API reads.
type ScanIndex interface {
	Get(ctx context.Context, scanID string) (store.ScanRecord, error)
	List(ctx context.Context, projectID string, limit int) ([]store.ScanRecord, error)
}

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Scanner *scan.Scanner
	Index   ScanIndex
	Archive store.Archive
	Library *policy.Library
}

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// scanCreatedResponse wraps a freshly produced report.
type scanCreatedResponse struct {
	Report report.Report `json:"report"`
}
