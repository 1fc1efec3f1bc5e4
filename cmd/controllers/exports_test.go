package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"regscrape/internal/models"
)

type stubExportProvider struct {
	exports []models.ExportFile
	err     error
	limit   int
}

func (s *stubExportProvider) GetExports(ctx context.Context, limit int) ([]models.ExportFile, error) {
	s.limit = limit
	return s.exports, s.err
}

func TestGetExports(t *testing.T) {
	service := &stubExportProvider{
		exports: []models.ExportFile{{
			Filename:   "regulations_comments_2025-05-18_09-30_1.csv",
			Format:     "csv",
			Rows:       12,
			Checksum:   "abc",
			ExportedAt: time.Now(),
		}},
	}

	router := newTestRouter(t)
	controller, err := NewExportsController(service)
	if err != nil {
		t.Fatalf("NewExportsController: %v", err)
	}
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	recorder := performRequest(router, http.MethodGet, "/exports")
	wantStatus(t, recorder, http.StatusOK)

	if service.limit != defaultExportsLimit {
		t.Fatalf("limit = %d, want %d", service.limit, defaultExportsLimit)
	}

	var response ExportsResponse
	decodeJSON(t, recorder, &response)
	if len(response.Exports) != 1 {
		t.Fatalf("exports len = %d, want 1", len(response.Exports))
	}
	if response.Exports[0].Format != "csv" {
		t.Fatalf("format = %q, want csv", response.Exports[0].Format)
	}
}

func TestGetExportsCustomLimit(t *testing.T) {
	service := &stubExportProvider{}

	router := newTestRouter(t)
	controller, err := NewExportsController(service)
	if err != nil {
		t.Fatalf("NewExportsController: %v", err)
	}
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	recorder := performRequest(router, http.MethodGet, "/exports?n=3")
	wantStatus(t, recorder, http.StatusOK)
	if service.limit != 3 {
		t.Fatalf("limit = %d, want 3", service.limit)
	}
}

func TestGetExportsInvalidLimit(t *testing.T) {
	service := &stubExportProvider{}

	router := newTestRouter(t)
	controller, err := NewExportsController(service)
	if err != nil {
		t.Fatalf("NewExportsController: %v", err)
	}
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	for _, value := range []string{"abc", "0", "-1"} {
		recorder := performRequest(router, http.MethodGet, "/exports?n="+value)
		wantStatus(t, recorder, http.StatusBadRequest)
	}
}

func TestGetExportsServiceFailure(t *testing.T) {
	service := &stubExportProvider{err: errors.New("db gone")}

	router := newTestRouter(t)
	controller, err := NewExportsController(service)
	if err != nil {
		t.Fatalf("NewExportsController: %v", err)
	}
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	recorder := performRequest(router, http.MethodGet, "/exports")
	wantStatus(t, recorder, http.StatusInternalServerError)
}
