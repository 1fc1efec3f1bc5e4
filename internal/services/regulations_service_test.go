package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"regscrape/internal/models"
)

func newTestRegulationsService(t *testing.T, server *httptest.Server, logWriter LogWriter) *RegulationsService {
	t.Helper()

	service, err := NewRegulationsService("test-key", server.URL, 250, logWriter, server.Client())
	if err != nil {
		t.Fatalf("NewRegulationsService: %v", err)
	}
	if err := service.SetJitter(0, 0); err != nil {
		t.Fatalf("SetJitter: %v", err)
	}

	return service
}

func TestListCommentIDsPaginates(t *testing.T) {
	var pages []string
	var apiKeys []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page[number]"))
		apiKeys = append(apiKeys, r.Header.Get("X-Api-Key"))

		if r.URL.Query().Get("filter[commentOnId]") != "09000064b8d17e62" {
			t.Errorf("filter[commentOnId] = %q", r.URL.Query().Get("filter[commentOnId]"))
		}

		w.WriteHeader(http.StatusOK)
		if r.URL.Query().Get("page[number]") == "1" {
			fmt.Fprint(w, `{"data":[{"id":"FDA-1"},{"id":"FDA-2"}],"meta":{"hasNextPage":true}}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"FDA-2"},{"id":"FDA-3"}],"meta":{"hasNextPage":false}}`)
	}))
	defer server.Close()

	service := newTestRegulationsService(t, server, &stubLogWriter{})

	docket := models.Docket{CommentOnID: "09000064b8d17e62"}
	window := DateWindow{From: "2025-04-19", To: "2025-05-18"}
	ids, err := service.ListCommentIDs(context.Background(), docket, window, nil)
	if err != nil {
		t.Fatalf("ListCommentIDs: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("ids len = %d, want 3", len(ids))
	}
	if ids[0] != "FDA-1" || ids[1] != "FDA-2" || ids[2] != "FDA-3" {
		t.Fatalf("ids = %v, want [FDA-1 FDA-2 FDA-3]", ids)
	}
	if len(pages) != 2 || pages[0] != "1" || pages[1] != "2" {
		t.Fatalf("pages = %v, want [1 2]", pages)
	}
	for _, key := range apiKeys {
		if key != "test-key" {
			t.Fatalf("X-Api-Key = %q, want %q", key, "test-key")
		}
	}
}

func TestListCommentIDsEmptyDocket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	service := newTestRegulationsService(t, server, &stubLogWriter{})

	if _, err := service.ListCommentIDs(context.Background(), models.Docket{}, DateWindow{}, nil); err == nil {
		t.Fatalf("ListCommentIDs empty docket: expected error")
	}
}

func TestDoRequestRateLimitDoesNotConsumeTry(t *testing.T) {
	var hits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data":[{"id":"FDA-1"}],"meta":{"hasNextPage":false}}`)
	}))
	defer server.Close()

	logWriter := &stubLogWriter{}
	service := newTestRegulationsService(t, server, logWriter)

	var waits []time.Duration
	service.sleep = func(d time.Duration) {
		waits = append(waits, d)
	}

	ids, err := service.ListCommentIDs(context.Background(), models.Docket{CommentOnID: "obj"}, DateWindow{}, nil)
	if err != nil {
		t.Fatalf("ListCommentIDs: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("ids len = %d, want 1", len(ids))
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}

	foundWait := false
	for _, wait := range waits {
		if wait == rateLimitWait {
			foundWait = true
		}
	}
	if !foundWait {
		t.Fatalf("waits = %v, want a %s rate-limit wait", waits, rateLimitWait)
	}
}

func TestDoRequestExhaustsTries(t *testing.T) {
	var hits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := newTestRegulationsService(t, server, &stubLogWriter{})

	if _, err := service.ListCommentIDs(context.Background(), models.Docket{CommentOnID: "obj"}, DateWindow{}, nil); err == nil {
		t.Fatalf("ListCommentIDs on persistent 500: expected error")
	}
	if hits != requestTries {
		t.Fatalf("hits = %d, want %d", hits, requestTries)
	}
}

func TestFetchCommentMapsAttributes(t *testing.T) {
	body := `{"data":{"id":"FDA-2025-N-1146-0042","attributes":{
		"trackingNbr":"abc-123",
		"country":"United States",
		"stateProvinceRegion":"CA",
		"zip":"94016",
		"category":"Individual Consumer",
		"subtype":"Public Comment",
		"receiveDate":"2025-05-01T04:00:00Z",
		"title":"Comment from A. Person",
		"objectId":"0900006400001",
		"agencyId":"FDA",
		"docketId":"FDA-2025-N-1146",
		"openForComment":true,
		"commentOnDocumentId":"FDA-2025-N-1146-0001",
		"withdrawn":false,
		"restrictReason":"",
		"restrictReasonType":"",
		"comment":"first<br/>second"
	}}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comments/FDA-2025-N-1146-0042" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("include") != "attachments" {
			t.Errorf("include = %q", r.URL.Query().Get("include"))
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	service := newTestRegulationsService(t, server, &stubLogWriter{})

	detail, err := service.FetchComment(context.Background(), "FDA-2025-N-1146-0042", nil)
	if err != nil {
		t.Fatalf("FetchComment: %v", err)
	}

	comment := detail.Comment
	if comment.CommentID != "FDA-2025-N-1146-0042" {
		t.Fatalf("CommentID = %q", comment.CommentID)
	}
	if comment.TrackingNumber != "abc-123" {
		t.Fatalf("TrackingNumber = %q, want %q", comment.TrackingNumber, "abc-123")
	}
	if comment.ReceivedDate != "2025-05-01" {
		t.Fatalf("ReceivedDate = %q, want %q", comment.ReceivedDate, "2025-05-01")
	}
	if comment.DetailURL != server.URL+"/comments/FDA-2025-N-1146-0042" {
		t.Fatalf("DetailURL = %q", comment.DetailURL)
	}
	if comment.OpenForComment == nil || !*comment.OpenForComment {
		t.Fatalf("OpenForComment = %v, want true", comment.OpenForComment)
	}
	if comment.Withdrawn == nil || *comment.Withdrawn {
		t.Fatalf("Withdrawn = %v, want false", comment.Withdrawn)
	}
	if comment.CommentText != "first<br/>second" {
		t.Fatalf("CommentText = %q", comment.CommentText)
	}
	if comment.FetchedAt.IsZero() {
		t.Fatalf("FetchedAt is zero")
	}
	if len(detail.Raw) == 0 {
		t.Fatalf("Raw payload is empty")
	}
}

func TestFetchCommentEmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	service := newTestRegulationsService(t, server, &stubLogWriter{})

	if _, err := service.FetchComment(context.Background(), "", nil); err == nil {
		t.Fatalf("FetchComment empty id: expected error")
	}
}

func TestNewRegulationsServiceValidation(t *testing.T) {
	logWriter := &stubLogWriter{}

	if _, err := NewRegulationsService("", "https://api.example.com", 250, logWriter, nil); err == nil {
		t.Fatalf("empty api key: expected error")
	}
	if _, err := NewRegulationsService("key", "", 250, logWriter, nil); err == nil {
		t.Fatalf("empty base url: expected error")
	}
	if _, err := NewRegulationsService("key", "https://api.example.com", 3, logWriter, nil); err == nil {
		t.Fatalf("page size below minimum: expected error")
	}
	if _, err := NewRegulationsService("key", "https://api.example.com", 251, logWriter, nil); err == nil {
		t.Fatalf("page size above maximum: expected error")
	}
	if _, err := NewRegulationsService("key", "https://api.example.com", 250, nil, nil); err == nil {
		t.Fatalf("nil log service: expected error")
	}

	service, err := NewRegulationsService("key", "https://api.example.com/", 0, logWriter, nil)
	if err != nil {
		t.Fatalf("NewRegulationsService: %v", err)
	}
	if service.pageSize != 250 {
		t.Fatalf("pageSize = %d, want 250", service.pageSize)
	}
	if service.baseURL != "https://api.example.com" {
		t.Fatalf("baseURL = %q, want trailing slash trimmed", service.baseURL)
	}
}
