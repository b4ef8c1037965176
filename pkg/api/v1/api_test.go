package apiv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Titan-M/mailsift/pkg/repository"
	syncsvc "github.com/Titan-M/mailsift/pkg/sync"
	"github.com/Titan-M/mailsift/pkg/types"
)

func seedEmail(t *testing.T, backend repository.BackendRepository, userId, gmailId string, category types.Category, priority types.Priority) *types.Email {
	t.Helper()
	email := &types.Email{
		UserId:   userId,
		GmailId:  gmailId,
		Subject:  "Subject " + gmailId,
		Sender:   "sender@example.com",
		Body:     "Body",
		Category: category,
		Priority: priority,
		Summary:  "Summary",
	}
	if err := backend.InsertEmail(context.Background(), email); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
	return email
}

func newEmailsServer(backend repository.BackendRepository) *echo.Echo {
	e := echo.New()
	NewEmailsGroup(e.Group("/api/v1/users/:user_id/emails"), backend)
	return e
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestListEmailsFiltersByCategory(t *testing.T) {
	backend := repository.NewMemoryBackend()
	seedEmail(t, backend, "user-1", "m1", types.CategoryWork, types.PriorityHigh)
	seedEmail(t, backend, "user-1", "m2", types.CategoryFinance, types.PriorityMedium)
	seedEmail(t, backend, "user-2", "m3", types.CategoryWork, types.PriorityLow)

	e := newEmailsServer(backend)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/emails?category=Work", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    ListEmailsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.Total != 1 {
		t.Fatalf("expected 1 email, got %d", resp.Data.Total)
	}
	if resp.Data.Emails[0].Category != "Work" || resp.Data.Emails[0].UserID != "user-1" {
		t.Fatalf("unexpected email: %+v", resp.Data.Emails[0])
	}
}

func TestListEmailsRejectsUnknownCategory(t *testing.T) {
	e := newEmailsServer(repository.NewMemoryBackend())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/emails?category=Junk", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Fatal("expected failure envelope")
	}
}

func TestDeleteEmail(t *testing.T) {
	backend := repository.NewMemoryBackend()
	email := seedEmail(t, backend, "user-1", "m1", types.CategoryOther, types.PriorityLow)

	e := newEmailsServer(backend)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-1/emails/"+email.ExternalId, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

type staticSource struct {
	messages []types.RawMessage
}

func (s *staticSource) FetchRecent(ctx context.Context, creds *types.GmailCredentials, maxResults int) ([]types.RawMessage, error) {
	return s.messages, nil
}

func (s *staticSource) MarkConsumed(ctx context.Context, creds *types.GmailCredentials, externalID string) error {
	return nil
}

type staticClassifier struct{}

func (staticClassifier) Classify(ctx context.Context, subject, body, sender string) types.ClassificationResult {
	return types.ClassificationResult{
		Category: types.CategoryOther,
		Priority: types.PriorityMedium,
		Summary:  "Summary",
	}
}

func newSyncServer(t *testing.T, backend repository.BackendRepository, source *staticSource) *echo.Echo {
	t.Helper()

	rdb, err := repository.NewRedisClientForTest()
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}

	service := syncsvc.New(source, staticClassifier{}, backend, func(ctx context.Context) error { return nil })

	e := echo.New()
	NewSyncGroup(e.Group("/api/v1/users/:user_id/sync"), backend, service, nil, rdb, types.SyncConfig{
		DefaultLimit: 20,
		MaxLimit:     100,
		LockTTL:      time.Minute,
	})
	return e
}

func TestRunSyncReportsCounts(t *testing.T) {
	backend := repository.NewMemoryBackend()
	source := &staticSource{messages: []types.RawMessage{
		{Id: "m1", InternalDate: "1700000000000"},
		{Id: "m2", InternalDate: "1700000001000"},
	}}
	e := newSyncServer(t, backend, source)

	body := strings.NewReader(`{"access_token": "token"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/user-1/sync", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    types.SyncReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.Processed != 2 || resp.Data.Skipped != 0 || resp.Data.Total != 2 {
		t.Fatalf("unexpected report: %+v", resp.Data)
	}

	// Supplied tokens are persisted for later runs
	creds, err := backend.GetCredentials(context.Background(), "user-1")
	if err != nil || creds == nil {
		t.Fatalf("expected stored credentials, got %v, %v", creds, err)
	}
	if creds.AccessToken != "token" {
		t.Fatalf("unexpected access token: %q", creds.AccessToken)
	}
}

func TestRunSyncWithoutCredentials(t *testing.T) {
	e := newSyncServer(t, repository.NewMemoryBackend(), &staticSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/user-1/sync", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSyncStatus(t *testing.T) {
	backend := repository.NewMemoryBackend()
	syncedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := backend.UpsertLastSync(context.Background(), "user-1", syncedAt); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	e := newSyncServer(t, backend, &staticSource{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/sync/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    SyncStatusResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.LastEmailSync != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected last sync: %q", resp.Data.LastEmailSync)
	}
}

func TestAuthMiddleware(t *testing.T) {
	e := echo.New()
	group := e.Group("/api/v1/users/:user_id/emails", NewAuthMiddleware("secret"))
	NewEmailsGroup(group, repository.NewMemoryBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/emails", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/emails", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}
