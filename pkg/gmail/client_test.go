package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

func newTestClient(serverURL string) *Client {
	return NewClient(types.GmailConfig{
		APIBase:     serverURL,
		RecencyDays: 30,
	})
}

func testCreds() *types.GmailCredentials {
	return &types.GmailCredentials{UserId: "user-1", AccessToken: "test-token"}
}

func TestFetchRecent(t *testing.T) {
	var listQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header: %q", got)
		}

		switch {
		case r.URL.Path == "/users/me/messages":
			listQuery = r.URL.Query().Get("q")
			if got := r.URL.Query().Get("maxResults"); got != "5" {
				t.Errorf("unexpected maxResults: %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"messages": []map[string]string{
					{"id": "m1", "threadId": "t1"},
					{"id": "m2", "threadId": "t2"},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/users/me/messages/"):
			id := strings.TrimPrefix(r.URL.Path, "/users/me/messages/")
			json.NewEncoder(w).Encode(map[string]any{
				"id":           id,
				"snippet":      "snippet " + id,
				"internalDate": "1700000000000",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	messages, err := newTestClient(server.URL).FetchRecent(context.Background(), testCreds(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Id != "m1" || messages[1].Id != "m2" {
		t.Fatalf("unexpected message ids: %q, %q", messages[0].Id, messages[1].Id)
	}

	if !strings.Contains(listQuery, "newer_than:30d") {
		t.Errorf("query missing recency window: %q", listQuery)
	}
	if !strings.Contains(listQuery, "-in:spam") || !strings.Contains(listQuery, "-in:trash") {
		t.Errorf("query missing exclusions: %q", listQuery)
	}
}

func TestFetchRecentAbortsOnMessageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/me/messages" {
			json.NewEncoder(w).Encode(map[string]any{
				"messages": []map[string]string{
					{"id": "m1"},
					{"id": "m2"},
				},
			})
			return
		}
		if strings.HasSuffix(r.URL.Path, "/m2") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "m1"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRecent(context.Background(), testCreds(), 10)
	if err == nil {
		t.Fatal("expected fetch to fail when a message get fails")
	}
	if !strings.Contains(err.Error(), "m2") {
		t.Fatalf("expected error to name the failing message, got %v", err)
	}
}

func TestFetchRecentEmptyMailbox(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	messages, err := newTestClient(server.URL).FetchRecent(context.Background(), testCreds(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty batch, got %d", len(messages))
	}
}

func TestMarkConsumed(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/m1/modify") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).MarkConsumed(context.Background(), testCreds(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels, ok := gotBody["removeLabelIds"].([]any)
	if !ok || len(labels) != 1 || labels[0] != "UNREAD" {
		t.Fatalf("unexpected modify body: %v", gotBody)
	}
}

func TestNeedsRefresh(t *testing.T) {
	tests := []struct {
		name  string
		creds *types.GmailCredentials
		want  bool
	}{
		{"nil credentials", nil, false},
		{"no refresh token", &types.GmailCredentials{AccessToken: "a", ExpiresAt: time.Now()}, false},
		{"no expiry", &types.GmailCredentials{AccessToken: "a", RefreshToken: "r"}, false},
		{"expiring soon", &types.GmailCredentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Minute)}, true},
		{"already expired", &types.GmailCredentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(-time.Hour)}, true},
		{"plenty of time", &types.GmailCredentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRefresh(tt.creds); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
