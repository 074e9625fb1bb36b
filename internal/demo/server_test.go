package demo

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zhubert/chatlog/internal/archive"
	pErrors "github.com/zhubert/chatlog/internal/errors"
)

// newTestServer serves a fresh fixture store and returns a client for it
func newTestServer(t *testing.T) (*archive.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(NewRouter(newFixtureStore(t)))
	t.Cleanup(server.Close)
	return archive.NewClientWithHTTP(server.URL, server.Client(), 5*time.Second), server
}

func TestServer_Conversations(t *testing.T) {
	client, _ := newTestServer(t)

	convs, err := client.Conversations(context.Background())
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(convs) != 7 {
		t.Fatalf("expected 7 conversations, got %d", len(convs))
	}
	if convs[0].ID != sourdoughID || convs[0].GroupName() != "Today" {
		t.Errorf("unexpected first conversation: %+v", convs[0])
	}
	if convs[3].DisplayTitle() != "" {
		t.Errorf("null title should decode as empty, got %q", convs[3].DisplayTitle())
	}
}

func TestServer_Messages(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	tr, err := client.Messages(ctx, goroutineID)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if tr.ConversationID != goroutineID || len(tr.Messages) != 5 {
		t.Errorf("unexpected transcript: %s with %d messages", tr.ConversationID, len(tr.Messages))
	}

	_, err = client.Messages(ctx, "no such id")
	if !pErrors.Is(err, pErrors.KindServer) {
		t.Fatalf("error kind = %v, want KindServer", pErrors.GetKind(err))
	}
	if pErrors.Detail(err) != "Invalid conversation ID" {
		t.Errorf("detail = %q", pErrors.Detail(err))
	}
}

func TestServer_ToggleFavorite(t *testing.T) {
	client, server := newTestServer(t)
	ctx := context.Background()

	state, err := client.ToggleFavorite(ctx, goroutineID)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if state.ConversationID != goroutineID || state.IsFavorite {
		t.Errorf("state = %+v, want unfavorited", state)
	}

	resp, err := server.Client().Post(server.URL+"/api/toggle_favorite", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing conv_id status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_Reports(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	stats, err := client.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	var keys []string
	for _, s := range stats {
		keys = append(keys, s.Key)
	}
	want := "Chat backup age,Last chat message,First chat message,Conversations," +
		"Shortest conversation,Longest conversation,Average chat length,Top longest chats"
	if strings.Join(keys, ",") != want {
		t.Errorf("statistics keys out of order: %v", keys)
	}

	activity, err := client.Activity(ctx)
	if err != nil {
		t.Fatalf("Activity failed: %v", err)
	}
	if len(activity) != 7 || activity[0].Day != "2024-03-28" || activity[6].Count != 3 {
		t.Errorf("Activity() = %v", activity)
	}
	if activity.Total() != 9 {
		t.Errorf("Total() = %d, want 9", activity.Total())
	}

	hours, err := client.ActivityLast24h(ctx, "user")
	if err != nil {
		t.Fatalf("ActivityLast24h failed: %v", err)
	}
	total := 0
	for _, h := range hours {
		total += h.Count
	}
	if len(hours) != 25 || total != 4 {
		t.Errorf("last24h: %d buckets, %d user messages", len(hours), total)
	}

	costs, err := client.AICost(ctx)
	if err != nil {
		t.Fatalf("AICost failed: %v", err)
	}
	if len(costs) != 5 {
		t.Errorf("expected 5 cost rows, got %d", len(costs))
	}
}

func TestServer_Search(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	results, err := client.Search(ctx, `"prefix search"`)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Type != "conversation" {
		t.Errorf("Search() = %+v", results)
	}

	_, err = client.Search(ctx, "ab")
	if !pErrors.Is(err, pErrors.KindServer) {
		t.Fatalf("short query error = %v, want KindServer", err)
	}
	if pErrors.Detail(err) != "query must be at least 3 characters" {
		t.Errorf("detail = %q", pErrors.Detail(err))
	}
}

func TestServer_UploadZip(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	rejected := []struct {
		name     string
		filename string
		data     []byte
		detail   string
	}{
		{"wrong extension", "notes.txt", []byte("hello"), "file must be a .zip archive"},
		{"not a zip", "export.zip", []byte("hello"), ErrBadZip.Error()},
		{"no conversations", "export.zip", buildZip(t, map[string]string{"chat.html": ""}), ErrNoConversations.Error()},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.UploadArchive(ctx, tt.filename, bytes.NewReader(tt.data))
			if !pErrors.Is(err, pErrors.KindServer) {
				t.Fatalf("error = %v, want KindServer", err)
			}
			if pErrors.Detail(err) != tt.detail {
				t.Errorf("detail = %q, want %q", pErrors.Detail(err), tt.detail)
			}
		})
	}

	res, err := client.UploadArchive(ctx, "Export.ZIP", bytes.NewReader(buildZip(t, map[string]string{exportFile: sampleExport})))
	if err != nil {
		t.Fatalf("UploadArchive failed: %v", err)
	}
	if res.Status != "ok" || res.Count != 2 || res.Detail != "loaded 2 conversations." {
		t.Errorf("UploadResult = %+v", res)
	}

	convs, err := client.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("upload should replace the archive, got %d conversations", len(convs))
	}
	// conv-1 is newer than conv-2
	if convs[0].ID != "conv-1" {
		t.Errorf("first conversation = %s", convs[0].ID)
	}
}

func TestStart(t *testing.T) {
	srv, err := Start("127.0.0.1:0", newFixtureStore(t))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer srv.Shutdown(context.Background())

	if !strings.HasPrefix(srv.URL(), "http://127.0.0.1:") {
		t.Errorf("URL() = %q", srv.URL())
	}

	client := archive.NewClient(srv.URL(), 5*time.Second)
	if _, err := client.Conversations(context.Background()); err != nil {
		t.Errorf("Conversations against the started server failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}
