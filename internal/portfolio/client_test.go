package portfolio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"easel/internal/logging"
)

func writeMedia(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write media fixture: %v", err)
	}
	return path
}

func TestClientUpload(t *testing.T) {
	path := writeMedia(t, "mural.webm", 2048)

	var gotAuth, gotTitle, gotDescription, gotFilename, gotPartType string
	var gotBytes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/media" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotTitle = r.FormValue("title")
		gotDescription = r.FormValue("description")

		file, header, err := r.FormFile("media")
		if err != nil {
			t.Fatalf("media part: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		gotPartType = header.Header.Get("Content-Type")
		data, _ := io.ReadAll(file)
		gotBytes = len(data)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"m-42","location":"/media/m-42"}`))
	}))
	defer server.Close()

	client := NewClientWithDoer(server.URL, "tok-123", server.Client(), logging.NewNop())
	result, err := client.Upload(context.Background(), UploadItem{
		Path:        path,
		MIME:        "video/webm",
		Title:       "Mural walkthrough",
		Description: "Final cut",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotTitle != "Mural walkthrough" || gotDescription != "Final cut" {
		t.Errorf("fields = %q, %q", gotTitle, gotDescription)
	}
	if gotFilename != "mural.webm" || gotPartType != "video/webm" {
		t.Errorf("media part = %q, %q", gotFilename, gotPartType)
	}
	if gotBytes != 2048 {
		t.Errorf("uploaded %d bytes, want 2048", gotBytes)
	}
	if result.ID != "m-42" || result.Location != "/media/m-42" {
		t.Errorf("result = %+v", result)
	}
	if result.Bytes != 2048 {
		t.Errorf("result bytes = %d", result.Bytes)
	}
}

func TestClientUploadDefaultTitle(t *testing.T) {
	path := writeMedia(t, "studio-shot.jpg", 16)

	var gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotTitle = r.FormValue("title")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClientWithDoer(server.URL, "tok", server.Client(), logging.NewNop())
	if _, err := client.Upload(context.Background(), UploadItem{Path: path, MIME: "image/jpeg"}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotTitle != "studio-shot" {
		t.Errorf("default title = %q", gotTitle)
	}
}

func TestClientUploadAuthExpired(t *testing.T) {
	path := writeMedia(t, "mural.webm", 16)

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClientWithDoer(server.URL, "stale", server.Client(), logging.NewNop())
		_, err := client.Upload(context.Background(), UploadItem{Path: path, MIME: "video/webm"})
		server.Close()

		if !errors.Is(err, ErrAuthExpired) {
			t.Errorf("status %d: err = %v, want ErrAuthExpired", status, err)
		}
	}
}

func TestClientUploadServerError(t *testing.T) {
	path := writeMedia(t, "mural.webm", 16)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithDoer(server.URL, "tok", server.Client(), logging.NewNop())
	_, err := client.Upload(context.Background(), UploadItem{Path: path, MIME: "video/webm"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrAuthExpired) {
		t.Fatal("500 must not look like auth expiry")
	}
}

func TestClientUploadMissingConfig(t *testing.T) {
	path := writeMedia(t, "mural.webm", 16)

	client := NewClientWithDoer("", "tok", http.DefaultClient, logging.NewNop())
	if _, err := client.Upload(context.Background(), UploadItem{Path: path}); err == nil {
		t.Fatal("expected error for missing base url")
	}

	client = NewClientWithDoer("https://example.test", "", http.DefaultClient, logging.NewNop())
	if _, err := client.Upload(context.Background(), UploadItem{Path: path}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestClientUploadMissingFile(t *testing.T) {
	client := NewClientWithDoer("https://example.test", "tok", http.DefaultClient, logging.NewNop())
	if _, err := client.Upload(context.Background(), UploadItem{Path: "/nonexistent/mural.webm"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
