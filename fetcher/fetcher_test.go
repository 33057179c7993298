package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchWritesFile(t *testing.T) {
	payload := []byte("fake webm audio bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "input.webm")
	if err := New().Fetch(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Destination content = %q, want %q", got, payload)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "input.webm")
	err := New().Fetch(context.Background(), srv.URL, dest)
	if err == nil {
		t.Fatal("Expected error for 404 response, got nil")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetcher.Error, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusNotFound)
	}
}

func TestFetchConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing is listening anymore

	dest := filepath.Join(t.TempDir(), "input.webm")
	err := New().Fetch(context.Background(), url, dest)
	if err == nil {
		t.Fatal("Expected error for refused connection, got nil")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *fetcher.Error, got %T", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", fetchErr.StatusCode)
	}
}
