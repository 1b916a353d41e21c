package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGraphClient_ResolveURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v21.0/media-7" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/signed","mime_type":"image/png"}`))
	}))
	defer srv.Close()

	client := NewGraphClient(nil, srv.URL, "v21.0", "tok", 0)
	url, err := client.ResolveURL(context.Background(), "media-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/signed" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestGraphClient_ResolveURL_NonSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewGraphClient(nil, srv.URL, "v21.0", "tok", 0)
	_, err := client.ResolveURL(context.Background(), "gone")
	if !errors.Is(err, ErrResolve) {
		t.Fatalf("expected ErrResolve, got %v", err)
	}
}

func TestGraphClient_ResolveURL_EmptyURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewGraphClient(nil, srv.URL, "v21.0", "tok", 0)
	_, err := client.ResolveURL(context.Background(), "media-7")
	if !errors.Is(err, ErrResolve) {
		t.Fatalf("expected ErrResolve, got %v", err)
	}
}

func TestGraphClient_Download(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("media-bytes"))
	}))
	defer srv.Close()

	client := NewGraphClient(nil, srv.URL, "v21.0", "tok", 0)
	body, err := client.Download(context.Background(), srv.URL+"/signed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "media-bytes" {
		t.Fatalf("unexpected body: %q", data)
	}
}

func TestGraphClient_Download_NonSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewGraphClient(nil, srv.URL, "v21.0", "tok", 0)
	_, err := client.Download(context.Background(), srv.URL+"/signed")
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}
