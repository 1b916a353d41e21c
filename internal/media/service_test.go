package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeResolver struct {
	url         string
	resolveErr  error
	downloadErr error
	body        string
	downloads   int
}

func (f *fakeResolver) ResolveURL(ctx context.Context, mediaID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.url, nil
}

func (f *fakeResolver) Download(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	f.downloads++
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type fakeProvider struct {
	putErr error
	keys   []string
	data   bytes.Buffer
}

func (p *fakeProvider) Put(ctx context.Context, key string, reader io.Reader) error {
	if p.putErr != nil {
		return p.putErr
	}
	p.keys = append(p.keys, key)
	_, err := io.Copy(&p.data, reader)
	return err
}

func (p *fakeProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.data.Bytes())), nil
}

func (p *fakeProvider) Delete(ctx context.Context, key string) error { return nil }

func TestServiceStore_Success(t *testing.T) {
	t.Parallel()

	client := &fakeResolver{url: "https://cdn.example/abc", body: "png-bytes"}
	provider := &fakeProvider{}
	svc := NewService(nil, client, provider, 0)

	key, err := svc.Store(context.Background(), "media-1", "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "media/media-1.png" {
		t.Fatalf("unexpected key: %s", key)
	}
	if len(provider.keys) != 1 || provider.keys[0] != key {
		t.Fatalf("provider saw keys %v", provider.keys)
	}
	if provider.data.String() != "png-bytes" {
		t.Fatalf("unexpected stored bytes: %q", provider.data.String())
	}
}

func TestServiceStore_ResolveFailureSkipsDownload(t *testing.T) {
	t.Parallel()

	client := &fakeResolver{resolveErr: ErrResolve}
	provider := &fakeProvider{}
	svc := NewService(nil, client, provider, 0)

	_, err := svc.Store(context.Background(), "media-1", "image/png")
	if !errors.Is(err, ErrResolve) {
		t.Fatalf("expected ErrResolve, got %v", err)
	}
	if client.downloads != 0 {
		t.Fatal("download must not run after a failed resolve")
	}
	if len(provider.keys) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestServiceStore_DownloadFailure(t *testing.T) {
	t.Parallel()

	client := &fakeResolver{url: "https://cdn.example/abc", downloadErr: ErrUpload}
	provider := &fakeProvider{}
	svc := NewService(nil, client, provider, 0)

	_, err := svc.Store(context.Background(), "media-1", "image/png")
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if len(provider.keys) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestServiceStore_PutFailure(t *testing.T) {
	t.Parallel()

	client := &fakeResolver{url: "https://cdn.example/abc", body: "x"}
	provider := &fakeProvider{putErr: errors.New("disk full")}
	svc := NewService(nil, client, provider, 0)

	_, err := svc.Store(context.Background(), "media-1", "image/png")
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestServiceStore_NoProvider(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, &fakeResolver{}, nil, 0)
	_, err := svc.Store(context.Background(), "media-1", "image/png")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestStorageKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mediaID  string
		mimeType string
		want     string
	}{
		{mediaID: "m1", mimeType: "image/jpeg", want: "media/m1.jpeg"},
		{mediaID: "m2", mimeType: "image/png", want: "media/m2.png"},
		{mediaID: "m3", mimeType: "application/pdf", want: "media/m3.pdf"},
		{mediaID: "m4", mimeType: "", want: "media/m4.bin"},
		{mediaID: "m5", mimeType: "noslash", want: "media/m5.bin"},
		{mediaID: "m6", mimeType: "image/", want: "media/m6.bin"},
	}
	for _, tc := range cases {
		got := StorageKey(tc.mediaID, tc.mimeType)
		if got != tc.want {
			t.Fatalf("StorageKey(%q, %q) = %q, want %q", tc.mediaID, tc.mimeType, got, tc.want)
		}
	}
}
