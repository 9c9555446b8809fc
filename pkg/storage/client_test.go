package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*S3Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewS3Client(Config{
		Endpoint:       server.URL,
		AccessKey:      "test-access",
		SecretKey:      "test-secret",
		Bucket:         "tunedeck",
		PublicEndpoint: "http://cdn.example.com/tunedeck",
	})
	if err != nil {
		t.Fatalf("NewS3Client returned error: %v", err)
	}
	return client, server
}

func TestUploadSignsAndReturnsPublicURL(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotContentType string
	var gotBody []byte
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	url, err := client.Upload(context.Background(), "songs/abc/audio", "audio/mpeg", []byte("mp3 bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if url != "http://cdn.example.com/tunedeck/songs/abc/audio" {
		t.Fatalf("unexpected public URL %q", url)
	}
	if gotPath != "/tunedeck/songs/abc/audio" {
		t.Fatalf("unexpected object path %q", gotPath)
	}
	if gotContentType != "audio/mpeg" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if string(gotBody) != "mp3 bytes" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if !strings.HasPrefix(gotAuth, "AWS4-HMAC-SHA256 Credential=test-access/") {
		t.Fatalf("expected SigV4 authorization header, got %q", gotAuth)
	}
	if !strings.Contains(gotAuth, "SignedHeaders=") || !strings.Contains(gotAuth, "Signature=") {
		t.Fatalf("authorization header missing components: %q", gotAuth)
	}
}

func TestUploadReportsServerFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.Upload(context.Background(), "songs/x/audio", "audio/mpeg", []byte("x")); !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

func TestDeleteToleratesMissingObject(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	if err := client.Delete(context.Background(), "songs/gone/audio"); err != nil {
		t.Fatalf("expected missing object to be tolerated, got %v", err)
	}
}

func TestDeleteSurfacesUnexpectedStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	if err := client.Delete(context.Background(), "songs/denied/audio"); err == nil {
		t.Fatal("expected error for forbidden delete")
	}
}

func TestNewS3ClientRequiresEndpointAndBucket(t *testing.T) {
	t.Parallel()

	if _, err := NewS3Client(Config{Bucket: "tunedeck"}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
	if _, err := NewS3Client(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}
