package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestUploadProgressMonotonicEndsAt100(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"success":true,"data":{"avatarUrl":"/a.png"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})

	var mu sync.Mutex
	var reports []int
	payload := bytes.Repeat([]byte("x"), 1<<18)

	var out struct {
		AvatarURL string `json:"avatarUrl"`
	}
	err := client.Upload(context.Background(), "/users/avatar", "avatar", "a.png",
		bytes.NewReader(payload),
		func(percent int) {
			mu.Lock()
			reports = append(reports, percent)
			mu.Unlock()
		},
		&out,
	)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if out.AvatarURL != "/a.png" {
		t.Fatalf("expected response decoded, got %+v", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) == 0 {
		t.Fatal("expected progress reports")
	}
	last := -1
	for _, p := range reports {
		if p <= last {
			t.Fatalf("progress regressed: %v", reports)
		}
		if p > 100 {
			t.Fatalf("progress exceeded 100: %v", reports)
		}
		last = p
	}
	if last != 100 {
		t.Fatalf("expected final report of 100, got %d", last)
	}
}

func TestUploadMultipartFieldAndFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("missing avatar field: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "photo.jpg" {
				t.Errorf("expected filename photo.jpg, got %q", header.Filename)
			}
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	err := client.Upload(context.Background(), "/users/avatar", "avatar", "photo.jpg",
		strings.NewReader("image-bytes"), nil, nil)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
}

func TestUploadErrorSharesClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"success":false,"message":"too big"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	err := client.Upload(context.Background(), "/users/avatar", "avatar", "big.bin",
		strings.NewReader("data"), nil, nil)

	pe, ok := AsError(err)
	if !ok || pe.Kind != KindHTTP || pe.Status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected classified http error, got %v", err)
	}
	if pe.Message != "too big" {
		t.Fatalf("expected backend message, got %q", pe.Message)
	}
}
