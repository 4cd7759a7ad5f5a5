package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("CLOUDINARY_API_URL", srv.URL)

	client, err := NewClient("demo-cloud", "key-123", "secret-456")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return client
}

func TestRemoveBackgroundSignedUpload(t *testing.T) {
	var gotPath, gotTransformation, gotSignature, gotTimestamp string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotTransformation = r.FormValue("transformation")
		gotSignature = r.FormValue("signature")
		gotTimestamp = r.FormValue("timestamp")
		if !strings.HasPrefix(r.FormValue("file"), "data:image/png;base64,") {
			t.Errorf("expected data URI file field, got %q", r.FormValue("file"))
		}
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo-cloud/image/upload/out.png"}`))
	})

	url, err := client.RemoveBackground(context.Background(), []byte("png-bytes"))
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if url != "https://res.cloudinary.com/demo-cloud/image/upload/out.png" {
		t.Fatalf("unexpected url %q", url)
	}
	if gotPath != "/demo-cloud/image/upload" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotTransformation != "e_background_removal" {
		t.Fatalf("unexpected transformation %q", gotTransformation)
	}

	// Signature covers the sorted signed params plus the secret.
	payload := fmt.Sprintf("timestamp=%s&transformation=%s%s", gotTimestamp, gotTransformation, "secret-456")
	sum := sha1.Sum([]byte(payload))
	if gotSignature != hex.EncodeToString(sum[:]) {
		t.Fatalf("signature mismatch")
	}
}

func TestRemoveObjectTransformation(t *testing.T) {
	var gotTransformation string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotTransformation = r.FormValue("transformation")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/out.png"}`))
	})

	if _, err := client.RemoveObject(context.Background(), []byte("png-bytes"), "car"); err != nil {
		t.Fatalf("RemoveObject: %v", err)
	}
	if gotTransformation != "e_gen_remove:prompt_car" {
		t.Fatalf("unexpected transformation %q", gotTransformation)
	}
}

func TestUploadErrorSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	})

	_, err := client.Upload(context.Background(), []byte("junk"), "x.png")
	if err == nil || !strings.Contains(err.Error(), "Invalid image file") {
		t.Fatalf("expected cloudinary error, got %v", err)
	}
}

func TestUploadRejectsEmptyImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request for empty image")
	})

	if _, err := client.Upload(context.Background(), nil, "x.png"); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestSortedSignaturePayload(t *testing.T) {
	client := &Client{apiSecret: "s"}
	sig1 := client.sign(map[string]string{"b": "2", "a": "1"})
	sig2 := client.sign(map[string]string{"a": "1", "b": "2"})
	if sig1 != sig2 {
		t.Fatalf("expected order-independent signature")
	}

	sum := sha1.Sum([]byte("a=1&b=2s"))
	if sig1 != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected signature %q", sig1)
	}
}
