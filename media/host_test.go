package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testHost(t *testing.T, handler http.HandlerFunc) *Host {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	h := NewHost("demo-cloud", "unsigned_preset")
	h.BaseURL = srv.URL
	return h
}

func TestHostUpload(t *testing.T) {
	var gotPath string
	var gotPreset, gotFolder, gotFile string

	h := testHost(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(body)
		w.Write([]byte(`{"secure_url":"https://res.example/demo/abc.jpg","public_id":"abc"}`))
	})

	file := File{Name: "sunset.jpg", MIME: "image/jpeg", Size: 5, Data: bytes.NewReader([]byte("pixel"))}
	url, err := h.Upload(context.Background(), file, "posts/remedies")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://res.example/demo/abc.jpg" {
		t.Fatalf("url = %q", url)
	}
	if gotPath != "/v1_1/demo-cloud/auto/upload" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotPreset != "unsigned_preset" || gotFolder != "posts/remedies" {
		t.Fatalf("preset=%q folder=%q", gotPreset, gotFolder)
	}
	if gotFile != "sunset.jpg:pixel" {
		t.Fatalf("file part = %q", gotFile)
	}
}

func TestHostUploadNoSecureURL(t *testing.T) {
	// A 200 without secure_url is still a failure.
	h := testHost(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	})

	file := File{Name: "x.jpg", MIME: "image/jpeg", Data: bytes.NewReader([]byte("p"))}
	if _, err := h.Upload(context.Background(), file, "posts/remedies"); err == nil {
		t.Fatal("want error when secure_url is missing")
	}
}

func TestHostUploadErrorStatusWithURL(t *testing.T) {
	// Mirror of the real contract: the URL in the body wins even if the
	// status is not 2xx.
	h := testHost(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"secure_url":"https://res.example/demo/odd.jpg"}`))
	})

	file := File{Name: "x.jpg", MIME: "image/jpeg", Data: bytes.NewReader([]byte("p"))}
	url, err := h.Upload(context.Background(), file, "posts/remedies")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://res.example/demo/odd.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestHostUploadNonJSONBody(t *testing.T) {
	h := testHost(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	file := File{Name: "x.jpg", MIME: "image/jpeg", Data: bytes.NewReader([]byte("p"))}
	_, err := h.Upload(context.Background(), file, "posts/remedies")
	if err == nil || !strings.Contains(err.Error(), "unreadable") {
		t.Fatalf("want unreadable-response error, got %v", err)
	}
}
