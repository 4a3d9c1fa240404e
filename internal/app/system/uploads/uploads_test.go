package uploads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"../../etc/passwd", "passwd"},
		{"", "file"},
		{"..", "file"},
		{strings.Repeat("a", 150) + ".jpeg", strings.Repeat("a", 95) + ".jpeg"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocal_SavePhotoAndServe(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root, "uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if l.URLPrefix() != "/uploads" {
		t.Errorf("URLPrefix = %q, want /uploads", l.URLPrefix())
	}

	info, err := SavePhoto(context.Background(), l, "grandma.png", strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("SavePhoto: %v", err)
	}
	if !strings.HasPrefix(info.Path, "patients/") || !strings.HasSuffix(info.Path, "-grandma.png") {
		t.Errorf("Path = %q", info.Path)
	}
	if info.FileName != "grandma.png" || info.Size != 9 || info.ContentType != "image/png" {
		t.Errorf("info = %+v", info)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(info.Path)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored = %q", data)
	}

	url := l.URL(info.Path)
	if url != "/uploads/"+info.Path {
		t.Errorf("URL = %q", url)
	}
	rec := httptest.NewRecorder()
	l.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "png-bytes" {
		t.Errorf("served = %q", body)
	}
}

func TestLocal_PutStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(filepath.Join(root, "store"), "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := l.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "store", "escape.txt")); err != nil {
		t.Errorf("file not written under root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err == nil {
		t.Error("file escaped the root")
	}
}

func TestS3_KeyAndURL(t *testing.T) {
	s := &S3{bucket: "care-photos", prefix: "patients-prod/", region: "us-east-2"}
	if got := s.key("/patients/2025/01/x.png"); got != "patients-prod/patients/2025/01/x.png" {
		t.Errorf("key = %q", got)
	}
	want := "https://care-photos.s3.us-east-2.amazonaws.com/patients-prod/patients/2025/01/x.png"
	if got := s.URL("patients/2025/01/x.png"); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), "us-east-1", "", ""); err == nil {
		t.Error("NewS3 without bucket = nil error")
	}
}

func TestLocal_Delete(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root, "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()
	if err := l.Put(ctx, "patients/a.png", strings.NewReader("img"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := l.Delete(ctx, "patients/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "patients", "a.png")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	if err := l.Delete(ctx, "patients/a.png"); err != nil {
		t.Errorf("Delete of missing file = %v, want nil", err)
	}
}
