package upload_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rahul/shopkart/backend/internal/upload"
)

func multipartRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+upload.FieldName+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/addProduct", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	saver := upload.NewSaver(dir)

	tests := []struct {
		name        string
		filename    string
		contentType string
		wantErr     error
	}{
		{"png accepted", "photo.png", "image/png", nil},
		{"jpg accepted", "photo.jpg", "image/jpeg", nil},
		{"uppercase extension accepted", "photo.PNG", "image/png", nil},
		{"gif rejected", "anim.gif", "image/gif", upload.ErrBadType},
		{"pdf with png extension rejected", "doc.png", "application/pdf", upload.ErrBadType},
		{"png with exe extension rejected", "tool.exe", "image/png", upload.ErrBadType},
		{"no file", "", "", upload.ErrNoFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, tt.filename, tt.contentType, []byte("imagebytes"))
			rel, err := saver.Save(req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if !strings.HasPrefix(rel, filepath.ToSlash(dir)+"/") {
				t.Errorf("relative path %q not under upload dir", rel)
			}

			data, err := os.ReadFile(filepath.FromSlash(rel))
			if err != nil {
				t.Fatalf("stored file unreadable: %v", err)
			}
			if string(data) != "imagebytes" {
				t.Error("stored content differs from upload")
			}
		})
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	saver := upload.NewSaver(t.TempDir())

	first, err := saver.Save(multipartRequest(t, "a.png", "image/png", []byte("one")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := saver.Save(multipartRequest(t, "a.png", "image/png", []byte("two")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Errorf("same name %q for two uploads of the same filename", first)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	saver := upload.NewSaver(dir)

	rel, err := saver.Save(multipartRequest(t, "a.png", "image/png", []byte("one")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := saver.Remove(rel); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.FromSlash(rel)); !os.IsNotExist(err) {
		t.Error("file still present after remove")
	}

	t.Run("missing file is not an error", func(t *testing.T) {
		if err := saver.Remove(rel); err != nil {
			t.Errorf("remove twice: %v", err)
		}
	})

	t.Run("path outside upload dir is ignored", func(t *testing.T) {
		outside := filepath.Join(t.TempDir(), "keep.txt")
		if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := saver.Remove(outside); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, err := os.Stat(outside); err != nil {
			t.Error("file outside upload dir was deleted")
		}
	})
}
