package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func TestSaveLogoStoresPNG(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewUploadService(cfg)
	content := encodePNG(t, 32, 32)

	publicPath, err := svc.saveLogo("acme.PNG", int64(len(content)), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save logo failed: %v", err)
	}
	if !strings.HasPrefix(publicPath, "/uploads/logos/") || !strings.HasSuffix(publicPath, ".png") {
		t.Fatalf("unexpected public path: %s", publicPath)
	}
	full := filepath.Join(cfg.Upload.Dir, filepath.FromSlash(strings.TrimPrefix(publicPath, "/uploads/")))
	stored, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Fatalf("stored content mismatch")
	}

	svc.Remove(publicPath)
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}
}

func TestSaveLogoRejectsInvalidFiles(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Upload.MaxWidth = 16
	cfg.Upload.MaxHeight = 16
	svc := NewUploadService(cfg)
	large := encodePNG(t, 32, 32)
	small := encodePNG(t, 8, 8)

	cases := []struct {
		name     string
		filename string
		content  []byte
		size     int64
		want     error
	}{
		{name: "empty", filename: "a.png", content: nil, size: 0, want: ErrLogoRequired},
		{name: "too large", filename: "a.png", content: small, size: cfg.Upload.MaxSize + 1, want: ErrLogoTooLarge},
		{name: "extension", filename: "a.exe", content: small, size: int64(len(small)), want: ErrLogoTypeInvalid},
		{name: "fake png", filename: "a.png", content: []byte("<html>hello</html>"), size: 18, want: ErrLogoTypeInvalid},
		{name: "dimension", filename: "a.png", content: large, size: int64(len(large)), want: ErrLogoDimension},
		{name: "svg script", filename: "a.svg", content: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`), size: 70, want: ErrLogoTypeInvalid},
		{name: "svg handler", filename: "a.svg", content: []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="x()"></svg>`), size: 60, want: ErrLogoTypeInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.saveLogo(tc.filename, tc.size, bytes.NewReader(tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSaveLogoAcceptsCleanSVG(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewUploadService(cfg)
	content := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)

	publicPath, err := svc.saveLogo("mark.svg", int64(len(content)), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save svg failed: %v", err)
	}
	if !strings.HasSuffix(publicPath, ".svg") {
		t.Fatalf("unexpected path: %s", publicPath)
	}
}

func TestRemoveIgnoresPathsOutsideUploads(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewUploadService(cfg)
	outside := filepath.Join(filepath.Dir(cfg.Upload.Dir), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file failed: %v", err)
	}
	defer os.Remove(outside)

	svc.Remove("/uploads/../keep.txt")
	svc.Remove("../../keep.txt")
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside uploads should survive: %v", err)
	}
}
