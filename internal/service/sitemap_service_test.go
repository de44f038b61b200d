package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/cryptologowall/internal/repository"
)

func TestSitemapListsActiveProjectsOnly(t *testing.T) {
	db := openServiceTestDB(t, "sitemap_service_test")
	cfg := newTestConfig(t)
	seedProject(t, db, 1, true)
	seedProject(t, db, 2, false)
	svc := NewSitemapService(cfg, repository.NewProjectRepository(db))

	content, err := svc.Render(context.Background())
	if err != nil {
		t.Fatalf("render sitemap failed: %v", err)
	}
	xml := string(content)
	for _, want := range []string{
		"<loc>https://wall.example/</loc>",
		"<loc>https://wall.example/add-logo</loc>",
		"<loc>https://wall.example/projects/1</loc>",
		"<loc>https://wall.example/projects/1/review</loc>",
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("sitemap missing %s:\n%s", want, xml)
		}
	}
	if strings.Contains(xml, "/projects/2") {
		t.Fatalf("inactive project must not be listed")
	}
}

func TestSitemapGenerateWritesFile(t *testing.T) {
	db := openServiceTestDB(t, "sitemap_generate_test")
	cfg := newTestConfig(t)
	seedProject(t, db, 3, true)
	svc := NewSitemapService(cfg, repository.NewProjectRepository(db))

	path, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate sitemap failed: %v", err)
	}
	if path != cfg.Sitemap.Path {
		t.Fatalf("unexpected path: %s", path)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sitemap failed: %v", err)
	}
	loaded, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load sitemap failed: %v", err)
	}
	if string(written) != string(loaded) || !strings.Contains(string(loaded), "/projects/3") {
		t.Fatalf("unexpected sitemap content")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file should be renamed")
	}
}
