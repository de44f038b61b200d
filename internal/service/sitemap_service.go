package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/repository"
)

const (
	sitemapNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	defaultSitemapPath = "public/sitemap.xml"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// SitemapService 站点地图生成服务
type SitemapService struct {
	cfg         *config.Config
	projectRepo repository.ProjectRepository
}

// NewSitemapService 创建站点地图服务
func NewSitemapService(cfg *config.Config, projectRepo repository.ProjectRepository) *SitemapService {
	return &SitemapService{cfg: cfg, projectRepo: projectRepo}
}

// Render 生成站点地图 XML
func (s *SitemapService) Render(_ context.Context) ([]byte, error) {
	projects, err := s.projectRepo.ListActive()
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Site.URL), "/")
	today := time.Now().UTC().Format("2006-01-02")

	set := sitemapURLSet{Xmlns: sitemapNamespace}
	set.URLs = append(set.URLs,
		sitemapURL{Loc: base + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
		sitemapURL{Loc: base + "/add-logo", LastMod: today, ChangeFreq: "monthly", Priority: "0.8"},
	)
	for _, project := range projects {
		lastMod := project.UpdatedAt.UTC().Format("2006-01-02")
		set.URLs = append(set.URLs,
			sitemapURL{Loc: fmt.Sprintf("%s/projects/%d", base, project.ID), LastMod: lastMod, ChangeFreq: "weekly", Priority: "0.6"},
			sitemapURL{Loc: fmt.Sprintf("%s/projects/%d/review", base, project.ID), LastMod: lastMod, ChangeFreq: "monthly", Priority: "0.4"},
		)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// Generate 生成站点地图并原子写入配置路径
func (s *SitemapService) Generate(ctx context.Context) (string, error) {
	content, err := s.Render(ctx)
	if err != nil {
		return "", err
	}
	target := s.Path()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSitemapWriteFailed, err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSitemapWriteFailed, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrSitemapWriteFailed, err)
	}
	logger.Infow("sitemap_generated", "path", target, "bytes", len(content))
	return target, nil
}

// Load 读取已生成的站点地图，不存在时即时生成
func (s *SitemapService) Load(ctx context.Context) ([]byte, error) {
	content, err := os.ReadFile(s.Path())
	if err == nil {
		return content, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return s.Render(ctx)
}

// Path 站点地图文件路径
func (s *SitemapService) Path() string {
	if s.cfg != nil {
		if path := strings.TrimSpace(s.cfg.Sitemap.Path); path != "" {
			return path
		}
	}
	return defaultSitemapPath
}
