package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

const (
	contentTypeSVG    = "image/svg+xml"
	defaultUploadDir  = "uploads"
	publicUploadsPath = "/uploads"
)

// UploadService 文件上传服务
type UploadService struct {
	cfg *config.Config
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveLogo 校验并保存项目徽标，返回可公开访问的相对路径
func (s *UploadService) SaveLogo(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrLogoRequired
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	defer src.Close()
	return s.saveLogo(file.Filename, file.Size, src)
}

func (s *UploadService) saveLogo(filename string, size int64, src io.ReadSeeker) (string, error) {
	uploadCfg := s.cfg.Upload
	// 验证文件大小
	if size <= 0 {
		return "", ErrLogoRequired
	}
	if uploadCfg.MaxSize > 0 && size > uploadCfg.MaxSize {
		return "", ErrLogoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(uploadCfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, uploadCfg.AllowedExtensions) {
			return "", ErrLogoTypeInvalid
		}
	}

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	contentType := detectLogoContentType(buffer[:n], ext)
	if len(uploadCfg.AllowedTypes) > 0 && !containsFold(uploadCfg.AllowedTypes, contentType) {
		return "", ErrLogoTypeInvalid
	}

	if contentType == contentTypeSVG {
		if err := validateSVG(src); err != nil {
			return "", err
		}
	} else {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
		}
		cfg, _, err := image.DecodeConfig(src)
		if err != nil {
			return "", ErrLogoTypeInvalid
		}
		if (uploadCfg.MaxWidth > 0 && cfg.Width > uploadCfg.MaxWidth) ||
			(uploadCfg.MaxHeight > 0 && cfg.Height > uploadCfg.MaxHeight) {
			return "", ErrLogoDimension
		}
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}

	// 生成唯一文件名
	name := uuid.New().String() + ext
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	savePath := filepath.Join(s.rootDir(), constants.UploadSceneLogo, year, month, name)

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(savePath)
		return "", fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}

	return path.Join(publicUploadsPath, constants.UploadSceneLogo, year, month, name), nil
}

// Remove 删除已保存的上传文件，publicPath 必须位于上传目录内
func (s *UploadService) Remove(publicPath string) {
	rel := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(publicPath)), publicUploadsPath+"/")
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return
	}
	full := filepath.Join(s.rootDir(), filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		logger.Warnw("upload_remove_failed", "path", publicPath, "error", err)
	}
}

// RootDir 上传文件根目录
func (s *UploadService) RootDir() string {
	return s.rootDir()
}

func (s *UploadService) rootDir() string {
	if s.cfg != nil {
		if dir := strings.TrimSpace(s.cfg.Upload.Dir); dir != "" {
			return dir
		}
	}
	return defaultUploadDir
}

func detectLogoContentType(head []byte, ext string) string {
	contentType := http.DetectContentType(head)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	if ext == ".svg" && (contentType == "text/xml" || contentType == "text/plain") {
		if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
			return contentTypeSVG
		}
	}
	return contentType
}

// validateSVG 拒绝包含脚本或事件属性的 SVG
func validateSVG(src io.ReadSeeker) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	content, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadSaveFailed, err)
	}
	lowered := bytes.ToLower(content)
	if !bytes.Contains(lowered, []byte("<svg")) {
		return ErrLogoTypeInvalid
	}
	for _, marker := range [][]byte{[]byte("<script"), []byte("javascript:"), []byte(" onload="), []byte(" onclick="), []byte("<foreignobject")} {
		if bytes.Contains(lowered, marker) {
			return ErrLogoTypeInvalid
		}
	}
	return nil
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}
