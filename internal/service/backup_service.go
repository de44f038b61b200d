package service

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/queue"

	"gorm.io/gorm"
)

const (
	backupTimeLayout = "2006-01-02_15-04-05"
	backupExtension  = ".jsonl.gz"
	defaultBackupDir = "backups"
)

var backupNamePattern = regexp.MustCompile(`^backup_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.jsonl\.gz$`)

// BackupFile 备份文件信息
type BackupFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupRecord 备份文件中的一行
type BackupRecord struct {
	Table string                 `json:"table"`
	Row   map[string]interface{} `json:"row"`
}

type tableNamer interface {
	TableName() string
}

// BackupService 数据库备份服务
type BackupService struct {
	cfg         *config.Config
	queueClient *queue.Client
	activitySvc *ActivityService
	now         func() time.Time
}

// NewBackupService 创建备份服务
func NewBackupService(cfg *config.Config, queueClient *queue.Client, activitySvc *ActivityService) *BackupService {
	return &BackupService{
		cfg:         cfg,
		queueClient: queueClient,
		activitySvc: activitySvc,
		now:         time.Now,
	}
}

// Request 后台发起备份：队列可用时异步执行，否则同步执行
func (s *BackupService) Request(ctx context.Context, actor ActorContext) (string, bool, error) {
	s.activitySvc.Record(actor, constants.ActivityCreateBackup, constants.EntityTypeBackup, nil)
	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueBackupCreate(queue.BackupCreatePayload{RequestedBy: actor.UserID}); err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
		}
		return "", true, nil
	}
	file, err := s.Create(ctx)
	if err != nil {
		return "", false, err
	}
	return file.Name, false, nil
}

// Create 导出全部数据表到 gzip 压缩的 JSON Lines 文件，并按保留数量清理旧备份
func (s *BackupService) Create(ctx context.Context) (*BackupFile, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := "backup_" + s.now().Format(backupTimeLayout) + backupExtension
	target := filepath.Join(dir, name)
	tmp := target + ".tmp"

	if err := s.export(ctx, tmp); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	logger.Infow("backup_created", "file", name, "bytes", info.Size())
	s.prune()
	return &BackupFile{Name: name, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List 列出备份文件（新的在前）
func (s *BackupService) List() ([]BackupFile, error) {
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupFile{}, nil
		}
		return nil, err
	}
	files := make([]BackupFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !backupNamePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, BackupFile{Name: entry.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// ResolvePath 校验备份文件名并返回其绝对路径
func (s *BackupService) ResolvePath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || !backupNamePattern.MatchString(name) {
		return "", ErrBackupNameInvalid
	}
	dir, err := filepath.Abs(s.Dir())
	if err != nil {
		return "", err
	}
	full := filepath.Join(dir, name)
	if filepath.Dir(full) != dir {
		return "", ErrBackupNameInvalid
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrBackupNotFound
	}
	return full, nil
}

// Download 返回待下载备份的路径并记录日志
func (s *BackupService) Download(name string, actor ActorContext) (string, error) {
	full, err := s.ResolvePath(name)
	if err != nil {
		return "", err
	}
	s.activitySvc.Record(actor, constants.ActivityDownloadBackup, constants.EntityTypeBackup, name)
	return full, nil
}

// Delete 删除备份文件
func (s *BackupService) Delete(name string, actor ActorContext) error {
	full, err := s.ResolvePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return err
	}
	s.activitySvc.Record(actor, constants.ActivityDeleteBackup, constants.EntityTypeBackup, name)
	return nil
}

// Dir 备份目录
func (s *BackupService) Dir() string {
	if s.cfg != nil {
		if dir := strings.TrimSpace(s.cfg.Backup.Dir); dir != "" {
			return dir
		}
	}
	return defaultBackupDir
}

func (s *BackupService) export(ctx context.Context, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	writer := bufio.NewWriter(gz)
	encoder := json.NewEncoder(writer)

	db := models.DB.WithContext(ctx)
	for _, model := range models.AllModels() {
		namer, ok := model.(tableNamer)
		if !ok {
			continue
		}
		table := namer.TableName()
		if err := exportTable(db, model, table, encoder); err != nil {
			return fmt.Errorf("export %s: %w", table, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return file.Sync()
}

func exportTable(db *gorm.DB, model interface{}, table string, encoder *json.Encoder) error {
	rows, err := db.Model(model).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		row := make(map[string]interface{})
		if err := db.ScanRows(rows, &row); err != nil {
			return err
		}
		if err := encoder.Encode(BackupRecord{Table: table, Row: row}); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *BackupService) prune() {
	keep := 0
	if s.cfg != nil {
		keep = s.cfg.Backup.Keep
	}
	if keep <= 0 {
		return
	}
	files, err := s.List()
	if err != nil {
		logger.Warnw("backup_prune_list_failed", "error", err)
		return
	}
	for idx := keep; idx < len(files); idx++ {
		if err := os.Remove(filepath.Join(s.Dir(), files[idx].Name)); err != nil {
			logger.Warnw("backup_prune_failed", "file", files[idx].Name, "error", err)
			continue
		}
		logger.Infow("backup_pruned", "file", files[idx].Name)
	}
}
