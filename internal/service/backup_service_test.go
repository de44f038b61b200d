package service

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupCreateExportsTables(t *testing.T) {
	db := openServiceTestDB(t, "backup_service_test")
	cfg := newTestConfig(t)
	seedProject(t, db, 1, true)
	seedProject(t, db, 2, false)
	svc := NewBackupService(cfg, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC) }

	file, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create backup failed: %v", err)
	}
	if file.Name != "backup_2026-05-01_10-30-00.jsonl.gz" {
		t.Fatalf("unexpected backup name: %s", file.Name)
	}

	fh, err := os.Open(filepath.Join(cfg.Backup.Dir, file.Name))
	if err != nil {
		t.Fatalf("open backup failed: %v", err)
	}
	defer fh.Close()
	gz, err := gzip.NewReader(fh)
	if err != nil {
		t.Fatalf("gzip reader failed: %v", err)
	}
	projects := 0
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var record BackupRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("decode record failed: %v", err)
		}
		if record.Table == "projects" {
			projects++
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan backup failed: %v", err)
	}
	if projects != 2 {
		t.Fatalf("expected 2 project rows, got %d", projects)
	}
}

func TestBackupPruneKeepsNewest(t *testing.T) {
	openServiceTestDB(t, "backup_prune_test")
	cfg := newTestConfig(t)
	svc := NewBackupService(cfg, nil, nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		if _, err := svc.Create(context.Background()); err != nil {
			t.Fatalf("create backup %d failed: %v", i, err)
		}
	}
	files, err := svc.List()
	if err != nil {
		t.Fatalf("list backups failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 backups after prune, got %d", len(files))
	}
	if files[0].Name != "backup_2026-01-01_02-00-00.jsonl.gz" {
		t.Fatalf("newest backup should be first, got %s", files[0].Name)
	}
}

func TestBackupResolvePathRejectsTraversal(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewBackupService(cfg, nil, nil)
	for _, name := range []string{"", "../backup_2026-01-01_00-00-00.jsonl.gz", "secrets.txt", `..\backup_2026-01-01_00-00-00.jsonl.gz`} {
		if _, err := svc.ResolvePath(name); !errors.Is(err, ErrBackupNameInvalid) {
			t.Fatalf("expected invalid name for %q, got %v", name, err)
		}
	}
	if _, err := svc.ResolvePath("backup_2026-01-01_00-00-00.jsonl.gz"); !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
