package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yaml")
	backup, err := WriteFile(target, []byte("version: 1\n"), 0o644)
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if backup != "" {
		t.Fatalf("expected no backup for a new file, got %q", backup)
	}
	payload, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(payload) != "version: 1\n" {
		t.Fatalf("unexpected payload %q", string(payload))
	}
	if _, err := os.Stat(target + BackupSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no backup file, stat err: %v", err)
	}
}

func TestWriteFileKeepsPreviousContentAsBackup(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(target, []byte("old"), 0o600); err != nil {
		t.Fatalf("write target: %v", err)
	}

	backup, err := WriteFile(target, []byte("new"), 0o644)
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if backup != target+BackupSuffix {
		t.Fatalf("unexpected backup path %q", backup)
	}

	payload, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(payload) != "new" {
		t.Fatalf("expected replaced payload, got %q", string(payload))
	}
	previous, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(previous) != "old" {
		t.Fatalf("expected backup to hold the previous payload, got %q", string(previous))
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected target and backup only, got %d entries", len(entries))
	}
}

func TestWriteFileLeavesTargetIntactWhenWriteFails(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	realWrite := writeAtomic
	t.Cleanup(func() { writeAtomic = realWrite })
	writeAtomic = func(name string, data []byte, perm os.FileMode) error {
		if name == target {
			return errors.New("disk full")
		}
		return realWrite(name, data, perm)
	}

	if _, err := WriteFile(target, []byte("new"), 0o644); err == nil {
		t.Fatalf("expected write failure")
	}
	payload, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(payload) != "old" {
		t.Fatalf("expected target to keep old payload, got %q", string(payload))
	}
}

func TestWriteFileRejectsDirectoryTarget(t *testing.T) {
	if _, err := WriteFile(t.TempDir(), []byte("x"), 0o644); err == nil {
		t.Fatalf("expected error for directory target")
	}
}
