package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jaa/vinstall/internal/archive"
	"github.com/jaa/vinstall/internal/output"
	"github.com/jaa/vinstall/internal/platform"
)

// extractRoot is where archive entries land: the mount point, or the drive
// itself on platforms that write to the device path directly.
func (r *run) extractRoot() string {
	if !r.req.Platform.UsesMount() {
		device := r.req.Device
		if strings.HasSuffix(device, string(os.PathSeparator)) {
			return device
		}
		return device + string(os.PathSeparator)
	}
	return r.vars.MountPoint
}

func (r *run) extract(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	r.setState(StateExtracting, StatusCopying)
	start := r.progress.Value()

	reader, err := r.installer.OpenArchive(r.req.Bundle.Archive)
	if err != nil {
		return r.extractError(fmt.Sprintf("unable to read the archive %q", r.req.Bundle.Archive), err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			r.logger.Debug("archive close failed", zap.Error(err))
		}
	}()

	count := reader.Len()
	increment := 0
	if count > 0 {
		increment = BudgetExtract / count
	}
	root := r.extractRoot()
	r.logger.Debug("extracting archive",
		zap.String("archive", r.req.Bundle.Archive),
		zap.String("root", root),
		zap.Int("entries", count))

	for {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		entry, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.extractError("unable to read the next archive entry", err)
		}

		r.progress.Add(increment)
		r.result.Entries++

		if archive.HasPrefix(entry.Path, r.req.MetadataPrefix) {
			r.result.Skipped++
			continue
		}
		if err := r.extractEntry(root, entry); err != nil {
			return err
		}
	}

	// Integer increments leave a remainder; the step always ends on its full budget.
	r.progress.Set(start + BudgetExtract)
	return nil
}

func (r *run) extractEntry(root string, entry *archive.Entry) error {
	rel, err := archive.SafeRelativePath(entry.Path)
	if err != nil {
		return r.extractError(fmt.Sprintf("refusing to extract %q", entry.Path), err)
	}
	if rel == "" {
		// The destination root already exists.
		r.result.Skipped++
		return nil
	}
	target := filepath.Join(root, filepath.FromSlash(rel))

	if entry.IsDir {
		if !r.req.DryRun {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return r.extractError(fmt.Sprintf("unable to create the directory %q", target), err)
			}
		}
		r.result.Directories++
	} else {
		if !r.req.DryRun {
			if err := writeEntry(target, entry); err != nil {
				return r.extractError(fmt.Sprintf("unable to write the file %q", target), err)
			}
		}
		r.result.Files++
	}

	r.emit(output.LevelInfo, output.EventEntryExtracted, entry.Path, map[string]any{
		"path":   entry.Path,
		"target": target,
		"dir":    entry.IsDir,
		"size":   entry.Size,
	})
	return nil
}

// writeEntry copies one file entry to target, creating missing parent
// directories. The file is truncated if it already exists.
func writeEntry(target string, entry *archive.Entry) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(dst, src)
	return err
}

func (r *run) extractError(message string, err error) error {
	return &StepError{
		Kind:    ExtractionFailed,
		Step:    platform.StepExtract,
		Device:  r.req.Device,
		Message: message,
		Err:     err,
	}
}
