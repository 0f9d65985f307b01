package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// writePolicy decides what happens to one output path.
type writePolicy struct {
	force  bool
	dryRun bool
	// createOnly files are never replaced, even when forced.
	createOnly bool
}

// emit applies policy to content destined for path and performs the write.
func emit(path, kind string, content []byte, policy writePolicy) Item {
	item := Item{Path: path, Kind: kind}

	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		// Unreadable but present: treat as existing so it is not clobbered
		// without --force.
		exists = true
	}

	switch {
	case exists && policy.createOnly:
		item.Outcome = Skipped
		item.Reason = "exists"
	case policy.dryRun:
		item.Outcome = DryRun
		item.Before = string(existing)
		item.After = string(content)
	case exists && !policy.force:
		item.Outcome = Skipped
		item.Reason = "exists, use --force to overwrite"
	default:
		if err := writeFileAtomic(path, content); err != nil {
			item.Outcome = Failed
			item.Err = err
			item.Reason = err.Error()
			return item
		}
		item.Outcome = Generated
		sum := sha256.Sum256(content)
		item.SHA256 = hex.EncodeToString(sum[:])
	}
	return item
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
