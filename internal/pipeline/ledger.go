package pipeline

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/pkg/logging"
)

// ledger records one run. A nil *ledger records nothing.
type ledger struct {
	db    *sql.DB
	runID int64
}

// openLedger starts a run in the ledger when its directory exists and the
// run writes files. Ledger problems are logged, never fatal.
func (e *Env) openLedger(stage, runUUID string, dryRun bool) *ledger {
	if dryRun {
		return nil
	}
	path := e.Path(e.Settings.Paths.Ledger)
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		return nil
	}
	sqlDB, err := db.Open(path)
	if err != nil {
		logging.Warn("ledger", "opening %s: %v", path, err)
		return nil
	}
	runID, err := db.StartRun(sqlDB, runUUID, stage)
	if err != nil {
		logging.Warn("ledger", "starting run: %v", err)
		sqlDB.Close()
		return nil
	}
	return &ledger{db: sqlDB, runID: runID}
}

func (l *ledger) record(items ...Item) {
	if l == nil {
		return
	}
	for _, it := range items {
		rec := db.ArtifactRecord{Path: it.Path, Kind: it.Kind, Outcome: string(it.Outcome), SHA256: it.SHA256}
		if err := db.RecordArtifact(l.db, l.runID, rec); err != nil {
			logging.Warn("ledger", "%v", err)
		}
	}
}

func (l *ledger) close() {
	if l == nil {
		return
	}
	l.db.Close()
}

func newRunID() string {
	return uuid.NewString()
}
