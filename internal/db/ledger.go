package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Stages recorded in the runs table.
const (
	StageSteps = "steps"
	StageTests = "tests"
)

type Run struct {
	ID        int64
	UUID      string
	Stage     string
	StartedAt string
}

type ArtifactRecord struct {
	Path    string
	Kind    string
	Outcome string
	SHA256  string
}

type OutcomeCount struct {
	Outcome string
	Count   int
}

// StartRun inserts a run row and returns its id.
func StartRun(db *sql.DB, runUUID, stage string) (int64, error) {
	res, err := db.Exec(`INSERT INTO runs (run_uuid, stage) VALUES (?, ?)`, runUUID, stage)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

func RecordArtifact(db *sql.DB, runID int64, rec ArtifactRecord) error {
	_, err := db.Exec(`INSERT INTO artifacts (run_id, path, kind, outcome, sha256) VALUES (?, ?, ?, ?, ?)`,
		runID, rec.Path, rec.Kind, rec.Outcome, rec.SHA256)
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Path, err)
	}
	return nil
}

// LatestRun returns the most recent run of stage. ok is false when the
// stage has never run.
func LatestRun(db *sql.DB, stage string) (run Run, ok bool, err error) {
	err = db.QueryRow(`SELECT id, run_uuid, stage, started_at FROM runs WHERE stage = ? ORDER BY id DESC LIMIT 1`, stage).
		Scan(&run.ID, &run.UUID, &run.Stage, &run.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("querying latest %s run: %w", stage, err)
	}
	return run, true, nil
}

// OutcomeCounts tallies the artifacts of one run, largest count first.
func OutcomeCounts(db *sql.DB, runID int64) ([]OutcomeCount, error) {
	rows, err := db.Query(`
		SELECT outcome, COUNT(*) AS cnt
		FROM artifacts
		WHERE run_id = ?
		GROUP BY outcome
		ORDER BY cnt DESC, outcome
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcome counts: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var oc OutcomeCount
		if err := rows.Scan(&oc.Outcome, &oc.Count); err != nil {
			return nil, fmt.Errorf("scanning outcome row: %w", err)
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

// LastOutcome returns the most recently recorded outcome for path.
func LastOutcome(db *sql.DB, path string) (outcome string, ok bool, err error) {
	err = db.QueryRow(`SELECT outcome FROM artifacts WHERE path = ? ORDER BY id DESC LIMIT 1`, path).Scan(&outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying last outcome of %s: %w", path, err)
	}
	return outcome, true, nil
}
