package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/internal/pipeline"
)

const loginFeature = `Feature: Login

  Scenario: Valid login
    Given I am on the login page
    When I enter "bob" in username field
    And I enter "secret" in password field
    And I click the login button
    Then I should see welcome message
`

func writeFeature(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll("features", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("features", name), []byte(content), 0o644))
}

func runStage(t *testing.T, stage pipeline.Stage, opts pipeline.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunStage(context.Background(), &buf, loadEnv(t), stage, opts))
	return buf.String()
}

func runSync(t *testing.T, opts pipeline.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunSync(context.Background(), &buf, loadEnv(t), opts))
	return buf.String()
}

func TestSteps_GeneratesStepMap(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runStage(t, pipeline.StepsStage, pipeline.Options{All: true})

	assert.Contains(t, out, "gen   stepMaps/login.stepMap.json")
	assert.Contains(t, out, "steps: 1 generated")
	assert.FileExists(t, "stepMaps/login.stepMap.json")
}

func TestSteps_SkipsExistingWithoutForce(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)
	runStage(t, pipeline.StepsStage, pipeline.Options{All: true})

	out := runStage(t, pipeline.StepsStage, pipeline.Options{All: true})
	assert.Contains(t, out, "skip  stepMaps/login.stepMap.json  (exists, use --force to overwrite)")
	assert.Contains(t, out, "steps: 1 skipped")

	out = runStage(t, pipeline.StepsStage, pipeline.Options{All: true, Force: true})
	assert.Contains(t, out, "steps: 1 generated")
}

func TestSteps_MissingFileWarnsAndContinues(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runStage(t, pipeline.StepsStage, pipeline.Options{Files: []string{"login", "checkout"}})

	assert.Contains(t, out, "warn  features/checkout.feature  (not found)")
	assert.Contains(t, out, "steps: 1 generated, 1 warned")
}

func TestSteps_RequiresSelection(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunStage(context.Background(), &buf, loadEnv(t), pipeline.StepsStage, pipeline.Options{})
	assert.ErrorIs(t, err, pipeline.ErrNoInputs)
}

func TestSteps_NothingMatched(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunStage(context.Background(), &buf, loadEnv(t), pipeline.StepsStage, pipeline.Options{All: true})
	assert.ErrorIs(t, err, pipeline.ErrNoInputs)
	assert.Contains(t, buf.String(), "steps: nothing to do")
}

func TestSteps_DryRunShowsDiffWhenVerbose(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runStage(t, pipeline.StepsStage, pipeline.Options{All: true, DryRun: true, Verbose: true})

	assert.Contains(t, out, "dry   stepMaps/login.stepMap.json  (would write)")
	assert.Contains(t, out, `+   "Valid login": [`)
	assert.Contains(t, out, "steps: 1 dry-run")
	assert.NoFileExists(t, "stepMaps/login.stepMap.json")
}

func TestSync_RunsBothStages(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runSync(t, pipeline.Options{Files: []string{"features/login.feature"}})

	assert.Contains(t, out, "gen   stepMaps/login.stepMap.json")
	assert.Contains(t, out, "gen   test/pageobjects/login.page.ts")
	assert.Contains(t, out, "gen   test/specs/login.spec.ts")
	assert.Contains(t, out, "gen   test/pageobjects/page.ts")
	assert.Contains(t, out, "tests: 3 generated")
}

func TestSync_RecordsRunsInLedger(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)

	runSync(t, pipeline.Options{All: true})

	sqlDB, err := db.Open(".testgen/testgen.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, stage := range []string{db.StageSteps, db.StageTests} {
		_, ok, err := db.LatestRun(sqlDB, stage)
		require.NoError(t, err)
		assert.True(t, ok, stage)
	}
	outcome, ok, err := db.LastOutcome(sqlDB, filepath.Join("test", "specs", "login.spec.ts"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "generated", outcome)
}

func TestSync_MalformedAliasesAbort(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("selector-aliases.json", []byte("{not json"), 0o644))

	_, err := pipeline.Load("testgen.yaml")
	require.Error(t, err)
}

func TestFeatureBases(t *testing.T) {
	assert.Equal(t, []string{"login", "checkout", "cart"},
		featureBases([]string{"features/login.feature", "checkout", "cart.feature"}))
}

func TestSteps_NoUsableOutputIsAnError(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)
	require.NoError(t, os.WriteFile("stepMaps", []byte("not a directory"), 0o644))

	var buf bytes.Buffer
	err := RunStage(context.Background(), &buf, loadEnv(t), pipeline.StepsStage, pipeline.Options{All: true, Force: true})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrNoOutput))
	assert.Contains(t, buf.String(), "steps: 1 failed")
}

func TestSync_StopsWhenStepsProduceNothing(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)
	require.NoError(t, os.WriteFile("stepMaps", []byte("not a directory"), 0o644))

	var buf bytes.Buffer
	err := RunSync(context.Background(), &buf, loadEnv(t), pipeline.Options{All: true, Force: true})

	assert.ErrorIs(t, err, pipeline.ErrNoOutput)
	assert.NoDirExists(t, "pageobjects")
}
