package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/testgen/internal/config"
	"github.com/chriserin/testgen/internal/db"
)

const loginFeature = `Feature: Login

  Scenario: Valid login
    Given I am on the login page
    When I enter "bob" in username field
    And I enter "secret" in password field
    And I click the login button
    Then I should see welcome message
`

func newEnv(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()
	return &Env{
		Root:      root,
		Settings:  config.Defaults(),
		Selectors: config.Selectors{Aliases: config.AliasTable{}, Fallbacks: config.DefaultFallbacks()},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// snapshot maps every regular file under root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files[path] = readFile(t, path)
		return nil
	})
	require.NoError(t, err)
	return files
}

func outcomes(r *Report) []Outcome {
	var out []Outcome
	for _, it := range r.Items {
		out = append(out, it.Outcome)
	}
	return out
}

func TestSteps_WritesStepMap(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)

	r, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	require.Len(t, r.Items, 1)
	out := filepath.Join(env.StepMapsDir(), "login.stepMap.json")
	assert.Equal(t, out, r.Items[0].Path)
	assert.Equal(t, Generated, r.Items[0].Outcome)
	assert.Len(t, r.Items[0].SHA256, 64)

	content := readFile(t, out)
	assert.True(t, strings.HasPrefix(content, "{\n  \"Valid login\": ["))
	assert.Contains(t, content, `"selectorName": "userNameField"`)
}

func TestSteps_DryRunLeavesFilesUntouched(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	writeFile(t, filepath.Join(env.StepMapsDir(), "login.stepMap.json"), "old")
	before := snapshot(t, env.Root)

	r, err := Steps(context.Background(), env, Options{All: true, DryRun: true, Force: true})
	require.NoError(t, err)

	require.Len(t, r.Items, 1)
	assert.Equal(t, DryRun, r.Items[0].Outcome)
	assert.Equal(t, "old", r.Items[0].Before)
	assert.Contains(t, r.Items[0].After, "Valid login")
	assert.Equal(t, before, snapshot(t, env.Root))
}

func TestSteps_ExistingOutputKeptWithoutForce(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	out := filepath.Join(env.StepMapsDir(), "login.stepMap.json")
	writeFile(t, out, "hand edited")

	r, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Skipped}, outcomes(r))
	assert.Contains(t, r.Items[0].Reason, "--force")
	assert.Equal(t, "hand edited", readFile(t, out))
}

func TestSteps_ForceReplacesFile(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)

	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)
	out := filepath.Join(env.StepMapsDir(), "login.stepMap.json")
	first := readFile(t, out)
	require.NoError(t, os.Chmod(out, 0o600))

	r, err := Steps(context.Background(), env, Options{All: true, Force: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Generated}, outcomes(r))
	assert.Equal(t, first, readFile(t, out))
	// The file was replaced rather than left alone.
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(env.StepMapsDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSteps_MissingFileIsWarned(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)

	r, err := Steps(context.Background(), env, Options{Files: []string{"login", "nope.feature"}})
	require.NoError(t, err)

	require.Len(t, r.Items, 2)
	assert.Equal(t, Warned, r.Items[0].Outcome)
	assert.Equal(t, filepath.Join(env.FeaturesDir(), "nope.feature"), r.Items[0].Path)
	assert.Equal(t, Generated, r.Items[1].Outcome)
}

func TestSteps_NoInputs(t *testing.T) {
	env := newEnv(t)

	r, err := Steps(context.Background(), env, Options{Files: []string{"nope"}})
	assert.ErrorIs(t, err, ErrNoInputs)
	assert.Equal(t, []Outcome{Warned}, outcomes(r))

	_, err = Steps(context.Background(), env, Options{All: true})
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestSteps_HonorsIgnoreFile(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	writeFile(t, filepath.Join(env.FeaturesDir(), "draft.feature"), loginFeature)
	writeFile(t, filepath.Join(env.Root, ".testgenignore"), "draft.feature\n")

	r, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	require.Len(t, r.Items, 1)
	assert.Equal(t, filepath.Join(env.StepMapsDir(), "login.stepMap.json"), r.Items[0].Path)
	assert.NoFileExists(t, filepath.Join(env.StepMapsDir(), "draft.stepMap.json"))
}

func TestSteps_UnsupportedKeywordIsWarned(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "outline.feature"), `Feature: Outline

  Scenario Outline: Many users
    When I enter "<name>" in username field

  Scenario: Plain
    When I click the login button
`)

	r, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Warned, Generated}, outcomes(r))
	assert.Contains(t, r.Items[0].Reason, "Scenario Outline is not supported")
	content := readFile(t, filepath.Join(env.StepMapsDir(), "outline.stepMap.json"))
	assert.Contains(t, content, `"Plain"`)
	assert.NotContains(t, content, "Many users")
}

func TestTests_WritesWdioModules(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	r, err := Tests(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Generated, Generated, Generated}, outcomes(r))
	page := readFile(t, filepath.Join(env.PageObjectsDir(), "login.page.ts"))
	assert.Contains(t, page, "get userNameField()")
	spec := readFile(t, filepath.Join(env.SpecsDir(), "login.spec.ts"))
	assert.Contains(t, spec, "from '../pageobjects/login.page'")
	assert.FileExists(t, filepath.Join(env.PageObjectsDir(), "page.ts"))
}

func TestTests_SupportFileIsCreateOnly(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)
	support := filepath.Join(env.PageObjectsDir(), "page.ts")
	writeFile(t, support, "// local changes")

	r, err := Tests(context.Background(), env, Options{All: true, Force: true})
	require.NoError(t, err)

	require.Len(t, r.Items, 3)
	assert.Equal(t, Generated, r.Items[0].Outcome)
	assert.Equal(t, Generated, r.Items[1].Outcome)
	assert.Equal(t, Skipped, r.Items[2].Outcome)
	assert.Equal(t, "// local changes", readFile(t, support))
}

func TestTests_PlaywrightGo(t *testing.T) {
	env := newEnv(t)
	env.Settings.Target = config.TargetPlaywrightGo
	env.Settings.Paths.PageObjects = "e2e"
	env.Settings.Paths.Specs = "e2e"
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	r, err := Tests(context.Background(), env, Options{Files: []string{"login"}})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Generated, Generated}, outcomes(r))
	page := readFile(t, filepath.Join(env.Root, "e2e", "login.page.go"))
	assert.True(t, strings.HasPrefix(page, "// Code generated by testgen"))
	spec := readFile(t, filepath.Join(env.Root, "e2e", "login.spec_test.go"))
	assert.Contains(t, spec, "func TestLoginValidLogin(t *testing.T)")
}

func TestTests_MalformedStepMapFails(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.StepMapsDir(), "broken.stepMap.json"), `{"broken": 1}`)

	r, err := Tests(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Failed}, outcomes(r))
	assert.True(t, r.Failed())
	assert.True(t, r.Unusable())
}

func TestTests_DryRunLeavesFilesUntouched(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)
	writeFile(t, filepath.Join(env.PageObjectsDir(), "login.page.ts"), "mine")
	before := snapshot(t, env.Root)

	r, err := Tests(context.Background(), env, Options{All: true, DryRun: true, Force: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{DryRun, DryRun, DryRun}, outcomes(r))
	assert.Equal(t, "mine", r.Items[0].Before)
	assert.Empty(t, r.Items[1].Before)
	assert.False(t, r.Unusable())
	assert.Equal(t, before, snapshot(t, env.Root))
	assert.NoDirExists(t, env.SpecsDir())
}

func TestTests_ExistingPageSkippedSpecStillWritten(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)
	page := filepath.Join(env.PageObjectsDir(), "login.page.ts")
	writeFile(t, page, "mine")

	r, err := Tests(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Skipped, Generated, Generated}, outcomes(r))
	assert.Equal(t, "mine", readFile(t, page))
	assert.FileExists(t, filepath.Join(env.SpecsDir(), "login.spec.ts"))
	assert.FileExists(t, filepath.Join(env.PageObjectsDir(), "page.ts"))
}

func TestTests_PlaywrightGoNameClash(t *testing.T) {
	env := newEnv(t)
	env.Settings.Target = config.TargetPlaywrightGo
	env.Settings.Paths.PageObjects = "e2e"
	env.Settings.Paths.Specs = "e2e"
	writeFile(t, filepath.Join(env.StepMapsDir(), "log-in.stepMap.json"), "{}")
	writeFile(t, filepath.Join(env.StepMapsDir(), "logIn.stepMap.json"), "{}")
	writeFile(t, filepath.Join(env.StepMapsDir(), "cart.stepMap.json"), "{}")

	r, err := Tests(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{Generated, Generated, Warned, Warned}, outcomes(r))
	assert.Contains(t, r.Items[2].Reason, "logIn")
	assert.Contains(t, r.Items[3].Reason, "log-in")
	assert.NoFileExists(t, filepath.Join(env.Root, "e2e", "log-in.page.go"))
	assert.NoFileExists(t, filepath.Join(env.Root, "e2e", "logIn.page.go"))
}

func TestTests_WdioAllowsFoldedNames(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.StepMapsDir(), "log-in.stepMap.json"), "{}")
	writeFile(t, filepath.Join(env.StepMapsDir(), "logIn.stepMap.json"), "{}")

	r, err := Tests(context.Background(), env, Options{All: true, Force: true})
	require.NoError(t, err)

	assert.Equal(t, 0, r.Count(Warned))
	assert.FileExists(t, filepath.Join(env.PageObjectsDir(), "log-in.page.ts"))
	assert.FileExists(t, filepath.Join(env.PageObjectsDir(), "logIn.page.ts"))
}

func TestReport_Unusable(t *testing.T) {
	assert.False(t, (&Report{}).Unusable())
	assert.True(t, (&Report{Items: []Item{{Outcome: Warned}, {Outcome: Failed}}}).Unusable())
	assert.False(t, (&Report{Items: []Item{{Outcome: Warned}, {Outcome: Skipped}}}).Unusable())
}

func TestLedger_RecordsWhenDirectoryExists(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)
	require.NoError(t, os.MkdirAll(filepath.Join(env.Root, ".testgen"), 0o755))

	r, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)

	sqlDB, err := db.Open(filepath.Join(env.Root, ".testgen", "testgen.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	run, ok, err := db.LatestRun(sqlDB, db.StageSteps)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r.RunID, run.UUID)

	counts, err := db.OutcomeCounts(sqlDB, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []db.OutcomeCount{{Outcome: "generated", Count: 1}}, counts)
}

func TestLedger_SkippedWithoutDirectoryOrOnDryRun(t *testing.T) {
	env := newEnv(t)
	writeFile(t, filepath.Join(env.FeaturesDir(), "login.feature"), loginFeature)

	_, err := Steps(context.Background(), env, Options{All: true})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(env.Root, ".testgen"))

	require.NoError(t, os.MkdirAll(filepath.Join(env.Root, ".testgen"), 0o755))
	_, err = Steps(context.Background(), env, Options{All: true, DryRun: true})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(env.Root, ".testgen", "testgen.db"))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "selector-aliases.json"), `{"loginButton": "#go"}`)

	env, err := Load(filepath.Join(root, "testgen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, root, env.Root)
	assert.Equal(t, "#go", env.Selectors.Aliases["loginButton"])
	assert.Equal(t, filepath.Join(root, "features"), env.FeaturesDir())
}

func TestLoad_MalformedAliasesIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "selector-aliases.json"), `["not", "an", "object"]`)

	_, err := Load(filepath.Join(root, "testgen.yaml"))
	assert.ErrorIs(t, err, config.ErrMalformedAliases)
}

func TestPageImport(t *testing.T) {
	assert.Equal(t, "../pageobjects", pageImport("test/specs", "test/pageobjects"))
	assert.Equal(t, "./pages", pageImport("e2e", "e2e/pages"))
	assert.Equal(t, ".", pageImport("e2e", "e2e"))
}

func TestWatch_RerunsOnWrite(t *testing.T) {
	env := newEnv(t)
	feature := filepath.Join(env.FeaturesDir(), "login.feature")
	writeFile(t, feature, loginFeature)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, env, Options{All: true, Force: true}, StepsStage, func(r *Report) {
			select {
			case reports <- r:
			default:
			}
		})
	}()

	select {
	case r := <-reports:
		assert.Equal(t, []Outcome{Generated}, outcomes(r))
	case <-time.After(5 * time.Second):
		t.Fatal("no initial report")
	}

	writeFile(t, feature, strings.Replace(loginFeature, "Valid login", "Renamed login", 1))

	require.Eventually(t, func() bool {
		content, err := os.ReadFile(filepath.Join(env.StepMapsDir(), "login.stepMap.json"))
		return err == nil && strings.Contains(string(content), "Renamed login")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
