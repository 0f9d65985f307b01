package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/chriserin/testgen/pkg/logging"
)

// selection is the outcome of resolving --all and --file against a
// directory.
type selection struct {
	paths   []string
	missing []string
}

// selectInputs resolves opts against dir. --all takes every file in dir
// ending in suffix that the ignore file does not exclude, sorted by name.
// --file names are relative to dir; the suffix is appended when absent.
func (e *Env) selectInputs(dir, suffix string, opts Options) selection {
	var sel selection
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			sel.paths = append(sel.paths, p)
		}
	}

	if opts.All {
		matcher := e.ignoreMatcher()
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			logging.Warn("pipeline", "reading %s: %v", dir, err)
		}
		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, suffix) {
				continue
			}
			if matcher != nil && matcher.MatchesPath(name) {
				logging.Debug("pipeline", "ignoring %s", name)
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(dir, name))
		}
	}

	for _, f := range opts.Files {
		p := resolveName(dir, f, suffix)
		if _, err := os.Stat(p); err != nil {
			sel.missing = append(sel.missing, p)
			continue
		}
		add(p)
	}
	return sel
}

// resolveName maps a --file argument to a path under dir.
func resolveName(dir, name, suffix string) string {
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}
	if filepath.IsAbs(name) || strings.HasPrefix(filepath.Clean(name), filepath.Clean(dir)+string(filepath.Separator)) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}

func (e *Env) ignoreMatcher() *ignore.GitIgnore {
	path := e.Path(e.Settings.Paths.Ignore)
	m, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("pipeline", "reading ignore file %s: %v", path, err)
		}
		return nil
	}
	return m
}
