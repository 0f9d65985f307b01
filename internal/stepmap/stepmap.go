package stepmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileSuffix is appended to a feature's base name to form its step map file.
const FileSuffix = ".stepMap.json"

// StepMap maps scenario names to their classified steps, keeping scenarios in
// the order they were first added.
type StepMap struct {
	scenarios *orderedmap.OrderedMap[string, []ActionDescriptor]
}

// New returns an empty StepMap.
func New() *StepMap {
	return &StepMap{scenarios: orderedmap.New[string, []ActionDescriptor]()}
}

// Set stores steps under name. An existing name keeps its position and has
// its steps replaced.
func (sm *StepMap) Set(name string, steps []ActionDescriptor) {
	if steps == nil {
		steps = []ActionDescriptor{}
	}
	if sm.scenarios == nil {
		sm.scenarios = orderedmap.New[string, []ActionDescriptor]()
	}
	sm.scenarios.Set(name, steps)
}

// Get returns the steps recorded for name.
func (sm *StepMap) Get(name string) ([]ActionDescriptor, bool) {
	if sm.scenarios == nil {
		return nil, false
	}
	return sm.scenarios.Get(name)
}

// Len returns the number of scenarios.
func (sm *StepMap) Len() int {
	if sm.scenarios == nil {
		return 0
	}
	return sm.scenarios.Len()
}

// Names returns scenario names in document order.
func (sm *StepMap) Names() []string {
	names := make([]string, 0, sm.Len())
	sm.Each(func(name string, _ []ActionDescriptor) { names = append(names, name) })
	return names
}

// Each calls fn for every scenario in document order.
func (sm *StepMap) Each(fn func(name string, steps []ActionDescriptor)) {
	if sm.scenarios == nil {
		return
	}
	for pair := sm.scenarios.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// StepCount returns the total number of steps across all scenarios.
func (sm *StepMap) StepCount() int {
	n := 0
	sm.Each(func(_ string, steps []ActionDescriptor) { n += len(steps) })
	return n
}

// Assemble classifies every step of every scenario in document order. A
// scenario name seen twice keeps its first position and the later scenario's
// steps.
func Assemble(scenarios []Scenario, c Classifier) *StepMap {
	sm := New()
	for _, sc := range scenarios {
		steps := make([]ActionDescriptor, 0, len(sc.Steps))
		for _, text := range sc.Steps {
			steps = append(steps, c.Classify(text))
		}
		sm.Set(sc.Name, steps)
	}
	return sm
}

// MarshalJSON writes scenarios in document order without HTML escaping so
// selectors such as "ul > li" stay readable in the file.
func (sm *StepMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	sm.Each(func(name string, steps []ActionDescriptor) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = encodeCompact(&buf, name); err != nil {
			return
		}
		buf.WriteByte(':')
		err = encodeCompact(&buf, steps)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads scenarios preserving their order in data.
func (sm *StepMap) UnmarshalJSON(data []byte) error {
	scenarios := orderedmap.New[string, []ActionDescriptor]()
	if err := json.Unmarshal(data, scenarios); err != nil {
		return err
	}
	for pair := scenarios.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			pair.Value = []ActionDescriptor{}
		}
	}
	sm.scenarios = scenarios
	return nil
}

func encodeCompact(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Marshal renders sm as two-space indented JSON followed by a newline. Equal
// step maps always produce identical bytes.
func Marshal(sm *StepMap) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sm); err != nil {
		return nil, fmt.Errorf("encoding step map: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a step map file.
func Unmarshal(data []byte) (*StepMap, error) {
	sm := New()
	if err := json.Unmarshal(data, sm); err != nil {
		return nil, fmt.Errorf("decoding step map: %w", err)
	}
	return sm, nil
}

// FileName returns the step map file name for a feature base name.
func FileName(base string) string {
	return base + FileSuffix
}

// BaseName strips directories and the step map suffix from path.
func BaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), FileSuffix)
}
