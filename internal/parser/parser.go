package parser

import (
	"regexp"
	"strings"
)

var (
	tagPattern  = regexp.MustCompile(`@[^@\s]+`)
	stepPattern = regexp.MustCompile(`^(Given|When|Then|And|But|\*)\s+(.*)$`)
)

// Parse parses a .feature file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	var errors []ParseError

	doc := &Document{}
	feature := &Feature{}
	doc.Feature = feature

	i := 0

	// Skip leading blanks and comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		break
	}

	var featureTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if isTagLine(trimmed) {
			featureTags = append(featureTags, parseTags(trimmed)...)
			i++
			continue
		}
		break
	}

	feature.Header.Name = filenameWithoutExt(filename)
	feature.Header.Tags = featureTags
	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "Feature:") {
		if name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "Feature:")); name != "" {
			feature.Header.Name = name
		}
		i++
		var descLines []string
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i])
			if isKeyword(trimmed) || isTagLine(trimmed) {
				break
			}
			descLines = append(descLines, lines[i])
			i++
		}
		feature.Header.Description = joinDescription(descLines)
	}

	var pendingTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		if isDocStringDelimiter(trimmed) {
			i, _ = readDocString(lines, i)
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		if isTagLine(trimmed) {
			pendingTags = append(pendingTags, parseTags(trimmed)...)
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "Background:") {
			pendingTags = nil // Background doesn't get tags
			bg := &Background{}
			i++
			bg.Description, bg.StepGroups, i = readBlock(lines, i)
			feature.Background = bg
			continue
		}

		if name, ok := scenarioName(trimmed); ok {
			sd := ScenarioDefinition{
				Tags:     pendingTags,
				Scenario: Scenario{Name: name},
				Line:     i + 1,
			}
			pendingTags = nil
			i++
			sd.Scenario.Description, sd.Scenario.StepGroups, i = readBlock(lines, i)
			feature.Scenarios = append(feature.Scenarios, sd)
			continue
		}

		if msg, ok := unsupported(trimmed); ok {
			errors = append(errors, ParseError{Line: i + 1, Message: msg})
			pendingTags = nil
			i++
			_, _, i = readBlock(lines, i)
			continue
		}

		// Stray content outside any block
		i++
	}

	return doc, errors
}

// readBlock reads the description and steps of a Background or Scenario body
// starting at line i, stopping at the next keyword, a tag line that belongs
// to the next block, or EOF.
func readBlock(lines []string, i int) (string, []StepGroup, int) {
	var descLines []string
	var groups []StepGroup
	var last *Step

	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		if isDocStringDelimiter(trimmed) {
			var ds *DocString
			i, ds = readDocString(lines, i)
			if last != nil {
				last.argument().DocString = ds
			}
			continue
		}
		if isKeyword(trimmed) {
			break
		}
		if isTagLine(trimmed) && tagPrecedesKeyword(lines, i) {
			break
		}
		if strings.HasPrefix(trimmed, "|") {
			if last != nil {
				addTableRow(last.argument(), trimmed)
			}
			i++
			continue
		}
		if m := stepPattern.FindStringSubmatch(trimmed); m != nil {
			step := Step{Keyword: m[1], Text: strings.TrimSpace(m[2]), Line: i + 1}
			if isConjunction(step.Keyword) && len(groups) > 0 {
				g := &groups[len(groups)-1]
				g.AltSteps = append(g.AltSteps, step)
				last = &g.AltSteps[len(g.AltSteps)-1]
			} else {
				groups = append(groups, StepGroup{Step: step})
				last = &groups[len(groups)-1].Step
			}
			i++
			continue
		}
		if len(groups) == 0 && trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			descLines = append(descLines, lines[i])
		}
		i++
	}
	return joinDescription(descLines), groups, i
}

func (s *Step) argument() *StepArgument {
	if s.Argument == nil {
		s.Argument = &StepArgument{}
	}
	return s.Argument
}

func addTableRow(arg *StepArgument, line string) {
	line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	var cells []string
	for _, c := range strings.Split(line, "|") {
		cells = append(cells, strings.TrimSpace(c))
	}
	if arg.DataTable == nil {
		arg.DataTable = &DataTable{HeaderRow: cells}
		return
	}
	arg.DataTable.Rows = append(arg.DataTable.Rows, cells)
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isConjunction(keyword string) bool {
	return keyword == "And" || keyword == "But" || keyword == "*"
}

func scenarioName(trimmed string) (string, bool) {
	for _, kw := range []string{"Scenario:", "Example:"} {
		if strings.HasPrefix(trimmed, kw) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, kw)), true
		}
	}
	return "", false
}

func unsupported(trimmed string) (string, bool) {
	switch {
	case strings.HasPrefix(trimmed, "Scenario Outline:"), strings.HasPrefix(trimmed, "Scenario Template:"):
		return "Scenario Outline is not supported", true
	case strings.HasPrefix(trimmed, "Rule:"):
		return "Rule is not supported", true
	case strings.HasPrefix(trimmed, "Examples:"), strings.HasPrefix(trimmed, "Scenarios:"):
		return "Examples is not supported", true
	}
	return "", false
}

func isKeyword(trimmed string) bool {
	if _, ok := scenarioName(trimmed); ok {
		return true
	}
	if _, ok := unsupported(trimmed); ok {
		return true
	}
	return strings.HasPrefix(trimmed, "Feature:") || strings.HasPrefix(trimmed, "Background:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// readDocString reads a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func readDocString(lines []string, i int) (int, *DocString) {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	ds := &DocString{MediaType: strings.TrimSpace(strings.TrimPrefix(opener, delimiter))}
	i++ // move past opening delimiter
	var body []string
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			ds.Content = strings.Join(body, "\n")
			return i + 1, ds
		}
		body = append(body, strings.TrimSpace(lines[i]))
		i++
	}
	ds.Content = strings.Join(body, "\n")
	return i, ds // EOF without closing delimiter
}

// tagPrecedesKeyword checks if a tag line at index i is followed by a block keyword.
func tagPrecedesKeyword(lines []string, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "#") || isTagLine(t) {
			continue
		}
		return isKeyword(t)
	}
	return false
}

func joinDescription(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
