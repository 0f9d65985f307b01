package parser

// ParsedFile is the Layer 2 application model extracted from the AST.
type ParsedFile struct {
	Name string
	// Background steps are kept apart; they are not folded into scenarios.
	Background []string
	Scenarios  []ParsedScenario
	Errors     []ParseError
}

// ParsedScenario is one scenario with its step texts in document order,
// keywords removed.
type ParsedScenario struct {
	Name  string
	Steps []string
	Tags  []string
	Line  int // 1-based line number of Scenario: line
}

// Transform converts a Layer 1 Document into a Layer 2 ParsedFile.
func Transform(doc *Document, filename string, errors []ParseError) *ParsedFile {
	pf := &ParsedFile{
		Errors: errors,
	}

	if doc.Feature == nil {
		pf.Name = filenameWithoutExt(filename)
		return pf
	}
	pf.Name = doc.Feature.Header.Name

	if bg := doc.Feature.Background; bg != nil {
		pf.Background = stepTexts(bg.StepGroups)
	}

	for _, sd := range doc.Feature.Scenarios {
		ps := ParsedScenario{
			Name:  sd.Scenario.Name,
			Steps: stepTexts(sd.Scenario.StepGroups),
			Line:  sd.Line,
		}
		for _, tag := range sd.Tags {
			ps.Tags = append(ps.Tags, tag.Name)
		}
		pf.Scenarios = append(pf.Scenarios, ps)
	}

	return pf
}

// ParseFile parses content and transforms it in one step.
func ParseFile(filename string, content []byte) *ParsedFile {
	doc, errors := Parse(filename, content)
	return Transform(doc, filename, errors)
}

func stepTexts(groups []StepGroup) []string {
	texts := []string{}
	for _, g := range groups {
		texts = append(texts, g.Step.Text)
		for _, alt := range g.AltSteps {
			texts = append(texts, alt.Text)
		}
	}
	return texts
}
