// Package stepmap holds the intermediate form shared by both pipeline stages:
// classified steps grouped per scenario, and its JSON file format.
package stepmap

// ActionKind names the UI action a step performs.
type ActionKind string

const (
	ActionSetValue          ActionKind = "setValue"
	ActionClick             ActionKind = "click"
	ActionHover             ActionKind = "hover"
	ActionUploadFile        ActionKind = "uploadFile"
	ActionSelectDropdown    ActionKind = "selectDropdown"
	ActionScrollTo          ActionKind = "scrollTo"
	ActionClearText         ActionKind = "clearText"
	ActionWaitForVisible    ActionKind = "waitForVisible"
	ActionAssertVisible     ActionKind = "assertVisible"
	ActionAssertText        ActionKind = "assertText"
	ActionAssertEnabled     ActionKind = "assertEnabled"
	ActionAssertDisabled    ActionKind = "assertDisabled"
	ActionAssertTitle       ActionKind = "assertTitle"
	ActionAssertURLContains ActionKind = "assertUrlContains"
	ActionUnknown           ActionKind = "unknown"
)

// Kinds lists every recognized action kind, unknown excluded.
var Kinds = []ActionKind{
	ActionSetValue,
	ActionClick,
	ActionHover,
	ActionUploadFile,
	ActionSelectDropdown,
	ActionScrollTo,
	ActionClearText,
	ActionWaitForVisible,
	ActionAssertVisible,
	ActionAssertText,
	ActionAssertEnabled,
	ActionAssertDisabled,
	ActionAssertTitle,
	ActionAssertURLContains,
}

// actionSetText is an older spelling of ActionSetValue found in existing
// step map files.
const actionSetText ActionKind = "setText"

// Canonical folds legacy spellings into their current kind.
func (k ActionKind) Canonical() ActionKind {
	if k == actionSetText {
		return ActionSetValue
	}
	return k
}

// Known reports whether k, after Canonical, is one of Kinds.
func (k ActionKind) Known() bool {
	k = k.Canonical()
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// UsesNote reports whether the kind consumes the step's quoted literal.
func (k ActionKind) UsesNote() bool {
	switch k {
	case ActionSetValue, ActionSelectDropdown, ActionUploadFile,
		ActionAssertText, ActionAssertTitle, ActionAssertURLContains:
		return true
	}
	return false
}

// ActionDescriptor is the classification of one step.
type ActionDescriptor struct {
	Action           ActionKind `json:"action"`
	SelectorName     string     `json:"selectorName"`
	Selector         string     `json:"selector"`
	FallbackSelector string     `json:"fallbackSelector"`
	Note             string     `json:"note"`
}

// Scenario is the parser's view of one scenario: a name and its step
// sentences in document order.
type Scenario struct {
	Name  string
	Steps []string
}

// Classifier turns one step sentence into a descriptor. It must not fail.
type Classifier interface {
	Classify(text string) ActionDescriptor
}
