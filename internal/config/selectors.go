package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedAliases is returned when the alias file exists but cannot be
// decoded. Classification must not proceed without the real alias table.
var ErrMalformedAliases = errors.New("malformed selector alias file")

// AliasTable maps a logical element name to a selector that overrides the
// synthesized data-testid selector.
type AliasTable map[string]string

// FallbackTable maps a logical element name to a comma-joined list of
// alternative selectors tried when the primary one does not resolve.
type FallbackTable map[string]string

// Selectors is the configuration value handed to the classifier. It is loaded
// once per invocation and never mutated afterwards.
type Selectors struct {
	Aliases   AliasTable
	Fallbacks FallbackTable
}

var defaultFallbacks = FallbackTable{
	"userNameField":   `#username, input[name="username"]`,
	"passwordField":   `#password, input[type="password"]`,
	"loginButton":     `#login, button[type="submit"]`,
	"countryDropdown": `#country, select[name="country"]`,
	"termsCheckbox":   `#terms, input[type="checkbox"]`,
	"link":            `a`,
	"pageTitle":       `h1, title`,
	"currentUrl":      `window.location.href`,
	"welcomeBanner":   `#welcome-message, .welcome`,
	"avatar":          `img.profile-picture`,
}

// DefaultFallbacks returns a copy of the built-in fallback table.
func DefaultFallbacks() FallbackTable {
	out := make(FallbackTable, len(defaultFallbacks))
	for k, v := range defaultFallbacks {
		out[k] = v
	}
	return out
}

// LoadAliases reads the alias file at path. A missing file yields an empty
// table; anything that is not a JSON object of strings is an error wrapping
// ErrMalformedAliases.
func LoadAliases(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return AliasTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformedAliases, path, err)
	}

	aliases := AliasTable{}
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedAliases, path, err)
	}
	return aliases, nil
}

// LoadSelectors loads the alias file and pairs it with the built-in fallbacks.
func LoadSelectors(aliasPath string) (Selectors, error) {
	aliases, err := LoadAliases(aliasPath)
	if err != nil {
		return Selectors{}, err
	}
	return Selectors{Aliases: aliases, Fallbacks: DefaultFallbacks()}, nil
}
