package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent mapping and rendering failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDocumentNotFound indicates no document exists for a slug.
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

	// ErrMalformedDocument indicates frontmatter or body could not be parsed.
	// Rendering degrades to a raw passthrough.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNoRuleMatched indicates a rule set without a fallback rule.
	// This is a configuration defect, reported when the rule set is built.
	ErrNoRuleMatched = errors.New("no rule matched")

	// ErrComponentNotFound indicates a rule names an unregistered component.
	ErrComponentNotFound = errors.New("component not found")

	// ErrDynamicProps indicates a dynamic props function failed.
	ErrDynamicProps = errors.New("dynamic props failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates an invalid chapter configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSearchUnavailable indicates the search index is not configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")
)

// ConfigError describes a rule set or chapter configuration defect.
type ConfigError struct {
	// Chapter is the chapter slug, empty for the default config.
	Chapter string

	// Rule is the offending rule name, if any.
	Rule string

	// Reason is a human readable description.
	Reason string

	// Err is the underlying sentinel.
	Err error
}

func (e *ConfigError) Error() string {
	where := "default config"
	if e.Chapter != "" {
		where = "chapter " + e.Chapter
	}
	if e.Rule != "" {
		where += ", rule " + e.Rule
	}
	return fmt.Sprintf("%s: %s: %v", where, e.Reason, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ComponentNotFoundError names the missing component.
type ComponentNotFoundError struct {
	Name string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %q not found", e.Name)
}

func (e *ComponentNotFoundError) Unwrap() error { return ErrComponentNotFound }

// DynamicPropsError wraps a failing or panicking props function.
type DynamicPropsError struct {
	Rule    string
	BlockID string
	Cause   error
}

func (e *DynamicPropsError) Error() string {
	return fmt.Sprintf("dynamic props for rule %q on block %s: %v", e.Rule, e.BlockID, e.Cause)
}

// Unwrap exposes both the sentinel and the cause.
func (e *DynamicPropsError) Unwrap() []error {
	return []error{ErrDynamicProps, e.Cause}
}
