// Package scrapeerr holds the error taxonomy shared by the localizer, the
// field decoders, the page fetcher and the pipeline. Every type is meant to be
// matched with errors.As after any amount of %w wrapping.
package scrapeerr

import (
	"fmt"
	"strings"
)

// ConfigError means a locale definition or run configuration could not be
// loaded. It is fatal: no field can be decoded without a locale.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SelectorError means a required element was absent or ambiguous.
type SelectorError struct {
	Selector string
	// Found is the number of matched nodes, anything other than 1 is an error.
	Found int
	// Attr is set when the node was found but lacked a required attribute.
	Attr string
}

func (e *SelectorError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("selector `%s`: missing attribute `%s`", e.Selector, e.Attr)
	}
	if e.Found == 0 {
		return fmt.Sprintf("selector `%s`: expected one node, got nothing", e.Selector)
	}
	return fmt.Sprintf("selector `%s`: expected one node, got %d", e.Selector, e.Found)
}

// DecodeError means a resolved string does not map to any canonical key.
type DecodeError struct {
	Field  string
	Value  string
	Reason string
	// Suggestion is the closest known label, if any.
	Suggestion string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "decode %s `%s`", e.Field, e.Value)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (closest label: `%s`)", e.Suggestion)
	}
	return b.String()
}

// TransportError is a network or HTTP status failure.
type TransportError struct {
	URL string
	// Status is the last HTTP status seen, 0 when no response was received.
	Status int
	// Attempts is the number of requests issued before giving up.
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GET %s", e.URL)
	if e.Attempts > 1 {
		fmt.Fprintf(&b, ": failed after %d attempts", e.Attempts)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FieldError attributes a selector or decode failure to one card field.
type FieldError struct {
	CardID string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("card `%s`: field %s: %v", e.CardID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnitError is a failed unit of work inside the pipeline.
type UnitError struct {
	Stage string
	Key   string
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s `%s`: %v", e.Stage, e.Key, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
