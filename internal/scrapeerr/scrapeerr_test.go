package scrapeerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsAs(t *testing.T) {
	inner := &DecodeError{Field: "rarity", Value: "XX"}
	wrapped := fmt.Errorf("pack 569101: %w", &UnitError{
		Stage: "cards",
		Key:   "569101",
		Err: &FieldError{
			CardID: "OP01-001",
			Field:  "rarity",
			Err:    inner,
		},
	})

	var decodeErr *DecodeError
	require.True(t, errors.As(wrapped, &decodeErr))
	require.Equal(t, "XX", decodeErr.Value)

	var fieldErr *FieldError
	require.True(t, errors.As(wrapped, &fieldErr))
	require.Equal(t, "OP01-001", fieldErr.CardID)

	var transportErr *TransportError
	require.False(t, errors.As(wrapped, &transportErr))
}

func TestMessages(t *testing.T) {
	table := []struct {
		err      error
		expected string
	}{
		{
			err:      &SelectorError{Selector: "dt>div.cardName"},
			expected: "selector `dt>div.cardName`: expected one node, got nothing",
		},
		{
			err:      &SelectorError{Selector: "dd>div.backCol>div.trigger", Found: 2},
			expected: "selector `dd>div.backCol>div.trigger`: expected one node, got 2",
		},
		{
			err:      &SelectorError{Selector: "dd>div.frontCol>img", Found: 1, Attr: "data-src"},
			expected: "selector `dd>div.frontCol>img`: missing attribute `data-src`",
		},
		{
			err:      &DecodeError{Field: "color", Value: "Rot", Reason: "unknown label", Suggestion: "Rouge"},
			expected: "decode color `Rot`: unknown label (closest label: `Rouge`)",
		},
		{
			err:      &TransportError{URL: "https://example.com/a.png", Status: 503, Attempts: 3},
			expected: "GET https://example.com/a.png: failed after 3 attempts: HTTP 503",
		},
	}

	for _, row := range table {
		require.Equal(t, row.expected, row.err.Error())
	}
}
