package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripAnnotations(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "<h3>Cost</h3>5", expected: "5"},
		{input: "  <h3>Color</h3>Red/Green ", expected: "Red/Green"},
		{input: "2<span class=\"ruby\">に</span>", expected: "2"},
		{input: "[On Play]<br>Draw 1 card.", expected: "[On Play]<br>Draw 1 card."},
		{input: "no tags", expected: "no tags"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, StripAnnotations(row.input))
	}
}

func TestNormalize(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "<h3>Power</h3>５０００", expected: "5000"},
		{input: "<h3>Power</h3>1,000", expected: "1000"},
		{input: "<h3>Counter</h3> 2 000 ", expected: "2000"},
		{input: "<h3>Cost</h3>－", expected: "-"},
		{input: "ＯＰ０１", expected: "OP01"},
		{input: "<h3>Color</h3>Red&#47;Green", expected: "Red/Green"},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, Normalize(row.input))
	}
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "Straw Hat Crew/Supernovas", PlainText("<h3>Type</h3>Straw Hat Crew/Supernovas"))
	require.Equal(t, "Land of Wano & Kid Pirates", PlainText("Land of Wano &amp; Kid Pirates"))
}

func TestDigits(t *testing.T) {
	require.Equal(t, "1000", Digits("カウンター1000"))
	require.Equal(t, "", Digits("-"))
	require.Equal(t, "123", Digits("1a2b3"))
}

func TestIsUnsetSentinel(t *testing.T) {
	require.True(t, IsUnsetSentinel("-"))
	require.True(t, IsUnsetSentinel("–"))
	require.False(t, IsUnsetSentinel(""))
	require.False(t, IsUnsetSentinel("0"))
}
