package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Morgan", "Morgan"},                 // single-part name
		{"Jordan Lee", "Jordan L"},           // standard two-part name
		{"Jordan Avery Lee", "Jordan L"},     // three parts, uses last
		{"  Riley  ", "Riley"},               // leading/trailing spaces
		{"Casey   Ng", "Casey N"},            // multiple spaces
		{"(Taylor) Quinn", "Taylor Q"},       // parentheses
		{"Anne-Marie Smith", "Anne-Marie S"}, // hyphen kept
		{"O'Neill Sam", "O'Neill S"},         // apostrophe kept
		{"Hans Müller", "Hans M"},            // unicode initial
		{"", ""},                             // empty
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbbreviateName(tt.name))
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want AdoptionStatus
		ok   bool
	}{
		{"Growing", StatusGrowing, true},
		{"growing", StatusGrowing, true},
		{"Stagnant/Declining", StatusStagnant, true},
		{"stagnant", StatusStagnant, true},
		{"Full Adopter", StatusFullAdopter, true},
		{"not-enough-data", StatusNotEnoughData, true},
		{" indeterminate ", StatusIndeterminate, true},
		{"shrinking", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
