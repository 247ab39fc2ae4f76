package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTerm(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "fall to spring increments year", input: "Fall 2026", want: "Spring 2027"},
		{name: "spring to summer keeps year", input: "Spring 2027", want: "Summer 2027"},
		{name: "summer to fall keeps year", input: "Summer 2027", want: "Fall 2027"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextTerm(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTermInvalid(t *testing.T) {
	_, _, err := ParseTerm("Winter 2026")
	require.Error(t, err)

	_, _, err = ParseTerm("Fall notayear")
	require.Error(t, err)

	_, _, err = ParseTerm("Fall")
	require.Error(t, err)
}

func TestNextTermFullCycle(t *testing.T) {
	label := "Fall 2026"
	for i := 0; i < 3; i++ {
		next, err := NextTerm(label)
		require.NoError(t, err)
		label = next
	}
	assert.Equal(t, "Fall 2027", label)
}
