package deactivation

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptConfirmerAnswers(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"", true},
		{"yes\n", true},
		{"Y\n", true},
		{"no\n", false},
		{"  N \n", false},
		{"maybe\nno\n", false},
		{"nope\n", false},
		{"maybe", false},
		{"cancel", false},
		{"perhaps\n\n", true},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got, err := NewPromptConfirmer(strings.NewReader(tc.input), &out).Confirm(context.Background(), "Proceed?", true)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Contains(t, out.String(), "Proceed? (yes/no) [yes]")
	}
}

func TestPromptConfirmerRepromptsOnGarbage(t *testing.T) {
	var out bytes.Buffer

	got, err := NewPromptConfirmer(strings.NewReader("perhaps\nyes\n"), &out).Confirm(context.Background(), "Proceed?", false)

	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 2, strings.Count(out.String(), "[no]"))
	assert.Contains(t, out.String(), "Please answer yes or no.")
}

func TestPromptConfirmerDefaultNo(t *testing.T) {
	got, err := NewPromptConfirmer(strings.NewReader(""), &bytes.Buffer{}).Confirm(context.Background(), "Proceed?", false)

	require.NoError(t, err)
	assert.False(t, got)
}
