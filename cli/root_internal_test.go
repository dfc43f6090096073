package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_formatExamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		examples    []example
		wantMatches []string
	}{
		{
			name:        "No examples",
			examples:    nil,
			wantMatches: nil,
		},
		{
			name: "Output examples",
			examples: []example{
				{
					Description: "Hello world.",
					Command:     "echo hello",
				},
				{
					Description: "Bye bye.",
					Command:     "echo bye",
				},
			},
			wantMatches: []string{
				"Hello world", "echo hello",
				"Bye bye", "echo bye",
			},
		},
		{
			name: "No description outputs commands",
			examples: []example{
				{
					Command: "echo hello",
				},
			},
			wantMatches: []string{
				"echo hello",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatExamples(tt.examples...)
			if len(tt.wantMatches) == 0 {
				require.Empty(t, got)
			} else {
				for _, want := range tt.wantMatches {
					require.Contains(t, got, want)
				}
			}
		})
	}
}

func Test_outputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "icon.svg", want: "icon.icns"},
		{input: "logo.svgz", want: "logo.icns"},
		{input: "/deep/tree/app.svg", want: "app.icns"},
		{input: "rel/to/here.svg", want: "here.icns"},
		{input: "dark.icon.svg", want: "dark.icns"},
		{input: "noextension", want: "noextension.icns"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, outputName(tt.input))
		})
	}
}

// Test_helpFn renders the embedded usage template against the real root
// command so template regressions fail loudly.
func Test_helpFn(t *testing.T) {
	t.Parallel()

	var r RootCmd
	inv := r.Command().Invoke()
	var buf bytes.Buffer
	inv.Stdout = &buf

	err := helpFn()(inv)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "svg2icns")
	require.Contains(t, out, "USAGE:")
	require.Contains(t, out, "OPTIONS:")
	require.Contains(t, out, "$SVG2ICNS_VERBOSE")
	require.Contains(t, out, "$SVG2ICNS_LENIENT")
	require.NotContains(t, out, "SUBCOMMANDS:")
}
