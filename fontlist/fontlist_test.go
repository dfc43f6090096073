package fontlist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/xerrors"

	"github.com/coder/svg2icns/fontlist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// The machine running tests may have any number of fonts installed,
// including none, so assertions stick to structural invariants.

func TestList(t *testing.T) {
	t.Parallel()

	faces := fontlist.List()
	seen := make(map[string]struct{})
	prev := ""
	for _, face := range faces {
		require.NotEmpty(t, face.Family)
		require.NotEmpty(t, face.Style)
		require.NotEmpty(t, face.Sizes)
		// Sizes come from the shared ladder and must be ascending.
		for i := 1; i < len(face.Sizes); i++ {
			require.Greater(t, face.Sizes[i], face.Sizes[i-1])
		}

		key := face.Family + "\x00" + face.Style
		_, dup := seen[key]
		require.False(t, dup, "duplicate face %s %s", face.Family, face.Style)
		seen[key] = struct{}{}

		require.LessOrEqual(t, prev, key, "faces must be sorted")
		prev = key
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	fontlist.Dump(&sb)

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Equal(t, "Font\t|\tSmooth Sizes", lines[0])
	require.Len(t, lines, len(fontlist.List())+1)
	for _, line := range lines[1:] {
		require.Equal(t, 3, len(strings.Split(line, "\t|\t")), "line %q", line)
	}

	// The dump is stable across calls.
	var again strings.Builder
	fontlist.Dump(&again)
	require.Equal(t, sb.String(), again.String())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, xerrors.New("closed")
}

func TestDumpWriteFailure(t *testing.T) {
	t.Parallel()

	// Diagnostics must never take the run down with them.
	require.NotPanics(t, func() {
		fontlist.Dump(errWriter{})
	})
}
