package count

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newCountCommand(fs)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCountCommand(t *testing.T) {
	t.Run("should count words of the input directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/opt/ml/processing/input/data/part-0.txt", []byte("the quick brown fox"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/opt/ml/processing/input/data/nested/part-1.txt", []byte("jumps\nover"), 0o644))

		out, err := run(t, fs, "")

		require.NoError(t, err)
		assert.Equal(t, "Word count: 6\n", out)
		content, err := afero.ReadFile(fs, "/opt/ml/processing/output/result.txt")
		require.NoError(t, err)
		assert.Contains(t, string(content), "Word count: 6")
	})
	t.Run("should read stdin when input is dash", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		out, err := run(t, fs, "the quick brown fox", "--input", "-", "--output", "/tmp/out/result.txt")

		require.NoError(t, err)
		assert.Equal(t, "Word count: 4\n", out)
		content, err := afero.ReadFile(fs, "/tmp/out/result.txt")
		require.NoError(t, err)
		assert.Contains(t, string(content), "Word count: 4")
	})
	t.Run("should fail when input does not exist", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		_, err := run(t, fs, "", "--input", "/missing")

		assert.Error(t, err)
		exists, _ := afero.Exists(fs, defaultOutput)
		assert.False(t, exists)
	})
}
