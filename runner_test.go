package scriptgate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestInterpreterRunner(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ok.sh", "printf 'out'\nprintf 'err' >&2\n")
	writeScript(t, dir, "fail.sh", "printf 'out'\nprintf 'err' >&2\nexit 7\n")
	writeScript(t, dir, "cwd.sh", "pwd\n")

	runner := NewInterpreterRunner("sh", dir)

	t.Run("NormalExecution", func(t *testing.T) {
		res, err := runner.Run(context.Background(), "ok.sh")
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Equal(t, "out", res.Stdout)
		assert.Equal(t, "err", res.Stderr)
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		res, err := runner.Run(context.Background(), "fail.sh")
		require.NoError(t, err)
		assert.False(t, res.Succeeded())
		assert.Equal(t, 7, res.ExitCode)
		assert.Equal(t, "out", res.Stdout)
		assert.Equal(t, "err", res.Stderr)
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		res, err := runner.Run(context.Background(), "cwd.sh")
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(filepath.Clean(res.Stdout[:len(res.Stdout)-1]))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("ScriptNotFound", func(t *testing.T) {
		res, err := runner.Run(context.Background(), "non_existent_script.sh")
		require.NoError(t, err)
		assert.False(t, res.Succeeded())
		assert.NotEmpty(t, res.Stderr)
	})

	t.Run("InterpreterNotFound", func(t *testing.T) {
		_, err := NewInterpreterRunner("scriptgate-no-such-interpreter", dir).Run(context.Background(), "ok.sh")
		assert.Error(t, err)
	})
}

func TestScriptDir(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeScript(t, second, "only_second.sh", "true\n")
	writeScript(t, first, "both.sh", "true\n")
	writeScript(t, second, "both.sh", "true\n")

	assert.Equal(t, second, scriptDir([]string{first, second}, "only_second.sh"))
	assert.Equal(t, first, scriptDir([]string{first, second}, "both.sh"))
	assert.Equal(t, first, scriptDir([]string{first, second}, "missing.sh"))
	assert.Equal(t, ".", scriptDir(nil, "missing.sh"))
}

func TestGetPythonCommand(t *testing.T) {
	assert.Equal(t, "custom-python", getPythonCommand("custom-python"))

	t.Setenv("PYTHON_COMMAND", "sh")
	assert.Equal(t, "sh", getPythonCommand(""))

	t.Setenv("PYTHON_COMMAND", "scriptgate-no-such-interpreter")
	assert.NotEqual(t, "scriptgate-no-such-interpreter", getPythonCommand(""))
}
