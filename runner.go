package scriptgate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Runner executes a named script and reports its captured output.
// A non-zero exit status is reported through Result, not as an error;
// the error is reserved for failing to start or wait on the process.
// ctx carries the request logger; it does not bound the process lifetime.
type Runner interface {
	Run(ctx context.Context, script string) (*Result, error)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// scriptDir returns the first directory in dirs that contains scriptName.
// When none does, the first directory is returned so the interpreter itself
// reports the missing file on stderr.
func scriptDir(dirs []string, scriptName string) string {
	for _, dir := range dirs {
		if fileExists(filepath.Join(dir, scriptName)) {
			return dir
		}
	}
	if len(dirs) > 0 {
		return dirs[0]
	}
	return "."
}

// getPythonCommand returns the interpreter to use.
// An explicitly configured command wins, then the PYTHON_COMMAND environment
// variable, then python3, then python.
func getPythonCommand(configured string) string {
	if configured != "" {
		return configured
	}

	if pythonCmd := os.Getenv("PYTHON_COMMAND"); pythonCmd != "" {
		if _, err := exec.LookPath(pythonCmd); err == nil {
			return pythonCmd
		}
		if zlog != nil {
			zlog.Warn().Str("command", pythonCmd).Msg("PYTHON_COMMAND set but command not found, trying defaults")
		}
	}

	if _, err := exec.LookPath("python3"); err == nil {
		return "python3"
	}
	if _, err := exec.LookPath("python"); err == nil {
		return "python"
	}

	// let exec fail later with a clear error
	return "python3"
}

// runCommand runs cmd to completion and captures stdout and stderr as text.
func runCommand(cmd *exec.Cmd) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

// InterpreterRunner runs scripts as "<interpreter> <script>".
type InterpreterRunner struct {
	Interpreter string
	ScriptDirs  []string
}

// NewInterpreterRunner resolves the interpreter and returns a runner that
// looks for scripts in dirs.
func NewInterpreterRunner(interpreter string, dirs ...string) *InterpreterRunner {
	return &InterpreterRunner{
		Interpreter: getPythonCommand(interpreter),
		ScriptDirs:  dirs,
	}
}

// Run spawns the interpreter on script and blocks until it exits.
// There is no timeout and the child is not tied to the caller's lifetime.
func (r *InterpreterRunner) Run(ctx context.Context, script string) (*Result, error) {
	cmd := exec.Command(r.Interpreter, script)
	cmd.Dir = scriptDir(r.ScriptDirs, script)
	zerolog.Ctx(ctx).Debug().Str("cmd", cmd.String()).Str("dir", cmd.Dir).Msg("Executing command")
	return runCommand(cmd)
}
