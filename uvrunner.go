package scriptgate

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// UVRunner runs scripts through uv so that inline script dependencies are
// resolved before the interpreter starts.
type UVRunner struct {
	// Command is the uv binary; empty means "uv" from PATH.
	Command    string
	ScriptDirs []string
}

// NewUVRunner returns a runner that looks for scripts in dirs.
// It does not install uv; see EnsureUVInstalled.
func NewUVRunner(dirs ...string) *UVRunner {
	return &UVRunner{ScriptDirs: dirs}
}

func (r *UVRunner) Run(ctx context.Context, script string) (*Result, error) {
	uv := r.Command
	if uv == "" {
		uv = "uv"
	}

	cmd := exec.Command(uv, "run", "--", "python", "-u", script)
	cmd.Dir = scriptDir(r.ScriptDirs, script)
	zerolog.Ctx(ctx).Info().Str("cmd", cmd.String()).Str("dir", cmd.Dir).Msg("Executing command")

	res, err := runCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start script '%s' (in dir %s): %w", script, cmd.Dir, err)
	}
	return res, nil
}
