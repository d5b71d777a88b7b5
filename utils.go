package scriptgate

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnsureUVInstalled returns the path of the uv binary, installing uv first
// when it cannot be found. The installer drops uv into the user's home,
// which is often not on PATH, so those locations are checked as well.
func EnsureUVInstalled() (string, error) {
	if path, err := findUV(); err == nil {
		return path, nil
	}

	if zlog != nil {
		zlog.Info().Msg("uv not found, attempting to install.")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux", "darwin":
		cmd = exec.Command("sh", "-c", "curl -LsSf https://astral.sh/uv/install.sh | sh")
	case "windows":
		cmd = exec.Command("powershell", "-Command", "irm https://astral.sh/uv/install.ps1 | iex")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to install uv: %w", err)
	}

	path, err := findUV()
	if err != nil {
		return "", fmt.Errorf("uv installed but not found: %w", err)
	}
	if zlog != nil {
		zlog.Info().Str("path", path).Msg("uv installed successfully.")
	}
	return path, nil
}

// findUV looks for uv on PATH, then in the installer's default locations.
func findUV() (string, error) {
	path, err := exec.LookPath("uv")
	if err == nil {
		return path, nil
	}
	home, herr := os.UserHomeDir()
	if herr != nil {
		return "", err
	}
	name := "uv"
	if runtime.GOOS == "windows" {
		name = "uv.exe"
	}
	for _, dir := range []string{
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, ".cargo", "bin"),
	} {
		if p := filepath.Join(dir, name); fileExists(p) {
			return p, nil
		}
	}
	return "", err
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
