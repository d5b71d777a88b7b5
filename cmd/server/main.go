package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liuzl/scriptgate"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	addr        string
	staticDir   string
	scriptDirs  []string
	interpreter string
	runner      string
	allow       []string
)

var rootCmd = &cobra.Command{
	Use:   "scriptgate",
	Short: "Serve a static page and run allow-listed scripts over HTTP",
	Long: `scriptgate serves static/index.html at / and runs allow-listed scripts
on POST /run with a body like {"script": "script.py"}.`,
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	f.StringVar(&addr, "addr", "", "address to listen on (default 0.0.0.0:10000)")
	f.StringVar(&staticDir, "static", "", "directory holding index.html (default static)")
	f.StringSliceVar(&scriptDirs, "scripts", nil, "directories searched for scripts (default .)")
	f.StringVar(&interpreter, "interpreter", "", "interpreter command (default python3, or $PYTHON_COMMAND)")
	f.StringVar(&runner, "runner", "", "runner to use: python or uv")
	f.StringSliceVar(&allow, "allow", nil, "allowed script names (default script.py)")
}

// loadConfig merges file, environment and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*scriptgate.Config, error) {
	cfg, err := scriptgate.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr = addr
	}
	if f.Changed("static") {
		cfg.StaticDir = staticDir
	}
	if f.Changed("scripts") {
		cfg.ScriptDirs = scriptDirs
	}
	if f.Changed("interpreter") {
		cfg.Interpreter = interpreter
	}
	if f.Changed("runner") {
		cfg.Runner = runner
	}
	if f.Changed("allow") {
		cfg.Allow = allow
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string) error {
	if scriptgate.IsTerminal(os.Stderr) {
		scriptgate.SetZlog(scriptgate.ConsoleLogger())
	}
	zlog := scriptgate.GetZlog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	srv, err := cfg.NewServer()
	if err != nil {
		return err
	}

	allowed := srv.AllowList()
	if allowed.Len() == 0 {
		zlog.Warn().Msg("Allow-list is empty, every run request will be rejected")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.Addr).Str("static", cfg.StaticDir).
			Strs("scripts", cfg.ScriptDirs).Str("runner", cfg.Runner).
			Strs("allow", allowed.Names()).Msg("Starting server")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	zlog.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
