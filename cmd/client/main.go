package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/liuzl/scriptgate"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "scriptgate-client",
	Short: "Talk to a scriptgate server",
}

var runCmd = &cobra.Command{
	Use:          "run <script>",
	Short:        "Run an allow-listed script on the server and print its output",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		out, err := scriptgate.NewClient(serverURL, nil).Run(ctx, args[0])
		if err != nil {
			var se *scriptgate.ScriptError
			if errors.As(err, &se) {
				fmt.Fprint(os.Stderr, se.Message)
				return fmt.Errorf("status %d (request %s)", se.StatusCode, se.RequestID)
			}
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:10000", "gateway base URL")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting after this long (0 waits forever)")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
