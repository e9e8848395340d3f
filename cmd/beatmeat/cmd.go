package main

import (
	"beatmeat/internal/config"
	"beatmeat/internal/server"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func validate(cfg *config.Config) error {
	if !strings.HasPrefix(cfg.WSBase, "ws://") && !strings.HasPrefix(cfg.WSBase, "wss://") {
		return fmt.Errorf("invalid --ws-base (must start with ws:// or wss://): %q", cfg.WSBase)
	}
	if cfg.ReconnectDelay <= 0 {
		return errors.New("--reconnect-delay must be positive")
	}
	return nil
}

// newCmd binds flags over cfg, which already holds the environment values.
func newCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "beatmeat",
		Short:         "Punch the meat with everyone else, from your terminal.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(cfg); err != nil {
				return err
			}
			if !cfg.Verbose {
				log.SetOutput(io.Discard)
			}
			return server.Run(cmd.Context(), *cfg, os.Stdin, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Name, "name", "n", cfg.Name, "display name to join as (env: BEATMEAT_NAME)")
	fs.StringVar(&cfg.WSBase, "ws-base", cfg.WSBase, "websocket base URL of the game server (env: BEATMEAT_WS_BASE)")
	fs.BoolVar(&cfg.Constrained, "constrained", cfg.Constrained, "use smaller particle bursts and skip buffered audio (env: BEATMEAT_CONSTRAINED)")
	fs.StringVar(&cfg.DiagAddr, "diag-addr", cfg.DiagAddr, "address for the diagnostics server, empty to disable (env: BEATMEAT_DIAG_ADDR)")
	fs.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "wait before reconnecting (env: BEATMEAT_RECONNECT_DELAY)")
	fs.StringVar(&cfg.IdentityPath, "identity", cfg.IdentityPath, "file the identity is stored in (env: BEATMEAT_IDENTITY_PATH)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "display log output and sounds (env: BEATMEAT_VERBOSE)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("beatmeat v{{.Version}}\n")

	cmd.SilenceUsage = true

	return cmd
}
