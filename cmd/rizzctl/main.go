// Package main provides rizzctl, a terminal client for the rizz-labs game rules.
// It can classify replies, compute scores, generate personas and play a full
// session against the configured completion provider.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashureev/rizz-labs/internal/logging"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call gets its own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "rizzctl",
		Short:         "rizzctl - play and inspect the Rizz Labs dating game",
		Long:          `rizzctl exposes the outcome classifier, the rizz index scorer and the timeout check, and can run a full chat session in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err == nil {
				slog.Debug("Loaded .env file")
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), v.GetString("log-level"), true))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "warn", "Set log level (debug|info|warn|error)")
	flags.String("provider", "canned", "Completion provider (openai|anthropic|gemini|canned)")
	flags.String("model", "", "Model override for the completion provider")
	flags.Duration("timeout", 15*time.Second, "Completion request timeout")

	// Flags win over env; env names match the server's.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	bindings := map[string]string{
		"log-level": "LOG_LEVEL",
		"provider":  "COMPLETION_PROVIDER",
		"model":     "COMPLETION_MODEL",
		"timeout":   "COMPLETION_TIMEOUT",
	}
	for name, env := range bindings {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", name, err))
		}
		if err := v.BindEnv(name, env); err != nil {
			panic(fmt.Sprintf("bind %s env: %v", name, err))
		}
	}

	root.AddCommand(
		newClassifyCmd(),
		newScoreCmd(),
		newExpiredCmd(),
		newPersonaCmd(),
		newPlayCmd(v),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "rizzctl v%s\n", version)
			},
		},
	)
	return root
}
