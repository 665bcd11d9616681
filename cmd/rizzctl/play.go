package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/game"
)

var playKey = game.Key{UserID: "local", SessionID: "terminal"}

func newPlayCmd(v *viper.Viper) *cobra.Command {
	var (
		prefs  domain.Preferences
		seed   uint64
		typing bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a session in the terminal",
		Long: `Play a five minute session against the configured completion provider.
Type /restart to start over with a new persona or /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for name, env := range map[string]string{
				"openai-api-key":    "OPENAI_API_KEY",
				"anthropic-api-key": "ANTHROPIC_API_KEY",
				"google-api-key":    "GOOGLE_API_KEY",
			} {
				if err := v.BindEnv(name, env); err != nil {
					return err
				}
			}

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			completer, err := completion.New(cmd.Context(), completion.Config{
				Provider:        v.GetString("provider"),
				Model:           v.GetString("model"),
				Timeout:         v.GetDuration("timeout"),
				OpenAIAPIKey:    v.GetString("openai-api-key"),
				AnthropicAPIKey: v.GetString("anthropic-api-key"),
				GoogleAPIKey:    v.GetString("google-api-key"),
			}, newRand(seed), slog.Default())
			if err != nil {
				return err
			}

			games := game.NewController(completer, nil, nil, game.Options{
				TypingDelay: typing,
				Rand:        newRand(seed + 1),
				Logger:      slog.Default(),
			})
			return runPlay(cmd, games, prefs)
		},
	}
	bindPreferenceFlags(cmd, &prefs)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	cmd.Flags().BoolVar(&typing, "typing-delay", false, "Pause before each persona reply")
	return cmd
}

func runPlay(cmd *cobra.Command, games *game.Controller, prefs domain.Preferences) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	snap, err := games.Start(ctx, playKey, prefs)
	if err != nil {
		return err
	}
	printStart(out, snap)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/restart":
			if snap, err = games.Restart(ctx, playKey); err != nil {
				return err
			}
			printStart(out, snap)
			continue
		}

		snap, err = games.Send(ctx, playKey, line)
		switch {
		case errors.Is(err, game.ErrFinished):
			fmt.Fprintln(out, mutedStyle.Render("session is over, type /restart or /quit"))
			continue
		case err != nil:
			return err
		}

		if last := snap.Turns[len(snap.Turns)-1]; last.Role == domain.RolePersona {
			fmt.Fprintln(out, renderTurn(snap.Persona.Name, last))
		}
		if snap.Finished {
			fmt.Fprintln(out, renderOutcome(snap.Outcome))
			if snap.Score != nil {
				fmt.Fprintln(out, renderScore(*snap.Score))
			}
			fmt.Fprintln(out, mutedStyle.Render("type /restart to play again or /quit to leave"))
			continue
		}
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("interest %.1f  ·  %ds left", snap.InterestLevel, snap.RemainingSeconds)))
	}
}

func printStart(out io.Writer, snap game.Snapshot) {
	fmt.Fprintln(out, renderPersona(snap.Persona))
	for _, t := range snap.Turns {
		fmt.Fprintln(out, renderTurn(snap.Persona.Name, t))
	}
}
