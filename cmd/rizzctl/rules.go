package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
	"github.com/ashureev/rizz-labs/internal/persona"
)

func newClassifyCmd() *cobra.Command {
	var (
		userMsg  string
		interest float64
	)
	cmd := &cobra.Command{
		Use:   "classify <reply>",
		Short: "Classify a persona reply as continue, date_secured or friendzoned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := evaluator.Classify(args[0], userMsg, domain.ClampInterest(interest))
			fmt.Fprintln(cmd.OutOrStdout(), renderClassification(c))
			return nil
		},
	}
	cmd.Flags().StringVar(&userMsg, "user", "", "The player's message the reply answers")
	cmd.Flags().Float64Var(&interest, "interest", 5, "Persona interest level (0-10)")
	return cmd
}

func newScoreCmd() *cobra.Command {
	var (
		words, messages int
		elapsed         time.Duration
		interest        float64
		outcome         string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the rizz index for a finished session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := domain.ParseOutcome(outcome)
			if err != nil {
				return err
			}
			s := evaluator.ComputeScore(words, elapsed.Seconds(), messages, interest, kind)
			fmt.Fprintln(cmd.OutOrStdout(), renderScore(s))
			return nil
		},
	}
	cmd.Flags().IntVar(&words, "words", 0, "Total words the player typed")
	cmd.Flags().IntVar(&messages, "messages", 0, "Number of player messages")
	cmd.Flags().DurationVar(&elapsed, "elapsed", 0, "Session duration, e.g. 90s")
	cmd.Flags().Float64Var(&interest, "interest", 5, "Final interest level (0-10)")
	cmd.Flags().StringVar(&outcome, "outcome", "date_secured", "Outcome (date_secured|friendzoned|timeout|continue)")
	return cmd
}

func newExpiredCmd() *cobra.Command {
	var started, now string
	cmd := &cobra.Command{
		Use:   "expired",
		Short: "Check whether a session started at --started has run out of time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := time.Parse(time.RFC3339, started)
			if err != nil {
				return fmt.Errorf("parse --started: %w", err)
			}
			at := time.Now()
			if now != "" {
				if at, err = time.Parse(time.RFC3339, now); err != nil {
					return fmt.Errorf("parse --now: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), row("expired", evaluator.IsExpired(start, at)))
			fmt.Fprintln(cmd.OutOrStdout(), row("remaining", fmt.Sprintf("%ds", evaluator.RemainingSeconds(start, at))))
			return nil
		},
	}
	cmd.Flags().StringVar(&started, "started", "", "Session start time (RFC3339)")
	cmd.Flags().StringVar(&now, "now", "", "Evaluation time (RFC3339), defaults to now")
	_ = cmd.MarkFlagRequired("started")
	return cmd
}

func newPersonaCmd() *cobra.Command {
	var (
		prefs domain.Preferences
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Generate a persona and its opening line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := prefs.Validate(); err != nil {
				return err
			}
			rng := newRand(seed)
			p := persona.Generate(&prefs, rng)
			fmt.Fprintln(cmd.OutOrStdout(), renderPersona(p))
			fmt.Fprintln(cmd.OutOrStdout(), renderTurn(p.Name, domain.Turn{Role: domain.RolePersona, Content: persona.FirstMessage(p, rng)}))
			return nil
		},
	}
	bindPreferenceFlags(cmd, &prefs)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}

func bindPreferenceFlags(cmd *cobra.Command, prefs *domain.Preferences) {
	cmd.Flags().StringVar(&prefs.Name, "name", "Player", "Your name")
	cmd.Flags().IntVar(&prefs.AgeRange.Min, "min-age", 20, "Youngest persona age")
	cmd.Flags().IntVar(&prefs.AgeRange.Max, "max-age", 28, "Oldest persona age")
	cmd.Flags().StringVar(&prefs.GenderIdentity, "gender", "Prefer not to say", "Your gender identity")
	cmd.Flags().StringVar(&prefs.SexualOrientation, "orientation", "Prefer not to say", "Your sexual orientation")
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
