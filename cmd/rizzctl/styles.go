package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#AD1457", Dark: "#F48FB1"})
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	personaStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6A1B9A", Dark: "#CE93D8"})
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#90CAF9"})
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	outcomeStyles = map[domain.Outcome]lipgloss.Style{
		domain.OutcomeContinue:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.OutcomeDateSecured: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		domain.OutcomeFriendzoned: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		domain.OutcomeTimeout:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
	}
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func renderOutcome(o domain.Outcome) string {
	return outcomeStyles[o].Render(strings.ToUpper(o.String()))
}

func renderClassification(c evaluator.Classification) string {
	return strings.Join([]string{
		row("outcome", renderOutcome(c.Outcome)),
		row("tier", c.Tier),
		row("invited", c.Invited),
		row("agreed", c.Agreed),
		row("interest ok", c.InterestOK),
	}, "\n")
}

func renderScore(s evaluator.Score) string {
	b := s.Breakdown
	lines := []string{
		titleStyle.Render(fmt.Sprintf("RIZZ INDEX %d", s.Value)) + "  " + s.Rating,
		row("time", b.TimeScore),
		row("messages", b.MessageScore),
		row("charm", fmt.Sprintf("%.1f", b.Charm)),
		row("consistency", b.Consistency),
		row("words/message", fmt.Sprintf("%.1f", b.WordsPerMessage)),
		row("multiplier", fmt.Sprintf("%.1f", b.Multiplier)),
		row("outcome bonus", b.OutcomeBonus),
		row("legendary bonus", b.LegendaryBonus),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderPersona(p domain.Persona) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s %s, %d", p.Avatar, p.Name, p.Age)),
		mutedStyle.Render(p.Bio),
		row("personality", p.Personality),
		row("style", p.ConversationStyle),
		row("interests", strings.Join(p.Interests, ", ")),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderTurn(name string, t domain.Turn) string {
	if t.Role == domain.RoleUser {
		return userStyle.Render("you: ") + t.Content
	}
	return personaStyle.Render(name+": ") + t.Content
}
