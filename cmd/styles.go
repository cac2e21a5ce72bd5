package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/jobmatch/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// titleCase converts a string to title case using proper locale-aware capitalization
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// scoreStyle colours a percentage green, yellow or red
func scoreStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 70:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case pct >= 40:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	}
}

func formatSkills(skills []models.SkillMatch) string {
	if len(skills) == 0 {
		return valueStyle.Render("none")
	}
	parts := make([]string, len(skills))
	for i, s := range skills {
		parts[i] = fmt.Sprintf("%s ×%d", s.Skill, s.Occurrences)
	}
	return valueStyle.Render(strings.Join(parts, ", "))
}

// printJobSummary prints the one-card view shared by list, match and recommend
func printJobSummary(p func(format string, a ...any), n int, job *models.JobPosting) {
	p("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", n)), job.Title)
	p("   %s %s\n", labelStyle.Render("Company:"), job.CompanyName)
	p("   %s %s\n", labelStyle.Render("Location:"), job.Location)
	p("   %s %d\n", labelStyle.Render("ID:"), job.ID)
	p("   %s %d\n", labelStyle.Render("Score:"), job.Score)
	p("   %s %s\n", labelStyle.Render("Skills:"), formatSkills(job.Skills))
}

// page slices items to [offset, offset+limit); limit <= 0 means no limit
func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
