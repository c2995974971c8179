package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/service"
	"github.com/symptom-analyzer/internal/setup"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	noticeStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	urgencyColors = map[domain.Urgency]lipgloss.Color{
		domain.UrgencyHigh:   lipgloss.Color("196"),
		domain.UrgencyMedium: lipgloss.Color("214"),
		domain.UrgencyLow:    lipgloss.Color("42"),
	}
)

const disclaimer = "Informational only, not a diagnosis. If symptoms persist or worsen, please see a doctor."

// RenderResult formats an analysis result for the terminal.
func RenderResult(r *domain.AnalysisResult) string {
	urgency := lipgloss.NewStyle().Bold(true).Foreground(urgencyColors[r.Urgency]).Render(r.Urgency.Label())

	detected := "none"
	if len(r.DetectedSymptoms) > 0 {
		detected = strings.Join(r.DetectedSymptoms, ", ")
	}

	currency := r.Currency
	if currency == "" {
		currency = catalog.DefaultCurrency
	}

	rows := []string{
		titleStyle.Render("Symptom analysis"),
		row("Condition", r.Condition),
		row("Confidence", fmt.Sprintf("%.1f%%", r.Probability*100)),
		row("Urgency", urgency),
		row("Severity", fmt.Sprintf("%.2f", r.SeverityScore)),
		row("Detected", detected),
		headingStyle.Render("Recommendations"),
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, "  • "+rec)
	}
	rows = append(rows,
		headingStyle.Render("Consultation fees"),
		row("Initial", currency+" "+service.FormatAmount(r.ConsultationFees.Initial)),
		row("Follow-up", currency+" "+service.FormatAmount(r.ConsultationFees.FollowUp)),
		noticeStyle.Render(disclaimer),
	)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderCatalogSummary formats a validated catalog.
func RenderCatalogSummary(c *catalog.Catalog) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Catalog OK"),
		row("Version", c.Version()),
		row("Symptoms", fmt.Sprint(c.SymptomCount())),
		row("Conditions", fmt.Sprint(c.ConditionCount())),
		row("Currency", c.Currency()),
	)
}

// RenderSetupStatus formats the MCP client registration status.
func RenderSetupStatus(st *setup.Status) string {
	registered := "no"
	if st.Registered {
		registered = "yes"
	}
	rows := []string{
		titleStyle.Render("MCP client registration"),
		row("Config", st.ClientConfigPath),
		row("Registered", registered),
	}
	if st.ServerPath != "" {
		rows = append(rows, row("Command", st.ServerPath))
	}
	if st.DataDir != "" {
		rows = append(rows, row("Data dir", st.DataDir))
	}
	if len(st.Issues) > 0 {
		rows = append(rows, headingStyle.Render("Issues"))
		for _, issue := range st.Issues {
			rows = append(rows, "  • "+issue)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
