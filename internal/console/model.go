// Package console is the interactive single-screen front end: pick an applicant, edit the loan
// essay, run an assessment and read the verdict.
package console

import (
	"context"
	"fmt"
	"strings"

	"credit-risk-workers/internal/assessment"
	"credit-risk-workers/internal/dataset"
	"credit-risk-workers/internal/models"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DefaultEssay = "I have a stable job and I need this loan to renovate my kitchen. I have always paid my bills on time."

const visibleApplicants = 12

type focus int

const (
	focusApplicants focus = iota
	focusEssay
)

// Assessor is the part of *assessment.Assessor the screen needs.
type Assessor interface {
	Assess(ctx context.Context, input assessment.Input) (*assessment.Result, error)
}

type assessmentDoneMsg struct {
	result *assessment.Result
	err    error
}

// Model is the bubbletea model for the console.
type Model struct {
	ctx      context.Context
	snapshot *dataset.Snapshot
	assessor Assessor
	styles   Styles

	cursor  int
	focus   focus
	essay   textarea.Model
	spinner spinner.Model

	assessing bool
	result    *assessment.Result
	err       error

	width  int
	height int
}

// New builds the screen. ctx bounds every assessment started from it.
func New(ctx context.Context, snapshot *dataset.Snapshot, assessor Assessor) Model {
	ta := textarea.New()
	ta.Placeholder = "Applicant's statement / loan essay"
	ta.SetValue(DefaultEssay)
	ta.SetWidth(70)
	ta.SetHeight(5)
	ta.ShowLineNumbers = false
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		snapshot: snapshot,
		assessor: assessor,
		styles:   DefaultStyles(),
		essay:    ta,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Selected returns the applicant under the cursor.
func (m Model) Selected() (models.ApplicantRecord, bool) {
	return m.snapshot.At(m.cursor)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if w := msg.Width - 4; w > 20 {
			m.essay.SetWidth(w)
		}
		return m, nil

	case assessmentDoneMsg:
		m.assessing = false
		if msg.err != nil {
			// Keep the previous result on screen.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		return m, nil

	case spinner.TickMsg:
		if !m.assessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			return m.toggleFocus(), nil
		case "ctrl+r", "ctrl+s":
			return m.startAssessment()
		}

		if m.focus == focusApplicants {
			return m.updateApplicants(msg)
		}
	}

	if m.focus == focusEssay {
		var cmd tea.Cmd
		m.essay, cmd = m.essay.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleFocus() Model {
	if m.focus == focusApplicants {
		m.focus = focusEssay
		m.essay.Focus()
	} else {
		m.focus = focusApplicants
		m.essay.Blur()
	}
	return m
}

func (m Model) updateApplicants(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.snapshot.Len()-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = m.snapshot.Len() - 1
	case "enter":
		return m.toggleFocus(), nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) startAssessment() (tea.Model, tea.Cmd) {
	if m.assessing {
		return m, nil
	}
	applicant, ok := m.Selected()
	if !ok {
		return m, nil
	}

	m.assessing = true
	m.err = nil

	ctx, assessor, essay := m.ctx, m.assessor, m.essay.Value()
	run := func() tea.Msg {
		res, err := assessor.Assess(ctx, assessment.Input{Applicant: applicant, Essay: essay})
		return assessmentDoneMsg{result: res, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Multimodal Credit Risk AI Assessment"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Combines structured data (CSV) with unstructured data (text)."))
	b.WriteString("\n\n")

	left := m.applicantsView()
	right := m.profileView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Panel.Render(left), m.styles.Panel.Render(right)))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render("2. Behavioral Analysis (AI)"))
	b.WriteString("\n")
	b.WriteString(m.essay.View())
	b.WriteString("\n\n")

	switch {
	case m.assessing:
		b.WriteString(m.spinner.View() + " AI is reading the essay, transactions, and cross-referencing with the dataset...")
		b.WriteString("\n\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Assessment failed: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.result != nil {
		b.WriteString(m.resultView(m.result))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("↑/↓ select • tab switch focus • ctrl+r run assessment • esc quit"))
	return b.String()
}

func (m Model) applicantsView() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("1. Select Customer"))
	b.WriteString("\n")

	n := m.snapshot.Len()
	if n == 0 {
		b.WriteString(m.styles.Muted.Render("No applicants loaded."))
		return b.String()
	}

	start := 0
	if m.cursor >= visibleApplicants {
		start = m.cursor - visibleApplicants + 1
	}
	end := min(start+visibleApplicants, n)

	names := m.snapshot.Names()
	for i := start; i < end; i++ {
		line := "  " + names[i]
		if i == m.cursor {
			line = "> " + names[i]
			if m.focus == focusApplicants {
				line = m.styles.Selected.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d/%d", m.cursor+1, n)))
	return b.String()
}

func (m Model) profileView() string {
	applicant, ok := m.Selected()
	if !ok {
		return m.styles.Muted.Render("Select an applicant.")
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Financial Profile for " + applicant.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Income: %s\n", formatMoney(applicant.Income)))
	b.WriteString(fmt.Sprintf("Debt: %s\n", formatMoney(applicant.Debt)))
	b.WriteString(fmt.Sprintf("Credit Score: %d\n", applicant.CreditScore))
	b.WriteString("Recent Transactions:\n")
	txns := dataset.SplitTransactions(applicant.RecentTransactions)
	if len(txns) == 0 {
		b.WriteString(m.styles.Muted.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, txn := range txns {
		b.WriteString(m.styles.Muted.Render("  - " + txn))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Financial Risk: %.1f/100", assessment.ComputeHardRisk(applicant.CreditScore)))
	return b.String()
}

func (m Model) resultView(r *assessment.Result) string {
	var b strings.Builder

	metrics := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Metric.Render("Financial Risk\n"+formatScore(r.HardRiskScore)),
		m.styles.Metric.Render("Behavioral Risk (AI)\n"+formatScore(r.SoftRiskScore)),
		m.styles.Metric.Render("FUSION SCORE\n"+formatScore(r.FinalScore)),
	)
	b.WriteString(m.styles.Header.Render("Assessment for " + r.ApplicantName))
	b.WriteString("\n")
	b.WriteString(metrics)
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render("AI Reasoning:"))
	b.WriteString("\n")
	b.WriteString(m.styles.Reason.Render(r.Reasoning))
	b.WriteString("\n\n")

	verdict := "Recommendation: " + r.Recommendation.Verdict()
	if r.Recommendation == assessment.RecommendationReject {
		b.WriteString(m.styles.Reject.Render(verdict))
	} else {
		b.WriteString(m.styles.Approve.Render(verdict))
	}
	b.WriteString("\n")
	return b.String()
}
