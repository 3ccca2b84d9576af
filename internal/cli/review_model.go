package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwoodfin/copydesk/internal/autosave"
	"github.com/mwoodfin/copydesk/internal/cli/formatter"
	"github.com/mwoodfin/copydesk/internal/domain"
)

type reviewFocus int

const (
	focusList reviewFocus = iota
	focusModify
	focusNotes
)

// tickMsg refreshes the autosave indicator while timers run off-model.
type tickMsg time.Time

func reviewTick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type reviewModel struct {
	item        *domain.WorklistItem
	issues      []*domain.ProofreadingIssue
	cursor      int
	focus       reviewFocus
	coordinator *autosave.Coordinator

	modifyInput textarea.Model
	notesInput  textinput.Model

	width int
}

func newReviewModel(item *domain.WorklistItem, issues []*domain.ProofreadingIssue, coordinator *autosave.Coordinator) reviewModel {
	modify := textarea.New()
	modify.Placeholder = "Replacement text"
	modify.SetHeight(4)

	notes := textinput.New()
	notes.Placeholder = "Review notes"
	notes.SetValue(item.ReviewNotes)

	return reviewModel{
		item:        item,
		issues:      issues,
		coordinator: coordinator,
		modifyInput: modify,
		notesInput:  notes,
	}
}

func (m reviewModel) Init() tea.Cmd {
	return reviewTick()
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, reviewTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusModify:
			return m.updateModify(msg)
		case focusNotes:
			return m.updateNotes(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m reviewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.issues)-1 {
			m.cursor++
		}

	case "a":
		m.decide(domain.NewAcceptedDecision(m.current().ID, ""))
	case "r":
		m.decide(domain.NewRejectedDecision(m.current().ID, ""))
	case "m":
		m.modifyInput.SetValue(m.current().ModifiedContent)
		m.modifyInput.Focus()
		m.focus = focusModify
	case "n":
		m.notesInput.Focus()
		m.focus = focusNotes

	case "s":
		coordinator := m.coordinator
		return m, func() tea.Msg {
			_ = coordinator.FlushNow(context.Background())
			return tickMsg(time.Now())
		}
	}
	return m, nil
}

func (m reviewModel) updateModify(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.modifyInput.Blur()
		return m, nil
	case "ctrl+d":
		content := strings.TrimSpace(m.modifyInput.Value())
		if content != "" {
			m.decide(domain.NewModifiedDecision(m.current().ID, content, ""))
		}
		m.focus = focusList
		m.modifyInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.modifyInput, cmd = m.modifyInput.Update(msg)
	return m, cmd
}

func (m reviewModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.notesInput.Blur()
		return m, nil
	case "enter":
		m.coordinator.ScheduleNotes(m.notesInput.Value())
		m.focus = focusList
		m.notesInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

func (m *reviewModel) current() *domain.ProofreadingIssue {
	return m.issues[m.cursor]
}

// decide buffers the decision and updates the local projection so the list
// reflects it immediately; the authoritative write happens on flush.
func (m *reviewModel) decide(d domain.Decision) {
	issue := m.current()
	issue.DecisionStatus = d.Type.Status()
	issue.ModifiedContent = d.ModifiedContent
	m.coordinator.ScheduleDecision(d)
	if m.cursor < len(m.issues)-1 {
		m.cursor++
	}
}

func (m reviewModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.StyleBold.Render(m.item.Title))
	b.WriteString("  " + formatter.StatusBadge(m.item.Status) + "\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("item %d · %d issues", m.item.ID, len(m.issues))) + "\n\n")

	for i, issue := range m.issues {
		prefix := "  "
		if i == m.cursor {
			prefix = formatter.StyleHeader.Render("> ")
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			prefix,
			formatter.SeverityBadge(issue.Severity),
			formatter.DecisionBadge(issue.DecisionStatus),
			formatter.Truncate(issue.Message, 60),
		)
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + formatter.FormatIssueDetail(m.current()) + "\n")

	switch m.focus {
	case focusModify:
		b.WriteString(m.modifyInput.View() + "\n")
		b.WriteString(formatter.Dim("ctrl+d apply · esc cancel") + "\n")
	case focusNotes:
		b.WriteString(m.notesInput.View() + "\n")
		b.WriteString(formatter.Dim("enter save · esc cancel") + "\n")
	default:
		b.WriteString(formatter.Dim("a accept · r reject · m modify · n notes · s save · q quit") + "\n")
	}

	b.WriteString("\n" + m.autosaveLine() + "\n")
	return b.String()
}

func (m reviewModel) autosaveLine() string {
	switch m.coordinator.State() {
	case autosave.StateSaving:
		return formatter.StyleYellow.Render("saving…")
	case autosave.StateSaved:
		return formatter.StyleGreen.Render("saved")
	case autosave.StateError:
		msg := "save failed, will retry"
		if err := m.coordinator.LastError(); err != nil {
			msg = "save failed: " + err.Error()
		}
		return formatter.StyleRed.Render(msg)
	default:
		return formatter.Dim("idle")
	}
}
