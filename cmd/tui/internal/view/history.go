package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/lumbunglabs/kasir/internal/history"
)

type histState int

const (
	histStateList histState = iota
	histStateConfirmClear
)

// recordItem wraps a receipt to implement list.Item.
type recordItem struct {
	rec history.Record
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%s  %s", i.rec.Time, FormatAmount(i.rec.Total))
}

func (i recordItem) Description() string {
	parts := make([]string, 0, len(i.rec.Lines))
	for _, l := range i.rec.Lines {
		parts = append(parts, fmt.Sprintf("%s x%d = %s", l.Name, l.Quantity, FormatAmount(l.Subtotal())))
	}

	return strings.Join(parts, " | ") +
		fmt.Sprintf("  (Cash: %s, Change: %s)", FormatAmount(i.rec.Cash), FormatAmount(i.rec.Change))
}

func (i recordItem) FilterValue() string { return i.rec.Time }

type loadHistoryMsg struct {
	recs []history.Record
	err  error
}

type clearHistoryMsg struct {
	err error
}

// HistoryModel lists completed sales, newest first, and can wipe the whole
// log after confirmation.
type HistoryModel struct {
	CommonModel

	svc *history.Service

	state       histState
	list        list.Model
	confirmForm *huh.Form
	confirmed   bool
	status      string
}

func NewHistoryModel(svc *history.Service) HistoryModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Receipts"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	return HistoryModel{
		svc:  svc,
		list: l,
	}
}

func (m HistoryModel) Title() string { return "Receipt History" }

func (m HistoryModel) ShortHelp() string {
	if m.state == histStateConfirmClear {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | c: clear history"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		recs, err := m.svc.List(ctx)

		return loadHistoryMsg{recs: recs, err: err}
	}
}

func (m HistoryModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return clearHistoryMsg{err: m.svc.Clear(ctx)}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadHistoryMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		// Newest first, like the paper spike next to the register.
		items := make([]list.Item, 0, len(msg.recs))
		for i := len(msg.recs) - 1; i >= 0; i-- {
			items = append(items, recordItem{rec: msg.recs[i]})
		}

		m.list.SetItems(items)

		if len(items) == 0 {
			m.status = "No receipts yet."
		} else {
			m.status = ""
		}

		return m, nil

	case clearHistoryMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error clearing: %v", msg.err)
			return m, nil
		}

		m.status = "History cleared."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.state == histStateConfirmClear {
			return m.updateConfirm(msg)
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "c":
			m.confirmed = false
			m.confirmForm = huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title("Clear all receipts?").
					Description("The whole log is removed. This cannot be undone.").
					Value(&m.confirmed),
			))
			m.state = histStateConfirmClear

			return m, m.confirmForm.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m HistoryModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = histStateList
		m.confirmForm = nil

		return m, nil
	}

	form, cmd := m.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirmForm = f
	}

	if m.confirmForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = histStateList
	m.confirmForm = nil

	if !m.confirmed {
		return m, nil
	}

	return m, m.clearCmd()
}

func (m HistoryModel) View() string {
	if m.state == histStateConfirmClear && m.confirmForm != nil {
		return m.confirmForm.View()
	}

	out := m.list.View()
	if m.status != "" {
		out += "\n" + m.status
	}

	return out + "\n" + faintStyle.Render(m.ShortHelp())
}
