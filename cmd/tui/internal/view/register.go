package view

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumbunglabs/kasir/internal/export"
	"github.com/lumbunglabs/kasir/internal/till"
)

type regState int

const (
	regStateScanning regState = iota
	regStatePaying
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
)

type warningExpiredMsg struct {
	seq int
}

// RegisterModel is the cashier's register screen: barcode entry, the cart,
// payment, and receipt export.
type RegisterModel struct {
	CommonModel

	session    *till.Session
	scanner    *till.Scanner
	exportSvc  *export.Service
	warningTTL time.Duration

	state    regState
	input    textinput.Model
	payForm  *huh.Form
	formCash string

	st      till.State
	cursor  int
	warning string
	warnSeq int
	status  string
}

func NewRegisterModel(session *till.Session, scanner *till.Scanner, exportSvc *export.Service, warningTTL time.Duration) RegisterModel {
	input := textinput.New()
	input.Placeholder = "barcode"
	input.CharLimit = 32
	input.Focus()

	return RegisterModel{
		session:    session,
		scanner:    scanner,
		exportSvc:  exportSvc,
		warningTTL: warningTTL,
		input:      input,
		st:         session.Snapshot(),
	}
}

func (m RegisterModel) Title() string { return "Register" }

func (m RegisterModel) ShortHelp() string {
	switch m.state {
	case regStatePaying:
		return "Esc: cancel | Enter: confirm"
	default:
		return "Enter: add | ↑/↓: select | +/-: qty | Ctrl+D: remove line | Ctrl+P: pay | Ctrl+S: complete | Ctrl+E: export | Ctrl+X: clear | Ctrl+H: history | Ctrl+C: quit"
	}
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case warningExpiredMsg:
		if msg.seq == m.warnSeq {
			m.warning = ""
		}

		return m, nil

	case tea.KeyMsg:
		if m.state == regStatePaying {
			return m.updatePayForm(msg)
		}

		return m.updateScanning(msg)
	}

	if m.state == regStatePaying && m.payForm != nil {
		form, cmd := m.payForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.payForm = f
		}

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m RegisterModel) updateScanning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		code := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")

		if code == "" {
			return m, nil
		}

		// A keyboard-wedge scanner types the code and presses enter, so
		// entry goes through the same debounce gate as a camera decode.
		// A double-read of one label lands here twice within the
		// cooldown and is dropped; use + on the line for deliberate
		// quantity bumps.
		st, accepted, err := m.scanner.Decoded(code, time.Now())
		m.st = st

		if err != nil {
			return m.flashWarning(err.Error())
		}

		if !accepted {
			return m.flashWarning("duplicate scan ignored")
		}

		m.status = ""

		return m, nil

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case "down":
		if m.cursor < len(m.st.Lines)-1 {
			m.cursor++
		}

		return m, nil

	case "+":
		if line, ok := m.selectedLine(); ok && m.input.Value() == "" {
			m.st, _ = m.session.AddOne(line.Barcode)
			return m, nil
		}

	case "-":
		if line, ok := m.selectedLine(); ok && m.input.Value() == "" {
			m.st = m.session.RemoveOne(line.Barcode)
			m.clampCursor()

			return m, nil
		}

	case "ctrl+d":
		if line, ok := m.selectedLine(); ok {
			m.st = m.session.DeleteLine(line.Barcode)
			m.clampCursor()

			return m, nil
		}

		return m, nil

	case "ctrl+x":
		m.st = m.session.Clear()
		m.cursor = 0
		m.status = ""

		return m, nil

	case "ctrl+p":
		return m.startPayForm()

	case "ctrl+s":
		ctx, cancel := StoreCtx()
		defer cancel()

		rec, err := m.session.CompleteSale(ctx)
		if err != nil {
			return m.flashWarning(err.Error())
		}

		m.st = m.session.Snapshot()
		m.cursor = 0
		m.status = fmt.Sprintf("Sale complete. Receipt %d saved.", rec.ID)

		return m, nil

	case "ctrl+e":
		blob, err := m.exportSvc.Receipt(m.session.Snapshot())
		if err != nil {
			return m.flashWarning(err.Error())
		}

		name := m.exportSvc.Filename()
		if err := os.WriteFile(name, []byte(blob), 0o644); err != nil {
			return m.flashWarning(fmt.Sprintf("export failed: %v", err))
		}

		m.status = "Exported " + name

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m RegisterModel) startPayForm() (tea.Model, tea.Cmd) {
	if m.session.Total() <= 0 {
		return m.flashWarning(till.ErrEmptyCart.Error())
	}

	m.formCash = ""
	m.payForm = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Cash tendered").
			Description("Total: " + FormatAmount(m.session.Total())).
			Value(&m.formCash).
			Validate(func(s string) error {
				_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				if err != nil {
					return fmt.Errorf("enter a whole rupiah amount")
				}

				return nil
			}),
	))
	m.state = regStatePaying

	return m, m.payForm.Init()
}

func (m RegisterModel) updatePayForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = regStateScanning
		m.payForm = nil

		return m, nil
	}

	form, cmd := m.payForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.payForm = f
	}

	if m.payForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = regStateScanning
	m.payForm = nil

	cash, err := strconv.ParseInt(strings.TrimSpace(m.formCash), 10, 64)
	if err != nil {
		return m.flashWarning("enter a whole rupiah amount")
	}

	eval, err := m.session.Pay(cash)
	m.st = m.session.Snapshot()

	if err != nil {
		// Change stays at zero on a short payment.
		m.status = fmt.Sprintf("Cash: %s  Change: %s", FormatAmount(eval.Cash), FormatAmount(0))
		return m.flashWarning(err.Error())
	}

	m.status = fmt.Sprintf("Cash: %s  Change: %s", FormatAmount(eval.Cash), FormatAmount(eval.Change))

	return m, cmd
}

func (m RegisterModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Register") + "\n\n")

	if m.state == regStatePaying && m.payForm != nil {
		sb.WriteString(m.payForm.View() + "\n")
		return sb.String()
	}

	sb.WriteString("Barcode: " + m.input.View() + "\n\n")

	if len(m.st.Lines) == 0 {
		sb.WriteString(faintStyle.Render("Cart is empty. Scan or type a barcode.") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("%-28s %4s %14s %14s\n", "Product", "Qty", "Price", "Subtotal"))

		for i, line := range m.st.Lines {
			row := fmt.Sprintf("%-28s %4d %14s %14s",
				line.Name, line.Quantity, FormatAmount(line.UnitPrice), FormatAmount(line.Subtotal()))

			if i == m.cursor {
				row = cursorStyle.Render(row)
			}

			sb.WriteString(row + "\n")
		}
	}

	sb.WriteString("\n" + totalStyle.Render("Total: "+FormatAmount(m.st.Total)) + "\n")

	if eval := m.st.Evaluation; eval != nil {
		sb.WriteString(fmt.Sprintf("Cash: %s  Change: %s\n",
			FormatAmount(eval.Cash), FormatAmount(eval.Change)))
	}

	if m.status != "" {
		sb.WriteString("\n" + m.status + "\n")
	}

	if m.warning != "" {
		sb.WriteString("\n" + warningStyle.Render(m.warning) + "\n")
	}

	sb.WriteString("\n" + faintStyle.Render(m.ShortHelp()) + "\n")

	return sb.String()
}

func (m RegisterModel) flashWarning(msg string) (tea.Model, tea.Cmd) {
	m.warning = msg
	m.warnSeq++
	seq := m.warnSeq

	return m, tea.Tick(m.warningTTL, func(time.Time) tea.Msg {
		return warningExpiredMsg{seq: seq}
	})
}

func (m *RegisterModel) selectedLine() (till.Line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.st.Lines) {
		return till.Line{}, false
	}

	return m.st.Lines[m.cursor], true
}

func (m *RegisterModel) clampCursor() {
	if m.cursor >= len(m.st.Lines) {
		m.cursor = len(m.st.Lines) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}
