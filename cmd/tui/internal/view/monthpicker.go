package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
)

// Period is a predefined or custom report period.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodAll:
		return "All History"
	case PeriodCustom:
		return "Custom Month"
	}

	return "Unknown"
}

// MonthSelectedMsg is emitted when the user has picked a period. Month is
// zero when All is true.
type MonthSelectedMsg struct {
	Month calendar.Month
	All   bool
}

type pickerState int

const (
	pickerStateSelect pickerState = iota
	pickerStateCustom
)

// MonthPicker is a reusable component for choosing a report month.
type MonthPicker struct {
	state    pickerState
	selected Period
	input    textinput.Model
	now      func() time.Time
	err      error
}

func NewMonthPicker() MonthPicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 9
	in.Prompt = "Month: "

	return MonthPicker{input: in, now: time.Now}
}

func (m MonthPicker) Update(msg tea.Msg) (MonthPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == pickerStateCustom {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)

			return m, cmd
		}

		return m, nil
	}

	if m.state == pickerStateCustom {
		return m.updateCustom(keyMsg)
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		current := calendar.MonthOf(m.now())

		switch m.selected {
		case PeriodThisMonth:
			return m, selectMonth(current, false)
		case PeriodLastMonth:
			return m, selectMonth(current.Prev(), false)
		case PeriodAll:
			return m, selectMonth(calendar.Month{}, true)
		case PeriodCustom:
			m.state = pickerStateCustom
			m.input.Focus()

			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m MonthPicker) updateCustom(msg tea.KeyMsg) (MonthPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		month, err := calendar.ParseMonth(m.input.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid month (YYYY-MM)")
			return m, nil
		}

		m.err = nil

		return m, selectMonth(month, false)
	case tea.KeyEsc:
		m.state = pickerStateSelect
		m.err = nil

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func selectMonth(month calendar.Month, all bool) tea.Cmd {
	return func() tea.Msg {
		return MonthSelectedMsg{Month: month, All: all}
	}
}

func (m MonthPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == pickerStateCustom {
		return fmt.Sprintf("Enter month:\n\n%s\n\n(Enter to confirm, Esc to go back)%s", m.input.View(), errStr)
	}

	s := "Select Period:\n\n"
	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p.String())
	}

	s += "\n(Enter to select, Esc to go back)"

	return s + errStr
}

// IsSelecting reports whether the picker shows the preset list.
func (m MonthPicker) IsSelecting() bool {
	return m.state == pickerStateSelect
}

func (m *MonthPicker) Reset() {
	m.state = pickerStateSelect
	m.selected = PeriodThisMonth
	m.err = nil
	m.input.SetValue("")
}
