package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/export"
)

type exportState int

const (
	exportStateEmployee exportState = iota
	exportStateMonth
	exportStatePath
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state       exportState
	err         error
	picker      EmployeePicker
	monthPicker MonthPicker

	employee *employee.Employee
	month    calendar.Month

	form    *huh.Form
	spinner spinner.Model
	file    string
	summary string
}

func NewExportModel(svc *export.Service, employees *employee.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		state:         exportStateEmployee,
		picker:        NewEmployeePicker(employees, true),
		monthPicker:   NewMonthPicker(),
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Reports" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EmployeeSelectedMsg:
		m.employee = msg.Employee
		m.monthPicker.Reset()
		m.state = exportStateMonth

		return m, nil

	case MonthSelectedMsg:
		m.month = msg.Month
		m.form = buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateEmployee:
		return m.updateEmployee(msg)
	case exportStateMonth:
		return m.updateMonth(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateEmployee(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateMonth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.monthPicker.IsSelecting() {
			m.state = exportStateEmployee
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.monthPicker, cmd = m.monthPicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateMonth
			m.monthPicker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	dir := m.form.GetString("path")
	if dir == "" {
		dir = "./exports"
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.file = result.file
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateEmployee:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case exportStateMonth:
		return lipgloss.NewStyle().Padding(1).Render(m.monthPicker.View())

	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Building report bundle...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := successStyle.Bold(true).Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Saved to "+m.file,
			"",
			"Email draft:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	file string
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(dir string) tea.Cmd {
	filter := export.Filter{Month: m.month}
	if m.employee != nil {
		id := m.employee.ID
		filter.EmployeeID = &id
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		report, err := m.exportService.Build(ctx, filter)
		if err != nil {
			return exportResultMsg{err: err}
		}

		path, err := m.writeBundle(ctx, dir, report)
		if err != nil {
			return exportResultMsg{err: err}
		}

		draft := m.exportService.EmailDraft(report)

		return exportResultMsg{
			file: path,
			body: fmt.Sprintf("To: %s\nSubject: %s\n\n%s", draft.Recipient, draft.Subject, draft.Body),
		}
	}
}

func (m ExportModel) writeBundle(ctx context.Context, dir string, report *export.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, report.Filename("podklady", "zip"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating bundle file: %w", err)
	}
	defer f.Close()

	if err := m.exportService.Bundle(ctx, f, report); err != nil {
		return "", fmt.Errorf("writing bundle: %w", err)
	}

	return path, nil
}
