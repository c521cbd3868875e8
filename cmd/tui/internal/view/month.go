package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/importer/csvdetail"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

const maxIssuesShown = 8

type monthState int

const (
	monthStatePickEmployee monthState = iota
	monthStateBrowse
	monthStateAdd
)

// MonthModel is one employee's month: entries, validation issues and status.
type MonthModel struct {
	CommonModel
	entries   *entry.Service
	statuses  *status.Service
	employees *employee.Service
	role      status.Role

	state    monthState
	picker   EmployeePicker
	employee *employee.Employee
	month    calendar.Month

	table  table.Model
	rows   []*entry.Entry
	st     *status.MonthStatus
	issues []validation.Issue

	form *huh.Form

	// Form bindings
	formDate    string
	formType    string
	formProject string
	formDesc    string
	formHours   string

	loading bool
	err     error
	status  string
}

func NewMonthModel(entries *entry.Service, statuses *status.Service, employees *employee.Service, role status.Role) MonthModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 18},
		{Title: "Project", Width: 24},
		{Title: "Description", Width: 30},
		{Title: "Hours", Width: 7},
	}

	return MonthModel{
		entries:   entries,
		statuses:  statuses,
		employees: employees,
		role:      role,
		picker:    NewEmployeePicker(employees, false),
		month:     calendar.MonthOf(time.Now()),
		table:     newTable(columns, 15),
	}
}

func (m MonthModel) Title() string { return "Month" }

func (m MonthModel) ShortHelp() string {
	switch m.state {
	case monthStateAdd:
		return "Navigate form | Esc: cancel"
	case monthStateBrowse:
		return "←/→: month | a: add | c: copy last | d: delete | s: submit | r: refresh | Esc: back"
	}

	return "Enter: select | Esc: back"
}

func (m MonthModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m MonthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EmployeeSelectedMsg:
		m.employee = msg.Employee
		m.state = monthStateBrowse
		m.loading = true

		return m, m.loadCmd()

	case monthLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.entries
		m.st = msg.st
		m.issues = msg.issues
		m.refreshTable()

		return m, nil

	case monthActionMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = errorStyle.Render(describeError(msg.err))
		}

		m.state = monthStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case lastEntryMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(describeError(msg.err))
			return m, nil
		}

		return m.enterAddMode(msg.entry)

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-18, 5))
		return m, nil
	}

	switch m.state {
	case monthStatePickEmployee:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case monthStateBrowse:
		return m.updateBrowse(msg)
	case monthStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m MonthModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.state = monthStatePickEmployee
			m.status = ""

			return m, nil
		case "left", "h":
			m.month = m.month.Prev()
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.month = m.month.Next()
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode(nil)
		case "c":
			return m, m.lastEntryCmd()
		case "d":
			return m, m.deleteCmd()
		case "s":
			return m, m.submitCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// enterAddMode opens the entry form, prefilled from template when set.
func (m MonthModel) enterAddMode(template *entry.Entry) (tea.Model, tea.Cmd) {
	today := calendar.Truncate(time.Now())
	if !m.month.Contains(today) {
		today = m.month.Start()
	}

	m.formDate = today.Format(time.DateOnly)
	m.formType = string(entry.TypeRegular)
	m.formProject = ""
	m.formDesc = ""
	m.formHours = "8"

	if template != nil {
		m.formType = string(template.Type)
		m.formProject = template.Project
		m.formDesc = template.Description
		m.formHours = FormatHours(template.Hours)
	}

	types := make([]huh.Option[string], 0, len(entry.Types()))
	for _, t := range entry.Types() {
		types = append(types, huh.NewOption(t.Label(), string(t)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					d, err := calendar.ParseDate(s)
					if err != nil {
						return err
					}

					if !m.month.Contains(d) {
						return fmt.Errorf("date must be in %s", m.month)
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(types...).
				Value(&m.formType),

			huh.NewInput().
				Key("project").
				Title("Project").
				Value(&m.formProject),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),

			huh.NewInput().
				Key("hours").
				Title("Hours").
				Value(&m.formHours).
				Validate(func(s string) error {
					_, err := csvdetail.ParseHours(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = monthStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m MonthModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = monthStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.addCmd()
}

func (m MonthModel) View() string {
	if m.state == monthStatePickEmployee {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading month...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("%s | %s | Status: %s", m.employee.Name, activeStyle(m.month.String()), m.statusLabel())

	result := aggregate.Aggregate(m.rows, aggregate.NameResolver{m.employee.ID: m.employee.Name})
	totals := faintStyle.Render(fmt.Sprintf("Worked %s h | Absence %s h | Total %s h",
		FormatHours(result.TotalWorked), FormatHours(result.TotalAbsence), FormatHours(result.Total)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		totals,
		"",
		m.issuesView(),
	)

	if m.state == monthStateAdd && m.form != nil {
		panel := panelStyle.Width(48).Render(fmt.Sprintf("New Entry\n\n%s", m.form.View()))
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m MonthModel) statusLabel() string {
	if m.st == nil {
		return string(status.StatusDraft)
	}

	label := string(m.st.Status)
	if m.st.ManagerComment != "" {
		label += fmt.Sprintf(" (%q)", m.st.ManagerComment)
	}

	return activeStyle(label)
}

func (m MonthModel) issuesView() string {
	if len(m.issues) == 0 {
		return successStyle.Render("No issues.")
	}

	counts := validation.Summary(m.issues)
	lines := []string{fmt.Sprintf("Issues: %d errors, %d warnings", counts.Errors, counts.Warnings)}

	for i, issue := range m.issues {
		if i == maxIssuesShown {
			lines = append(lines, faintStyle.Render(fmt.Sprintf("... and %d more", len(m.issues)-maxIssuesShown)))
			break
		}

		style := warningStyle
		if issue.Severity == validation.SeverityError {
			style = errorStyle
		}

		lines = append(lines, style.Render(fmt.Sprintf("%s  %s", FormatDate(issue.Date), issue.Message)))
	}

	return strings.Join(lines, "\n")
}

func (m *MonthModel) refreshTable() {
	sort.SliceStable(m.rows, func(i, j int) bool { return m.rows[i].Date.Before(m.rows[j].Date) })

	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Type.Label(),
			e.Project,
			e.Description,
			FormatHours(e.Hours),
		})
	}

	m.table.SetRows(rows)
}

func describeError(err error) string {
	var blocked *status.SubmissionBlockedError
	if errors.As(err, &blocked) {
		return fmt.Sprintf("Submission blocked: %d errors must be fixed first", len(blocked.Issues))
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type monthLoadedMsg struct {
	entries []*entry.Entry
	st      *status.MonthStatus
	issues  []validation.Issue
	err     error
}

type monthActionMsg struct {
	text string
	err  error
}

type lastEntryMsg struct {
	entry *entry.Entry
	err   error
}

func (m MonthModel) loadCmd() tea.Cmd {
	employeeID, month := m.employee.ID, m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, err := m.statuses.Current(ctx, employeeID, month)
		if err != nil {
			return monthLoadedMsg{err: err}
		}

		entries, err := m.entries.ListMonth(ctx, employeeID, month)
		if err != nil {
			return monthLoadedMsg{err: err}
		}

		issues, err := m.statuses.Issues(ctx, employeeID, month)
		if err != nil {
			return monthLoadedMsg{err: err}
		}

		return monthLoadedMsg{entries: entries, st: st, issues: issues}
	}
}

func (m MonthModel) addCmd() tea.Cmd {
	employeeID := m.employee.ID
	// Read through the form: the bound fields belong to an earlier copy of m.
	rawDate, rawType := m.form.GetString("date"), m.form.GetString("type")
	project, desc, rawHours := m.form.GetString("project"), m.form.GetString("description"), m.form.GetString("hours")

	return func() tea.Msg {
		date, err := calendar.ParseDate(rawDate)
		if err != nil {
			return monthActionMsg{err: err}
		}

		hours, err := csvdetail.ParseHours(rawHours)
		if err != nil {
			return monthActionMsg{err: err}
		}

		workType, err := entry.ParseWorkType(rawType)
		if err != nil {
			return monthActionMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.entries.Create(ctx, entry.CreateParams{
			EmployeeID:  employeeID,
			Date:        date,
			Project:     project,
			Description: desc,
			Hours:       hours,
			Type:        workType,
		})
		if err != nil {
			return monthActionMsg{err: err}
		}

		return monthActionMsg{text: successStyle.Render("Entry added.")}
	}
}

func (m MonthModel) lastEntryCmd() tea.Cmd {
	employeeID := m.employee.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.entries.Last(ctx, employeeID)

		return lastEntryMsg{entry: e, err: err}
	}
}

func (m MonthModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	id := m.rows[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.entries.Delete(ctx, id); err != nil {
			return monthActionMsg{err: err}
		}

		return monthActionMsg{text: successStyle.Render("Entry deleted.")}
	}
}

func (m MonthModel) submitCmd() tea.Cmd {
	employeeID, month, role := m.employee.ID, m.month, m.role

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, issues, err := m.statuses.Submit(ctx, employeeID, month, role)
		if err != nil {
			return monthActionMsg{err: err}
		}

		counts := validation.Summary(issues)

		return monthActionMsg{text: successStyle.Render(
			fmt.Sprintf("Submitted %s with %d warnings.", st.Month, counts.Warnings),
		)}
	}
}
