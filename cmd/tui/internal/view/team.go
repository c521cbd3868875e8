package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/overview"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

// TeamModel is the manager's month overview with approval actions.
type TeamModel struct {
	CommonModel
	overview *overview.Service
	statuses *status.Service
	role     status.Role

	month   calendar.Month
	team    *overview.Team
	table   table.Model
	comment textinput.Model

	rejecting bool
	loading   bool
	err       error
	status    string
}

func NewTeamModel(ov *overview.Service, statuses *status.Service, role status.Role) TeamModel {
	columns := []table.Column{
		{Title: "Employee", Width: 24},
		{Title: "Hours", Width: 8},
		{Title: "Fund", Width: 8},
		{Title: "Progress", Width: 9},
		{Title: "Entries", Width: 8},
		{Title: "Status", Width: 11},
		{Title: "Since", Width: 12},
	}

	ti := textinput.New()
	ti.Placeholder = "Reason for rejection"
	ti.Width = 50

	return TeamModel{
		overview: ov,
		statuses: statuses,
		role:     role,
		month:    calendar.MonthOf(time.Now()),
		table:    newTable(columns, 15),
		comment:  ti,
		loading:  true,
	}
}

func (m TeamModel) Title() string { return "Team" }

func (m TeamModel) ShortHelp() string {
	if m.rejecting {
		return "Enter: reject | Esc: cancel"
	}

	return "←/→: month | p: approve | x: reject | o: reopen | r: refresh | Esc: back"
}

func (m TeamModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TeamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case teamLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.team = msg.team
			m.refreshTable()
		}

		return m, nil

	case teamActionMsg:
		m.status = successStyle.Render(msg.text)
		if msg.err != nil {
			m.status = errorStyle.Render(describeError(msg.err))
		}

		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.rejecting {
			return m.updateReject(msg)
		}

		switch msg.String() {
		case "esc":
			return m, Back
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
		case "p":
			return m, m.transitionCmd(status.StatusApproved, "")
		case "o":
			return m, m.transitionCmd(status.StatusDraft, "")
		case "x":
			if m.selected() == nil {
				return m, nil
			}

			m.rejecting = true
			m.comment.SetValue("")
			m.comment.Focus()
			m.table.Blur()

			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TeamModel) updateReject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.rejecting = false
		m.comment.Blur()
		m.table.Focus()

		return m, nil
	case tea.KeyEnter:
		m.rejecting = false
		m.comment.Blur()
		m.table.Focus()

		return m, m.transitionCmd(status.StatusRejected, m.comment.Value())
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)

	return m, cmd
}

func (m TeamModel) selected() *overview.Row {
	if m.team == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.team.Rows) {
		return nil
	}

	return &m.team.Rows[idx]
}

func (m TeamModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading team...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Team | %s | %d workdays", activeStyle(m.month.String()), m.team.Workdays)
	if m.role != status.RoleManager {
		header += faintStyle.Render("  (read only, run with -role manager to approve)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.rejecting {
		if row := m.selected(); row != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, content,
				panelStyle.Render(fmt.Sprintf("Reject %s\n\n%s", row.Name, m.comment.View())))
		}
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TeamModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.team.Rows))
	for _, r := range m.team.Rows {
		since := ""
		if r.StatusSetAt != nil {
			since = FormatDate(*r.StatusSetAt)
		}

		rows = append(rows, table.Row{
			r.Name,
			FormatHours(r.TotalHours),
			FormatHours(r.WorkFund),
			fmt.Sprintf("%.0f %%", r.Progress),
			fmt.Sprintf("%d", r.EntryCount),
			string(r.Status),
			since,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type teamLoadedMsg struct {
	team *overview.Team
	err  error
}

type teamActionMsg struct {
	text string
	err  error
}

func (m TeamModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		team, err := m.overview.Team(ctx, month)

		return teamLoadedMsg{team: team, err: err}
	}
}

func (m TeamModel) transitionCmd(to status.Status, comment string) tea.Cmd {
	row := m.selected()
	if row == nil {
		return nil
	}

	employeeID, name, month, role := row.EmployeeID, row.Name, m.month, m.role

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, _, err := m.statuses.Transition(ctx, employeeID, month, to, comment, role)
		if err != nil {
			return teamActionMsg{err: err}
		}

		return teamActionMsg{text: fmt.Sprintf("%s: %s is now %s.", name, month, st.Status)}
	}
}
