package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dochazka/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/dochazka/internal/app"
	"github.com/MrJamesThe3rd/dochazka/internal/config"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type model struct {
	svc  *app.Services
	role status.Role

	currentView View

	monthView  view.MonthModel
	teamView   view.TeamModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewMonth  View = 1
	ViewTeam   View = 2
	ViewImport View = 3
	ViewExport View = 4
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)

func initialModel(svc *app.Services, role status.Role) model {
	return model{
		svc:         svc,
		role:        role,
		currentView: ViewMenu,
		monthView:   view.NewMonthModel(svc.Entries, svc.Statuses, svc.Employees, role),
		teamView:    view.NewTeamModel(svc.Overview, svc.Statuses, role),
		importView:  view.NewImportModel(svc.Entries, svc.Importer, svc.Employees),
		exportView:  view.NewExportModel(svc.Exports, svc.Employees),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewMonth
				m.monthView = view.NewMonthModel(m.svc.Entries, m.svc.Statuses, m.svc.Employees, m.role)

				return m, m.monthView.Init()
			case "2":
				m.currentView = ViewTeam
				m.teamView = view.NewTeamModel(m.svc.Overview, m.svc.Statuses, m.role)

				return m, m.teamView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc.Entries, m.svc.Importer, m.svc.Employees)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc.Exports, m.svc.Employees)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewMonth:
		var newModel tea.Model
		newModel, cmd = m.monthView.Update(msg)
		m.monthView = newModel.(view.MonthModel)
	case ViewTeam:
		var newModel tea.Model
		newModel, cmd = m.teamView.Update(msg)
		m.teamView = newModel.(view.TeamModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewMonth:
		return m.monthView
	case ViewTeam:
		return m.teamView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Docházka (" + string(m.role) + ")\n\n" +
				"1. My Month\n" +
				"2. Team Overview\n" +
				"3. Import Entries\n" +
				"4. Export Reports\n\n" +
				"q. Quit",
		)
	}

	v := m.current()
	if v == nil {
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left, v.View(), helpStyle.Render(v.Title()+" | "+v.ShortHelp()))
}

func main() {
	_ = godotenv.Load()

	role := flag.String("role", string(status.RoleEmployee), "acting role: employee or manager")
	flag.Parse()

	actor := status.Role(*role)
	if actor != status.RoleEmployee && actor != status.RoleManager {
		slog.Error("invalid role", "role", *role)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc, closeStorage, err := app.Build(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	p := tea.NewProgram(initialModel(svc, actor), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeStorage()
		os.Exit(1)
	}
}
