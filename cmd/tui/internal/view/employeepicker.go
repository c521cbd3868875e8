package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/dochazka/internal/employee"
)

// EmployeeSelectedMsg carries the picked employee, or nil for "everyone".
type EmployeeSelectedMsg struct {
	Employee *employee.Employee
}

type employeesLoadedMsg struct {
	employees []*employee.Employee
	err       error
}

// EmployeePicker lists employees for selection. With allowAll the first row
// stands for all employees.
type EmployeePicker struct {
	service   *employee.Service
	allowAll  bool
	employees []*employee.Employee
	cursor    int
	loading   bool
	err       error
}

func NewEmployeePicker(svc *employee.Service, allowAll bool) EmployeePicker {
	return EmployeePicker{service: svc, allowAll: allowAll, loading: true}
}

func (m EmployeePicker) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		employees, err := m.service.List(ctx)

		return employeesLoadedMsg{employees: employees, err: err}
	}
}

func (m EmployeePicker) options() int {
	if m.allowAll {
		return len(m.employees) + 1
	}

	return len(m.employees)
}

func (m EmployeePicker) Update(msg tea.Msg) (EmployeePicker, tea.Cmd) {
	switch msg := msg.(type) {
	case employeesLoadedMsg:
		m.loading = false
		m.employees = msg.employees
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < m.options()-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if m.options() == 0 {
				return m, nil
			}

			idx := m.cursor
			if m.allowAll {
				if idx == 0 {
					return m, func() tea.Msg { return EmployeeSelectedMsg{} }
				}

				idx--
			}

			selected := m.employees[idx]

			return m, func() tea.Msg { return EmployeeSelectedMsg{Employee: selected} }
		}
	}

	return m, nil
}

func (m EmployeePicker) View() string {
	if m.loading {
		return "Loading employees..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.options() == 0 {
		return "No employees yet. Seed the storage or add them through the API.\n\n(Esc to go back)"
	}

	s := "Select Employee:\n\n"

	for i := 0; i < m.options(); i++ {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		label := ""

		switch {
		case m.allowAll && i == 0:
			label = "All employees"
		case m.allowAll:
			e := m.employees[i-1]
			label = fmt.Sprintf("%s (%s)", e.Name, e.Role)
		default:
			e := m.employees[i]
			label = fmt.Sprintf("%s (%s)", e.Name, e.Role)
		}

		s += fmt.Sprintf("%s %s\n", cursor, label)
	}

	return s + "\n(Enter to select, Esc to go back)"
}
