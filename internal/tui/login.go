package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/api"
)

type loginModel struct {
	client *api.Client
	width  int
	height int

	form *huh.Form
	busy bool

	// Form values as pointers (survive value copies)
	email    *string
	password *string

	notice  string
	errText string
}

func newLoginModel(client *api.Client) loginModel {
	e, p := "", ""
	m := loginModel{
		client:   client,
		email:    &e,
		password: &p,
	}
	m.form = m.newForm()
	return m
}

func (m loginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(m.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.password),
		).Title("Sign in"),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.errText = ""
		return m, m.submit()
	}

	return m, cmd
}

func (m loginModel) submit() tea.Cmd {
	client := m.client
	email, password := *m.email, *m.password
	return func() tea.Msg {
		result, err := client.Login(context.Background(), email, password)
		return loginResultMsg{result: result, err: err}
	}
}

// fail resets the form after a rejected login, keeping the email.
func (m loginModel) fail(err error) (loginModel, tea.Cmd) {
	m.busy = false
	m.errText = api.UserMessage(err)
	*m.password = ""
	m.form = m.newForm()
	return m, m.form.Init()
}

// withNotice resets the form with an informational line (logout, expired
// session).
func (m loginModel) withNotice(text string) (loginModel, tea.Cmd) {
	m.busy = false
	m.errText = ""
	m.notice = text
	*m.password = ""
	m.form = m.newForm()
	return m, m.form.Init()
}

func (m loginModel) view() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("occuview")
	subtitle := mutedStyle.Render("Kloudspot occupancy dashboard")

	rows := []string{title, subtitle, ""}
	if m.notice != "" {
		rows = append(rows, highlightStyle.Render(m.notice), "")
	}
	if m.errText != "" {
		rows = append(rows, errorStyle.Render(m.errText), "")
	}
	if m.busy {
		rows = append(rows, mutedStyle.Render("Signing in..."))
	} else {
		rows = append(rows, m.form.View())
	}

	panel := activePanelStyle.Width(min(max(m.width-8, 30), 64)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	if m.width == 0 {
		return panel
	}
	return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center, panel)
}
