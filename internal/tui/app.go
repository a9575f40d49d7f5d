// Package tui renders the admin dashboard in the terminal: a login screen,
// a role-gated menu, and list screens for talents and users. It is a thin
// consumer of the session and resource stores; every screen renders from
// store snapshots and dispatches store operations on key presses, and the
// route guard decides which screen may mount at all.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/semanticsaas/talentctl/internal/guard"
	"github.com/semanticsaas/talentctl/internal/model"
	"github.com/semanticsaas/talentctl/internal/session"
	"github.com/semanticsaas/talentctl/internal/store"
)

const pageSize = 10

// Screen identifies one dashboard view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenTalents
	ScreenUsers
	ScreenUnauthorized
)

// requiredRoles mirrors the route table of the dashboard: user management
// is admin-only, everything else needs authentication only.
func requiredRoles(s Screen) []string {
	if s == ScreenUsers {
		return []string{model.RoleAdmin}
	}
	return nil
}

// Deps are the stores the dashboard binds to.
type Deps struct {
	Session *session.Store
	Talents *store.Talents
	Users   *store.Users
}

type opDoneMsg struct{ err error }

// Model is the bubbletea model for the dashboard.
type Model struct {
	deps  Deps
	theme Theme

	screen  Screen
	width   int
	busy    bool
	banner  string
	menuIdx int
	listIdx int

	email    textinput.Model
	password textinput.Model
	focusPwd bool
}

// NewModel builds the dashboard model. The session must already be
// initialized; the guard routes to the login screen when it is anonymous.
func NewModel(deps Deps) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	m := Model{deps: deps, theme: DefaultTheme(), email: email, password: password}
	m.screen = m.route(ScreenMenu)
	return m
}

// route applies the guard to a navigation attempt and returns the screen
// that actually mounts.
func (m Model) route(target Screen) Screen {
	d := guard.Evaluate(m.deps.Session.Snapshot(), requiredRoles(target)...)
	switch d.Verdict {
	case guard.Allow:
		return target
	case guard.Redirect:
		if d.Path == guard.UnauthorizedPath {
			return ScreenUnauthorized
		}
		return ScreenLogin
	default:
		// still loading; keep the user where they are
		return m.screen
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.banner = msg.err.Error()
			// A rejected token has already torn the session down through the
			// gateway hook; re-route so the guard sends the user to login
			// instead of stranding them on a dead screen.
			m.screen = m.route(m.screen)
			return m, nil
		}
		m.banner = ""
		// a finished login unlocks the menu
		if m.screen == ScreenLogin {
			m.screen = m.route(ScreenMenu)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.screen {
		case ScreenLogin:
			return m.updateLogin(msg)
		case ScreenMenu:
			return m.updateMenu(msg)
		case ScreenTalents:
			return m.updateTalents(msg)
		case ScreenUsers:
			return m.updateUsers(msg)
		case ScreenUnauthorized:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
				m.screen = m.route(ScreenMenu)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown, tea.KeyUp:
		m.focusPwd = !m.focusPwd
		if m.focusPwd {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()

	case tea.KeyEnter:
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if email == "" || password == "" {
			m.banner = "email and password are required"
			return m, nil
		}
		m.busy = true
		m.banner = ""
		sess := m.deps.Session
		return m, func() tea.Msg {
			_, err := sess.Login(context.Background(), email, password)
			return opDoneMsg{err: err}
		}
	}

	var cmd tea.Cmd
	if m.focusPwd {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

var menuEntries = []struct {
	label  string
	target Screen
}{
	{"Talents", ScreenTalents},
	{"Users", ScreenUsers},
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyUp:
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case msg.Type == tea.KeyDown:
		if m.menuIdx < len(m.visibleMenu())-1 {
			m.menuIdx++
		}
	case msg.Type == tea.KeyEnter:
		entries := m.visibleMenu()
		if m.menuIdx >= len(entries) {
			return m, nil
		}
		target := entries[m.menuIdx].target
		m.screen = m.route(target)
		m.listIdx = 0
		if m.screen == target {
			return m, m.loadCmd(target)
		}
	case msg.String() == "q":
		return m, tea.Quit
	case msg.String() == "l":
		m.deps.Session.Logout()
		m.screen = m.route(ScreenMenu)
	}
	return m, nil
}

// visibleMenu hides entries the guard would bounce, mirroring how the
// dashboard hides admin navigation from non-admins.
func (m Model) visibleMenu() []struct {
	label  string
	target Screen
} {
	out := menuEntries[:0:0]
	for _, e := range menuEntries {
		d := guard.Evaluate(m.deps.Session.Snapshot(), requiredRoles(e.target)...)
		if d.Verdict == guard.Allow {
			out = append(out, e)
		}
	}
	return out
}

// loadCmd is the screen's mount-time fetch, kept out of the stores so they
// stay free of view lifecycle coupling.
func (m Model) loadCmd(target Screen) tea.Cmd {
	switch target {
	case ScreenTalents:
		talents := m.deps.Talents
		return func() tea.Msg {
			return opDoneMsg{err: talents.List(context.Background(), 0, pageSize, "id", "asc")}
		}
	case ScreenUsers:
		users := m.deps.Users
		return func() tea.Msg {
			return opDoneMsg{err: users.List(context.Background())}
		}
	}
	return nil
}

func (m Model) updateTalents(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.deps.Talents.Snapshot()
	switch {
	case msg.Type == tea.KeyEsc:
		m.deps.Talents.ClearCurrent()
		m.screen = m.route(ScreenMenu)
	case msg.Type == tea.KeyUp:
		if m.listIdx > 0 {
			m.listIdx--
		}
	case msg.Type == tea.KeyDown:
		if m.listIdx < len(snap.Items)-1 {
			m.listIdx++
		}
	case msg.String() == "n" && !snap.Last:
		return m.fetchTalentPage(snap.Page + 1)
	case msg.String() == "p" && snap.Page > 0:
		return m.fetchTalentPage(snap.Page - 1)
	case msg.Type == tea.KeyEnter && m.listIdx < len(snap.Items):
		id := snap.Items[m.listIdx].ID
		m.busy = true
		talents := m.deps.Talents
		return m, func() tea.Msg {
			return opDoneMsg{err: talents.Get(context.Background(), id)}
		}
	}
	return m, nil
}

func (m Model) fetchTalentPage(page int) (tea.Model, tea.Cmd) {
	m.busy = true
	m.listIdx = 0
	talents := m.deps.Talents
	return m, func() tea.Msg {
		return opDoneMsg{err: talents.List(context.Background(), page, pageSize, "id", "asc")}
	}
}

func (m Model) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.deps.Users.Snapshot()
	switch {
	case msg.Type == tea.KeyEsc:
		m.deps.Users.ClearCurrent()
		m.screen = m.route(ScreenMenu)
	case msg.Type == tea.KeyUp:
		if m.listIdx > 0 {
			m.listIdx--
		}
	case msg.Type == tea.KeyDown:
		if m.listIdx < len(snap.Items)-1 {
			m.listIdx++
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("talentctl dashboard"))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(m.theme.Error.Render(m.banner))
		b.WriteString("\n\n")
	}

	switch m.screen {
	case ScreenLogin:
		b.WriteString(m.viewLogin())
	case ScreenMenu:
		b.WriteString(m.viewMenu())
	case ScreenTalents:
		b.WriteString(m.viewTalents())
	case ScreenUsers:
		b.WriteString(m.viewUsers())
	case ScreenUnauthorized:
		b.WriteString(m.theme.Error.Render("access denied"))
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("enter: back"))
	}
	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.theme.Subtle.Render("working..."))
	}
	return b.String()
}

func (m Model) viewLogin() string {
	help := m.theme.Help.Render("tab: switch field • enter: sign in • ctrl+c: quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.email.View(),
		m.password.View(),
		help,
	)
}

func (m Model) viewMenu() string {
	snap := m.deps.Session.Snapshot()
	var b strings.Builder
	if snap.Identity != nil {
		b.WriteString(m.theme.Subtle.Render(fmt.Sprintf("signed in as %s", snap.Identity.Username)))
		b.WriteString("\n\n")
	}
	for i, e := range m.visibleMenu() {
		line := "  " + e.label
		if i == m.menuIdx {
			line = m.theme.Selected.Render("> " + e.label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render("enter: open • l: logout • q: quit"))
	return b.String()
}

func (m Model) viewTalents() string {
	snap := m.deps.Talents.Snapshot()
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(fmt.Sprintf("Talents · page %d/%d (%d total)",
		snap.Page+1, max(snap.TotalPages, 1), snap.TotalElements)))
	b.WriteString("\n")
	for i, t := range snap.Items {
		line := fmt.Sprintf("  %4d  %-18s %-18s %s", t.ID, t.FirstName, t.LastName, t.Email)
		if i == m.listIdx {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if snap.Current != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.Subtle.Render(fmt.Sprintf("detail: %s %s • %s • %s",
			snap.Current.FirstName, snap.Current.LastName, snap.Current.Email, snap.Current.Location)))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render("enter: detail • n/p: page • esc: back"))
	return b.String()
}

func (m Model) viewUsers() string {
	snap := m.deps.Users.Snapshot()
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(fmt.Sprintf("Users (%d)", len(snap.Items))))
	b.WriteString("\n")
	for i, u := range snap.Items {
		state := "disabled"
		if u.Enabled {
			state = "enabled"
		}
		line := fmt.Sprintf("  %4d  %-14s %-24s %-8s %s",
			u.ID, u.Username, u.Email, state, strings.Join(u.Roles, ","))
		if i == m.listIdx {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render("esc: back"))
	return b.String()
}

// Run starts the dashboard program and blocks until it exits.
func Run(deps Deps) error {
	_, err := tea.NewProgram(NewModel(deps), tea.WithAltScreen()).Run()
	return err
}
