package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/feed"
)

type notificationsModel struct {
	center *feed.Center
	width  int
	height int

	list   []feed.Notification
	cursor int
}

func newNotificationsModel(center *feed.Center) notificationsModel {
	return notificationsModel{center: center}
}

func (n *notificationsModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

func (n notificationsModel) withList() notificationsModel {
	n.list = n.center.Notifications()
	if n.cursor >= len(n.list) {
		n.cursor = max(len(n.list)-1, 0)
	}
	return n
}

func (n notificationsModel) update(msg tea.Msg) (notificationsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.list)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if n.cursor < len(n.list) {
				n.center.MarkAsRead(n.list[n.cursor].ID)
			}
		case key.Matches(msg, keys.MarkAll):
			n.center.MarkAllAsRead()
		case key.Matches(msg, keys.Clear):
			n.center.ClearAll()
			n.cursor = 0
		}
	}
	return n, nil
}

func (n notificationsModel) view() string {
	w := n.width - 4

	unread := n.center.UnreadCount()
	title := titleStyle.Render("Notifications")
	badge := mutedStyle.Render("all read")
	if unread > 0 {
		badge = accentStyle.Render(fmt.Sprintf("%d unread", unread))
	}

	if len(n.list) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title, "",
				mutedStyle.Render("No alerts yet - live entry/exit events will appear here"),
			),
		)
	}

	var rows []string
	rows = append(rows, title+"  "+badge)
	rows = append(rows, "")

	visible := n.list
	maxRows := max(n.height-10, 5)
	if len(visible) > maxRows {
		visible = visible[:maxRows]
	}

	for i, notif := range visible {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		dot := severityStyle(notif.Severity).Render("●")
		label := notif.Title
		if notif.Unread {
			label = titleStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}

		rows = append(rows, fmt.Sprintf("%s%s %s  %s",
			cursor, dot, label,
			mutedStyle.Render(feed.FormatTimestamp(notif.Timestamp)),
		))
		rows = append(rows, style.Render("     "+truncate(notif.Message, w-10)))
	}

	if len(n.list) > len(visible) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  ... %d more", len(n.list)-len(visible))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: mark read  m: mark all  c: clear"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
