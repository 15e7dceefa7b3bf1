package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/charmbracelet/bubbles/table"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.theme.Title.Render("♻️ Transactions · store " + m.config.StoreID))
	b.WriteString("\n")
	b.WriteString(m.renderCriteria())
	b.WriteString("\n\n")

	switch {
	case m.state == StateLoading && !m.hasData:
		b.WriteString(m.spinner.View() + " Loading transactions…")
	case m.state == StateError && !m.hasData:
		b.WriteString(m.theme.StatusError.Render("Could not load transactions. Press r to retry."))
	case m.result.Page.TotalCount == 0:
		b.WriteString(m.theme.Muted.Render("No transactions found"))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if m.editing != inputNone {
		b.WriteString("\n" + m.input.View())
	}

	if status := m.renderStatus(); status != "" {
		b.WriteString("\n" + status)
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keymap.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return b.String()
}

func (m Model) renderCriteria() string {
	c := m.list.Criteria
	field := func(label, value string) string {
		if value == "" {
			value = "any"
		}
		return m.theme.Muted.Render(label+": ") + m.theme.Normal.Render(value)
	}
	return strings.Join([]string{
		field("Store", c.SearchStore),
		field("Manager", c.SearchManager),
		field("Date", c.Date.String()),
		field("Sort", c.Sort.Label()),
		field("Per page", fmt.Sprint(c.PageSize)),
	}, "  ")
}

func (m Model) renderFooter() string {
	page := m.result.Page
	total := max(page.TotalPages, 1)
	return m.theme.Subtitle.Render(fmt.Sprintf("Page %d of %d · %d transactions", page.CurrentPage, total, page.TotalCount))
}

func (m Model) renderStatus() string {
	var parts []string
	if m.state == StateLoading && m.hasData {
		parts = append(parts, m.spinner.View()+" Refreshing…")
	}
	if m.notice != "" {
		style := m.theme.StatusSuccess
		if m.noticeIsErr {
			style = m.theme.StatusError
		}
		parts = append(parts, style.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

func columns(width int) []table.Column {
	date := 22
	items := 6
	id := 26
	rest := max(width-date-items-id-10, 20)
	return []table.Column{
		{Title: "Transaction ID", Width: id},
		{Title: "Store", Width: rest / 2},
		{Title: "Manager", Width: rest - rest/2},
		{Title: "Items", Width: items},
		{Title: "Date", Width: date},
	}
}

func tableHeight(height int) int {
	return max(height-10, 5)
}

func tableRows(txns []model.Transaction, loc *time.Location) []table.Row {
	rows := export.Rows(txns, loc)
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 transaction"
	}
	return fmt.Sprintf("%d transactions", n)
}
