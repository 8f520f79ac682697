package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dompet/internal/app"
	"dompet/internal/core"
	"dompet/internal/format"
)

var tabs = []struct {
	view  app.View
	label string
}{
	{app.ViewHome, "1 Beranda"},
	{app.ViewAnalytic, "2 Analitik"},
	{app.ViewTransactionList, "3 Transaksi"},
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.snap
	var sections []string
	sections = append(sections, m.renderHeader())
	if s.EnvWarning {
		sections = append(sections, warnBannerStyle.Render("⚠ "+app.MsgOutsideHost))
	}

	switch s.View {
	case app.ViewHome:
		sections = append(sections, m.renderHome())
	case app.ViewAnalytic:
		sections = append(sections, m.renderAnalytics())
	case app.ViewTransactionList:
		sections = append(sections, m.renderList())
	case app.ViewDetail:
		sections = append(sections, m.renderDetail())
	case app.ViewAddEdit:
		sections = append(sections, m.renderForm())
	}

	sections = append(sections, m.renderStatus(), helpStyle.Render(m.help()))
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.confirm != nil {
		return lipgloss.JoinVertical(lipgloss.Left, body, "",
			modalStyle.Render(m.confirm.prompt+"\n\n"+mutedStyle.Render("[y] ya   [n] batal")))
	}
	return body
}

func (m *Model) renderHeader() string {
	if m.snap.ChromeHidden {
		return appNameStyle.Render("dompet")
	}
	parts := []string{appNameStyle.Render("dompet")}
	for _, t := range tabs {
		if m.snap.HasTab && m.snap.ActiveTab == t.view {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHome() string {
	b := m.snap.Balance
	balance := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Saldo")+titleStyle.Render(b.Balance),
		labelStyle.Render("Pemasukan")+incomeStyle.Render(b.Income),
		labelStyle.Render("Pengeluaran")+expenseStyle.Render(b.Expense),
	))

	r := m.snap.Recent
	var recent string
	if r.Phase == app.PhasePopulated {
		recent = m.renderRows(r.Rows)
	} else {
		recent = mutedStyle.Render(r.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, balance, titleStyle.Render("Transaksi terakhir"), recent)
}

func (m *Model) renderRows(rows []format.TransactionView) string {
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		amount := expenseStyle.Render(row.Amount)
		if row.Type == core.Income {
			amount = incomeStyle.Render(row.Amount)
		}
		line := fmt.Sprintf("%s %-18s %-24s %s  %s",
			format.Glyph(row.CategoryKind),
			truncate(row.CategoryName, 18),
			truncate(row.Description, 24),
			mutedStyle.Render(row.Date),
			amount)
		if i == m.cursor {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAnalytics() string {
	a := m.snap.Analytics
	chips := make([]string, 0, 2)
	for _, t := range []core.TxType{core.Expense, core.Income} {
		label := format.TypeLabel(t)
		if a.Type == t {
			chips = append(chips, activeTabStyle.Render(label))
		} else {
			chips = append(chips, inactiveTabStyle.Render(label))
		}
	}
	out := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
		mutedStyle.Render(rangeLabel(m.snap.Range)),
	}

	if a.Phase == app.PhaseLoading {
		out = append(out, mutedStyle.Render(app.MsgLoading))
	} else if chart := m.chart.Render(m.width - 4); chart != "" && !a.ChartEmpty {
		out = append(out, chart)
	}

	if a.BreakdownMessage != "" {
		out = append(out, mutedStyle.Render(a.BreakdownMessage))
		return lipgloss.JoinVertical(lipgloss.Left, out...)
	}
	barStyle := expenseStyle
	if a.Type == core.Income {
		barStyle = incomeStyle
	}
	const barWidth = 30
	for _, row := range a.Breakdown {
		filled := int(row.Width / 100 * barWidth)
		filled = min(max(filled, 0), barWidth)
		out = append(out, fmt.Sprintf("%s %-18s %s%s %s",
			format.Glyph(row.Kind),
			truncate(row.Name, 18),
			barStyle.Render(strings.Repeat("█", filled)),
			mutedStyle.Render(strings.Repeat("░", barWidth-filled)),
			row.Percent))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m *Model) renderList() string {
	l := m.snap.List
	var rng string
	if m.rng != nil {
		start, end := m.rng.start, m.rng.end
		if m.rng.onEnd {
			end = focusStyle.Render(end + "▏")
		} else {
			start = focusStyle.Render(start + "▏")
		}
		rng = "Periode: " + start + " s/d " + end
	} else {
		rng = "Periode: " + rangeLabel(m.snap.Range)
	}

	out := []string{
		rng,
		labelStyle.Render("Pemasukan") + incomeStyle.Render(l.Income),
		labelStyle.Render("Pengeluaran") + expenseStyle.Render(l.Expense),
	}
	if l.Phase == app.PhasePopulated {
		out = append(out, m.renderRows(l.Rows))
	} else {
		out = append(out, mutedStyle.Render(l.Message))
	}

	prev, next := "‹ sebelumnya", "berikutnya ›"
	if l.PrevDisabled {
		prev = mutedStyle.Render(prev)
	}
	if l.NextDisabled {
		next = mutedStyle.Render(next)
	}
	out = append(out, fmt.Sprintf("%s   %s   %s   %s", l.Total, prev, l.PageInfo, next))
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m *Model) renderDetail() string {
	d := m.snap.Detail
	if d == nil {
		return mutedStyle.Render(app.MsgLoadingShort)
	}
	amount := expenseStyle.Render(d.Amount)
	if d.Type == core.Income {
		amount = incomeStyle.Render(d.Amount)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Detail Transaksi"),
		labelStyle.Render("Tanggal")+d.DateTime,
		labelStyle.Render("Jenis")+d.TypeLabel,
		labelStyle.Render("Nominal")+amount,
		labelStyle.Render("Kategori")+format.Glyph(d.CategoryKind)+" "+d.CategoryName,
		labelStyle.Render("Catatan")+d.Description,
	))
}

func (m *Model) renderForm() string {
	e := m.snap.Editor
	label := func(f formField, text string) string {
		if m.field == f {
			return focusStyle.Width(14).Render("› " + text)
		}
		return labelStyle.Render("  " + text)
	}

	amount := e.Amount
	if amount == "" {
		amount = mutedStyle.Render("0")
	}
	var cats string
	if e.CategoryMessage != "" {
		cats = mutedStyle.Render(e.CategoryMessage)
	} else {
		names := make([]string, 0, len(e.Categories))
		for _, c := range e.Categories {
			name := format.Glyph(c.Kind) + " " + c.Label
			if c.Selected {
				name = focusStyle.Render("[" + name + "]")
			}
			names = append(names, name)
		}
		cats = strings.Join(names, "  ")
	}

	lines := []string{
		titleStyle.Render(e.Title),
		labelStyle.Render("  Jenis") + e.TypeLabel,
		label(fieldAmount, "Nominal") + "Rp " + amount,
		label(fieldDescription, "Catatan") + e.Description,
		label(fieldCategory, "Kategori") + cats,
	}
	if e.Saving {
		lines = append(lines, mutedStyle.Render(app.MsgSaving))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderStatus() string {
	st := m.snap.Status
	var text string
	switch st.Kind {
	case app.StatusError:
		text = errorStyle.Render(st.Text)
	case app.StatusOK:
		text = okStyle.Render(st.Text)
	default:
		text = mutedStyle.Render(st.Text)
	}
	if m.flash != "" {
		flash := errorStyle.Render(m.flash)
		if m.flashOK {
			flash = okStyle.Render(m.flash)
		}
		text = flash + " " + text
	}
	return text
}

func (m *Model) help() string {
	switch {
	case m.rng != nil:
		return "tab ganti kolom • enter terapkan • esc batal"
	case m.snap.View == app.ViewAddEdit:
		return "tab pindah kolom • ←/→ kategori • enter simpan • esc batal"
	case m.snap.View == app.ViewDetail:
		return "e ubah • d hapus • esc tutup"
	case m.snap.View == app.ViewAnalytic:
		return "1/2/3 tab • t ganti jenis • a/A tambah • q keluar"
	case m.snap.View == app.ViewTransactionList:
		return "↑/↓ pilih • enter detail • ←/→ halaman • w 7 hari • m 30 hari • r periode • q keluar"
	}
	return "1/2/3 tab • ↑/↓ pilih • enter detail • a pengeluaran • A pemasukan • q keluar"
}

func (m *Model) visibleRows() []format.TransactionView {
	switch m.snap.View {
	case app.ViewHome:
		return m.snap.Recent.Rows
	case app.ViewTransactionList:
		return m.snap.List.Rows
	}
	return nil
}

func rangeLabel(r core.DateRange) string {
	return format.ShortDate(r.Start.String()) + " s/d " + format.ShortDate(r.End.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
