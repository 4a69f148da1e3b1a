package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Zachkp/resume-site/internal/contrib"
)

const cell = "■"

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// RenderCalendar draws cal as seven rows of weekly columns with a header
// and a legend. Month initials mark the week each month begins in.
func RenderCalendar(user string, cal contrib.Calendar, origin contrib.Origin) string {
	weeks := cal.Weeks()
	var b strings.Builder

	header := fmt.Sprintf("%s contributions in the last year", humanize.Comma(int64(cal.TotalCount())))
	b.WriteString(styleTitle.Render(header))
	if user != "" {
		b.WriteString(styleMuted.Render("  @" + user))
	}
	if origin == contrib.OriginSynthesized {
		b.WriteString(styleMuted.Render("  (sample data)"))
	}
	b.WriteString("\n\n")

	b.WriteString("    ")
	b.WriteString(styleMuted.Render(monthRow(weeks)))
	b.WriteByte('\n')

	for d := range 7 {
		b.WriteString(styleMuted.Render(fmt.Sprintf("%-4s", weekdayLabels[d])))
		for _, week := range weeks {
			if d >= len(week) {
				b.WriteString("  ")
				continue
			}
			level := max(0, min(week[d].Level, contrib.MaxLevel))
			b.WriteString(levelStyles[level].Render(cell))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(styleMuted.Render("Less "))
	for _, st := range levelStyles {
		b.WriteString(st.Render(cell))
		b.WriteByte(' ')
	}
	b.WriteString(styleMuted.Render("More"))
	b.WriteByte('\n')
	return b.String()
}

// monthRow labels each column whose first day falls in a new month. Every
// column is two cells wide.
func monthRow(weeks [][]contrib.Day) string {
	row := []rune(strings.Repeat(" ", len(weeks)*2+3))
	last := time.Month(0)
	for i, week := range weeks {
		if len(week) == 0 {
			continue
		}
		m := week[0].Date.Month()
		if m == last {
			continue
		}
		last = m
		label := []rune(m.String()[:3])
		for j, r := range label {
			if i*2+j < len(row) {
				row[i*2+j] = r
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}
