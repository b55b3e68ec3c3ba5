package usecase

import (
	"fmt"
	"time"
)

// WeekLabel returns the ISO-8601 week label "S<week>-<isoYear>" for t.
// Near year boundaries the ISO year can differ from the calendar year
// (2027-01-01 is in S53-2026).
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("S%d-%d", week, year)
}

// WorkbookFileName builds the download name of the workbook artifact
func WorkbookFileName(weekLabel, originalName string) string {
	return fmt.Sprintf("grille_tarifaire_%s_%s", weekLabel, originalName)
}

// PageFileName builds the download name of the catalog page artifact
func PageFileName(weekLabel string) string {
	return fmt.Sprintf("grille_tarifaire_%s.html", weekLabel)
}
