// Package excel renders schedules into a fixed-layout workbook: one sheet
// per category with the match grid, per-slot resting annotations, a
// lunch-break marker row, and the fairness statistics table.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/torneoapp/torneo/internal/engine"
)

// Generate creates a workbook with one sheet per schedule. The layout is
// fixed so the validator can read it back.
func Generate(results []*engine.Result, eventName, eventDate string) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	for _, result := range results {
		if err := writeCategorySheet(f, result, eventName, eventDate); err != nil {
			return nil, fmt.Errorf("writing sheet %s: %w", result.Category, err)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func matchHeaders(noReferee bool) []string {
	headers := []string{"#", "Time", "Field", "Team 1", "Team 2"}
	if !noReferee {
		headers = append(headers, "Referee")
	}
	return headers
}

func statsHeaders(noReferee bool) []string {
	if noReferee {
		return []string{"Team", "Played", "Max Wait (min)"}
	}
	return []string{"Team", "Played", "Refereed", "Max Wait (min)"}
}

func writeCategorySheet(f *excelize.File, result *engine.Result, eventName, eventDate string) error {
	sheet := result.Category
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
	})
	restingStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "#888888", Family: "Arial"},
	})
	lunchStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4A6CF7"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	row := 1
	if eventName != "" || eventDate != "" {
		parts := []string{}
		if eventName != "" {
			parts = append(parts, eventName)
		}
		if eventDate != "" {
			parts = append(parts, eventDate)
		}
		f.SetCellValue(sheet, cellRef(1, row), strings.Join(parts, " - "))
		row += 2
	}

	headers := matchHeaders(result.NoReferee)
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, row), h)
		f.SetCellStyle(sheet, cellRef(i+1, row), cellRef(i+1, row), headerStyle)
	}
	row++

	resting := result.RestingPerSlot()
	writeResting := func(slot int) {
		names := resting[slot]
		if len(names) == 0 {
			return
		}
		f.SetCellValue(sheet, cellRef(1, row), "Resting: "+strings.Join(names, ", "))
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), restingStyle)
		row++
	}

	currentSlot := -1
	for _, m := range result.Matches {
		if m.Slot != currentSlot {
			if currentSlot >= 0 {
				writeResting(currentSlot)
			}
			if result.MorningSlots > 0 && m.Slot == result.MorningSlots {
				f.SetCellValue(sheet, cellRef(1, row), fmt.Sprintf("LUNCH BREAK  %d min", result.LunchBreak))
				last := cellRef(len(headers), row)
				f.MergeCell(sheet, cellRef(1, row), last)
				f.SetCellStyle(sheet, cellRef(1, row), last, lunchStyle)
				row++
			}
			currentSlot = m.Slot
		}

		f.SetCellValue(sheet, cellRef(1, row), m.Number)
		f.SetCellValue(sheet, cellRef(2, row), m.StartTime)
		f.SetCellValue(sheet, cellRef(3, row), fmt.Sprintf("Field %d", m.Field))
		f.SetCellValue(sheet, cellRef(4, row), m.Team1)
		f.SetCellValue(sheet, cellRef(5, row), m.Team2)
		if !result.NoReferee {
			f.SetCellValue(sheet, cellRef(6, row), m.Referee)
		}
		row++
	}
	if currentSlot >= 0 {
		writeResting(currentSlot)
	}

	// Warnings, then the statistics table.
	if len(result.Warnings) > 0 || result.TimeOverrun != "" {
		row++
		for _, w := range result.Warnings {
			f.SetCellValue(sheet, cellRef(1, row), "Note: "+w)
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), restingStyle)
			row++
		}
		if result.TimeOverrun != "" {
			f.SetCellValue(sheet, cellRef(1, row), "Note: "+result.TimeOverrun)
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), restingStyle)
			row++
		}
	}

	row++
	stats := statsHeaders(result.NoReferee)
	for i, h := range stats {
		f.SetCellValue(sheet, cellRef(i+1, row), h)
		f.SetCellStyle(sheet, cellRef(i+1, row), cellRef(i+1, row), headerStyle)
	}
	row++
	for _, name := range result.TeamNames {
		s := result.Stats[name]
		f.SetCellValue(sheet, cellRef(1, row), name)
		f.SetCellValue(sheet, cellRef(2, row), s.Played)
		if result.NoReferee {
			f.SetCellValue(sheet, cellRef(3, row), s.MaxWait)
		} else {
			f.SetCellValue(sheet, cellRef(3, row), s.Refereed)
			f.SetCellValue(sheet, cellRef(4, row), s.MaxWait)
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "C", 10)
	f.SetColWidth(sheet, "D", colLetter(len(headers)), 18)

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
