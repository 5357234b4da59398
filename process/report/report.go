// Package report renders the printable monthly travel diary as an XLSX
// workbook. The header and footer lines come from the locally persisted
// report-configuration bag, not the database.
package report

import (
	"fmt"
	"log"
	"os"
	"time"

	"edak/models"
	"edak/pkg/clock12"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sheet = "Travel Diary"

// MonthBounds parses "YYYY-MM" into the half-open [start, end) date strings
// used to band the query.
func MonthBounds(month string) (string, string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month format, expected YYYY-MM: %w", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02"), nil
}

// BuildMonthlyWorkbook assembles the month's diary entries into a workbook.
// cfg supplies the free-text header/footer fields ("office_name",
// "officer_name", "designation", "footer_note"); absent keys render blank.
func BuildMonthlyWorkbook(db *gorm.DB, month string, cfg map[string]string) (*excelize.File, error) {
	start, end, err := MonthBounds(month)
	if err != nil {
		return nil, err
	}
	var rows []models.DiaryEntry
	if err := db.Where("date >= ? AND date < ?", start, end).Order("date asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch diary rows: %w", err)
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	line := 1
	setRow := func(cells ...interface{}) {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		_ = f.SetSheetRow(sheet, cell, &cells)
		line++
	}

	setRow(cfg["office_name"])
	setRow(fmt.Sprintf("Monthly Travel Diary - %s", month))
	if officer := cfg["officer_name"]; officer != "" {
		setRow(fmt.Sprintf("%s, %s", officer, cfg["designation"]))
	}
	line++ // blank separator
	setRow("Date", "From", "To", "Departure", "Arrival", "Duration", "Distance (km)", "Vehicle No.")

	var totalKM float64
	for _, r := range rows {
		dep := clock12.From24h(r.Departure)
		arr := clock12.From24h(r.Arrival)
		setRow(r.Date, r.FromPlace, r.ToPlace, dep, arr, clock12.Duration(dep, arr), r.DistanceKM, r.VehicleNumber)
		totalKM += r.DistanceKM
	}
	setRow()
	setRow("Total", "", "", "", "", "", totalKM, "")
	if note := cfg["footer_note"]; note != "" {
		setRow(note)
	}
	return f, nil
}

// Run is the CLI entry: builds the workbook from the DB named by DB_DSN and
// writes it to outPath.
func Run(month, cfgPath, outPath string) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	cfg := loadConfigBag(cfgPath)
	f, err := BuildMonthlyWorkbook(gdb, month, cfg)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}
	if err := f.SaveAs(outPath); err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}
	fmt.Printf("report written to %s\n", outPath)
}
