package main

import (
	"net/http"

	"edak/models"
	"edak/pkg/clock12"
	"edak/pkg/feed"
	"edak/pkg/validate"
	"edak/process/report"

	"github.com/gin-gonic/gin"
)

const diaryCollection = "diary"

// diaryView is a diary row as the console shows it: legacy 24-hour times
// migrated to the display form at read time and the trip duration computed
// with overnight wrap.
type diaryView struct {
	models.DiaryEntry
	Duration string `json:"duration"`
}

func toDiaryView(e models.DiaryEntry) diaryView {
	e.Departure = clock12.From24h(e.Departure)
	e.Arrival = clock12.From24h(e.Arrival)
	return diaryView{DiaryEntry: e, Duration: clock12.Duration(e.Departure, e.Arrival)}
}

// listDiaryHandler returns travel diary entries in ascending date order.
func (a *app) listDiaryHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	views, err := a.diaryViews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load diary"})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (a *app) diaryViews() ([]diaryView, error) {
	var rows []models.DiaryEntry
	if err := a.db.Order("date asc, id asc").Find(&rows).Error; err != nil {
		a.log.Error("list diary failed", "err", err)
		return nil, err
	}
	views := make([]diaryView, len(rows))
	for i, r := range rows {
		views[i] = toDiaryView(r)
	}
	return views, nil
}

type diaryForm struct {
	Date          string `json:"date"`
	FromPlace     string `json:"from_place"`
	ToPlace       string `json:"to_place"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	Distance      string `json:"distance"`
	VehicleNumber string `json:"vehicle_number"`
}

// validateDiaryForm applies the diary's rules: date, distance and vehicle
// number are required; everything else is format-checked only when supplied.
// Overnight time pairs are NOT rejected here; the duration display wraps them.
func validateDiaryForm(f diaryForm) fieldErrors {
	fe := fieldErrors{}
	fe.add("date", validate.Required("date", f.Date))
	fe.add("date", validate.Date("date", f.Date))
	fe.add("from_place", validate.Text("from place", f.FromPlace, 2, 255))
	fe.add("to_place", validate.Text("to place", f.ToPlace, 2, 255))
	fe.add("departure", validate.TwelveHour("departure time", f.Departure))
	fe.add("arrival", validate.TwelveHour("arrival time", f.Arrival))
	fe.add("distance", validate.Required("distance", f.Distance))
	fe.add("distance", validate.PositiveDistance(f.Distance))
	fe.add("vehicle_number", validate.Required("vehicle number", f.VehicleNumber))
	fe.add("vehicle_number", validate.VehicleNumber(f.VehicleNumber))
	return fe
}

func (f diaryForm) apply(e *models.DiaryEntry) {
	e.Date = trim(f.Date)
	e.FromPlace = trim(f.FromPlace)
	e.ToPlace = trim(f.ToPlace)
	e.Departure = trim(f.Departure)
	e.Arrival = trim(f.Arrival)
	e.DistanceKM = parseFloat(f.Distance)
	e.VehicleNumber = validate.NormalizeVehicleNumber(f.VehicleNumber)
}

func (a *app) createDiaryHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteDiary) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	var form diaryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fe := validateDiaryForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	var entry models.DiaryEntry
	form.apply(&entry)
	if err := a.db.Create(&entry).Error; err != nil {
		a.log.Error("diary create failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	a.publishDiary()
	c.JSON(http.StatusOK, gin.H{"id": entry.ID})
}

func (a *app) updateDiaryHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteDiary) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var existing models.DiaryEntry
	if err := a.db.First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "diary entry not found"})
		return
	}
	var form diaryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fe := validateDiaryForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	updated := existing
	form.apply(&updated)
	if sameFieldSet(updated.FieldSet(), existing.FieldSet()) {
		c.JSON(http.StatusOK, gin.H{"message": "no changes to save"})
		return
	}
	if err := a.db.Model(&existing).Select("*").Omit("id", "created_at").Updates(&updated).Error; err != nil {
		a.log.Error("diary update failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	a.publishDiary()
	c.JSON(http.StatusOK, gin.H{"id": existing.ID})
}

func (a *app) deleteDiaryHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteDiary) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var entry models.DiaryEntry
	if err := a.db.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "diary entry not found"})
		return
	}
	if err := a.db.Delete(&entry).Error; err != nil {
		a.log.Error("diary delete failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	a.publishDiary()
	c.JSON(http.StatusOK, gin.H{"message": "diary entry deleted"})
}

// diaryReportHandler streams the printable monthly diary as an XLSX download.
// One-way export; nothing is imported back.
func (a *app) diaryReportHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	month := c.Query("month")
	if v := validate.Required("month", month); v != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": v})
		return
	}
	f, err := report.BuildMonthlyWorkbook(a.db, month, a.reports.All())
	if err != nil {
		a.log.Error("diary report failed", "month", month, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not build report for " + month})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="travel-diary-`+month+`.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		a.log.Error("diary report write failed", "err", err)
	}
}

func (a *app) publishDiary() {
	views, err := a.diaryViews()
	if err != nil {
		return
	}
	a.hub.Publish(diaryCollection, feed.Flatten(views))
}
