package main

import (
	"fmt"
	"net/http"

	"edak/models"
	"edak/pkg/feed"
	"edak/pkg/validate"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// logBookPath names the feed collection for a partition: the shared one for
// admins, a personal one per subadmin.
func logBookPath(owner *uint) string {
	if owner == nil {
		return "logbook:shared"
	}
	return fmt.Sprintf("logbook:user:%d", *owner)
}

// partitionScope narrows a query to the caller's partition.
func partitionScope(owner *uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if owner == nil {
			return q.Where("owner_id IS NULL")
		}
		return q.Where("owner_id = ?", *owner)
	}
}

// listLogBookHandler returns the caller's partition, newest date first.
// Which partition that is follows from the role alone.
func (a *app) listLogBookHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	owner := logBookOwner(currentSession(c))
	var rows []models.LogBookEntry
	if err := a.db.Scopes(partitionScope(owner)).Order("date desc, id desc").Find(&rows).Error; err != nil {
		a.log.Error("list logbook failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load logbook"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type logBookForm struct {
	Date       string `json:"date"`
	Fuel       string `json:"fuel"`
	Oil        string `json:"oil"`
	Departure  string `json:"departure"`
	Arrival    string `json:"arrival"`
	FromPlace  string `json:"from_place"`
	ToPlace    string `json:"to_place"`
	OdoBefore  string `json:"odo_before"`
	OdoAfter   string `json:"odo_after"`
	Purpose    string `json:"purpose"`
	DriverName string `json:"driver_name"`
}

// validateLogBookForm applies the logbook's rules. Unlike the diary, a time
// pair here must land within one day with the arrival strictly later.
func validateLogBookForm(f logBookForm) fieldErrors {
	fe := fieldErrors{}
	fe.add("date", validate.Required("date", f.Date))
	fe.add("date", validate.Date("date", f.Date))
	fe.add("fuel", validate.Fuel(f.Fuel))
	fe.add("oil", validate.Oil(f.Oil))
	fe.add("departure", validate.TwelveHour("departure time", f.Departure))
	fe.add("arrival", validate.TwelveHour("arrival time", f.Arrival))
	if trim(f.Departure) != "" && trim(f.Arrival) != "" {
		fe.add("arrival", validate.ArrivalAfterDeparture(f.Departure, f.Arrival))
	}
	fe.add("from_place", validate.Text("from place", f.FromPlace, 2, 255))
	fe.add("to_place", validate.Text("to place", f.ToPlace, 2, 255))
	fe.add("odo_before", validate.Required("before reading", f.OdoBefore))
	fe.add("odo_before", validate.Odometer(f.OdoBefore))
	fe.add("odo_after", validate.Required("after reading", f.OdoAfter))
	fe.add("odo_after", validate.Odometer(f.OdoAfter))
	if fe["odo_before"] == "" && fe["odo_after"] == "" {
		fe.add("odo_after", validate.OdometerPair(f.OdoBefore, f.OdoAfter))
	}
	fe.add("purpose", validate.Text("purpose", f.Purpose, 2, 512))
	fe.add("driver_name", validate.Text("driver name", f.DriverName, 2, 255))
	return fe
}

// apply copies the normalized form onto an entry. Distance is derived from
// the odometer pair and cleared when the pair does not increase.
func (f logBookForm) apply(e *models.LogBookEntry) {
	e.Date = trim(f.Date)
	e.FuelLitres = parseFloat(f.Fuel)
	e.OilLitres = parseFloat(f.Oil)
	e.Departure = trim(f.Departure)
	e.Arrival = trim(f.Arrival)
	e.FromPlace = trim(f.FromPlace)
	e.ToPlace = trim(f.ToPlace)
	e.OdoBefore = parseFloat(f.OdoBefore)
	e.OdoAfter = parseFloat(f.OdoAfter)
	if e.OdoAfter > e.OdoBefore {
		e.DistanceKM = e.OdoAfter - e.OdoBefore
	} else {
		e.DistanceKM = 0
	}
	e.Purpose = trim(f.Purpose)
	e.DriverName = trim(f.DriverName)
}

func (a *app) createLogBookHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteLogBook) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	var form logBookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fe := validateLogBookForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	owner := logBookOwner(currentSession(c))
	entry := models.LogBookEntry{OwnerID: owner}
	form.apply(&entry)
	if err := a.db.Create(&entry).Error; err != nil {
		a.log.Error("logbook create failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	a.publishLogBook(owner)
	c.JSON(http.StatusOK, gin.H{"id": entry.ID})
}

func (a *app) updateLogBookHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteLogBook) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	owner := logBookOwner(currentSession(c))
	id := c.Param("id")
	var existing models.LogBookEntry
	// the id is resolved inside the caller's partition; rows outside it do
	// not exist as far as the caller can tell
	if err := a.db.Scopes(partitionScope(owner)).First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "logbook entry not found"})
		return
	}
	var form logBookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fe := validateLogBookForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	updated := existing
	form.apply(&updated)
	if sameFieldSet(updated.FieldSet(), existing.FieldSet()) {
		c.JSON(http.StatusOK, gin.H{"message": "no changes to save"})
		return
	}
	if err := a.db.Model(&existing).Select("*").Omit("id", "created_at", "owner_id").Updates(&updated).Error; err != nil {
		a.log.Error("logbook update failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	a.publishLogBook(owner)
	c.JSON(http.StatusOK, gin.H{"id": existing.ID})
}

func (a *app) deleteLogBookHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteLogBook) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	owner := logBookOwner(currentSession(c))
	id := c.Param("id")
	var entry models.LogBookEntry
	if err := a.db.Scopes(partitionScope(owner)).First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "logbook entry not found"})
		return
	}
	if err := a.db.Delete(&entry).Error; err != nil {
		a.log.Error("logbook delete failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	a.publishLogBook(owner)
	c.JSON(http.StatusOK, gin.H{"message": "logbook entry deleted"})
}

func (a *app) publishLogBook(owner *uint) {
	var rows []models.LogBookEntry
	if err := a.db.Scopes(partitionScope(owner)).Order("date desc, id desc").Find(&rows).Error; err != nil {
		a.log.Error("logbook snapshot failed", "err", err)
		return
	}
	a.hub.Publish(logBookPath(owner), feed.Flatten(rows))
}
