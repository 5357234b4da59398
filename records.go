package main

import (
	"net/http"
	"strconv"

	"edak/models"
	"edak/pkg/feed"
	"edak/pkg/scan"
	"edak/pkg/validate"

	"github.com/gin-gonic/gin"
)

const recordsCollection = "records"

// listRecordsHandler returns every correspondence record, newest first.
// Filtering and searching happen downstream in the console.
func (a *app) listRecordsHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	var rows []models.Record
	if err := a.db.Order("created_at desc").Find(&rows).Error; err != nil {
		a.log.Error("list records failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load records"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// checkInwardHandler reports whether any OTHER record already holds the
// candidate inward number. The console debounces its calls; a positive
// result blocks submission client-side before the write is ever attempted.
func (a *app) checkInwardHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	number := trim(c.Query("number"))
	if number == "" {
		c.JSON(http.StatusOK, gin.H{"duplicate": false})
		return
	}
	var exclude uint64
	if v := c.Query("exclude"); v != "" {
		exclude, _ = strconv.ParseUint(v, 10, 64)
	}
	dup, err := a.hasDuplicateInward(number, uint(exclude))
	if err != nil {
		a.log.Error("inward check failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check inward number"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicate": dup})
}

func (a *app) hasDuplicateInward(number string, excludeID uint) (bool, error) {
	var cnt int64
	q := a.db.Model(&models.Record{}).Where("inward_number = ?", number)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// recordForm is the raw submitted state of the correspondence form.
type recordForm struct {
	Department    string
	SubType       string
	Subject       string
	Sender        string
	Assignee      string
	Status        string
	InwardNumber  string
	InwardDate    string
	ReceivingDate string
	Description   string
}

func bindRecordForm(c *gin.Context) recordForm {
	return recordForm{
		Department:    c.PostForm("department"),
		SubType:       c.PostForm("sub_type"),
		Subject:       c.PostForm("subject"),
		Sender:        c.PostForm("sender"),
		Assignee:      c.PostForm("assignee"),
		Status:        c.PostForm("status"),
		InwardNumber:  c.PostForm("inward_number"),
		InwardDate:    c.PostForm("inward_date"),
		ReceivingDate: c.PostForm("receiving_date"),
		Description:   c.PostForm("description"),
	}
}

func validateRecordForm(f recordForm) fieldErrors {
	fe := fieldErrors{}
	fe.add("department", validate.Required("department", f.Department))
	fe.add("department", validate.OneOf("department", f.Department, departmentNames()))
	fe.add("subject", validate.Required("subject", f.Subject))
	fe.add("subject", validate.Text("subject", f.Subject, 3, 512))
	fe.add("status", validate.Required("status", f.Status))
	fe.add("status", validate.OneOf("status", f.Status, statusNames()))
	fe.add("inward_number", validate.Required("inward number", f.InwardNumber))
	fe.add("inward_date", validate.Date("inward date", f.InwardDate))
	fe.add("receiving_date", validate.Date("receiving date", f.ReceivingDate))
	return fe
}

func departmentNames() []string {
	out := make([]string, len(models.Departments))
	for i, d := range models.Departments {
		out[i] = string(d)
	}
	return out
}

func statusNames() []string {
	out := make([]string, len(models.RecordStatuses))
	for i, s := range models.RecordStatuses {
		out[i] = string(s)
	}
	return out
}

// apply copies the normalized form state onto a record. File reference fields
// are left alone; the caller decides whether a new blob replaces them.
func (f recordForm) apply(r *models.Record) {
	r.Department = models.Department(trim(f.Department))
	r.SubType = trim(f.SubType)
	r.Subject = trim(f.Subject)
	r.Sender = trim(f.Sender)
	r.Assignee = trim(f.Assignee)
	r.Status = models.RecordStatus(trim(f.Status))
	r.InwardNumber = trim(f.InwardNumber)
	r.InwardDate = trim(f.InwardDate)
	r.ReceivingDate = trim(f.ReceivingDate)
	r.Description = trim(f.Description)
}

func (a *app) createRecordHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteRecord) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	form := bindRecordForm(c)
	if fe := validateRecordForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	number := trim(form.InwardNumber)
	dup, err := a.hasDuplicateInward(number, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check inward number"})
		return
	}
	if dup {
		c.JSON(http.StatusConflict, gin.H{"error": "inward number " + number + " is already in use"})
		return
	}

	var rec models.Record
	form.apply(&rec)

	var suggestions []string
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
			return
		}
		ref, err := a.saveBlob(c, file, "records")
		if err != nil {
			a.log.Error("record file save failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file save failed"})
			return
		}
		rec.FileRef = ref
		suggestions = a.scanAssist(ref)
	}

	if err := a.db.Create(&rec).Error; err != nil {
		// the unique index backstops the check above under concurrent submits
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "inward number " + number + " is already in use"})
			return
		}
		a.log.Error("record create failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	a.publishRecords()
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "scan_suggestions": suggestions})
}

// scanAssist OCRs an uploaded image scan for inward-number candidates.
// Best effort only; any failure is logged and the caller gets no suggestions.
func (a *app) scanAssist(ref models.FileRef) []string {
	if !scan.IsImagePath(ref.StorePath) {
		return nil
	}
	got, err := scan.SuggestInwardNumber(a.blobPath(ref))
	if err != nil {
		a.log.Warn("scan assist failed", "path", ref.StorePath, "err", err)
		return nil
	}
	return got
}

func (a *app) updateRecordHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteRecord) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var existing models.Record
	if err := a.db.First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	form := bindRecordForm(c)
	if fe := validateRecordForm(form); !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	number := trim(form.InwardNumber)
	dup, err := a.hasDuplicateInward(number, existing.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check inward number"})
		return
	}
	if dup {
		c.JSON(http.StatusConflict, gin.H{"error": "inward number " + number + " is already in use"})
		return
	}

	updated := existing
	form.apply(&updated)

	file, fileErr := c.FormFile("file")
	hasNewFile := fileErr == nil

	// no file attached during the edit: previous file reference carries
	// forward unchanged, and an untouched form is a no-op.
	if !hasNewFile && sameFieldSet(updated.FieldSet(), existing.FieldSet()) {
		c.JSON(http.StatusOK, gin.H{"message": "no changes to save"})
		return
	}

	oldRef := existing.FileRef
	if hasNewFile {
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
			return
		}
		ref, err := a.saveBlob(c, file, "records")
		if err != nil {
			a.log.Error("record file save failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file save failed"})
			return
		}
		updated.FileRef = ref
	}

	// UpdatedAt is stamped by the store; CreatedAt is never touched.
	if err := a.db.Model(&existing).Select("*").Omit("id", "created_at").Updates(&updated).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "inward number " + number + " is already in use"})
			return
		}
		a.log.Error("record update failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if hasNewFile && oldRef.StorePath != "" && oldRef.StorePath != updated.StorePath {
		a.removeBlob(oldRef)
	}
	a.publishRecords()
	c.JSON(http.StatusOK, gin.H{"id": existing.ID})
}

// deleteRecordHandler hard-deletes a record along with its backing blob and
// any attachment. Admin only.
func (a *app) deleteRecordHandler(c *gin.Context) {
	if !a.authorize(c, ActionDeleteRecord) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var rec models.Record
	if err := a.db.First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var att models.Attachment
	hasAttachment := a.db.Where("record_id = ?", rec.ID).First(&att).Error == nil

	if err := a.db.Delete(&rec).Error; err != nil {
		a.log.Error("record delete failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	a.removeBlob(rec.FileRef)
	if hasAttachment {
		a.db.Delete(&att)
		a.removeBlob(att.FileRef)
	}
	a.publishRecords()
	a.hub.Publish(attachmentsCollection, a.attachmentItems())
	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}

// publishRecords pushes the current ordered snapshot to the change feed.
func (a *app) publishRecords() {
	var rows []models.Record
	if err := a.db.Order("created_at desc").Find(&rows).Error; err != nil {
		a.log.Error("records snapshot failed", "err", err)
		return
	}
	a.hub.Publish(recordsCollection, feed.Flatten(rows))
}
