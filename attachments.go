package main

import (
	"net/http"

	"edak/models"
	"edak/pkg/feed"

	"github.com/gin-gonic/gin"
)

const attachmentsCollection = "attachments"

// uploadAttachmentHandler stores the single supplementary file for a record,
// replacing any previous one in place.
func (a *app) uploadAttachmentHandler(c *gin.Context) {
	if !a.authorize(c, ActionWriteRecord) {
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
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	ref, err := a.saveBlob(c, file, "attachments")
	if err != nil {
		a.log.Error("attachment save failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file save failed"})
		return
	}

	s := currentSession(c)
	var att models.Attachment
	if err := a.db.Where("record_id = ?", rec.ID).First(&att).Error; err == nil {
		old := att.FileRef
		att.FileRef = ref
		att.UploaderID = s.UserID
		att.UploaderName = s.Name
		if err := a.db.Save(&att).Error; err != nil {
			a.log.Error("attachment replace failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		a.removeBlob(old)
	} else {
		att = models.Attachment{RecordID: rec.ID, UploaderID: s.UserID, UploaderName: s.Name, FileRef: ref}
		if err := a.db.Create(&att).Error; err != nil {
			a.log.Error("attachment create failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
	}
	a.hub.Publish(attachmentsCollection, a.attachmentItems())
	c.JSON(http.StatusOK, gin.H{"id": att.ID, "file_url": att.FileURL})
}

// getAttachmentHandler returns the record's attachment, or null when there is
// none; a missing attachment is an empty read, not an error.
func (a *app) getAttachmentHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var att models.Attachment
	if err := a.db.Where("record_id = ?", id).First(&att).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"attachment": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachment": att})
}

// deleteAttachmentHandler removes the attachment and its blob without
// touching the parent record. Admin only.
func (a *app) deleteAttachmentHandler(c *gin.Context) {
	if !a.authorize(c, ActionDeleteAttachment) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var att models.Attachment
	if err := a.db.Where("record_id = ?", id).First(&att).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	if err := a.db.Delete(&att).Error; err != nil {
		a.log.Error("attachment delete failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	a.removeBlob(att.FileRef)
	a.hub.Publish(attachmentsCollection, a.attachmentItems())
	c.JSON(http.StatusOK, gin.H{"message": "attachment deleted"})
}

func (a *app) attachmentItems() []feed.Item {
	var rows []models.Attachment
	if err := a.db.Order("record_id").Find(&rows).Error; err != nil {
		a.log.Error("attachments snapshot failed", "err", err)
		return nil
	}
	return feed.Flatten(rows)
}
