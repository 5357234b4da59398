package main

import (
	"fmt"
	"io"
	"net/http"

	"edak/models"
	"edak/pkg/feed"

	"github.com/gin-gonic/gin"
)

// feedHandler streams live collection snapshots over Server-Sent Events.
// Each connected view holds exactly one subscription per collection; the
// subscription is closed when the request context ends, so a navigated-away
// view never leaks a listener. A failed initial read emits one error event
// and ends the stream; reconnecting is the client's decision.
func (a *app) feedHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	s := currentSession(c)
	path, err := a.resolveCollection(c.Param("collection"), s)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	items, err := a.snapshotItems(path)
	if err != nil {
		a.log.Error("feed initial snapshot failed", "collection", path, "err", err)
		c.Header("Content-Type", "text/event-stream")
		c.SSEvent("error", gin.H{"error": "could not load collection"})
		return
	}

	sub := a.hub.Subscribe(path)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.SSEvent("snapshot", feed.Snapshot{Collection: path, Items: items})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// resolveCollection maps the requested name to a feed path. The logbook
// resolves through the role gate's partition routing, so a subadmin cannot
// subscribe to the shared partition by naming it.
func (a *app) resolveCollection(name string, s session) (string, error) {
	switch name {
	case recordsCollection, diaryCollection, attachmentsCollection:
		return name, nil
	case "logbook":
		return logBookPath(logBookOwner(s)), nil
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

// snapshotItems loads the current ordered state of a feed path.
func (a *app) snapshotItems(path string) ([]feed.Item, error) {
	switch path {
	case recordsCollection:
		var rows []models.Record
		if err := a.db.Order("created_at desc").Find(&rows).Error; err != nil {
			return nil, err
		}
		return feed.Flatten(rows), nil
	case diaryCollection:
		views, err := a.diaryViews()
		if err != nil {
			return nil, err
		}
		return feed.Flatten(views), nil
	case attachmentsCollection:
		var rows []models.Attachment
		if err := a.db.Order("record_id").Find(&rows).Error; err != nil {
			return nil, err
		}
		return feed.Flatten(rows), nil
	}
	// logbook partitions
	var owner *uint
	var uid uint
	if n, err := fmt.Sscanf(path, "logbook:user:%d", &uid); err == nil && n == 1 {
		owner = &uid
	}
	var rows []models.LogBookEntry
	if err := a.db.Scopes(partitionScope(owner)).Order("date desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return feed.Flatten(rows), nil
}
