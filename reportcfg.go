package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"edak/pkg/debounce"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
)

// ReportConfigStore holds the printable-report header/footer bag: a local
// key/value file owned by this process, read once at startup and written on
// explicit save. It is not part of the shared database.
type ReportConfigStore struct {
	mu   sync.RWMutex
	path string
	vals map[string]string
	log  *slog.Logger
}

func NewReportConfigStore(path string, log *slog.Logger) *ReportConfigStore {
	s := &ReportConfigStore{path: path, vals: map[string]string{}, log: log}
	s.reload()
	return s
}

func (s *ReportConfigStore) reload() {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("report config read failed", "path", s.path, "err", err)
		}
		return
	}
	vals := map[string]string{}
	if err := json.Unmarshal(b, &vals); err != nil {
		s.log.Warn("report config is not valid JSON, keeping previous values", "path", s.path, "err", err)
		return
	}
	s.mu.Lock()
	s.vals = vals
	s.mu.Unlock()
}

// All returns a copy of the bag.
func (s *ReportConfigStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vals))
	for k, v := range s.vals {
		out[k] = v
	}
	return out
}

// Get returns a single value, "" when absent.
func (s *ReportConfigStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals[key]
}

// Save replaces the bag and persists it.
func (s *ReportConfigStore) Save(vals map[string]string) error {
	trimmed := make(map[string]string, len(vals))
	for k, v := range vals {
		trimmed[trim(k)] = trim(v)
	}
	b, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0644); err != nil {
		return err
	}
	s.mu.Lock()
	s.vals = trimmed
	s.mu.Unlock()
	return nil
}

// Watch reloads the bag when the file changes on disk (edited by the report
// CLI or by hand). Editors fire bursts of events, so reloads are debounced.
// Returns a stop function; watching is best effort and a failed watcher just
// means external edits wait for a restart.
func (s *ReportConfigStore) Watch() func() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("report config watcher unavailable", "err", err)
		return func() {}
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		s.log.Warn("report config watcher add failed", "dir", dir, "err", err)
		_ = w.Close()
		return func() {}
	}
	deb := debounce.New(200 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					deb.Schedule(s.reload)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("report config watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		deb.Stop()
		_ = w.Close()
	}
}

func (a *app) getReportConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.reports.All())
}

func (a *app) saveReportConfigHandler(c *gin.Context) {
	if !a.authorize(c, ActionSaveReportConfig) {
		return
	}
	var vals map[string]string
	if err := c.ShouldBindJSON(&vals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.reports.Save(vals); err != nil {
		a.log.Error("report config save failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save report configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report configuration saved"})
}
