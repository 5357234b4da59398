package main

import (
	"testing"

	"edak/models"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	adminOnly := []Action{ActionManageUsers, ActionDeleteRecord, ActionDeleteAttachment}
	for _, action := range adminOnly {
		assert.True(t, CanPerform(models.RoleAdmin, action), "admin may %s", action)
		assert.False(t, CanPerform(models.RoleSubAdmin, action), "subadmin may not %s", action)
	}

	shared := []Action{ActionWriteRecord, ActionWriteDiary, ActionWriteLogBook, ActionSaveReportConfig}
	for _, action := range shared {
		assert.True(t, CanPerform(models.RoleAdmin, action))
		assert.True(t, CanPerform(models.RoleSubAdmin, action))
	}

	assert.False(t, CanPerform("", ActionWriteRecord))
	assert.False(t, CanPerform("visitor", ActionManageUsers))
	assert.False(t, CanPerform(models.RoleAdmin, Action("unknown")))
}

func TestLogBookOwnerFollowsRole(t *testing.T) {
	s := session{UserID: 42, Role: models.RoleSubAdmin}
	owner := logBookOwner(s)
	if assert.NotNil(t, owner, "subadmin writes a personal partition") {
		assert.Equal(t, uint(42), *owner)
	}

	// switching the role, and nothing else, moves the caller to the shared partition
	s.Role = models.RoleAdmin
	assert.Nil(t, logBookOwner(s), "admin writes the shared partition")
}
