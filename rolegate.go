package main

import "edak/models"

// Action names every mutating or restricted capability in the console.
type Action string

const (
	ActionManageUsers      Action = "manage_users"
	ActionDeleteRecord     Action = "delete_record"
	ActionDeleteAttachment Action = "delete_attachment"
	ActionWriteRecord      Action = "write_record"
	ActionWriteDiary       Action = "write_diary"
	ActionWriteLogBook     Action = "write_logbook"
	ActionSaveReportConfig Action = "save_report_config"
)

// CanPerform is the role gate: a pure predicate over {role, action}.
// Only admin may manage users or delete records/attachments; both roles may
// create, read and update within their own scope. Every mutating handler
// consults this before touching the store.
func CanPerform(role string, action Action) bool {
	switch action {
	case ActionManageUsers, ActionDeleteRecord, ActionDeleteAttachment:
		return role == models.RoleAdmin
	case ActionWriteRecord, ActionWriteDiary, ActionWriteLogBook, ActionSaveReportConfig:
		return role == models.RoleAdmin || role == models.RoleSubAdmin
	}
	return false
}

// logBookOwner maps the caller to the partition its logbook rows live in:
// admins share one partition (nil owner), everyone else gets a personal one.
// This is a routing rule, not a display filter; a subadmin can never address
// the shared partition.
func logBookOwner(s session) *uint {
	if s.Role == models.RoleAdmin {
		return nil
	}
	uid := s.UserID
	return &uid
}
