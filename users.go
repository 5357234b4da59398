package main

import (
	"net/http"
	"strings"

	"edak/models"
	"edak/pkg/validate"

	"github.com/gin-gonic/gin"
)

// All user management is admin-only; the gate runs before any query.

func (a *app) listUsersHandler(c *gin.Context) {
	if !a.authorize(c, ActionManageUsers) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	var users []models.User
	if err := a.db.Preload("Role").Order("id").Find(&users).Error; err != nil {
		a.log.Error("list users failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type userForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func validateUserForm(f userForm, creating bool) fieldErrors {
	fe := fieldErrors{}
	fe.add("name", validate.Required("name", f.Name))
	fe.add("name", validate.Text("name", f.Name, 2, 255))
	if creating {
		fe.add("email", validate.Required("email", f.Email))
	}
	fe.add("email", validate.Email(f.Email))
	fe.add("mobile", validate.Required("mobile", f.Mobile))
	fe.add("mobile", validate.Mobile(f.Mobile))
	fe.add("role", validate.Required("role", f.Role))
	fe.add("role", validate.OneOf("role", f.Role, []string{models.RoleAdmin, models.RoleSubAdmin}))
	return fe
}

func (a *app) createUserHandler(c *gin.Context) {
	if !a.authorize(c, ActionManageUsers) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fe := validateUserForm(form, true)
	if form.Password == "" {
		fe.add("password", "password is required")
	}
	if !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	hashed, err := hashPassword(form.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors{"password": err.Error()}})
		return
	}
	var role models.Role
	if err := a.db.Where("name = ?", form.Role).First(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role lookup failed"})
		return
	}
	rid := role.ID
	user := models.User{
		Name:           trim(form.Name),
		Email:          strings.ToLower(trim(form.Email)),
		Mobile:         trim(form.Mobile),
		HashedPassword: hashed,
		RoleID:         &rid,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a user with that email already exists"})
			return
		}
		a.log.Error("user create failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

// updateUserHandler edits name, mobile and role. Email is immutable after
// creation and is never written here; a different submitted email is rejected
// rather than silently dropped.
func (a *app) updateUserHandler(c *gin.Context) {
	if !a.authorize(c, ActionManageUsers) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	id := c.Param("id")
	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fe := validateUserForm(form, false)
	if form.Email != "" && !strings.EqualFold(trim(form.Email), user.Email) {
		fe.add("email", "email cannot be changed")
	}
	if !fe.ok() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
		return
	}
	var role models.Role
	if err := a.db.Where("name = ?", form.Role).First(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role lookup failed"})
		return
	}
	updates := map[string]interface{}{
		"name":    trim(form.Name),
		"mobile":  trim(form.Mobile),
		"role_id": role.ID,
	}
	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		a.log.Error("user update failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

func (a *app) deleteUserHandler(c *gin.Context) {
	if !a.authorize(c, ActionManageUsers) {
		return
	}
	if !a.requireStore(c) {
		return
	}
	s := currentSession(c)
	id := c.Param("id")
	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.ID == s.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot delete your own account"})
		return
	}
	if err := a.db.Delete(&user).Error; err != nil {
		a.log.Error("user delete failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
