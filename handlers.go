package main

import (
	"log/slog"
	"net/http"
	"time"

	"edak/models"
	"edak/pkg/feed"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// app carries the shared dependencies; handlers hang off it so nothing
// reaches for ambient globals.
type app struct {
	db      *gorm.DB
	cfg     *Config
	hub     *feed.Hub
	log     *slog.Logger
	reports *ReportConfigStore
}

// session is the authenticated caller, rebuilt per request from JWT claims
// and passed along explicitly instead of living in a shared context object.
type session struct {
	UserID uint
	Name   string
	Email  string
	Role   string
}

const sessionKey = "edak.session"

func (a *app) routes(r *gin.Engine) {
	r.Static("/uploads", a.cfg.UploadBase)

	api := r.Group("/api")
	api.POST("/login", a.loginHandler)
	api.POST("/refresh", a.refreshHandler)
	api.POST("/revoke_refresh", a.revokeRefreshHandler)

	auth := api.Group("")
	auth.Use(a.jwtAuthMiddleware())
	auth.GET("/me", a.meHandler)

	auth.GET("/records", a.listRecordsHandler)
	auth.GET("/check-inward", a.checkInwardHandler)
	auth.POST("/records", a.createRecordHandler)
	auth.PUT("/records/:id", a.updateRecordHandler)
	auth.DELETE("/records/:id", a.deleteRecordHandler)
	auth.POST("/records/:id/attachment", a.uploadAttachmentHandler)
	auth.GET("/records/:id/attachment", a.getAttachmentHandler)
	auth.DELETE("/records/:id/attachment", a.deleteAttachmentHandler)

	auth.GET("/diary", a.listDiaryHandler)
	auth.POST("/diary", a.createDiaryHandler)
	auth.PUT("/diary/:id", a.updateDiaryHandler)
	auth.DELETE("/diary/:id", a.deleteDiaryHandler)
	auth.GET("/diary/report", a.diaryReportHandler)

	auth.GET("/logbook", a.listLogBookHandler)
	auth.POST("/logbook", a.createLogBookHandler)
	auth.PUT("/logbook/:id", a.updateLogBookHandler)
	auth.DELETE("/logbook/:id", a.deleteLogBookHandler)

	auth.GET("/users", a.listUsersHandler)
	auth.POST("/users", a.createUserHandler)
	auth.PUT("/users/:id", a.updateUserHandler)
	auth.DELETE("/users/:id", a.deleteUserHandler)

	auth.GET("/report-config", a.getReportConfigHandler)
	auth.PUT("/report-config", a.saveReportConfigHandler)

	auth.GET("/feed/:collection", a.feedHandler)
}

func (a *app) jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		token, err := jwt.Parse(authHeader[7:], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		uid, _ := claims["uid"].(float64)
		name, _ := claims["name"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		c.Set(sessionKey, session{UserID: uint(uid), Name: name, Email: email, Role: role})
		c.Next()
	}
}

func currentSession(c *gin.Context) session {
	v, _ := c.Get(sessionKey)
	s, _ := v.(session)
	return s
}

// requireStore answers 503 when the database never came up (degraded start).
func (a *app) requireStore(c *gin.Context) bool {
	if a.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend store is not configured"})
		return false
	}
	return true
}

// authorize consults the role gate before any store access.
func (a *app) authorize(c *gin.Context, action Action) bool {
	s := currentSession(c)
	if !CanPerform(s.Role, action) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not allowed to perform this action"})
		return false
	}
	return true
}

func (a *app) meHandler(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"id": s.UserID, "name": s.Name, "email": s.Email, "role": s.Role})
}

func (a *app) loginHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := a.issueAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := a.createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

func (a *app) issueAccessToken(user *models.User, ttl time.Duration) (string, error) {
	roleName := a.roleName(user)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  roleName,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

func (a *app) roleName(user *models.User) string {
	if user.RoleID == nil {
		return ""
	}
	var r models.Role
	if err := a.db.First(&r, *user.RoleID).Error; err != nil {
		return ""
	}
	return r.Name
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func (a *app) refreshHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := a.findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := a.db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := a.issueAccessToken(&user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate: revoke existing and mint a fresh one
	a.db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := a.createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func (a *app) revokeRefreshHandler(c *gin.Context) {
	if !a.requireStore(c) {
		return
	}
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := a.findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := a.db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
