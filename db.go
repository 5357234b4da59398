package main

import (
	"log/slog"
	"os"

	"edak/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustOpenDB(cfg *Config, log *slog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Error("failed to connect postgres database", "err", err)
		os.Exit(1)
	}
	return db
}

// migrateAndSeed brings the schema up and guarantees the master roles and the
// seed admin account. Tables migrate individually so a permission failure on
// one doesn't block the others.
func migrateAndSeed(db *gorm.DB, log *slog.Logger) {
	if err := db.AutoMigrate(&models.Role{}); err != nil {
		log.Warn("migration warning (roles)", "err", err)
	}
	seedRoles(db)

	for _, m := range []interface{}{
		&models.User{},
		&models.Record{},
		&models.Attachment{},
		&models.DiaryEntry{},
		&models.LogBookEntry{},
		&models.RefreshToken{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			log.Warn("migration warning", "model", m, "err", err)
		}
	}
	ensureSeedAdmin(db, log)
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "full access"},
		{Name: models.RoleSubAdmin, Description: "restricted office user"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

// ensureSeedAdmin guarantees exactly one seed admin account exists at process
// start: created if absent, verified (role repaired) if present.
func ensureSeedAdmin(db *gorm.DB, log *slog.Logger) {
	seedRoles(db)
	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Warn("failed to find admin role", "err", err)
		return
	}
	email := envOr("SEED_ADMIN_EMAIL", "admin@office.local")

	var admin models.User
	err := db.Where("email = ?", email).First(&admin).Error
	if err != nil {
		password := envOr("SEED_ADMIN_PASSWORD", "admin123")
		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		rid := adminRole.ID
		admin = models.User{Name: "Administrator", Email: email, HashedPassword: hashed, RoleID: &rid}
		if err := db.Create(&admin).Error; err != nil {
			log.Warn("failed to seed admin user", "err", err)
			return
		}
		log.Info("seeded admin user", "email", email)
		return
	}
	// verify the existing seed account still carries the admin role
	if admin.RoleID == nil || *admin.RoleID != adminRole.ID {
		rid := adminRole.ID
		if err := db.Model(&admin).Update("role_id", rid).Error; err != nil {
			log.Warn("failed to repair seed admin role", "err", err)
		} else {
			log.Info("repaired seed admin role", "email", email)
		}
	}
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase(cfg *Config, log *slog.Logger) {
	if err := os.MkdirAll(cfg.UploadBase, 0755); err != nil {
		log.Warn("failed to create upload base dir", "dir", cfg.UploadBase, "err", err)
	}
}
