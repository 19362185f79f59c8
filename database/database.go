package database

import (
	"time"

	"pos-backend/config"
	"pos-backend/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database. SQLite is used for local runs and
// tests; it is limited to one connection so in-memory databases are shared.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying DB connection")
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	return db, nil
}

// Migrate creates or updates every table, then adds the indexes gorm tags
// cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	// A table is held by at most one unpaid dine-in order.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_occupied_table
		ON orders (table_number)
		WHERE order_type = 'dine_in'
		  AND payment_status = 'pending'
		  AND order_status <> 'cancelled'
		  AND table_number IS NOT NULL
	`).Error; err != nil {
		return errors.Wrap(err, "failed to create occupied table index")
	}

	return nil
}

func CreateDefaultAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	username := cfg.Username
	if username == "" {
		username = "admin"
	}
	password := cfg.Password
	if password == "" {
		password = "admin123"
	}

	var existingUser models.User
	result := db.Where("username = ?", username).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	fullName := cfg.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := models.User{
		Username: username,
		Password: string(hashedPassword),
		FullName: fullName,
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}

	if err := db.Create(&admin).Error; err != nil {
		return errors.Wrap(err, "failed to create default admin")
	}

	log.Info().Str("username", username).Msg("Default admin created")
	return nil
}

// SeedBusinessInfo makes sure the critical business keys exist.
func SeedBusinessInfo(db *gorm.DB, businessName string) error {
	defaults := map[string]string{
		models.BusinessKeyName:    businessName,
		models.BusinessKeyAddress: "",
		models.BusinessKeyPhone:   "",
	}

	for _, key := range models.CriticalBusinessKeys {
		var count int64
		if err := db.Model(&models.BusinessInfo{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return errors.Wrapf(err, "failed to check business info %s", key)
		}
		if count > 0 {
			continue
		}
		info := models.BusinessInfo{Key: key, Value: defaults[key]}
		if err := db.Create(&info).Error; err != nil {
			return errors.Wrapf(err, "failed to seed business info %s", key)
		}
	}
	return nil
}

// Ping verifies the connection within timeout.
func Ping(db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- sqlDB.Ping() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return errors.New("database ping timed out")
	}
}
