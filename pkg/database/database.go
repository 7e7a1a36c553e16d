package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/config"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/vital"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey so the
		// repositories can map them to Conflict errors.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.User{},
		&report.Report{},
		&vital.Vital{},
		&share.Share{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createConstraints(db); err != nil {
		return fmt.Errorf("creating constraints: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createConstraints adds the cascading foreign keys the engines depend
// on: deleting a user removes their reports, vitals and shares; deleting
// a report removes its shares.
func createConstraints(db *gorm.DB) error {
	constraints := []string{
		`ALTER TABLE reports ADD CONSTRAINT fk_reports_owner
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE`,
		`ALTER TABLE vitals ADD CONSTRAINT fk_vitals_user
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE`,
		`ALTER TABLE shares ADD CONSTRAINT fk_shares_report
			FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE`,
		`ALTER TABLE shares ADD CONSTRAINT fk_shares_owner
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE`,
		`ALTER TABLE shares ADD CONSTRAINT fk_shares_grantee
			FOREIGN KEY (grantee_id) REFERENCES users(id) ON DELETE CASCADE`,
	}

	for _, ddl := range constraints {
		if err := db.Exec(ddl).Error; err != nil {
			// Re-running migrations against an existing schema hits
			// duplicate-constraint errors; those are not failures.
			continue
		}
	}

	return nil
}
