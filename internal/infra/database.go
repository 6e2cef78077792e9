package infra

import (
	"fmt"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the SQL patches AutoMigrate cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Operator{},
		&model.Product{},
		&model.StockMovement{},
		&model.Register{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Closing{},
		&model.ClosingDetail{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches applies idempotent DDL that GORM tags cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{
			// At most one open session per drawer name. The service layer
			// pre-checks too, but only the index makes a concurrent double
			// open impossible.
			"unique open register per name",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_cash_registers_open_name
			 ON cash_registers (name) WHERE is_open`,
		},
		{
			"closing details unique per method",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_closing_details_method
			 ON closing_details (closing_id, payment_method)`,
		},
		{
			"sales window scan",
			`CREATE INDEX IF NOT EXISTS idx_sales_register_sold_at
			 ON sales (cash_register_id, sold_at)`,
		},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
