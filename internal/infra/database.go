package infra

import (
	"fmt"

	"github.com/alfalink2000/Sistema-de-Ventas-POS-Backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, migrates the
// schema, and applies the idempotent SQL patches GORM cannot express
// (partial unique indexes, CHECK constraints).
//
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey
// regardless of driver — the caja and cierre repositories depend on that.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and applies schema patches. Also
// used by the integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Inventario{},
		&model.SesionCaja{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.CierreCaja{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Every statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One open session per vendedor, enforced at the constraint level so
		// two concurrent opens cannot both succeed.
		{"partial unique index sesiones_caja abiertas", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_sesiones_caja_vendedor_abierta
    ON sesiones_caja (vendedor_id)
 WHERE estado = 'abierta'`},
		// Belt and braces under the guarded UPDATE: stock can never be
		// observed negative even if a future write path skips the guard.
		{"check productos stock no negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos
      ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
  END IF;
END $$`},
		{"check detalles_venta cantidad positiva", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_detalles_venta_cantidad_positiva') THEN
    ALTER TABLE detalles_venta
      ADD CONSTRAINT chk_detalles_venta_cantidad_positiva CHECK (cantidad > 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
