package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	collectiondomain "github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/config"
	dispatchdomain "github.com/vallegroup/valle360/internal/dispatch/domain"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	legaldomain "github.com/vallegroup/valle360/internal/legal/domain"
	notificationdomain "github.com/vallegroup/valle360/internal/notification/domain"
	"github.com/vallegroup/valle360/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := Migrate(conn, cfg); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoInvoices(conn)
		}
		return nil
	}),
)

// Migrate applies the embedded SQL on postgres. Other dialects fall
// back to schema auto-migration; the gorm tags carry the same unique
// indexes the SQL declares, so the dedup guarantees hold everywhere.
func Migrate(conn *gorm.DB, cfg config.Config) error {
	if cfg.DBType == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	return conn.AutoMigrate(
		&invoicedomain.Invoice{},
		&collectiondomain.CollectionAction{},
		&legaldomain.LegalCase{},
		&dispatchdomain.MessageLog{},
		&notificationdomain.Staff{},
		&notificationdomain.Notification{},
	)
}
