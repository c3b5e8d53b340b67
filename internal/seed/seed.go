// Package seed loads demo data for local development: a few invoices
// at different delinquency stages plus an admin staff account.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	notificationdomain "github.com/vallegroup/valle360/internal/notification/domain"
)

const defaultAdminEmail = "admin@vallegroup.com.br"

// EnsureDemoInvoices seeds demo rows once. Re-running against a seeded
// database is a no-op.
func EnsureDemoInvoices(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAdminStaffTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureInvoicesTx(ctx, tx, node)
	})
}

func ensureAdminStaffTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&notificationdomain.Staff{}).
		Where("email = ?", defaultAdminEmail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.WithContext(ctx).Create(&notificationdomain.Staff{
		ID:        node.Generate(),
		FullName:  "Financeiro Valle",
		Email:     defaultAdminEmail,
		Role:      notificationdomain.StaffRoleAdmin,
		CreatedAt: time.Now().UTC(),
	}).Error
}

func ensureInvoicesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&invoicedomain.Invoice{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	demo := []struct {
		name    string
		email   string
		phone   string
		amount  float64
		daysAgo int
		status  invoicedomain.InvoiceStatus
	}{
		{"Padaria Dois Irmãos", "contato@doisirmaos.com.br", "+5511988880001", 1500, -10, invoicedomain.InvoiceStatusPending},
		{"Ótica Visão Clara", "financeiro@visaoclara.com.br", "+5511988880002", 2300, 2, invoicedomain.InvoiceStatusOverdue},
		{"Auto Center Silva", "silva@autocentersilva.com.br", "", 4800, 9, invoicedomain.InvoiceStatusOverdue},
		{"Restaurante Sabor Mineiro", "adm@sabormineiro.com.br", "+5531988880003", 7200, 20, invoicedomain.InvoiceStatusOverdue},
		{"Clínica Bem Estar", "contas@bemestar.com.br", "+5511988880004", 12500, 47, invoicedomain.InvoiceStatusOverdue},
	}

	for _, d := range demo {
		inv := &invoicedomain.Invoice{
			ID:          node.Generate(),
			ClientID:    node.Generate(),
			ClientName:  d.name,
			ClientEmail: d.email,
			ClientPhone: d.phone,
			Amount:      d.amount,
			DueDate:     now.AddDate(0, 0, -d.daysAgo),
			Status:      d.status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(inv).Error; err != nil {
			return err
		}
	}
	return nil
}
