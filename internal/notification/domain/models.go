// Package domain contains staff accounts and the internal notification feed.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// StaffRole gates who receives administrative notifications.
type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"
	StaffRoleSuperAdmin StaffRole = "super_admin"
	StaffRoleEmployee   StaffRole = "employee"
)

// Staff is an employee account of the agency.
type Staff struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	FullName  string       `gorm:"type:text;not null"`
	Email     string       `gorm:"type:text;not null;uniqueIndex"`
	Role      StaffRole    `gorm:"type:text;not null;default:'employee';index"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Staff) TableName() string { return "staff" }

// Notification is one row of a staff member's in-app feed.
type Notification struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	StaffID   snowflake.ID      `gorm:"not null;index"`
	Type      string            `gorm:"type:text;not null"`
	Title     string            `gorm:"type:text;not null"`
	Message   string            `gorm:"type:text"`
	Link      string            `gorm:"type:text"`
	IsRead    bool              `gorm:"not null;default:false"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }

// NewNotification is the payload fanned out to administrative staff.
type NewNotification struct {
	Type     string
	Title    string
	Message  string
	Link     string
	Metadata map[string]any
}

// Notifier fans a notification out to every staff account with an
// administrative role.
type Notifier interface {
	NotifyAdmins(ctx context.Context, n NewNotification) error
}
