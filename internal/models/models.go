package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User - an admin or a field employee
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'employee'
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one the system hands out.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// Record - one schemaless document in a named collection
type Record struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Collection string         `gorm:"index;size:64;not null" json:"collection"`
	Data       datatypes.JSON `json:"data"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Collections used by the services.
const (
	CollectionQuotations = "quotations"
	CollectionInvoices   = "invoices"
	CollectionRequests   = "sign_board_requests"
	CollectionAttendance = "attendance_records"
)
