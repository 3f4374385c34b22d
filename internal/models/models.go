package models

import (
	"time"
)

// Maintenance request lifecycle. Completion is one-directional; no route moves
// a request back to Pending.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// User represents an account that can log in and own properties
type User struct {
	UserID       int64     `db:"user_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Property represents a managed condo unit
type Property struct {
	PropertyID   int64  `db:"property_id"`
	UserID       int64  `db:"user_id"`
	Nickname     string `db:"nickname"`
	PropertyType string `db:"property_type"`
	Street       string `db:"street"`
	City         string `db:"city"`
	State        string `db:"state"`
	Zip          string `db:"zip"`
}

// MaintenanceRequest represents a repair ticket tied to a property
type MaintenanceRequest struct {
	RequestID     int64      `db:"request_id"`
	PropertyID    int64      `db:"property_id"`
	Description   string     `db:"description"`
	Status        string     `db:"status"`
	DateReported  time.Time  `db:"date_reported"`
	DateCompleted *time.Time `db:"date_completed"`
}

// Expense represents a cost recorded against a property
type Expense struct {
	ExpenseID       int64     `db:"expense_id"`
	PropertyID      int64     `db:"property_id"`
	ExpenseCategory string    `db:"expense_category"`
	Amount          float64   `db:"amount"`
	ExpenseDate     time.Time `db:"expense_date"`
	Vendor          string    `db:"vendor"`
}

// Message represents a flat, non-threaded board post. The body column is
// named "message" in the schema.
type Message struct {
	MessageID   int64     `db:"message_id"`
	UserID      int64     `db:"user_id"`
	Body        string    `db:"message"`
	CreatedTime time.Time `db:"created_time"`
}

// CalendarEvent represents a standalone scheduled event
type CalendarEvent struct {
	EventID    int64     `db:"event_id"`
	EventTitle string    `db:"event_title"`
	StartTime  time.Time `db:"start_time"`
}

// MaintenanceRow is a maintenance request joined to its property's nickname
type MaintenanceRow struct {
	MaintenanceRequest
	Nickname string `db:"nickname"`
}

// ExpenseRow is an expense joined to its property's nickname
type ExpenseRow struct {
	Expense
	Nickname string `db:"nickname"`
}

// MessageRow is a message joined to its author's username
type MessageRow struct {
	Message
	Username string `db:"username"`
}

// DashboardData holds the four independently fetched dashboard aggregates.
// Any aggregate whose query fails is left empty rather than failing the page.
type DashboardData struct {
	Maintenance []MaintenanceRow
	Events      []CalendarEvent
	Messages    []MessageRow
	Expenses    []Expense
}
