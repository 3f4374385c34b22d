package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jorge11BYU/project3/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Property operations
	ListProperties(ctx context.Context, search string) ([]models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id int64) error

	// Maintenance operations
	ListMaintenance(ctx context.Context, search string) ([]models.MaintenanceRow, error)
	GetMaintenance(ctx context.Context, id int64) (*models.MaintenanceRow, error)
	CreateMaintenance(ctx context.Context, m *models.MaintenanceRequest) error
	CompleteMaintenance(ctx context.Context, id int64, completedAt time.Time) error
	PendingMaintenance(ctx context.Context, limit int) ([]models.MaintenanceRow, error)

	// Expense operations
	ListExpenses(ctx context.Context, search string) ([]models.ExpenseRow, error)
	CreateExpense(ctx context.Context, e *models.Expense) error
	RecentExpenses(ctx context.Context, limit int) ([]models.Expense, error)

	// Message operations
	ListMessages(ctx context.Context, search string) ([]models.MessageRow, error)
	GetMessage(ctx context.Context, id int64) (*models.MessageRow, error)
	CreateMessage(ctx context.Context, m *models.Message) error
	RecentMessages(ctx context.Context, limit int) ([]models.MessageRow, error)

	// Calendar operations
	ListEvents(ctx context.Context, search string) ([]models.CalendarEvent, error)
	UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING user_id
	`

	return r.db.GetContext(ctx, &user.UserID, query,
		user.Username, user.PasswordHash, user.CreatedAt)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT * FROM users WHERE username = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT * FROM users WHERE user_id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Property repository methods

func (r *PostgresRepository) ListProperties(ctx context.Context, search string) ([]models.Property, error) {
	query := `SELECT * FROM properties`
	clause, args := propertySearch.whereClause(search, 1)
	query += clause + ` ORDER BY property_id`

	properties := []models.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, err
	}

	return properties, nil
}

func (r *PostgresRepository) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT * FROM properties WHERE property_id = $1`

	var p models.Property
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Property not found
		}
		return nil, err
	}

	return &p, nil
}

func (r *PostgresRepository) CreateProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (user_id, nickname, property_type, street, city, state, zip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING property_id
	`

	return r.db.GetContext(ctx, &p.PropertyID, query,
		p.UserID, p.Nickname, p.PropertyType, p.Street, p.City, p.State, p.Zip)
}

func (r *PostgresRepository) UpdateProperty(ctx context.Context, p *models.Property) error {
	query := `
		UPDATE properties
		SET nickname = $1, property_type = $2, street = $3, city = $4, state = $5, zip = $6
		WHERE property_id = $7
	`

	_, err := r.db.ExecContext(ctx, query,
		p.Nickname, p.PropertyType, p.Street, p.City, p.State, p.Zip, p.PropertyID)

	return err
}

func (r *PostgresRepository) DeleteProperty(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE property_id = $1`, id)
	return err
}

// Maintenance repository methods

const maintenanceSelect = `
	SELECT m.request_id, m.property_id, m.description, m.status,
	       m.date_reported, m.date_completed, p.nickname
	FROM maintenance_requests m
	JOIN properties p ON m.property_id = p.property_id
`

func (r *PostgresRepository) ListMaintenance(ctx context.Context, search string) ([]models.MaintenanceRow, error) {
	query := maintenanceSelect
	clause, args := maintenanceSearch.whereClause(search, 1)
	query += clause + ` ORDER BY m.date_reported DESC`

	requests := []models.MaintenanceRow{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *PostgresRepository) GetMaintenance(ctx context.Context, id int64) (*models.MaintenanceRow, error) {
	query := maintenanceSelect + ` WHERE m.request_id = $1`

	var row models.MaintenanceRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Request not found
		}
		return nil, err
	}

	return &row, nil
}

func (r *PostgresRepository) CreateMaintenance(ctx context.Context, m *models.MaintenanceRequest) error {
	// New requests always start Pending with a report time of now
	if m.Status == "" {
		m.Status = models.StatusPending
	}
	if m.DateReported.IsZero() {
		m.DateReported = time.Now().UTC()
	}

	query := `
		INSERT INTO maintenance_requests (property_id, description, status, date_reported)
		VALUES ($1, $2, $3, $4)
		RETURNING request_id
	`

	return r.db.GetContext(ctx, &m.RequestID, query,
		m.PropertyID, m.Description, m.Status, m.DateReported)
}

// CompleteMaintenance flips a Pending request to Completed and stamps the
// completion time. Rows already Completed are untouched, which keeps the
// operation idempotent and preserves the first completion timestamp.
func (r *PostgresRepository) CompleteMaintenance(ctx context.Context, id int64, completedAt time.Time) error {
	query := `
		UPDATE maintenance_requests
		SET status = $1, date_completed = $2
		WHERE request_id = $3 AND status = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		models.StatusCompleted, completedAt, id, models.StatusPending)

	return err
}

func (r *PostgresRepository) PendingMaintenance(ctx context.Context, limit int) ([]models.MaintenanceRow, error) {
	query := maintenanceSelect + `
		WHERE m.status = $1
		ORDER BY m.date_reported DESC
		LIMIT $2
	`

	requests := []models.MaintenanceRow{}
	if err := r.db.SelectContext(ctx, &requests, query, models.StatusPending, limit); err != nil {
		return nil, err
	}

	return requests, nil
}

// Expense repository methods

func (r *PostgresRepository) ListExpenses(ctx context.Context, search string) ([]models.ExpenseRow, error) {
	query := `
		SELECT e.expense_id, e.property_id, e.expense_category, e.amount,
		       e.expense_date, e.vendor, p.nickname
		FROM expenses e
		JOIN properties p ON e.property_id = p.property_id
	`
	clause, args := expenseSearch.whereClause(search, 1)
	query += clause + ` ORDER BY e.expense_date DESC`

	expenses := []models.ExpenseRow{}
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now().UTC()
	}

	query := `
		INSERT INTO expenses (property_id, expense_category, amount, expense_date, vendor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING expense_id
	`

	return r.db.GetContext(ctx, &e.ExpenseID, query,
		e.PropertyID, e.ExpenseCategory, e.Amount, e.ExpenseDate, e.Vendor)
}

func (r *PostgresRepository) RecentExpenses(ctx context.Context, limit int) ([]models.Expense, error) {
	query := `SELECT * FROM expenses ORDER BY expense_date DESC LIMIT $1`

	expenses := []models.Expense{}
	if err := r.db.SelectContext(ctx, &expenses, query, limit); err != nil {
		return nil, err
	}

	return expenses, nil
}

// Message repository methods

const messageSelect = `
	SELECT m.message_id, m.user_id, m.message, m.created_time, u.username
	FROM messages m
	JOIN users u ON m.user_id = u.user_id
`

func (r *PostgresRepository) ListMessages(ctx context.Context, search string) ([]models.MessageRow, error) {
	query := messageSelect
	clause, args := messageSearch.whereClause(search, 1)
	query += clause + ` ORDER BY m.created_time DESC`

	messages := []models.MessageRow{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PostgresRepository) GetMessage(ctx context.Context, id int64) (*models.MessageRow, error) {
	query := messageSelect + ` WHERE m.message_id = $1`

	var row models.MessageRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Message not found
		}
		return nil, err
	}

	return &row, nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, m *models.Message) error {
	if m.CreatedTime.IsZero() {
		m.CreatedTime = time.Now().UTC()
	}

	query := `
		INSERT INTO messages (user_id, message, created_time)
		VALUES ($1, $2, $3)
		RETURNING message_id
	`

	return r.db.GetContext(ctx, &m.MessageID, query,
		m.UserID, m.Body, m.CreatedTime)
}

func (r *PostgresRepository) RecentMessages(ctx context.Context, limit int) ([]models.MessageRow, error) {
	query := messageSelect + ` ORDER BY m.created_time DESC LIMIT $1`

	messages := []models.MessageRow{}
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, err
	}

	return messages, nil
}

// Calendar repository methods

func (r *PostgresRepository) ListEvents(ctx context.Context, search string) ([]models.CalendarEvent, error) {
	query := `SELECT * FROM calendar_events`
	clause, args := eventSearch.whereClause(search, 1)
	query += clause + ` ORDER BY start_time`

	events := []models.CalendarEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *PostgresRepository) UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	query := `
		SELECT * FROM calendar_events
		WHERE start_time >= $1
		ORDER BY start_time ASC
		LIMIT $2
	`

	events := []models.CalendarEvent{}
	if err := r.db.SelectContext(ctx, &events, query, from, limit); err != nil {
		return nil, err
	}

	return events, nil
}
