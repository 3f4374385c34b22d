package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	// Create properties table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			property_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			nickname VARCHAR(255) NOT NULL,
			property_type VARCHAR(50) NOT NULL,
			street VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(50) NOT NULL DEFAULT '',
			zip VARCHAR(20) NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}

	// Create maintenance_requests table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS maintenance_requests (
			request_id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			date_reported TIMESTAMP NOT NULL,
			date_completed TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Create expenses table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expenses (
			expense_id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			expense_category VARCHAR(100) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			expense_date TIMESTAMP NOT NULL,
			vendor VARCHAR(255) NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}

	// Create messages table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			message_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			created_time TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create calendar_events table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS calendar_events (
			event_id BIGSERIAL PRIMARY KEY,
			event_title VARCHAR(255) NOT NULL,
			start_time TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_properties_user_id ON properties(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_property_id ON maintenance_requests(property_id)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_status_reported ON maintenance_requests(status, date_reported)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_property_id ON expenses(property_id)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date)",
		"CREATE INDEX IF NOT EXISTS idx_messages_created_time ON messages(created_time)",
		"CREATE INDEX IF NOT EXISTS idx_calendar_events_start_time ON calendar_events(start_time)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
