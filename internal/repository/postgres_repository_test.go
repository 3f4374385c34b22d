package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge11BYU/project3/internal/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateUserReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "$2a$10$hash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	user := &models.User{Username: "alice", PasswordHash: "$2a$10$hash"}
	err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPropertyNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM properties WHERE property_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}))

	property, err := repo.GetProperty(context.Background(), 42)

	// A missing row is an empty result, not an error
	assert.NoError(t, err)
	assert.Nil(t, property)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteMaintenanceOnlyFlipsPendingRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	completedAt := time.Date(2025, time.August, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE maintenance_requests")).
		WithArgs(models.StatusCompleted, completedAt, int64(9), models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CompleteMaintenance(context.Background(), 9, completedAt)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingMaintenanceScansNullCompletion(t *testing.T) {
	repo, mock := newMockRepo(t)
	reported := time.Date(2025, time.August, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"request_id", "property_id", "description", "status",
		"date_reported", "date_completed", "nickname",
	}).AddRow(int64(1), int64(2), "Leaky faucet", models.StatusPending, reported, nil, "Hillcrest")

	mock.ExpectQuery("WHERE m.status = \\$1").
		WithArgs(models.StatusPending, 3).
		WillReturnRows(rows)

	requests, err := repo.PendingMaintenance(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Leaky faucet", requests[0].Description)
	assert.Equal(t, "Hillcrest", requests[0].Nickname)
	assert.Nil(t, requests[0].DateCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpensesSearchBindsEveryColumn(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Three text columns plus the rendered date, all bound to the same pattern
	mock.ExpectQuery(`TO_CHAR\(e.expense_date, 'FMDay, FMMonth DD, YYYY'\) ILIKE \$4`).
		WithArgs("%December%", "%December%", "%December%", "%December%").
		WillReturnRows(sqlmock.NewRows([]string{
			"expense_id", "property_id", "expense_category", "amount",
			"expense_date", "vendor", "nickname",
		}))

	expenses, err := repo.ListExpenses(context.Background(), "December")

	assert.NoError(t, err)
	assert.Empty(t, expenses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesJoinsAuthor(t *testing.T) {
	repo, mock := newMockRepo(t)
	posted := time.Date(2025, time.July, 4, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"message_id", "user_id", "message", "created_time", "username",
	}).AddRow(int64(3), int64(1), "Pool closed", posted, "alice")

	mock.ExpectQuery("JOIN users u ON m.user_id = u.user_id").
		WillReturnRows(rows)

	messages, err := repo.ListMessages(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Pool closed", messages[0].Body)
	assert.Equal(t, "alice", messages[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingEventsBoundsAndOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE start_time >= \$1 ORDER BY start_time ASC LIMIT \$2`).
		WithArgs(from, 5).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_title", "start_time"}).
			AddRow(int64(1), "HOA Meeting", from.Add(24*time.Hour)))

	events, err := repo.UpcomingEvents(context.Background(), from, 5)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "HOA Meeting", events[0].EventTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
