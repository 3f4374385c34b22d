package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jorge11BYU/project3/internal/models"
	"github.com/jorge11BYU/project3/internal/repository"
)

// ErrInvalidCredentials is returned by Login for a bad username or password.
// Handlers show it inline on the login form; store failures are returned as-is.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Dashboard aggregate bounds
const (
	dashboardMaintenanceLimit = 3
	dashboardEventLimit       = 5
	dashboardMessageLimit     = 3
	dashboardExpenseLimit     = 5
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Login(ctx context.Context, username, password string) (*models.User, error)
	SignUp(ctx context.Context, username, password string) (*models.User, error)

	// Dashboard
	Dashboard(ctx context.Context) models.DashboardData

	// Properties
	ListProperties(ctx context.Context, search string) ([]models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id int64) error

	// Maintenance
	ListMaintenance(ctx context.Context, search string) ([]models.MaintenanceRow, error)
	GetMaintenance(ctx context.Context, id int64) (*models.MaintenanceRow, error)
	ReportMaintenance(ctx context.Context, propertyID int64, description string) error
	CompleteMaintenance(ctx context.Context, id int64) error

	// Expenses
	ListExpenses(ctx context.Context, search string) ([]models.ExpenseRow, error)
	AddExpense(ctx context.Context, e *models.Expense) error

	// Message board
	ListMessages(ctx context.Context, search string) ([]models.MessageRow, error)
	GetMessage(ctx context.Context, id int64) (*models.MessageRow, error)
	PostMessage(ctx context.Context, userID int64, body string) error

	// Calendar
	ListEvents(ctx context.Context, search string) ([]models.CalendarEvent, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo repository.Repository
	log  zerolog.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, log zerolog.Logger) Service {
	return &DefaultService{
		repo: repo,
		log:  log,
	}
}

// Authentication methods

func (s *DefaultService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Constant-time comparison against the salted hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *DefaultService) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existing != nil {
		return nil, errors.New("user with this username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Dashboard fetches the four aggregates independently. A failed aggregate is
// logged and rendered empty; the dashboard itself never fails.
func (s *DefaultService) Dashboard(ctx context.Context) models.DashboardData {
	data := models.DashboardData{}

	maintenance, err := s.repo.PendingMaintenance(ctx, dashboardMaintenanceLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard: pending maintenance query failed")
	} else {
		data.Maintenance = maintenance
	}

	events, err := s.repo.UpcomingEvents(ctx, time.Now(), dashboardEventLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard: upcoming events query failed")
	} else {
		data.Events = events
	}

	messages, err := s.repo.RecentMessages(ctx, dashboardMessageLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard: recent messages query failed")
	} else {
		data.Messages = messages
	}

	expenses, err := s.repo.RecentExpenses(ctx, dashboardExpenseLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard: recent expenses query failed")
	} else {
		data.Expenses = expenses
	}

	return data
}

// Property methods

func (s *DefaultService) ListProperties(ctx context.Context, search string) ([]models.Property, error) {
	properties, err := s.repo.ListProperties(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}
	return properties, nil
}

func (s *DefaultService) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting property: %w", err)
	}
	return property, nil
}

func (s *DefaultService) CreateProperty(ctx context.Context, p *models.Property) error {
	if p.PropertyType == "" {
		p.PropertyType = "Condo"
	}

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return fmt.Errorf("error creating property: %w", err)
	}
	return nil
}

func (s *DefaultService) UpdateProperty(ctx context.Context, p *models.Property) error {
	if err := s.repo.UpdateProperty(ctx, p); err != nil {
		return fmt.Errorf("error updating property: %w", err)
	}
	return nil
}

func (s *DefaultService) DeleteProperty(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("error deleting property: %w", err)
	}
	return nil
}

// Maintenance methods

func (s *DefaultService) ListMaintenance(ctx context.Context, search string) ([]models.MaintenanceRow, error) {
	requests, err := s.repo.ListMaintenance(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing maintenance requests: %w", err)
	}
	return requests, nil
}

func (s *DefaultService) GetMaintenance(ctx context.Context, id int64) (*models.MaintenanceRow, error) {
	request, err := s.repo.GetMaintenance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting maintenance request: %w", err)
	}
	return request, nil
}

func (s *DefaultService) ReportMaintenance(ctx context.Context, propertyID int64, description string) error {
	request := &models.MaintenanceRequest{
		PropertyID:   propertyID,
		Description:  description,
		Status:       models.StatusPending,
		DateReported: time.Now().UTC(),
	}

	if err := s.repo.CreateMaintenance(ctx, request); err != nil {
		return fmt.Errorf("error creating maintenance request: %w", err)
	}
	return nil
}

func (s *DefaultService) CompleteMaintenance(ctx context.Context, id int64) error {
	if err := s.repo.CompleteMaintenance(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("error completing maintenance request: %w", err)
	}
	return nil
}

// Expense methods

func (s *DefaultService) ListExpenses(ctx context.Context, search string) ([]models.ExpenseRow, error) {
	expenses, err := s.repo.ListExpenses(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	return expenses, nil
}

func (s *DefaultService) AddExpense(ctx context.Context, e *models.Expense) error {
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

// Message board methods

func (s *DefaultService) ListMessages(ctx context.Context, search string) ([]models.MessageRow, error) {
	messages, err := s.repo.ListMessages(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return messages, nil
}

func (s *DefaultService) GetMessage(ctx context.Context, id int64) (*models.MessageRow, error) {
	message, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting message: %w", err)
	}
	return message, nil
}

func (s *DefaultService) PostMessage(ctx context.Context, userID int64, body string) error {
	message := &models.Message{
		UserID:      userID,
		Body:        body,
		CreatedTime: time.Now().UTC(),
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return fmt.Errorf("error posting message: %w", err)
	}
	return nil
}

// Calendar methods

func (s *DefaultService) ListEvents(ctx context.Context, search string) ([]models.CalendarEvent, error) {
	events, err := s.repo.ListEvents(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing calendar events: %w", err)
	}
	return events, nil
}
