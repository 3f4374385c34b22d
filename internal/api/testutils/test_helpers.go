package testutils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/jorge11BYU/project3/internal/api"
	"github.com/jorge11BYU/project3/internal/models"
	"github.com/jorge11BYU/project3/internal/service"
	"github.com/jorge11BYU/project3/internal/session"
)

// dateText renders a time the way list queries render date columns for
// free-text matching.
const dateTextFormat = "Monday, January 02, 2006"

var errStoreUnavailable = errors.New("store unavailable")

// FakeRepository is an in-memory repository.Repository used by route tests.
// Setting FailReads makes every read return an error, for exercising the
// degrade paths.
type FakeRepository struct {
	mu        sync.Mutex
	FailReads bool

	users       []models.User
	properties  []models.Property
	maintenance []models.MaintenanceRequest
	expenses    []models.Expense
	messages    []models.Message
	events      []models.CalendarEvent
	nextID      int64
}

// NewFakeRepository creates an empty fake repository
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{nextID: 1}
}

func (f *FakeRepository) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *FakeRepository) readErr() error {
	if f.FailReads {
		return errStoreUnavailable
	}
	return nil
}

// matchAny reports whether the term is a case-insensitive substring of any
// field, mirroring the ILIKE OR-chain the real repository compiles.
func matchAny(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func dateText(t time.Time) string {
	return t.Format(dateTextFormat)
}

// User operations

func (f *FakeRepository) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.UserID = f.id()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *FakeRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *FakeRepository) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].UserID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Property operations

func (f *FakeRepository) ListProperties(_ context.Context, search string) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.Property{}
	for _, p := range f.properties {
		if matchAny(search, p.Nickname, p.City, p.State) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PropertyID < out[j].PropertyID })
	return out, nil
}

func (f *FakeRepository) GetProperty(_ context.Context, id int64) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	for i := range f.properties {
		if f.properties[i].PropertyID == id {
			p := f.properties[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *FakeRepository) CreateProperty(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.PropertyID = f.id()
	f.properties = append(f.properties, *p)
	return nil
}

func (f *FakeRepository) UpdateProperty(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.properties {
		if f.properties[i].PropertyID == p.PropertyID {
			keep := f.properties[i].UserID
			f.properties[i] = *p
			f.properties[i].UserID = keep
		}
	}
	return nil
}

func (f *FakeRepository) DeleteProperty(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.properties[:0]
	for _, p := range f.properties {
		if p.PropertyID != id {
			out = append(out, p)
		}
	}
	f.properties = out
	return nil
}

// PropertyByNickname is a test convenience for locating seeded rows.
func (f *FakeRepository) PropertyByNickname(nickname string) *models.Property {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.properties {
		if f.properties[i].Nickname == nickname {
			p := f.properties[i]
			return &p
		}
	}
	return nil
}

func (f *FakeRepository) nicknameLocked(propertyID int64) string {
	for i := range f.properties {
		if f.properties[i].PropertyID == propertyID {
			return f.properties[i].Nickname
		}
	}
	return ""
}

// Maintenance operations

func (f *FakeRepository) ListMaintenance(_ context.Context, search string) ([]models.MaintenanceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.MaintenanceRow{}
	for _, m := range f.maintenance {
		nickname := f.nicknameLocked(m.PropertyID)
		if matchAny(search, m.Description, nickname, m.Status, dateText(m.DateReported)) {
			out = append(out, models.MaintenanceRow{MaintenanceRequest: m, Nickname: nickname})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateReported.After(out[j].DateReported) })
	return out, nil
}

func (f *FakeRepository) GetMaintenance(_ context.Context, id int64) (*models.MaintenanceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	for _, m := range f.maintenance {
		if m.RequestID == id {
			return &models.MaintenanceRow{MaintenanceRequest: m, Nickname: f.nicknameLocked(m.PropertyID)}, nil
		}
	}
	return nil, nil
}

func (f *FakeRepository) CreateMaintenance(_ context.Context, m *models.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m.RequestID = f.id()
	if m.Status == "" {
		m.Status = models.StatusPending
	}
	if m.DateReported.IsZero() {
		m.DateReported = time.Now().UTC()
	}
	f.maintenance = append(f.maintenance, *m)
	return nil
}

func (f *FakeRepository) CompleteMaintenance(_ context.Context, id int64, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.maintenance {
		if f.maintenance[i].RequestID == id && f.maintenance[i].Status == models.StatusPending {
			f.maintenance[i].Status = models.StatusCompleted
			at := completedAt
			f.maintenance[i].DateCompleted = &at
		}
	}
	return nil
}

func (f *FakeRepository) PendingMaintenance(_ context.Context, limit int) ([]models.MaintenanceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.MaintenanceRow{}
	for _, m := range f.maintenance {
		if m.Status == models.StatusPending {
			out = append(out, models.MaintenanceRow{MaintenanceRequest: m, Nickname: f.nicknameLocked(m.PropertyID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateReported.After(out[j].DateReported) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MaintenanceByID is a test convenience for inspecting stored rows.
func (f *FakeRepository) MaintenanceByID(id int64) *models.MaintenanceRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.maintenance {
		if f.maintenance[i].RequestID == id {
			m := f.maintenance[i]
			return &m
		}
	}
	return nil
}

// Expense operations

func (f *FakeRepository) ListExpenses(_ context.Context, search string) ([]models.ExpenseRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.ExpenseRow{}
	for _, e := range f.expenses {
		nickname := f.nicknameLocked(e.PropertyID)
		if matchAny(search, e.Vendor, e.ExpenseCategory, nickname, dateText(e.ExpenseDate)) {
			out = append(out, models.ExpenseRow{Expense: e, Nickname: nickname})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out, nil
}

func (f *FakeRepository) CreateExpense(_ context.Context, e *models.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e.ExpenseID = f.id()
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now().UTC()
	}
	f.expenses = append(f.expenses, *e)
	return nil
}

func (f *FakeRepository) RecentExpenses(_ context.Context, limit int) ([]models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := append([]models.Expense{}, f.expenses...)
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Message operations

func (f *FakeRepository) usernameLocked(userID int64) string {
	for i := range f.users {
		if f.users[i].UserID == userID {
			return f.users[i].Username
		}
	}
	return ""
}

func (f *FakeRepository) ListMessages(_ context.Context, search string) ([]models.MessageRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.MessageRow{}
	for _, m := range f.messages {
		username := f.usernameLocked(m.UserID)
		if matchAny(search, m.Body, username, dateText(m.CreatedTime)) {
			out = append(out, models.MessageRow{Message: m, Username: username})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTime.After(out[j].CreatedTime) })
	return out, nil
}

func (f *FakeRepository) GetMessage(_ context.Context, id int64) (*models.MessageRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	for _, m := range f.messages {
		if m.MessageID == id {
			return &models.MessageRow{Message: m, Username: f.usernameLocked(m.UserID)}, nil
		}
	}
	return nil, nil
}

func (f *FakeRepository) CreateMessage(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m.MessageID = f.id()
	if m.CreatedTime.IsZero() {
		m.CreatedTime = time.Now().UTC()
	}
	f.messages = append(f.messages, *m)
	return nil
}

func (f *FakeRepository) RecentMessages(_ context.Context, limit int) ([]models.MessageRow, error) {
	rows, err := f.ListMessages(context.Background(), "")
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MessageByBody is a test convenience for locating posted rows.
func (f *FakeRepository) MessageByBody(body string) *models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.messages {
		if f.messages[i].Body == body {
			m := f.messages[i]
			return &m
		}
	}
	return nil
}

// Calendar operations

func (f *FakeRepository) ListEvents(_ context.Context, search string) ([]models.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.CalendarEvent{}
	for _, e := range f.events {
		if matchAny(search, e.EventTitle, dateText(e.StartTime)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *FakeRepository) UpcomingEvents(_ context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErr(); err != nil {
		return nil, err
	}
	out := []models.CalendarEvent{}
	for _, e := range f.events {
		if !e.StartTime.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SeedEvent inserts a calendar event directly; there is no create route.
func (f *FakeRepository) SeedEvent(title string, start time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, models.CalendarEvent{
		EventID:    f.id(),
		EventTitle: title,
		StartTime:  start,
	})
}

// TestContext holds all dependencies for route tests
type TestContext struct {
	Router   *gin.Engine
	Repo     *FakeRepository
	Sessions *session.Store
	TestUser *models.User
}

// TestUsername and TestPassword are the credentials seeded by SetupTestContext.
const (
	TestUsername = "testuser"
	TestPassword = "testpassword"
)

// SetupTestContext builds a router over a fake repository with the real
// templates loaded, and seeds one login-capable user.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	repo := NewFakeRepository()
	store := session.NewStore("test-secret", time.Hour)
	svc := service.NewDefaultService(repo, zerolog.Nop())
	handler := api.NewHandler(svc, store, zerolog.Nop())

	router := gin.New()
	router.LoadHTMLGlob(templatesGlob())
	handler.SetupRoutes(router)

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	assert.NoError(t, err, "Failed to hash test password")

	user := &models.User{Username: TestUsername, PasswordHash: string(hash)}
	err = repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	return &TestContext{
		Router:   router,
		Repo:     repo,
		Sessions: store,
		TestUser: user,
	}
}

// templatesGlob locates web/templates relative to this source file.
func templatesGlob() string {
	_, thisFile, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
	return filepath.Join(root, "web", "templates", "*.html")
}

// PerformRequest executes a request against the router. A non-nil form is
// sent urlencoded, matching the HTML forms.
func PerformRequest(r http.Handler, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Login authenticates as the seeded test user and returns the session cookies.
func Login(t *testing.T, ctx *TestContext) []*http.Cookie {
	t.Helper()

	form := url.Values{}
	form.Set("username", TestUsername)
	form.Set("password", TestPassword)

	w := PerformRequest(ctx.Router, http.MethodPost, "/login", form)
	assert.Equal(t, http.StatusFound, w.Code, "login should redirect")
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	assert.NotEmpty(t, cookies, "login should set a session cookie")
	return cookies
}
