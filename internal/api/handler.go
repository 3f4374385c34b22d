package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jorge11BYU/project3/internal/models"
	"github.com/jorge11BYU/project3/internal/service"
	"github.com/jorge11BYU/project3/internal/session"
)

// Handler bundles the HTML route handlers and their dependencies.
type Handler struct {
	svc      service.Service
	sessions *session.Store
	log      zerolog.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, sessions *session.Store, log zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		log:      log,
	}
}

// SetupRoutes registers all routes. Everything except the login routes sits
// behind the session guard.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)

	auth := router.Group("/")
	auth.Use(RequireSession(h.sessions))
	{
		auth.GET("/", h.Dashboard)
		auth.GET("/landingpage", h.LandingPage)

		auth.GET("/units", h.ListUnits)
		auth.GET("/units/:id", h.UnitDetail)
		auth.GET("/units/edit/:id", h.EditUnitForm)
		auth.POST("/units/edit/:id", h.EditUnit)
		auth.POST("/units/add", h.AddUnit)
		auth.POST("/units/delete/:id", h.DeleteUnit)

		auth.GET("/maintenance", h.ListMaintenance)
		auth.GET("/maintenance/new", h.NewMaintenanceForm)
		auth.GET("/maintenance/:id", h.MaintenanceDetail)
		auth.POST("/maintenance/add", h.AddMaintenance)
		auth.POST("/maintenance/complete/:id", h.CompleteMaintenance)

		auth.GET("/expenses", h.ListExpenses)
		auth.GET("/expenses/new", h.NewExpenseForm)
		auth.POST("/expenses/add", h.AddExpense)

		auth.GET("/board", h.Board)
		auth.GET("/board/thread/:id", h.Thread)
		auth.POST("/board/add", h.PostMessage)

		auth.GET("/calendar", h.Calendar)

		auth.GET("/profile", h.Profile)
	}
}

// currentUser returns the session user placed in the context by the guard.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}

// paramID parses the :id path segment. Unparsable ids behave as not-found.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// fail is the single policy for store failures on write paths.
func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.String(http.StatusInternalServerError, "Something went wrong")
}

// Auth handlers

// LoginForm renders the login page. A valid existing session skips it.
func (h *Handler) LoginForm(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		if sid, err := h.sessions.ParseToken(token); err == nil {
			if _, ok := h.sessions.Get(sid); ok {
				c.Redirect(http.StatusFound, "/")
				return
			}
		}
	}

	c.HTML(http.StatusOK, "login.html", gin.H{"error": nil})
}

func (h *Handler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		// Store failures and bad credentials both re-render the form; the
		// distinction is logged, not shown.
		if err != service.ErrInvalidCredentials {
			h.log.Error().Err(err).Msg("login lookup failed")
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	sid := h.sessions.Create(user)
	token, err := h.sessions.SignToken(sid)
	if err != nil {
		h.sessions.Delete(sid)
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		if sid, err := h.sessions.ParseToken(token); err == nil {
			h.sessions.Delete(sid)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// Dashboard handlers

func (h *Handler) Dashboard(c *gin.Context) {
	data := h.svc.Dashboard(c.Request.Context())

	c.HTML(http.StatusOK, "landingpage.html", gin.H{
		"user":        currentUser(c),
		"maintenance": data.Maintenance,
		"events":      data.Events,
		"messages":    data.Messages,
		"expenses":    data.Expenses,
	})
}

func (h *Handler) LandingPage(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// Unit handlers

func (h *Handler) ListUnits(c *gin.Context) {
	search := c.Query("search")

	properties, err := h.svc.ListProperties(c.Request.Context(), search)
	if err != nil {
		h.log.Error().Err(err).Msg("listing properties failed")
		c.HTML(http.StatusOK, "units_list.html", gin.H{
			"properties": []models.Property{},
			"searchTerm": search,
			"error":      "Error loading properties",
		})
		return
	}

	c.HTML(http.StatusOK, "units_list.html", gin.H{
		"properties": properties,
		"searchTerm": search,
		"error":      nil,
	})
}

func (h *Handler) UnitDetail(c *gin.Context) {
	var unit *models.Property
	if id, ok := paramID(c); ok {
		var err error
		unit, err = h.svc.GetProperty(c.Request.Context(), id)
		if err != nil {
			h.log.Error().Err(err).Msg("loading property failed")
		}
	}

	// A missing unit renders an empty detail view, not a 404
	c.HTML(http.StatusOK, "unit_detail.html", gin.H{"unit": unit})
}

func (h *Handler) EditUnitForm(c *gin.Context) {
	var unit *models.Property
	if id, ok := paramID(c); ok {
		var err error
		unit, err = h.svc.GetProperty(c.Request.Context(), id)
		if err != nil {
			h.log.Error().Err(err).Msg("loading property failed")
		}
	}

	c.HTML(http.StatusOK, "unit_edit.html", gin.H{"unit": unit})
}

func (h *Handler) EditUnit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/units")
		return
	}

	var form models.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	property := &models.Property{
		PropertyID:   id,
		Nickname:     form.Nickname,
		PropertyType: form.PropertyType,
		Street:       form.Street,
		City:         form.City,
		State:        form.State,
		Zip:          form.Zip,
	}

	if err := h.svc.UpdateProperty(c.Request.Context(), property); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/units/"+c.Param("id"))
}

func (h *Handler) AddUnit(c *gin.Context) {
	var form models.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	property := &models.Property{
		UserID:       currentUser(c).UserID,
		Nickname:     form.Nickname,
		PropertyType: form.PropertyType,
		Street:       form.Street,
		City:         form.City,
		State:        form.State,
		Zip:          form.Zip,
	}

	if err := h.svc.CreateProperty(c.Request.Context(), property); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/units")
}

func (h *Handler) DeleteUnit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/units")
		return
	}

	if err := h.svc.DeleteProperty(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/units")
}

// Maintenance handlers

func (h *Handler) ListMaintenance(c *gin.Context) {
	search := c.Query("search")

	requests, err := h.svc.ListMaintenance(c.Request.Context(), search)
	if err != nil {
		h.log.Error().Err(err).Msg("listing maintenance failed")
		c.HTML(http.StatusOK, "maintenance_list.html", gin.H{
			"requests":   []models.MaintenanceRow{},
			"searchTerm": search,
			"error":      "Error loading maintenance requests",
		})
		return
	}

	c.HTML(http.StatusOK, "maintenance_list.html", gin.H{
		"requests":   requests,
		"searchTerm": search,
		"error":      nil,
	})
}

func (h *Handler) NewMaintenanceForm(c *gin.Context) {
	properties, err := h.svc.ListProperties(c.Request.Context(), "")
	if err != nil {
		h.log.Error().Err(err).Msg("loading properties for maintenance form failed")
		properties = []models.Property{}
	}

	c.HTML(http.StatusOK, "maintenance_new.html", gin.H{"properties": properties})
}

func (h *Handler) MaintenanceDetail(c *gin.Context) {
	var request *models.MaintenanceRow
	if id, ok := paramID(c); ok {
		var err error
		request, err = h.svc.GetMaintenance(c.Request.Context(), id)
		if err != nil {
			h.log.Error().Err(err).Msg("loading maintenance request failed")
		}
	}

	c.HTML(http.StatusOK, "maintenance_detail.html", gin.H{"request": request})
}

func (h *Handler) AddMaintenance(c *gin.Context) {
	var form models.MaintenanceForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	if err := h.svc.ReportMaintenance(c.Request.Context(), form.PropertyID, form.Description); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/maintenance")
}

func (h *Handler) CompleteMaintenance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/maintenance")
		return
	}

	if err := h.svc.CompleteMaintenance(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/maintenance")
}

// Expense handlers

func (h *Handler) ListExpenses(c *gin.Context) {
	search := c.Query("search")

	expenses, err := h.svc.ListExpenses(c.Request.Context(), search)
	if err != nil {
		h.log.Error().Err(err).Msg("listing expenses failed")
		c.HTML(http.StatusOK, "expenses_month.html", gin.H{
			"expenses":   []models.ExpenseRow{},
			"searchTerm": search,
			"error":      "Error loading expenses",
		})
		return
	}

	c.HTML(http.StatusOK, "expenses_month.html", gin.H{
		"expenses":   expenses,
		"searchTerm": search,
		"error":      nil,
	})
}

func (h *Handler) NewExpenseForm(c *gin.Context) {
	properties, err := h.svc.ListProperties(c.Request.Context(), "")
	if err != nil {
		h.log.Error().Err(err).Msg("loading properties for expense form failed")
		properties = []models.Property{}
	}

	c.HTML(http.StatusOK, "expense_new.html", gin.H{"properties": properties})
}

func (h *Handler) AddExpense(c *gin.Context) {
	var form models.ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	expense := &models.Expense{
		PropertyID:      form.PropertyID,
		ExpenseCategory: form.ExpenseCategory,
		Amount:          form.Amount,
		Vendor:          form.Vendor,
	}

	// The date input submits YYYY-MM-DD; blank falls back to now at insert
	if form.ExpenseDate != "" {
		date, err := time.Parse("2006-01-02", form.ExpenseDate)
		if err != nil {
			c.String(http.StatusBadRequest, "Invalid expense date")
			return
		}
		expense.ExpenseDate = date
	}

	if err := h.svc.AddExpense(c.Request.Context(), expense); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/expenses")
}

// Message board handlers

func (h *Handler) Board(c *gin.Context) {
	search := c.Query("search")

	messages, err := h.svc.ListMessages(c.Request.Context(), search)
	if err != nil {
		h.log.Error().Err(err).Msg("listing messages failed")
		c.HTML(http.StatusOK, "board.html", gin.H{
			"messages":   []models.MessageRow{},
			"user":       currentUser(c),
			"searchTerm": search,
			"error":      "Error loading messages",
		})
		return
	}

	c.HTML(http.StatusOK, "board.html", gin.H{
		"messages":   messages,
		"user":       currentUser(c),
		"searchTerm": search,
		"error":      nil,
	})
}

func (h *Handler) Thread(c *gin.Context) {
	var message *models.MessageRow
	if id, ok := paramID(c); ok {
		var err error
		message, err = h.svc.GetMessage(c.Request.Context(), id)
		if err != nil {
			h.log.Error().Err(err).Msg("loading message failed")
		}
	}

	c.HTML(http.StatusOK, "thread_detail.html", gin.H{"message": message})
}

func (h *Handler) PostMessage(c *gin.Context) {
	var form models.MessageForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	if err := h.svc.PostMessage(c.Request.Context(), currentUser(c).UserID, form.Message); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/board")
}

// Calendar handler

func (h *Handler) Calendar(c *gin.Context) {
	search := c.Query("search")

	events, err := h.svc.ListEvents(c.Request.Context(), search)
	if err != nil {
		h.log.Error().Err(err).Msg("listing calendar events failed")
		c.HTML(http.StatusOK, "calendar.html", gin.H{
			"events":     []models.CalendarEvent{},
			"searchTerm": search,
			"error":      "Error loading calendar",
		})
		return
	}

	c.HTML(http.StatusOK, "calendar.html", gin.H{
		"events":     events,
		"searchTerm": search,
		"error":      nil,
	})
}

// Profile handler renders the session's snapshot of the user row.
func (h *Handler) Profile(c *gin.Context) {
	c.HTML(http.StatusOK, "profile.html", gin.H{"user": currentUser(c)})
}
