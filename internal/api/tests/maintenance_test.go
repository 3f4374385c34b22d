package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jorge11BYU/project3/internal/api/testutils"
	"github.com/jorge11BYU/project3/internal/models"
)

func seedProperty(t *testing.T, testCtx *testutils.TestContext, nickname string) *models.Property {
	t.Helper()

	property := &models.Property{
		UserID:       testCtx.TestUser.UserID,
		Nickname:     nickname,
		PropertyType: "Condo",
	}
	assert.NoError(t, testCtx.Repo.CreateProperty(context.Background(), property))
	return property
}

func TestMaintenanceReportAndComplete(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)
	property := seedProperty(t, testCtx, "Hillcrest")

	form := url.Values{}
	form.Set("property_id", fmt.Sprintf("%d", property.PropertyID))
	form.Set("description", "Broken dishwasher")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/maintenance/add", form, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/maintenance", w.Header().Get("Location"))

	// New requests start Pending with a report time
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/maintenance", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Broken dishwasher")
	assert.Contains(t, w.Body.String(), models.StatusPending)

	created := findRequest(testCtx, "Broken dishwasher")
	assert.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.DateReported.IsZero())
	assert.Nil(t, created.DateCompleted)

	completePath := fmt.Sprintf("/maintenance/complete/%d", created.RequestID)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, completePath, url.Values{}, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)

	completed := testCtx.Repo.MaintenanceByID(created.RequestID)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.DateCompleted)
	firstCompletion := *completed.DateCompleted

	// Completing again neither regresses the status nor restamps the time
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, completePath, url.Values{}, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)

	again := testCtx.Repo.MaintenanceByID(created.RequestID)
	assert.Equal(t, models.StatusCompleted, again.Status)
	assert.Equal(t, firstCompletion, *again.DateCompleted)
}

func findRequest(testCtx *testutils.TestContext, description string) *models.MaintenanceRequest {
	rows, err := testCtx.Repo.ListMaintenance(context.Background(), description)
	if err != nil || len(rows) == 0 {
		return nil
	}
	return &rows[0].MaintenanceRequest
}

func TestMaintenanceDateSearch(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)
	property := seedProperty(t, testCtx, "Hillcrest")
	ctx := context.Background()

	december := &models.MaintenanceRequest{
		PropertyID:   property.PropertyID,
		Description:  "Furnace out",
		DateReported: time.Date(2025, time.December, 3, 10, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, testCtx.Repo.CreateMaintenance(ctx, december))

	july := &models.MaintenanceRequest{
		PropertyID:   property.PropertyID,
		Description:  "AC rattling",
		DateReported: time.Date(2025, time.July, 14, 10, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, testCtx.Repo.CreateMaintenance(ctx, july))

	// A month name narrows to requests reported in that month
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/maintenance?search=December", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Furnace out")
	assert.NotContains(t, w.Body.String(), "AC rattling")

	// Status text is searchable as well
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/maintenance?search=pending", nil, cookies...)
	assert.Contains(t, w.Body.String(), "Furnace out")
	assert.Contains(t, w.Body.String(), "AC rattling")
}

func TestMaintenanceNewFormListsProperties(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)
	seedProperty(t, testCtx, "Hillcrest")
	seedProperty(t, testCtx, "Lakeview")

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/maintenance/new", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hillcrest")
	assert.Contains(t, w.Body.String(), "Lakeview")
}

func TestMaintenanceDetail(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)
	property := seedProperty(t, testCtx, "Hillcrest")

	req := &models.MaintenanceRequest{PropertyID: property.PropertyID, Description: "Leaky roof"}
	assert.NoError(t, testCtx.Repo.CreateMaintenance(context.Background(), req))

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/maintenance/%d", req.RequestID), nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Leaky roof")
	assert.Contains(t, w.Body.String(), "Hillcrest")

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/maintenance/99999", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Request not found")
}
