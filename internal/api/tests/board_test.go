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

func TestBoardPostAndThread(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)

	form := url.Values{}
	form.Set("message", "Pool closed for cleaning")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/board/add", form, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/board", w.Header().Get("Location"))

	// The board shows the post attributed to its author
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/board", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pool closed for cleaning")
	assert.Contains(t, w.Body.String(), testutils.TestUsername)

	posted := testCtx.Repo.MessageByBody("Pool closed for cleaning")
	assert.NotNil(t, posted)
	assert.Equal(t, testCtx.TestUser.UserID, posted.UserID)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, fmt.Sprintf("/board/thread/%d", posted.MessageID), nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pool closed for cleaning")

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/board/thread/99999", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Message not found")
}

func TestBoardSearch(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	cookies := testutils.Login(t, testCtx)
	ctx := context.Background()

	assert.NoError(t, testCtx.Repo.CreateMessage(ctx, &models.Message{
		UserID:      testCtx.TestUser.UserID,
		Body:        "HOA meeting on Friday",
		CreatedTime: time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC),
	}))
	assert.NoError(t, testCtx.Repo.CreateMessage(ctx, &models.Message{
		UserID:      testCtx.TestUser.UserID,
		Body:        "Garage door code changed",
		CreatedTime: time.Date(2025, time.September, 2, 9, 0, 0, 0, time.UTC),
	}))

	// Body substring, case-insensitive
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/board?search=hoa", nil, cookies...)
	assert.Contains(t, w.Body.String(), "HOA meeting on Friday")
	assert.NotContains(t, w.Body.String(), "Garage door code changed")

	// Month name matches the posting date
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/board?search=September", nil, cookies...)
	assert.Contains(t, w.Body.String(), "Garage door code changed")
	assert.NotContains(t, w.Body.String(), "HOA meeting on Friday")
}
