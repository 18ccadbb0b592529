package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"serenicash/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsHandler_GetMonthly(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(1, 1, 1000.0, "income", nil, "Salary", now, now, now, nil).
			AddRow(2, 1, 300.0, "expense", nil, "Rent", now, now, now, nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/analytics", NewAnalyticsHandler().GetMonthly)

	req := httptest.NewRequest("GET", "/transactions/analytics?months=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data := resp["data"].(map[string]interface{})
	monthly := data["monthly_data"].([]interface{})
	require.Len(t, monthly, 1)

	point := monthly[0].(map[string]interface{})
	assert.Equal(t, now.Format("2006-01"), point["month"])
	assert.Equal(t, 1000.0, point["income"])
	assert.Equal(t, 300.0, point["expenses"])

	categories := data["category_data"].([]interface{})
	require.Len(t, categories, 1)
	slice := categories[0].(map[string]interface{})
	assert.Equal(t, "Uncategorized", slice["name"])
	assert.Equal(t, 300.0, slice["value"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsHandler_GetMonthly_InvalidWindow(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/analytics", NewAnalyticsHandler().GetMonthly)

	req := httptest.NewRequest("GET", "/transactions/analytics?months=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
