package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtrntr/marketdash/internal/cache"
	"github.com/xtrntr/marketdash/internal/dataset"
)

var (
	testDataset *dataset.Dataset
	testCache   *cache.Memory
	testHandler *Handler
	testRouter  *chi.Mux
)

func TestMain(m *testing.M) {
	log, _ := test.NewNullLogger()

	var err error
	testDataset, err = dataset.Load(context.Background(), dataset.DirSource{Dir: "../dataset/testdata"}, log)
	if err != nil {
		fmt.Printf("Failed to load test dataset: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func resetHandler(t *testing.T) {
	log, _ := test.NewNullLogger()
	testCache = cache.NewMemory()
	testHandler = NewHandler(testDataset, testCache, time.Minute, log)
	testRouter = NewRouter(testHandler)
}

func TestHandler_Dashboard(t *testing.T) {
	resetHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "E-commerce Data Analysis")
	assert.Contains(t, body, "Customer Analysis")
	assert.Contains(t, body, "Average Number of Items per Order: 1.25")
}

func TestHandler_GetReport(t *testing.T) {
	resetHandler(t)

	req := httptest.NewRequest("GET", "/api/report", nil)
	w := httptest.NewRecorder()

	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "E-commerce Data Analysis", response["title"])

	tabs, ok := response["tabs"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, tabs, 8)

	_, cached, err := testCache.Get(context.Background(), ReportCacheKey)
	assert.NoError(t, err)
	assert.True(t, cached, "report should be cached after the first request")
}

func TestHandler_ListTabs(t *testing.T) {
	resetHandler(t)

	req := httptest.NewRequest("GET", "/api/tabs", nil)
	w := httptest.NewRecorder()

	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	require.Len(t, response, 8)
	assert.Equal(t, map[string]string{"id": "customers", "title": "Customer Analysis"}, response[0])
	assert.Equal(t, map[string]string{"id": "translation", "title": "Translation Analysis"}, response[7])
}

func TestHandler_GetTab(t *testing.T) {
	resetHandler(t)

	tests := []struct {
		name           string
		tab            string
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:           "Orders",
			tab:            "orders",
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"id":    "orders",
				"title": "Order Analysis",
				"sections": []interface{}{
					map[string]interface{}{"heading": "Average Delivery Time", "kind": "metric", "text": "Average Delivery Time: 11.25 days"},
					map[string]interface{}{"heading": "Average Number of Items per Order", "kind": "metric", "text": "Average Number of Items per Order: 1.25"},
					map[string]interface{}{"heading": "Typical Payment Method", "kind": "metric", "text": "Most Common Payment Method: credit_card"},
				},
			},
		},
		{
			name:           "Unknown Tab",
			tab:            "inventory",
			expectedStatus: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"error": "Unknown tab",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/tabs/"+tt.tab, nil)
			w := httptest.NewRecorder()

			testRouter.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, response)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	resetHandler(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status string         `json:"status"`
		Tables map[string]int `json:"tables"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 5, response.Tables["orders"])
	assert.Equal(t, 8, response.Tables["customers"])
}

// failingCache rejects every read and write
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestHandler_CacheFailureIsNotFatal(t *testing.T) {
	log, hook := test.NewNullLogger()
	router := NewRouter(NewHandler(testDataset, failingCache{}, time.Minute, log))

	req := httptest.NewRequest("GET", "/api/tabs/products", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "perfumaria")

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings, "expected one warning for the read and one for the write")
}

func TestHandler_ServesCachedReport(t *testing.T) {
	resetHandler(t)

	cached := `{"title":"Cached","tabs":[{"id":"orders","title":"Order Analysis","sections":[]}]}`
	require.NoError(t, testCache.Set(context.Background(), ReportCacheKey, []byte(cached), time.Minute))

	req := httptest.NewRequest("GET", "/api/report", nil)
	w := httptest.NewRecorder()

	testRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cached, strings.TrimSpace(w.Body.String()))
}
