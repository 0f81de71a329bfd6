package api

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concierge/internal/calendar"
	"concierge/internal/catalog"
	"concierge/internal/concierge"
	"concierge/internal/inventory"
	"concierge/internal/monitoring"
	"concierge/internal/ordering"
	"concierge/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.July, 20, 9, 0, 0, 0, time.UTC)

type memDocument struct{ data []byte }

func (d *memDocument) Read() ([]byte, error) {
	if d.data == nil {
		return nil, fs.ErrNotExist
	}
	return d.data, nil
}

func (d *memDocument) Write(data []byte) error {
	d.data = append([]byte(nil), data...)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	now := func() time.Time { return testNow }
	logger := log.New(io.Discard, "", 0)

	c := concierge.New(
		inventory.Open(&memDocument{}, inventory.WithClock(now), inventory.WithLogger(logger)),
		planner.New(nil, planner.WithLogger(logger)),
		catalog.NewResolver(catalog.DefaultCatalog(), logger),
		ordering.NewSynthesizer(now, logger),
		calendar.NewScheduler(now, logger),
		concierge.WithClock(now),
		concierge.WithLogger(logger),
	)
	return NewServer(c, append([]Option{WithLogger(logger)}, opts...)...)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestDailyCheck(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/daily-check", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "2025-07-20", body["date"])
	assert.Equal(t, 10.0, body["total_items"])
	assert.Len(t, body["expiring_soon"], 4)
	assert.Len(t, body["recommendations"], 2)
}

func TestPlanAndOrder(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/plan", PlanRequest{Days: 3, AutoOrder: true})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, 22.46, body["total_estimated_cost"])
	order, ok := body["order"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 31.82, order["total"])
	assert.Equal(t, "ORD_20250720_090000", order["order_id"])
	assert.Len(t, body["calendar_events"], 4)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/events?days=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["events"], 4)
}

func TestPlanAndOrder_BadRequest(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/plan", map[string]interface{}{"days": 90})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", strings.NewReader("{"))
	out := httptest.NewRecorder()
	s.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"name": "yogurt", "quantity": 4, "unit": "cups", "expiry_date": "2025-07-28", "category": "dairy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 11.0, decode(t, rec)["total_items"])

	rec = doJSON(t, s, http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"name": "Milk", "quantity": 2, "unit": "gallon", "expiry_date": "2025-07-25",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 11.0, decode(t, rec)["total_items"], "merged into the existing line")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/inventory/remove", RemoveItemRequest{Name: "MILK", Quantity: 3})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/inventory/remove", RemoveItemRequest{Name: "Milk", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code, "milk line was removed at zero")

	rec = doJSON(t, s, http.MethodPost, "/api/v1/inventory/remove", RemoveItemRequest{Name: "Eggs", Quantity: 9})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/inventory/remove", RemoveItemRequest{Name: "Eggs", Quantity: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, decode(t, rec)["total_items"])

	rec = doJSON(t, s, http.MethodGet, "/api/v1/inventory/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []inventory.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.NotEmpty(t, groups)
	assert.Equal(t, "dairy", groups[0].Category)
}

func TestAddItem_Validation(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []map[string]interface{}{
		{"quantity": 1, "expiry_date": "2025-07-28"},
		{"name": "kale", "quantity": 0, "expiry_date": "2025-07-28"},
		{"name": "kale", "quantity": 1},
		{"name": "kale", "quantity": 1, "expiry_date": "next week"},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/v1/inventory", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestEventsAndOrderStatus(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/events?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["events"])

	rec = doJSON(t, s, http.MethodGet, "/api/v1/orders/ORD_1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "in_progress", body["status"])
	assert.Equal(t, "https://mockstore.com/track/ORD_1", body["tracking_url"])
}

func TestSystemStatus(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	components := decode(t, rec)["components"].(map[string]interface{})
	assert.Equal(t, "mock_mode", components["meal_planner"])
	assert.Equal(t, "operational", components["fridge"])
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, WithJWTSecret("s3cret"))

	rec := doJSON(t, s, http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad, err := GenerateToken("other", "household", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	good, err := GenerateToken("s3cret", "household", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	expired, err := GenerateToken("s3cret", "household", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")
}

func TestMetricsEndpoint(t *testing.T) {
	mc := monitoring.NewMetricsCollector()
	mc.RecordPlan("fallback")
	s := newTestServer(t, WithMetrics(mc, "/metrics"))

	rec := doJSON(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `concierge_meal_plans_generated_total{source="fallback"} 1`)

	rec = doJSON(t, newTestServer(t), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func dialWS(t *testing.T, s *Server, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, cmd Command) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteJSON(cmd))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebSocketCommands(t *testing.T) {
	conn := dialWS(t, newTestServer(t), "")

	reply := roundTrip(t, conn, Command{Action: ActionDailyCheck})
	assert.Equal(t, ActionDailyCheck, reply["action"])
	data := reply["data"].(map[string]interface{})
	assert.Equal(t, 10.0, data["total_items"])

	reply = roundTrip(t, conn, Command{Action: ActionStatus})
	assert.Equal(t, ActionStatus, reply["action"])

	reply = roundTrip(t, conn, Command{Action: ActionEvents, Days: 3})
	assert.Equal(t, ActionEvents, reply["action"])
	assert.Empty(t, reply["data"])

	reply = roundTrip(t, conn, Command{Action: "dance"})
	assert.Equal(t, "unknown action: dance", reply["error"])
}

func TestWebSocketAuth(t *testing.T) {
	s := newTestServer(t, WithJWTSecret("s3cret"))
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := GenerateToken("s3cret", "household", time.Hour)
	require.NoError(t, err)
	conn := dialWS(t, s, "?token="+token)
	reply := roundTrip(t, conn, Command{Action: ActionStatus})
	assert.Equal(t, ActionStatus, reply["action"])
}
