package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "tableside/internal/api/http"
	"tableside/internal/domain"
	"tableside/internal/mocks"
)

type handlerFixture struct {
	orders  *mocks.OrderServiceInterface
	menu    *mocks.MenuServiceInterface
	ratings *mocks.RatingServiceInterface
	router  *mux.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	f := &handlerFixture{
		orders:  mocks.NewOrderServiceInterface(t),
		menu:    mocks.NewMenuServiceInterface(t),
		ratings: mocks.NewRatingServiceInterface(t),
		router:  mux.NewRouter(),
	}
	httpapi.NewHandler(f.orders, f.menu, f.ratings).RegisterRoutes(f.router)
	return f
}

func (f *handlerFixture) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.RestaurantID == 1 && o.TableID == "4" && len(o.Lines) == 1
	})).Return(nil)

	rec := f.do("POST", "/api/orders", map[string]interface{}{
		"restaurant_id": 1,
		"table_id":      "4",
		"lines": []map[string]interface{}{
			{"menu_item_id": 1, "price": 10, "quantity": 2},
		},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateOrderEndpoint_ValidationIs400(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("Create", mock.Anything, mock.Anything).Return(domain.ErrValidation)

	rec := f.do("POST", "/api/orders", map[string]interface{}{"restaurant_id": 99})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_ConflictIs409WithHint(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("Transition", mock.Anything, 7, domain.StatusServed, domain.RoleStaff, 1).
		Return(nil, domain.ErrConflict)

	rec := f.do("PATCH", "/api/orders/7/status", map[string]interface{}{
		"status":              "SERVED",
		"actor":               "staff",
		"actor_restaurant_id": 1,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh and retry")
}

func TestUpdateStatus_UnauthorizedIs403(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("Transition", mock.Anything, 7, domain.StatusServed, domain.RoleCustomer, 1).
		Return(nil, domain.ErrUnauthorized)

	rec := f.do("PATCH", "/api/orders/7/status", map[string]interface{}{
		"status":              "SERVED",
		"actor":               "customer",
		"actor_restaurant_id": 1,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOrder_NotFoundIs404(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("Get", mock.Anything, 42).Return(nil, domain.ErrNotFound)

	rec := f.do("GET", "/api/orders/42", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrders_RequiresScope(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do("GET", "/api/orders", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrders_KitchenView(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("KitchenQueue", mock.Anything, 1).Return([]domain.Order{
		{ID: 7, Status: domain.StatusPaid},
		{ID: 8, Status: domain.StatusInProgress},
	}, nil)

	rec := f.do("GET", "/api/orders?restaurant_id=1&view=kitchen", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var orders []domain.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestGetOrders_TableTracking(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("TrackForTable", mock.Anything, 1, "4").Return([]domain.Order{{ID: 7}}, nil)

	rec := f.do("GET", "/api/orders?restaurant_id=1&table_id=4", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOrders_EmptySliceNotNull(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("ListForRestaurant", mock.Anything, 1, domain.Status("")).Return(nil, nil)

	rec := f.do("GET", "/api/orders?restaurant_id=1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestConfirmPaymentEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("ConfirmPayment", mock.Anything, 7).
		Return(&domain.Order{ID: 7, Status: domain.StatusPaid}, nil)

	rec := f.do("POST", "/api/orders/7/payment", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var order domain.Order
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.StatusPaid, order.Status)
}

func TestConfirmPaymentEndpoint_StoreDownIs503(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("ConfirmPayment", mock.Anything, 7).Return(nil, domain.ErrStoreUnavailable)

	rec := f.do("POST", "/api/orders/7/payment", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScanEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	payload := []byte(`{"restaurant_id":1,"table_id":"4"}`)
	f.menu.On("ResolveCode", mock.Anything, payload).Return(&domain.TableSession{
		RestaurantID:   1,
		RestaurantName: "Overlook Diner",
		TableID:        "4",
	}, nil)

	req := httptest.NewRequest("POST", "/api/scan", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var session domain.TableSession
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "4", session.TableID)
}

func TestTableQRCodeEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.menu.On("TableQR", mock.Anything, 1, "4").Return([]byte("png-bytes"), nil)

	rec := f.do("GET", "/api/restaurants/1/tables/4/qrcode", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestCreateRatingsEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.ratings.On("Submit", mock.Anything, mock.Anything).
		Return([]domain.ItemAggregate{{MenuItemID: 1, Average: 4.5, Count: 2}}, nil)

	rec := f.do("POST", "/api/ratings", map[string]interface{}{
		"order_id":    7,
		"customer_id": 5,
		"ratings": []map[string]interface{}{
			{"menu_item_id": 1, "rating": 5, "review": "Great!"},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aggregates")
}

func TestCreateRatingsEndpoint_ConflictBeforeServed(t *testing.T) {
	f := newHandlerFixture(t)

	f.ratings.On("Submit", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)

	rec := f.do("POST", "/api/ratings", map[string]interface{}{
		"order_id": 7,
		"ratings":  []map[string]interface{}{{"menu_item_id": 1, "rating": 5}},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateStaffEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	f.menu.On("CreateStaff", mock.Anything, mock.MatchedBy(func(s *domain.StaffUser) bool {
		return s.RestaurantID == 1 && s.Name == "Ayan" && s.Role == domain.RoleKitchen
	})).Return(nil)

	rec := f.do("POST", "/api/restaurants/1/staff", map[string]interface{}{
		"name": "Ayan",
		"role": "kitchen",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListStaffEndpoint_EmptySliceNotNull(t *testing.T) {
	f := newHandlerFixture(t)

	f.menu.On("ListStaff", mock.Anything, 1).Return(nil, nil)

	rec := f.do("GET", "/api/restaurants/1/staff", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHealthEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do("GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestPollConfigEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do("GET", "/api/config", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var cfg map[string]int64
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Greater(t, cfg["kitchen_poll_interval_ms"], int64(0))
	assert.Greater(t, cfg["customer_poll_interval_ms"], int64(0))
	assert.Greater(t, cfg["admin_poll_interval_ms"], int64(0))
}
