package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tableside/config"
	"tableside/internal/domain"
	"tableside/internal/service"
)

type Handler struct {
	Orders  service.OrderServiceInterface
	Menu    service.MenuServiceInterface
	Ratings service.RatingServiceInterface
}

func NewHandler(orderSvc service.OrderServiceInterface, menuSvc service.MenuServiceInterface, ratingSvc service.RatingServiceInterface) *Handler {
	return &Handler{
		Orders:  orderSvc,
		Menu:    menuSvc,
		Ratings: ratingSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/config", h.pollConfig).Methods("GET")

	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/tables/{tableId}/qrcode", h.getTableQRCode).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items/{itemId}/ratings", h.getItemRatings).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/staff", h.createStaff).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/staff", h.listStaff).Methods("GET")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/scan", h.scanCode).Methods("POST")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/payment", h.confirmPayment).Methods("POST")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PATCH")

	r.HandleFunc("/api/ratings", h.createRatings).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "tableside",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// pollConfig tells view clients their re-fetch cadence. The interval is the
// staleness window of each view; clients never push, they poll.
func (h *Handler) pollConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customer_poll_interval_ms": config.CustomerPollInterval().Milliseconds(),
		"kitchen_poll_interval_ms":  config.KitchenPollInterval().Milliseconds(),
		"admin_poll_interval_ms":    config.AdminPollInterval().Milliseconds(),
	})
}

// writeError maps the error taxonomy onto status codes. Conflicts carry the
// refresh-and-retry hint instead of being retried server-side.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, "this order was just updated elsewhere - refresh and retry", http.StatusConflict)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrStoreUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menu.CreateRestaurant(r.Context(), &rest); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	rest, err := h.Menu.GetRestaurant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item.RestaurantID = restaurantID
	if err := h.Menu.CreateMenuItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	var staff domain.StaffUser
	if err := json.NewDecoder(r.Body).Decode(&staff); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	staff.RestaurantID = restaurantID
	if err := h.Menu.CreateStaff(r.Context(), &staff); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, staff)
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	staff, err := h.Menu.ListStaff(r.Context(), restaurantID)
	if err != nil {
		writeError(w, err)
		return
	}
	if staff == nil {
		staff = []domain.StaffUser{}
	}
	writeJSON(w, http.StatusOK, staff)
}

// getMenu is the resolver read: GET /api/menu?restaurant_id=&table_id=
func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(r.URL.Query().Get("restaurant_id"))
	tableID := r.URL.Query().Get("table_id")

	session, err := h.Menu.ResolveTable(r.Context(), restaurantID, tableID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// scanCode accepts the raw QR payload from a scanning device and returns the
// table session bound to it.
func (h *Handler) scanCode(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	session, err := h.Menu.ResolveCode(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	tableID := mux.Vars(r)["tableId"]

	qrCode, err := h.Menu.TableQR(r.Context(), restaurantID, tableID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantID int                `json:"restaurant_id"`
		TableID      string             `json:"table_id"`
		CustomerID   int                `json:"customer_id"`
		Note         string             `json:"note"`
		Lines        []domain.OrderLine `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order := domain.Order{
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		CustomerID:   req.CustomerID,
		Note:         req.Note,
		Lines:        req.Lines,
	}
	if err := h.Orders.Create(r.Context(), &order); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// getOrders serves the slice reads each view polls:
//
//	?customer_id=                customer tracking by identity
//	?restaurant_id=&table_id=    customer tracking by table
//	?restaurant_id=&view=kitchen kitchen queue (PAID, IN_PROGRESS)
//	?restaurant_id=[&status=]    staff/admin restaurant set
func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("customer_id"); raw != "" {
		customerID, _ := strconv.Atoi(raw)
		orders, err := h.Orders.TrackForCustomer(r.Context(), customerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
		return
	}

	restaurantID, _ := strconv.Atoi(query.Get("restaurant_id"))
	if restaurantID <= 0 {
		http.Error(w, "restaurant_id or customer_id required", http.StatusBadRequest)
		return
	}

	var orders []domain.Order
	var err error
	switch {
	case query.Get("table_id") != "":
		orders, err = h.Orders.TrackForTable(r.Context(), restaurantID, query.Get("table_id"))
	case query.Get("view") == "kitchen":
		orders, err = h.Orders.KitchenQueue(r.Context(), restaurantID)
	default:
		orders, err = h.Orders.ListForRestaurant(r.Context(), restaurantID, domain.Status(query.Get("status")))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.ConfirmPayment(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status            domain.Status `json:"status"`
		Actor             domain.Role   `json:"actor"`
		ActorRestaurantID int           `json:"actor_restaurant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Transition(r.Context(), orderID, req.Status, req.Actor, req.ActorRestaurantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) createRatings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID    int `json:"order_id"`
		CustomerID int `json:"customer_id"`
		Ratings    []struct {
			MenuItemID int    `json:"menu_item_id"`
			Rating     int    `json:"rating"`
			Review     string `json:"review"`
		} `json:"ratings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	sub := service.RatingSubmission{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
	}
	for _, in := range req.Ratings {
		sub.Ratings = append(sub.Ratings, service.RatingInput{
			MenuItemID: in.MenuItemID,
			Rating:     in.Rating,
			Review:     in.Review,
		})
	}

	aggregates, err := h.Ratings.Submit(r.Context(), &sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":   req.OrderID,
		"aggregates": aggregates,
	})
}

func (h *Handler) getItemRatings(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	itemID, _ := strconv.Atoi(mux.Vars(r)["itemId"])

	ratings, err := h.Ratings.ListItemRatings(r.Context(), restaurantID, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	if ratings == nil {
		ratings = []domain.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}
