package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cafekiosk/model"
	"cafekiosk/service"
)

// Handler is the HTTP layer over the order, product and statistics
// services.
type Handler struct {
	products *service.ProductService
	orders   *service.OrderService
	stats    *service.StatisticsService
}

// NewHandler returns a Handler instance.
func NewHandler(products *service.ProductService, orders *service.OrderService, stats *service.StatisticsService) *Handler {
	return &Handler{products: products, orders: orders, stats: stats}
}

// RegisterRoutes registers all routes on the provided router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/selling", h.ListSellingProducts).Methods("GET")

	r.HandleFunc("/orders/new", h.CreateOrder).Methods("POST")
	r.HandleFunc("/orders/statistics", h.SendOrderStatistics).Methods("POST")

	r.HandleFunc("/healthz", h.Health).Methods("GET")
}

// --- request shapes ---

type createProductReq struct {
	Type          string `json:"type"`
	SellingStatus string `json:"selling_status"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
}

type createOrderReq struct {
	ProductNumbers []string `json:"product_numbers"`
}

type orderStatisticsReq struct {
	Date string `json:"date"` // 2006-01-02
	To   string `json:"to"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// orderErrStatus maps order creation failures to HTTP status codes.
func orderErrStatus(err error) int {
	var notFound *model.ProductNotFoundError
	var insufficient *model.InsufficientStockError
	switch {
	case errors.As(err, &notFound), errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// --- Handler ---

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price < 0 {
		writeErr(w, http.StatusBadRequest, "price must be >= 0")
		return
	}

	p, err := h.products.CreateProduct(r.Context(), service.CreateProductInput{
		Type:          model.ProductType(req.Type),
		SellingStatus: model.SellingStatus(req.SellingStatus),
		Name:          req.Name,
		Price:         req.Price,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListSellingProducts handles GET /products/selling
func (h *Handler) ListSellingProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.SellingProducts(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateOrder handles POST /orders/new
// body: { "product_numbers": ["001", "001", "002"] }
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req.ProductNumbers, time.Now())
	if err != nil {
		writeErr(w, orderErrStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// SendOrderStatistics handles POST /orders/statistics
// body: { "date": "2006-01-02", "to": "ops@example.com" }
func (h *Handler) SendOrderStatistics(w http.ResponseWriter, r *http.Request) {
	var req orderStatisticsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
		return
	}
	if req.To == "" {
		writeErr(w, http.StatusBadRequest, "to is required")
		return
	}

	if err := h.stats.SendOrderStatisticsMail(r.Context(), day, req.To); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
