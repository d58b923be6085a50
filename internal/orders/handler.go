package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/storeline/checkout/internal/domain"
	"github.com/storeline/checkout/internal/event"
)

type Handler struct {
	repo       *Repository
	dispatcher *event.Dispatcher
	logger     *slog.Logger
}

func NewHandler(repo *Repository, dispatcher *event.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type itemRequest struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type createOrderRequest struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Items      []itemRequest `json:"items"`
}

type orderResponse struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Items      []domain.OrderItem `json:"items"`
	Total      float64            `json:"total"`
}

func toResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Items:      order.Items(),
		Total:      order.Total(),
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		item, err := domain.NewOrderItem(it.ID, it.Name, it.Price, it.ProductID, it.Quantity)
		if err != nil {
			h.writeValidationError(w, err)
			return
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(req.ID, req.CustomerID, items)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err, "order_id", order.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.dispatcher.Notify(r.Context(), domain.NewOrderPlacedEvent(order)); err != nil {
		h.logger.Error("order placed handlers failed", "error", err, "order_id", order.ID)
	}

	h.logger.Info("order created", "order_id", order.ID, "customer_id", order.CustomerID, "total", order.Total())
	h.writeJSON(w, http.StatusCreated, toResponse(order))
}

type addItemsRequest struct {
	Items []itemRequest `json:"items"`
}

// HandleAddItems appends items to an existing order and persists the
// reconciled aggregate.
func (h *Handler) HandleAddItems(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		h.writeError(w, http.StatusBadRequest, "no items to add")
		return
	}

	order, err := h.repo.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to load order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, it := range req.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		item, err := domain.NewOrderItem(it.ID, it.Name, it.Price, it.ProductID, it.Quantity)
		if err != nil {
			h.writeValidationError(w, err)
			return
		}
		order.AddItem(item)
	}

	if err := h.repo.Update(r.Context(), order); err != nil {
		h.logger.Error("failed to update order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order items added", "order_id", id, "total", order.Total())
	h.writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toResponse(order))
	}

	h.logger.Info("orders listed", "count", len(responses))
	h.writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	h.writeError(w, http.StatusBadRequest, "invalid request")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
