package customers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

type createCustomerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type customerResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      *domain.Address `json:"address,omitempty"`
	Active       bool            `json:"active"`
	RewardPoints int             `json:"reward_points"`
}

func toResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Active:       c.Active,
		RewardPoints: c.RewardPoints,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := domain.NewCustomer(req.ID, req.Name)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), customer); err != nil {
		h.logger.Error("failed to create customer", "error", err, "customer_id", req.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.dispatcher.Notify(r.Context(), domain.NewCustomerCreatedEvent(customer)); err != nil {
		h.logger.Error("customer created handlers failed", "error", err, "customer_id", customer.ID)
	}

	h.logger.Info("customer created", "customer_id", customer.ID)
	h.writeJSON(w, http.StatusCreated, toResponse(customer))
}

type changeAddressRequest struct {
	Street  string `json:"street"`
	Number  int    `json:"number"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
}

// HandleChangeAddress applies the address mutator and dispatches the event
// it returns.
func (h *Handler) HandleChangeAddress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	var req changeAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	addr, err := domain.NewAddress(req.Street, req.Number, req.ZipCode, req.City)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	customer, err := h.repo.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("failed to load customer", "error", err, "customer_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	changed := customer.ChangeAddress(addr)

	if err := h.repo.Update(r.Context(), customer); err != nil {
		h.logger.Error("failed to update customer", "error", err, "customer_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.dispatcher.Notify(r.Context(), changed); err != nil {
		h.logger.Error("address changed handlers failed", "error", err, "customer_id", id)
	}

	h.logger.Info("customer address changed", "customer_id", id, "address", addr.String())
	h.writeJSON(w, http.StatusOK, toResponse(customer))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	customer, err := h.repo.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("failed to get customer", "error", err, "customer_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(customer))
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
