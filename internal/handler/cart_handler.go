package handler

import (
	"encoding/json"
	"net/http"

	"go-shop-backend/internal/middleware"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/service"
)

type CartHandler struct {
	service *service.CartService
}

func NewCartHandler(service *service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	items, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	// An empty cart is an empty list, never null.
	if items == nil {
		items = []model.PopulatedCartItem{}
	}

	writeSuccess(w, http.StatusOK, model.CartResponse{Cart: items}, nil)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	defer r.Body.Close()

	var payload model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errInvalidJSON())
		return
	}

	if err := validateStruct(payload); err != nil {
		writeError(w, err)
		return
	}

	quantity := payload.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if err := h.service.Add(r.Context(), claims.UserID, payload.ProductID, quantity); err != nil {
		writeError(w, err)
		return
	}

	h.respondWithCart(w, r, claims.UserID)
}

// Adjust bumps an entry's quantity up or down by one.
func (h *CartHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	defer r.Body.Close()

	var payload model.UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errInvalidJSON())
		return
	}

	if err := validateStruct(payload); err != nil {
		writeError(w, err)
		return
	}

	direction := model.AdjustIncrement
	if payload.Method == "decrement" {
		direction = model.AdjustDecrement
	}

	if err := h.service.Adjust(r.Context(), claims.UserID, payload.ProductID, direction); err != nil {
		writeError(w, err)
		return
	}

	h.respondWithCart(w, r, claims.UserID)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, errAuthRequired())
		return
	}

	defer r.Body.Close()

	var payload model.RemoveFromCartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errInvalidJSON())
		return
	}

	if err := validateStruct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), claims.UserID, payload.ProductID); err != nil {
		writeError(w, err)
		return
	}

	h.respondWithCart(w, r, claims.UserID)
}

// respondWithCart echoes the post-mutation cart so clients skip a
// follow-up GET.
func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.PopulatedCartItem{}
	}

	writeSuccess(w, http.StatusOK, model.CartResponse{Cart: items}, nil)
}
