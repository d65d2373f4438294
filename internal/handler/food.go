package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/epiqdine/epiqdine/internal/model"
	"github.com/epiqdine/epiqdine/internal/store"
	"github.com/epiqdine/epiqdine/internal/websocket"
)

// topFoodLimit is how many listings the storefront carousel shows.
const topFoodLimit = 6

type FoodHandler struct {
	foodStore *store.FoodStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewFoodHandler(fs *store.FoodStore, hub *websocket.Hub, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{foodStore: fs, hub: hub, logger: logger}
}

func (h *FoodHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Create inserts a listing and echoes the stored document, including its
// assigned id.
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var food model.Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	stored, err := h.foodStore.Insert(&food)
	if err != nil {
		h.logger.Error("insert food", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add food"})
		return
	}

	h.broadcast(websocket.NewMessage("food", "created", stored.ID, nil))

	writeJSON(w, http.StatusOK, stored)
}

// ListTop returns the most purchased listings, capped at six.
func (h *FoodHandler) ListTop(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodStore.ListTop(topFoodLimit)
	if err != nil {
		h.logger.Error("list top foods", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list foods"})
		return
	}
	if foods == nil {
		foods = []model.Food{}
	}
	writeJSON(w, http.StatusOK, foods)
}

// ListAll returns every listing.
func (h *FoodHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodStore.List()
	if err != nil {
		h.logger.Error("list foods", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list foods"})
		return
	}
	if foods == nil {
		foods = []model.Food{}
	}
	writeJSON(w, http.StatusOK, foods)
}

// ListByOwner returns the listings owned by the path email. The ownership
// check against the verified caller happens in middleware before this runs.
func (h *FoodHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodStore.ListByOwner(r.PathValue("email"))
	if err != nil {
		h.logger.Error("list foods by owner", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list foods"})
		return
	}
	if foods == nil {
		foods = []model.Food{}
	}
	writeJSON(w, http.StatusOK, foods)
}

// Get returns a single listing: 400 on a malformed id, 404 when no listing
// has it. Clients branch on the distinction.
func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID format"})
		return
	}

	food, err := h.foodStore.GetByID(id)
	if err != nil {
		h.logger.Error("get food", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	if food == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Food not found"})
		return
	}

	writeJSON(w, http.StatusOK, food)
}

// Update applies a partial update to a listing: patch keys overwrite stored
// keys, absent keys stay. Upsert is enabled, so patching an id that does not
// exist creates the listing from the patch.
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID format"})
		return
	}

	var patch model.FoodPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := h.foodStore.UpsertPatch(id, &patch)
	if err != nil {
		h.logger.Error("update food", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update food"})
		return
	}

	h.broadcast(websocket.NewMessage("food", "updated", id, nil))

	writeJSON(w, http.StatusOK, result)
}

// IncrementPurchaseCount applies a signed delta to a listing's purchase
// counter. The delta is relative only; there is no floor, so a negative
// delta on a zero counter drives it below zero.
func (h *FoodHandler) IncrementPurchaseCount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID format"})
		return
	}

	var req struct {
		NewValue int64 `json:"newvalue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := h.foodStore.IncrementPurchaseCount(id, req.NewValue)
	if err != nil {
		h.logger.Error("increment purchase count", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update purchase count"})
		return
	}

	h.broadcast(websocket.NewMessage("food", "counted", id, map[string]any{"delta": req.NewValue}))

	writeJSON(w, http.StatusOK, result)
}

func parseIDParam(r *http.Request) (string, error) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
