package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epiqdine/epiqdine/internal/model"
	"github.com/epiqdine/epiqdine/internal/store"
	"github.com/epiqdine/epiqdine/internal/websocket"
)

type PurchaseHandler struct {
	purchaseStore *store.PurchaseStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewPurchaseHandler(ps *store.PurchaseStore, hub *websocket.Hub, logger *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchaseStore: ps, hub: hub, logger: logger}
}

func (h *PurchaseHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Create inserts a purchase record and echoes the stored document.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var purchase model.PurchaseOrder
	if err := json.NewDecoder(r.Body).Decode(&purchase); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	stored, err := h.purchaseStore.Insert(&purchase)
	if err != nil {
		h.logger.Error("insert purchase", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add purchase"})
		return
	}

	h.broadcast(websocket.NewMessage("order", "created", stored.ID, nil))

	writeJSON(w, http.StatusOK, stored)
}

// List returns every purchase record, unscoped.
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchaseStore.List()
	if err != nil {
		h.logger.Error("list purchases", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list purchases"})
		return
	}
	if purchases == nil {
		purchases = []model.PurchaseOrder{}
	}
	writeJSON(w, http.StatusOK, purchases)
}

// ListByEmail returns the purchase records for the path email. Ownership is
// enforced by middleware before this runs.
func (h *PurchaseHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchaseStore.ListByEmail(r.PathValue("email"))
	if err != nil {
		h.logger.Error("list purchases by email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list purchases"})
		return
	}
	if purchases == nil {
		purchases = []model.PurchaseOrder{}
	}
	writeJSON(w, http.StatusOK, purchases)
}

// Delete removes a purchase record by id. There is no ownership check on
// this route, matching the deployed behavior; deleting an unknown id
// succeeds with a zero count.
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid ID format"})
		return
	}

	result, err := h.purchaseStore.DeleteByID(id)
	if err != nil {
		h.logger.Error("delete purchase", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete order"})
		return
	}

	h.broadcast(websocket.NewMessage("order", "deleted", id, nil))

	writeJSON(w, http.StatusOK, result)
}
