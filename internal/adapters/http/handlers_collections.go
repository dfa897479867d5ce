package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ownership-platform/verification-service/internal/application"
)

func (h *Handler) registerCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "register_collection")
		return
	}
	var req application.RegisterCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register_collection", err)
		return
	}
	res, err := h.service.RegisterCollection(r.Context(), claims.WalletAddress, req)
	if err != nil {
		writeMappedError(r.Context(), w, "register_collection", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "contract_address"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_collection", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.service.ListCollections(
		r.Context(),
		r.URL.Query().Get("category"),
		parseIntDefault(r.URL.Query().Get("limit"), 20),
		parseIntDefault(r.URL.Query().Get("offset"), 0),
	)
	if err != nil {
		writeMappedError(r.Context(), w, "list_collections", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"collections": items,
		"total":       total,
	})
}

func (h *Handler) listCollectionsByCreator(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListCollectionsByCreator(r.Context(), chi.URLParam(r, "wallet_address"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_collections_by_creator", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"collections": items})
}

func (h *Handler) updateCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "update_collection")
		return
	}
	var req application.UpdateCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_collection", err)
		return
	}
	res, err := h.service.UpdateCollection(r.Context(), claims.WalletAddress, chi.URLParam(r, "contract_address"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_collection", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) deactivateCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "deactivate_collection")
		return
	}
	if err := h.service.DeactivateCollection(r.Context(), claims.WalletAddress, chi.URLParam(r, "contract_address")); err != nil {
		writeMappedError(r.Context(), w, "deactivate_collection", err)
		return
	}
	writeMessage(w, http.StatusOK, "Collection deactivated")
}
