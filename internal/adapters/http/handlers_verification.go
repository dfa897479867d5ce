package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ownership-platform/verification-service/internal/application"
)

func (h *Handler) verifySignature(w http.ResponseWriter, r *http.Request) {
	var req application.VerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "verify_signature", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.VerifyOwnership(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "verify_signature", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) verifySession(w http.ResponseWriter, r *http.Request) {
	var req application.SessionVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "verify_session", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.VerifyWithSession(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "verify_session", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) verificationHistory(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.WalletHistory(
		r.Context(),
		chi.URLParam(r, "wallet_address"),
		parseIntDefault(r.URL.Query().Get("limit"), 20),
		parseIntDefault(r.URL.Query().Get("offset"), 0),
	)
	if err != nil {
		writeMappedError(r.Context(), w, "verification_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, page)
}

func (h *Handler) generateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "generate_session")
		return
	}
	var req application.GenerateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "generate_session", err)
		return
	}
	res, err := h.service.GenerateSession(r.Context(), claims.WalletAddress, req)
	if err != nil {
		writeMappedError(r.Context(), w, "generate_session", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "list_sessions")
		return
	}
	items, err := h.service.ListSessions(r.Context(), claims.WalletAddress)
	if err != nil {
		writeMappedError(r.Context(), w, "list_sessions", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"sessions": items})
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "revoke_session")
		return
	}
	if err := h.service.RevokeSession(r.Context(), claims.WalletAddress, chi.URLParam(r, "code")); err != nil {
		writeMappedError(r.Context(), w, "revoke_session", err)
		return
	}
	writeMessage(w, http.StatusOK, "Session revoked")
}

func (h *Handler) collectionStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "collection_stats")
		return
	}
	res, err := h.service.CollectionStats(
		r.Context(),
		claims.WalletAddress,
		chi.URLParam(r, "contract_address"),
		parseIntDefault(r.URL.Query().Get("days"), 30),
	)
	if err != nil {
		writeMappedError(r.Context(), w, "collection_stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) organizerStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "organizer_stats")
		return
	}
	res, err := h.service.OrganizerStats(
		r.Context(),
		claims.WalletAddress,
		parseIntDefault(r.URL.Query().Get("days"), 30),
	)
	if err != nil {
		writeMappedError(r.Context(), w, "organizer_stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
