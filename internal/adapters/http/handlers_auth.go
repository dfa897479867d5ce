package http

import (
	"net/http"

	"github.com/ownership-platform/verification-service/internal/application"
)

func (h *Handler) authChallenge(w http.ResponseWriter, r *http.Request) {
	var req application.ChallengeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "auth_challenge", err)
		return
	}
	res, err := h.service.Challenge(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "auth_challenge", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) authVerify(w http.ResponseWriter, r *http.Request) {
	var req application.WalletVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "auth_verify", err)
		return
	}
	res, err := h.service.VerifyWallet(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "auth_verify", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
