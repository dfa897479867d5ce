package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/application"
)

func (h *Handler) pairingGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req application.IssuePairingCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "pairing_generate_code", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.IssuePairingCode(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "pairing_generate_code", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) pairingVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req application.CompletePairingRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "pairing_verify_code", err)
		return
	}
	res, err := h.service.CompletePairing(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "pairing_verify_code", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDevices(r.Context(), chi.URLParam(r, "wallet_address"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_devices", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"devices": items})
}

func (h *Handler) revokeDevice(w http.ResponseWriter, r *http.Request) {
	deviceID, err := uuid.Parse(chi.URLParam(r, "device_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid device_id")
		return
	}
	var req application.RevokeDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "revoke_device", err)
		return
	}
	if err := h.service.RevokeDevice(r.Context(), deviceID, req); err != nil {
		writeMappedError(r.Context(), w, "revoke_device", err)
		return
	}
	writeMessage(w, http.StatusOK, "Device revoked")
}

func (h *Handler) revokeAllDevices(w http.ResponseWriter, r *http.Request) {
	var req application.RevokeDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "revoke_all_devices", err)
		return
	}
	revoked, err := h.service.RevokeAllDevices(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "revoke_all_devices", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"revoked": revoked})
}
