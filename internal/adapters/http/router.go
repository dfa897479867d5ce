package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ownership-platform/verification-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for verification use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers the verification HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/challenge", handler.authChallenge)
		r.Post("/auth/verify", handler.authVerify)

		r.Get("/collections", handler.listCollections)
		r.Get("/collections/{contract_address}", handler.getCollection)
		r.Get("/collections/creator/{wallet_address}", handler.listCollectionsByCreator)

		r.Post("/verification/verify-signature", handler.verifySignature)
		r.Post("/verification/verify-session", handler.verifySession)
		r.Get("/verification/history/{wallet_address}", handler.verificationHistory)

		r.Post("/pairing/generate-code", handler.pairingGenerateCode)
		r.Post("/pairing/verify-code", handler.pairingVerifyCode)
		r.Get("/pairing/devices/{wallet_address}", handler.listDevices)
		r.Delete("/pairing/devices/{device_id}", handler.revokeDevice)
		r.Delete("/pairing/devices", handler.revokeAllDevices)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/collections", handler.registerCollection)
			r.Put("/collections/{contract_address}", handler.updateCollection)
			r.Delete("/collections/{contract_address}", handler.deactivateCollection)

			r.Post("/verification/sessions", handler.generateSession)
			r.Get("/verification/sessions", handler.listSessions)
			r.Delete("/verification/sessions/{code}", handler.revokeSession)

			r.Get("/verification/stats/{contract_address}", handler.collectionStats)
			r.Get("/verification/organizer-stats", handler.organizerStats)
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeMissingBearerError(r.Context(), w, "auth_middleware")
			return
		}

		claims, err := h.service.ValidateToken(r.Context(), raw)
		if err != nil {
			writeMappedError(r.Context(), w, "auth_middleware", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
