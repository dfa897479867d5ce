package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

const sessionCodeLength = 6

// GenerateSession mints a short-lived 6-digit code bound to a collection and
// its organizer. Only the collection creator may generate codes for it. On the
// rare code collision the store entry is simply overwritten; the previous
// session with that code becomes unreachable, which matches the expiry
// semantics callers already handle.
func (s *Service) GenerateSession(ctx context.Context, organizer string, req GenerateSessionRequest) (GenerateSessionResponse, error) {
	organizerAddr, err := normalizeAddress(organizer)
	if err != nil {
		return GenerateSessionResponse{}, err
	}
	contract, err := normalizeAddress(req.ContractAddress)
	if err != nil {
		return GenerateSessionResponse{}, err
	}

	collection, err := s.collections.GetByContract(ctx, contract)
	if err != nil {
		return GenerateSessionResponse{}, err
	}
	if collection.Creator != organizerAddr {
		return GenerateSessionResponse{}, fmt.Errorf("%w: only the collection creator can open sessions", domain.ErrUnauthorized)
	}
	if !collection.IsActive {
		return GenerateSessionResponse{}, fmt.Errorf("%w: collection is not active", domain.ErrInvalidInput)
	}

	ttl := s.cfg.SessionTTL
	if req.TTLMinutes > 0 {
		requested := time.Duration(req.TTLMinutes) * time.Minute
		if requested > 24*time.Hour {
			requested = 24 * time.Hour
		}
		ttl = requested
	}

	now := s.nowFn()
	code := randomDigits(sessionCodeLength)
	data := ports.SessionData{
		ContractAddress: contract,
		OrganizerID:     organizerAddr,
		EventName:       req.EventName,
		Location:        req.Location,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
	}
	if err := s.sessions.Put(ctx, code, data, ttl); err != nil {
		return GenerateSessionResponse{}, fmt.Errorf("store session code: %w", err)
	}

	slog.Default().InfoContext(ctx, "session code generated",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "generate_session",
		"outcome", "success",
		"contract_address", contract,
		"organizer", organizerAddr,
		"expires_at", data.ExpiresAt,
	)
	return GenerateSessionResponse{
		SessionCode:    code,
		ExpiresAt:      data.ExpiresAt,
		CollectionName: collection.Name,
		EventName:      req.EventName,
	}, nil
}

// ListSessions returns the caller's live sessions, newest first. Expired codes
// have already vanished from the store so no filtering is needed beyond the
// organizer scope.
func (s *Service) ListSessions(ctx context.Context, organizer string) ([]SessionView, error) {
	organizerAddr, err := normalizeAddress(organizer)
	if err != nil {
		return nil, err
	}
	live, err := s.sessions.ListByOrganizer(ctx, organizerAddr)
	if err != nil {
		return nil, err
	}

	views := make([]SessionView, 0, len(live))
	for code, data := range live {
		views = append(views, SessionView{
			SessionCode:       code,
			ContractAddress:   data.ContractAddress,
			EventName:         data.EventName,
			Location:          data.Location,
			CreatedAt:         data.CreatedAt,
			ExpiresAt:         data.ExpiresAt,
			VerificationCount: data.VerificationCount,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

// RevokeSession deletes a live code before its natural expiry. Only the
// organizer that opened the session may revoke it; a code that already expired
// reports not found.
func (s *Service) RevokeSession(ctx context.Context, organizer, code string) error {
	organizerAddr, err := normalizeAddress(organizer)
	if err != nil {
		return err
	}
	data, err := s.sessions.Get(ctx, code)
	if err != nil {
		return err
	}
	if data == nil {
		return domain.ErrSessionNotFound
	}
	if data.OrganizerID != organizerAddr {
		return fmt.Errorf("%w: session belongs to another organizer", domain.ErrUnauthorized)
	}
	return s.sessions.Delete(ctx, code)
}

// resolveSession loads a live session, treating store expiry and a stale
// ExpiresAt stamp identically. The double check keeps behavior exact under an
// injected clock, where the store's own TTL may lag the service's notion of now.
func (s *Service) resolveSession(ctx context.Context, code string) (*ports.SessionData, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: session code is required", domain.ErrInvalidInput)
	}
	data, err := s.sessions.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if data == nil || !s.nowFn().Before(data.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return data, nil
}
