package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ownership-platform/verification-service/internal/domain"
)

// WalletHistory pages through a wallet's verification records, newest first.
func (s *Service) WalletHistory(ctx context.Context, walletAddress string, limit, offset int) (HistoryPage, error) {
	wallet, err := normalizeAddress(walletAddress)
	if err != nil {
		return HistoryPage{}, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.verifications.ListByWallet(ctx, wallet, limit, offset)
	if err != nil {
		return HistoryPage{}, err
	}
	total, err := s.verifications.CountByWallet(ctx, wallet)
	if err != nil {
		return HistoryPage{}, err
	}

	items := make([]HistoryItem, 0, len(records))
	for _, r := range records {
		item := HistoryItem{
			VerificationID:  r.VerificationID,
			Result:          r.Result,
			ContractAddress: r.ContractAddress,
			Method:          r.Method,
			VerifiedAt:      r.VerifiedAt,
			EventName:       r.EventName,
			Location:        r.Location,
		}
		if r.Reason != nil {
			item.Reason = *r.Reason
		}
		items = append(items, item)
	}
	return HistoryPage{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	}, nil
}

// CollectionStats builds the per-collection analytics bundle: daily totals,
// overall success rate, and the failure-reason histogram over the window.
// Only the collection creator may read it.
func (s *Service) CollectionStats(ctx context.Context, caller, contractAddress string, periodDays int) (CollectionStats, error) {
	callerAddr, err := normalizeAddress(caller)
	if err != nil {
		return CollectionStats{}, err
	}
	contract, err := normalizeAddress(contractAddress)
	if err != nil {
		return CollectionStats{}, err
	}
	collection, err := s.collections.GetByContract(ctx, contract)
	if err != nil {
		return CollectionStats{}, err
	}
	if collection.Creator != callerAddr {
		return CollectionStats{}, fmt.Errorf("%w: only the collection creator can read its stats", domain.ErrUnauthorized)
	}

	if periodDays <= 0 || periodDays > 90 {
		periodDays = 30
	}
	since := s.nowFn().AddDate(0, 0, -periodDays)

	daily, err := s.verifications.DailyStats(ctx, contract, since)
	if err != nil {
		return CollectionStats{}, err
	}
	reasons, err := s.verifications.FailureReasons(ctx, contract, since)
	if err != nil {
		return CollectionStats{}, err
	}

	var totals StatsTotals
	for _, day := range daily {
		totals.Total += day.Total
		totals.Success += day.Success
		totals.Failed += day.Failed
	}
	if totals.Total > 0 {
		totals.SuccessRate = float64(totals.Success) / float64(totals.Total) * 100
	}

	return CollectionStats{
		DailyStats:     daily,
		Totals:         totals,
		FailureReasons: reasons,
		PeriodDays:     periodDays,
	}, nil
}

// OrganizerStats is the cross-collection rollup for the authenticated organizer.
func (s *Service) OrganizerStats(ctx context.Context, organizer string, periodDays int) (domain.OrganizerStats, error) {
	organizerAddr, err := normalizeAddress(organizer)
	if err != nil {
		return domain.OrganizerStats{}, err
	}
	if periodDays <= 0 || periodDays > 90 {
		periodDays = 30
	}
	since := s.nowFn().AddDate(0, 0, -periodDays)
	return s.verifications.OrganizerStats(ctx, organizerAddr, since)
}

// CleanupVerifications drops audit records older than the retention window
// and sweeps lapsed pairing codes. Called by the maintenance worker on its tick.
func (s *Service) CleanupVerifications(ctx context.Context) error {
	now := s.nowFn()
	deleted, err := s.verifications.DeleteOlderThan(ctx, s.RetentionCutoff())
	if err != nil {
		return fmt.Errorf("delete expired verifications: %w", err)
	}
	swept, err := s.devices.SweepExpiredCodes(ctx, now)
	if err != nil {
		return fmt.Errorf("sweep expired pairing codes: %w", err)
	}
	if deleted > 0 || swept > 0 {
		slog.Default().InfoContext(ctx, "maintenance cleanup completed",
			"service", serviceName,
			"module", "application",
			"layer", "application",
			"operation", "cleanup",
			"outcome", "success",
			"verifications_deleted", deleted,
			"pairing_codes_swept", swept,
		)
	}
	return nil
}
