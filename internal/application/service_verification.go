package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

// VerifyOwnership runs a direct signature-based check against a collection's
// access rule. Authentication failures surface as errors before anything is
// evaluated; policy denials come back as a failed response with a reason, and
// both outcomes leave an audit record.
func (s *Service) VerifyOwnership(ctx context.Context, req VerifyRequest) (VerifyResponse, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return VerifyResponse{}, err
	}
	contract, err := normalizeAddress(req.ContractAddress)
	if err != nil {
		return VerifyResponse{}, err
	}
	if req.Message == "" || req.Signature == "" {
		return VerifyResponse{}, fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return VerifyResponse{}, err
	}

	var session *ports.SessionData
	if req.SessionCode != "" {
		session, err = s.resolveSession(ctx, req.SessionCode)
		if err != nil {
			return VerifyResponse{}, err
		}
		if session.ContractAddress != contract {
			return VerifyResponse{}, fmt.Errorf("%w: session code belongs to a different collection", domain.ErrInvalidInput)
		}
	}

	// A device-mediated check is a mobile-app verification; plain wallet
	// signatures stay on the signature method.
	method := domain.MethodSignature
	if req.DeviceID != "" {
		method = domain.MethodMobileApp
	}

	return s.runVerification(ctx, verificationInput{
		wallet:      wallet,
		contract:    contract,
		method:      method,
		signature:   req.Signature,
		message:     req.Message,
		deviceID:    req.DeviceID,
		sessionCode: req.SessionCode,
		session:     session,
		ipAddress:   req.IPAddress,
		userAgent:   req.UserAgent,
	})
}

// VerifyWithSession checks ownership through an organizer session code. The
// target collection comes from the code itself, so a door scanner only ever
// needs the code plus the attendee's signed message.
func (s *Service) VerifyWithSession(ctx context.Context, req SessionVerifyRequest) (VerifyResponse, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return VerifyResponse{}, err
	}
	if req.Message == "" || req.Signature == "" {
		return VerifyResponse{}, fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}

	session, err := s.resolveSession(ctx, req.SessionCode)
	if err != nil {
		return VerifyResponse{}, err
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return VerifyResponse{}, err
	}

	return s.runVerification(ctx, verificationInput{
		wallet:      wallet,
		contract:    session.ContractAddress,
		method:      domain.MethodSessionCode,
		signature:   req.Signature,
		message:     req.Message,
		deviceID:    req.DeviceID,
		sessionCode: req.SessionCode,
		session:     session,
		ipAddress:   req.IPAddress,
		userAgent:   req.UserAgent,
	})
}

type verificationInput struct {
	wallet      string
	contract    string
	method      string
	signature   string
	message     string
	deviceID    string
	sessionCode string
	session     *ports.SessionData
	ipAddress   string
	userAgent   string
}

// runVerification is the shared tail of both verification entry points: load
// the collection, evaluate the rule against the chain snapshot, apply the
// side effects for a success, and append the audit record either way.
func (s *Service) runVerification(ctx context.Context, in verificationInput) (VerifyResponse, error) {
	collection, err := s.collections.GetByContract(ctx, in.contract)
	if err != nil {
		return VerifyResponse{}, err
	}

	var device *domain.Device
	if in.deviceID != "" {
		parsed, parseErr := uuid.Parse(in.deviceID)
		if parseErr != nil {
			return VerifyResponse{}, fmt.Errorf("%w: invalid device id", domain.ErrInvalidInput)
		}
		found, devErr := s.devices.GetByID(ctx, parsed)
		if devErr != nil {
			return VerifyResponse{}, devErr
		}
		if !found.UsableForVerification() {
			return VerifyResponse{}, domain.ErrDeviceNotUsable
		}
		if found.WalletAddress != in.wallet {
			return VerifyResponse{}, fmt.Errorf("%w: device belongs to another wallet", domain.ErrWalletMismatch)
		}
		device = &found
	}

	outcome := s.evaluator.Evaluate(ctx, collection, in.wallet)
	now := s.nowFn()

	record := domain.Verification{
		VerificationID:  uuid.New(),
		WalletAddress:   in.wallet,
		ContractAddress: in.contract,
		Method:          in.method,
		Signature:       in.signature,
		Message:         in.message,
		MessageHash:     domain.MessageHash(in.message),
		Result:          domain.ResultFailed,
		TokenIDs:        outcome.TokenIDs,
		TokenTraits:     outcome.TokenTraits,
		RuleApplied:     domain.SnapshotRule(collection.AccessRule),
		IPAddress:       in.ipAddress,
		UserAgent:       in.userAgent,
		VerifiedAt:      now,
	}
	if outcome.Success {
		record.Result = domain.ResultSuccess
	} else {
		reason := outcome.Reason
		record.Reason = &reason
	}
	// Every record is attributed to the collection's creator so direct
	// signature checks show up in organizer rollups; a session overrides
	// with its own organizer context.
	record.OrganizerID = collection.Creator
	if in.sessionCode != "" {
		code := in.sessionCode
		record.SessionCode = &code
	}
	if in.session != nil {
		record.OrganizerID = in.session.OrganizerID
		record.EventName = in.session.EventName
		record.Location = in.session.Location
	}
	if device != nil {
		id := device.DeviceID
		record.DeviceID = &id
	}
	if s.cfg.RetentionDays > 0 {
		expires := now.AddDate(0, 0, s.cfg.RetentionDays)
		record.ExpiresAt = &expires
	}

	if err := s.verifications.Insert(ctx, record); err != nil {
		return VerifyResponse{}, fmt.Errorf("append verification record: %w", err)
	}

	// A session code is consumed by every check it mediates, denials
	// included; the success counters below stay success-only.
	if in.sessionCode != "" && in.session != nil {
		if _, err := s.sessions.IncrementCount(ctx, in.sessionCode); err != nil {
			s.warnSideEffect(ctx, "increment_session_counter", in.contract, err)
		}
	}

	if outcome.Success {
		s.applySuccessEffects(ctx, in, device)
	}

	s.logVerification(ctx, record, outcome)

	resp := VerifyResponse{
		Success:         outcome.Success,
		VerificationID:  record.VerificationID,
		Result:          record.Result,
		Reason:          outcome.Reason,
		Retryable:       outcome.Retryable,
		WalletAddress:   in.wallet,
		ContractAddress: in.contract,
		CollectionName:  collection.Name,
		VerifiedAt:      now,
	}
	if outcome.Success {
		resp.TokenInfo = &TokenInfo{
			TokenIDs: outcome.TokenIDs,
			Balance:  outcome.Balance,
			Traits:   outcome.TokenTraits,
		}
	}
	return resp, nil
}

// applySuccessEffects bumps the counters a successful check touches: the
// collection aggregate and the device usage stamp. Both are best-effort; the
// audit record is already durable and a counter hiccup must not turn a
// success into a failure.
func (s *Service) applySuccessEffects(ctx context.Context, in verificationInput, device *domain.Device) {
	if err := s.collections.IncrementVerifications(ctx, in.contract); err != nil {
		s.warnSideEffect(ctx, "increment_collection_counter", in.contract, err)
	}
	if device != nil {
		if err := s.devices.Touch(ctx, device.DeviceID, s.nowFn()); err != nil {
			s.warnSideEffect(ctx, "touch_device", in.contract, err)
		}
	}
}

func (s *Service) warnSideEffect(ctx context.Context, operation, contract string, err error) {
	slog.Default().WarnContext(ctx, "verification side effect failed",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", operation,
		"outcome", "warning",
		"contract_address", contract,
		"error", err,
	)
}

func (s *Service) logVerification(ctx context.Context, record domain.Verification, outcome EvaluationResult) {
	attrs := []any{
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "verify_ownership",
		"verification_id", record.VerificationID,
		"wallet_address", record.WalletAddress,
		"contract_address", record.ContractAddress,
		"method", record.Method,
		"result", record.Result,
	}
	if outcome.Success {
		attrs = append(attrs, "outcome", "success", "balance", outcome.Balance)
		slog.Default().InfoContext(ctx, "ownership verified", attrs...)
		return
	}
	attrs = append(attrs, "outcome", "failure", "reason", outcome.Reason, "retryable", outcome.Retryable)
	slog.Default().InfoContext(ctx, "ownership check denied", attrs...)
}

// RetentionCutoff converts the configured retention window into an absolute
// cutoff; the maintenance sweeper deletes records verified before it.
func (s *Service) RetentionCutoff() time.Time {
	return s.nowFn().AddDate(0, 0, -s.cfg.RetentionDays)
}
