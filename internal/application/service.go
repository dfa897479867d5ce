package application

import (
	"time"

	"github.com/ownership-platform/verification-service/internal/ports"
)

const serviceName = "nft-verification-service"

// Service implements the verification use-cases: challenge-response wallet
// auth, collection registry, session codes, device pairing, and the
// verification record writer with its analytics reads.
type Service struct {
	cfg           Config
	collections   ports.CollectionRepository
	devices       ports.DeviceRepository
	verifications ports.VerificationRepository
	sessions      ports.SessionCodeStore
	chain         ports.ChainReader
	evaluator     *RuleEvaluator
	signatures    ports.SignatureVerifier
	tokenSigner   ports.TokenSigner
	nowFn         func() time.Time
}

// Dependencies groups the injected ports so construction sites stay readable.
type Dependencies struct {
	Config        Config
	Collections   ports.CollectionRepository
	Devices       ports.DeviceRepository
	Verifications ports.VerificationRepository
	Sessions      ports.SessionCodeStore
	Chain         ports.ChainReader
	Signatures    ports.SignatureVerifier
	TokenSigner   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	svc := &Service{
		cfg:           deps.Config,
		collections:   deps.Collections,
		devices:       deps.Devices,
		verifications: deps.Verifications,
		sessions:      deps.Sessions,
		chain:         deps.Chain,
		signatures:    deps.Signatures,
		tokenSigner:   deps.TokenSigner,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
	svc.evaluator = NewRuleEvaluator(deps.Chain)
	svc.evaluator.nowFn = func() time.Time { return svc.nowFn() }

	if svc.cfg.MessageFreshness <= 0 {
		svc.cfg.MessageFreshness = 10 * time.Minute
	}
	if svc.cfg.SessionTTL <= 0 {
		svc.cfg.SessionTTL = time.Hour
	}
	if svc.cfg.PairingCodeTTL <= 0 {
		svc.cfg.PairingCodeTTL = 10 * time.Minute
	}
	if svc.cfg.TokenTTL <= 0 {
		svc.cfg.TokenTTL = 24 * time.Hour
	}
	if svc.cfg.RetentionDays <= 0 {
		svc.cfg.RetentionDays = 90
	}
	return svc
}

// WithClock overrides the service clock. Test-only seam; the evaluator shares
// the same clock so time-window checks stay consistent with TTL checks.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}
