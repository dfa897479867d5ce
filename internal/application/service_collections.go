package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

var knownCategories = map[string]bool{
	"event": true, "membership": true, "space": true, "rwa": true, "other": true,
}

// RegisterCollection registers an NFT contract under the authenticated creator.
// When the chain cross-check is enabled and the contract answers, only the
// on-chain creator may register it; an unreachable chain does not block
// registration.
func (s *Service) RegisterCollection(ctx context.Context, creator string, req RegisterCollectionRequest) (CollectionView, error) {
	creatorAddr, err := normalizeAddress(creator)
	if err != nil {
		return CollectionView{}, err
	}
	contract, err := normalizeAddress(req.ContractAddress)
	if err != nil {
		return CollectionView{}, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Symbol) == "" || strings.TrimSpace(req.Description) == "" {
		return CollectionView{}, fmt.Errorf("%w: name, symbol and description are required", domain.ErrInvalidInput)
	}

	if _, err := s.collections.GetByContract(ctx, contract); err == nil {
		return CollectionView{}, fmt.Errorf("%w: collection already registered", domain.ErrConflict)
	}

	// On-chain cross-check: the contract is the source of truth for its
	// creator, supply and declared access rule. An unreachable chain never
	// blocks registration.
	var chainRule *ports.ChainAccessRule
	var currentSupply int64
	if info, chainErr := s.chain.CollectionInfo(ctx, contract); chainErr == nil {
		if s.cfg.VerifyChainCreator && !strings.EqualFold(info.Creator, creatorAddr) {
			return CollectionView{}, fmt.Errorf("%w: only the contract creator can register this collection", domain.ErrUnauthorized)
		}
		if supply, supplyErr := s.chain.TotalSupply(ctx, contract); supplyErr == nil {
			currentSupply = supply
		}
		if req.AccessRule == nil {
			if onChain, ruleErr := s.chain.AccessRule(ctx, contract); ruleErr == nil && onChain.RuleType != "" {
				chainRule = &onChain
			}
		}
	} else {
		slog.Default().WarnContext(ctx, "on-chain registration cross-check skipped",
			"service", serviceName,
			"module", "application",
			"layer", "application",
			"operation", "register_collection",
			"outcome", "warning",
			"contract_address", contract,
			"error", chainErr,
		)
	}

	var rule domain.AccessRule
	if chainRule != nil {
		rule, err = accessRuleFromChain(*chainRule)
	} else {
		rule, err = accessRuleFromInput(req.AccessRule, s.nowFn())
	}
	if err != nil {
		return CollectionView{}, err
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !knownCategories[category] {
		category = "other"
	}
	royalty := req.RoyaltyPercentage
	if royalty < 0 {
		royalty = 0
	}
	if royalty > 10 {
		royalty = 10
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "CFX"
	}
	price := strings.TrimSpace(req.Price)
	if price == "" {
		price = "0"
	}

	now := s.nowFn()
	collection := domain.Collection{
		ContractAddress:   contract,
		Name:              strings.TrimSpace(req.Name),
		Symbol:            strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Description:       strings.TrimSpace(req.Description),
		Category:          category,
		ImageURL:          strings.TrimSpace(req.ImageURL),
		RoyaltyPercentage: royalty,
		Price:             price,
		Currency:          currency,
		MaxSupply:         req.MaxSupply,
		CurrentSupply:     currentSupply,
		Creator:           creatorAddr,
		AccessRule:        rule,
		IsActive:          true,
		DeployedAt:        now,
	}
	if err := collection.Validate(); err != nil {
		return CollectionView{}, err
	}

	created, err := s.collections.Create(ctx, collection)
	if err != nil {
		return CollectionView{}, err
	}
	return collectionView(created), nil
}

// GetCollection fetches one registered collection by contract address.
func (s *Service) GetCollection(ctx context.Context, contractAddress string) (CollectionView, error) {
	contract, err := normalizeAddress(contractAddress)
	if err != nil {
		return CollectionView{}, err
	}
	collection, err := s.collections.GetByContract(ctx, contract)
	if err != nil {
		return CollectionView{}, err
	}
	return collectionView(collection), nil
}

// ListCollections returns active collections, optionally filtered by category.
func (s *Service) ListCollections(ctx context.Context, category string, limit, offset int) ([]CollectionView, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.collections.ListActive(ctx, ports.CollectionFilter{
		Category: strings.ToLower(strings.TrimSpace(category)),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, 0, err
	}
	views := make([]CollectionView, 0, len(items))
	for _, item := range items {
		views = append(views, collectionView(item))
	}
	return views, total, nil
}

// ListCollectionsByCreator returns every collection registered by a wallet,
// active or not.
func (s *Service) ListCollectionsByCreator(ctx context.Context, creator string) ([]CollectionView, error) {
	creatorAddr, err := normalizeAddress(creator)
	if err != nil {
		return nil, err
	}
	items, err := s.collections.ListByCreator(ctx, creatorAddr)
	if err != nil {
		return nil, err
	}
	views := make([]CollectionView, 0, len(items))
	for _, item := range items {
		views = append(views, collectionView(item))
	}
	return views, nil
}

// UpdateCollection applies mutable fields; only the registered creator may call it.
func (s *Service) UpdateCollection(ctx context.Context, caller, contractAddress string, req UpdateCollectionRequest) (CollectionView, error) {
	callerAddr, err := normalizeAddress(caller)
	if err != nil {
		return CollectionView{}, err
	}
	contract, err := normalizeAddress(contractAddress)
	if err != nil {
		return CollectionView{}, err
	}
	collection, err := s.collections.GetByContract(ctx, contract)
	if err != nil {
		return CollectionView{}, err
	}
	if collection.Creator != callerAddr {
		return CollectionView{}, fmt.Errorf("%w: only the collection creator can update it", domain.ErrUnauthorized)
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		collection.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		collection.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if knownCategories[category] {
			collection.Category = category
		}
	}
	if req.ImageURL != nil {
		collection.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsActive != nil {
		collection.IsActive = *req.IsActive
	}
	if req.AccessRule != nil {
		rule, ruleErr := accessRuleFromInput(req.AccessRule, collection.AccessRule.ValidityStart)
		if ruleErr != nil {
			return CollectionView{}, ruleErr
		}
		collection.AccessRule = rule
	}
	if err := collection.Validate(); err != nil {
		return CollectionView{}, err
	}

	updated, err := s.collections.Update(ctx, collection)
	if err != nil {
		return CollectionView{}, err
	}
	return collectionView(updated), nil
}

// DeactivateCollection soft-deletes a collection; only the creator may call it.
// The row and its audit history survive, but evaluation denies from then on.
func (s *Service) DeactivateCollection(ctx context.Context, caller, contractAddress string) error {
	callerAddr, err := normalizeAddress(caller)
	if err != nil {
		return err
	}
	contract, err := normalizeAddress(contractAddress)
	if err != nil {
		return err
	}
	collection, err := s.collections.GetByContract(ctx, contract)
	if err != nil {
		return err
	}
	if collection.Creator != callerAddr {
		return fmt.Errorf("%w: only the collection creator can deactivate it", domain.ErrUnauthorized)
	}
	return s.collections.Deactivate(ctx, contract, s.nowFn())
}

// accessRuleFromInput converts the wire rule shape into the domain sum type.
// An absent input defaults to hold-one with an open-ended window.
func accessRuleFromInput(in *AccessRuleInput, defaultStart time.Time) (domain.AccessRule, error) {
	start := defaultStart.UTC()
	if in == nil {
		return domain.AccessRule{
			Predicate:     domain.HoldOneRule{},
			ValidityStart: start,
			Transferable:  true,
		}, nil
	}

	var predicate domain.RulePredicate
	switch strings.TrimSpace(in.RuleType) {
	case "", domain.RuleHoldOne:
		predicate = domain.HoldOneRule{}
	case domain.RuleSpecificTrait:
		predicate = domain.SpecificTraitRule{
			TraitType:  strings.TrimSpace(in.TraitType),
			TraitValue: strings.TrimSpace(in.TraitValue),
		}
	case domain.RuleMinRarity:
		predicate = domain.MinRarityRule{MinRarity: in.MinRarity}
	default:
		return domain.AccessRule{}, fmt.Errorf("%w: unknown rule type %q", domain.ErrInvalidInput, in.RuleType)
	}

	rule := domain.AccessRule{
		Predicate:     predicate,
		ValidityStart: start,
		ValidityEnd:   in.ValidityEnd,
		Transferable:  true,
	}
	if in.ValidityStart != nil {
		rule.ValidityStart = in.ValidityStart.UTC()
	}
	if in.Transferable != nil {
		rule.Transferable = *in.Transferable
	}
	if err := rule.Validate(); err != nil {
		return domain.AccessRule{}, err
	}
	return rule, nil
}

// accessRuleFromChain converts the rule the contract itself declares. Used
// when a registration does not provide one.
func accessRuleFromChain(in ports.ChainAccessRule) (domain.AccessRule, error) {
	var predicate domain.RulePredicate
	switch in.RuleType {
	case domain.RuleHoldOne:
		predicate = domain.HoldOneRule{}
	case domain.RuleSpecificTrait:
		predicate = domain.SpecificTraitRule{TraitType: in.TraitType, TraitValue: in.TraitValue}
	case domain.RuleMinRarity:
		predicate = domain.MinRarityRule{MinRarity: in.MinRarity}
	default:
		return domain.AccessRule{}, fmt.Errorf("%w: contract declares unknown rule type %q", domain.ErrInvalidInput, in.RuleType)
	}

	rule := domain.AccessRule{
		Predicate:     predicate,
		ValidityStart: in.ValidityStart.UTC(),
		ValidityEnd:   in.ValidityEnd,
		Transferable:  in.Transferable,
	}
	if err := rule.Validate(); err != nil {
		return domain.AccessRule{}, err
	}
	return rule, nil
}

func collectionView(c domain.Collection) CollectionView {
	snap := domain.SnapshotRule(c.AccessRule)
	return CollectionView{
		ContractAddress:   c.ContractAddress,
		Name:              c.Name,
		Symbol:            c.Symbol,
		Description:       c.Description,
		Category:          c.Category,
		ImageURL:          c.ImageURL,
		RoyaltyPercentage: c.RoyaltyPercentage,
		Price:             c.Price,
		Currency:          c.Currency,
		MaxSupply:         c.MaxSupply,
		CurrentSupply:     c.CurrentSupply,
		Creator:           c.Creator,
		AccessRule: AccessRuleInput{
			RuleType:      snap.RuleType,
			TraitType:     snap.TraitType,
			TraitValue:    snap.TraitValue,
			MinRarity:     snap.MinRarity,
			ValidityStart: &c.AccessRule.ValidityStart,
			ValidityEnd:   c.AccessRule.ValidityEnd,
			Transferable:  &c.AccessRule.Transferable,
		},
		IsActive:           c.IsActive,
		TotalVerifications: c.TotalVerifications,
		UniqueHolders:      c.UniqueHolders,
		CreatedAt:          c.CreatedAt,
	}
}
