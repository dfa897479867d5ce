package postgres

import (
	"encoding/json"
	"strings"

	"github.com/ownership-platform/verification-service/internal/domain"
)

func toDomainCollection(row collectionModel) domain.Collection {
	return domain.Collection{
		ContractAddress:    row.ContractAddress,
		Name:               row.Name,
		Symbol:             row.Symbol,
		Description:        row.Description,
		Category:           row.Category,
		ImageURL:           row.ImageURL,
		RoyaltyPercentage:  row.RoyaltyPercentage,
		Price:              row.Price,
		Currency:           row.Currency,
		MaxSupply:          row.MaxSupply,
		CurrentSupply:      row.CurrentSupply,
		Creator:            row.Creator,
		AccessRule:         toDomainRule(row),
		IsActive:           row.IsActive,
		TotalVerifications: row.TotalVerifications,
		UniqueHolders:      row.UniqueHolders,
		DeployedAt:         row.DeployedAt,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// toDomainRule rebuilds the rule variant from its flattened columns. Unknown
// rule types fall back to hold-one rather than poisoning reads; validation on
// the write path keeps them out in the first place.
func toDomainRule(row collectionModel) domain.AccessRule {
	var predicate domain.RulePredicate
	switch row.RuleType {
	case domain.RuleSpecificTrait:
		predicate = domain.SpecificTraitRule{
			TraitType:  row.RuleTraitType,
			TraitValue: row.RuleTraitValue,
		}
	case domain.RuleMinRarity:
		predicate = domain.MinRarityRule{MinRarity: uint64(row.RuleMinRarity)}
	default:
		predicate = domain.HoldOneRule{}
	}
	return domain.AccessRule{
		Predicate:     predicate,
		ValidityStart: row.ValidityStart,
		ValidityEnd:   row.ValidityEnd,
		Transferable:  row.Transferable,
	}
}

func toCollectionModel(c domain.Collection) collectionModel {
	snap := domain.SnapshotRule(c.AccessRule)
	return collectionModel{
		ContractAddress:    c.ContractAddress,
		Name:               c.Name,
		Symbol:             c.Symbol,
		Description:        c.Description,
		Category:           c.Category,
		ImageURL:           c.ImageURL,
		RoyaltyPercentage:  c.RoyaltyPercentage,
		Price:              c.Price,
		Currency:           c.Currency,
		MaxSupply:          c.MaxSupply,
		CurrentSupply:      c.CurrentSupply,
		Creator:            c.Creator,
		RuleType:           snap.RuleType,
		RuleTraitType:      snap.TraitType,
		RuleTraitValue:     snap.TraitValue,
		RuleMinRarity:      int64(snap.MinRarity),
		ValidityStart:      c.AccessRule.ValidityStart,
		ValidityEnd:        c.AccessRule.ValidityEnd,
		Transferable:       c.AccessRule.Transferable,
		IsActive:           c.IsActive,
		TotalVerifications: c.TotalVerifications,
		UniqueHolders:      c.UniqueHolders,
		DeployedAt:         c.DeployedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toDomainDevice(row deviceModel) domain.Device {
	ip := ""
	if row.LastIPAddress != nil {
		ip = *row.LastIPAddress
	}
	return domain.Device{
		DeviceID:           row.DeviceID,
		WalletAddress:      row.WalletAddress,
		DeviceName:         row.DeviceName,
		DeviceType:         row.DeviceType,
		Platform:           row.Platform,
		PairingCode:        row.PairingCode,
		PairingCodeExpiry:  row.PairingCodeExpiry,
		IsTrusted:          row.IsTrusted,
		IsActive:           row.IsActive,
		LastUsed:           row.LastUsed,
		TotalVerifications: row.TotalVerifications,
		PairedAt:           row.PairedAt,
		LastIPAddress:      ip,
		UserAgent:          row.UserAgent,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toDomainVerification(row verificationModel) domain.Verification {
	ip := ""
	if row.IPAddress != nil {
		ip = *row.IPAddress
	}
	v := domain.Verification{
		VerificationID:  row.VerificationID,
		SessionCode:     row.SessionCode,
		WalletAddress:   row.WalletAddress,
		ContractAddress: row.ContractAddress,
		Method:          row.Method,
		Signature:       row.Signature,
		Message:         row.Message,
		MessageHash:     row.MessageHash,
		Result:          row.Result,
		Reason:          row.Reason,
		DeviceID:        row.DeviceID,
		IPAddress:       ip,
		UserAgent:       row.UserAgent,
		OrganizerID:     row.OrganizerID,
		EventName:       row.EventName,
		Location:        row.Location,
		VerifiedAt:      row.VerifiedAt,
		ExpiresAt:       row.ExpiresAt,
	}
	_ = json.Unmarshal([]byte(row.TokenIDs), &v.TokenIDs)
	_ = json.Unmarshal([]byte(row.TokenTraits), &v.TokenTraits)
	_ = json.Unmarshal([]byte(row.RuleApplied), &v.RuleApplied)
	return v
}

func toVerificationModel(v domain.Verification) verificationModel {
	tokenIDs, _ := json.Marshal(v.TokenIDs)
	tokenTraits, _ := json.Marshal(v.TokenTraits)
	ruleApplied, _ := json.Marshal(v.RuleApplied)
	return verificationModel{
		VerificationID:  v.VerificationID,
		SessionCode:     v.SessionCode,
		WalletAddress:   v.WalletAddress,
		ContractAddress: v.ContractAddress,
		Method:          v.Method,
		Signature:       v.Signature,
		Message:         v.Message,
		MessageHash:     v.MessageHash,
		Result:          v.Result,
		Reason:          v.Reason,
		TokenIDs:        string(tokenIDs),
		TokenTraits:     string(tokenTraits),
		RuleApplied:     string(ruleApplied),
		DeviceID:        v.DeviceID,
		IPAddress:       nullableString(v.IPAddress),
		UserAgent:       v.UserAgent,
		OrganizerID:     v.OrganizerID,
		EventName:       v.EventName,
		Location:        v.Location,
		VerifiedAt:      v.VerifiedAt,
		ExpiresAt:       v.ExpiresAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
