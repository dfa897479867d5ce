package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

type fakeCollections struct {
	mu    sync.Mutex
	items map[string]domain.Collection
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{items: map[string]domain.Collection{}}
}

func (f *fakeCollections) Create(_ context.Context, c domain.Collection) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.ContractAddress]; ok {
		return domain.Collection{}, domain.ErrConflict
	}
	c.CreatedAt = c.DeployedAt
	c.UpdatedAt = c.DeployedAt
	f.items[c.ContractAddress] = c
	return c, nil
}

func (f *fakeCollections) GetByContract(_ context.Context, contract string) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[contract]
	if !ok {
		return domain.Collection{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCollections) ListActive(_ context.Context, filter ports.CollectionFilter) ([]domain.Collection, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.Collection
	for _, c := range f.items {
		if !c.IsActive {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ContractAddress < all[j].ContractAddress })
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (f *fakeCollections) ListByCreator(_ context.Context, creator string) ([]domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Collection
	for _, c := range f.items {
		if c.Creator == creator {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCollections) Update(_ context.Context, c domain.Collection) (domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.ContractAddress]; !ok {
		return domain.Collection{}, domain.ErrNotFound
	}
	f.items[c.ContractAddress] = c
	return c, nil
}

func (f *fakeCollections) Deactivate(_ context.Context, contract string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[contract]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = false
	c.UpdatedAt = at
	f.items[contract] = c
	return nil
}

func (f *fakeCollections) IncrementVerifications(_ context.Context, contract string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[contract]
	if !ok {
		return domain.ErrNotFound
	}
	c.TotalVerifications++
	f.items[contract] = c
	return nil
}

type fakeDevices struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Device
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{byID: map[uuid.UUID]domain.Device{}}
}

func (f *fakeDevices) Create(_ context.Context, p ports.DeviceCreateParams) (domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code := p.PairingCode
	expiry := p.PairingCodeExpiry
	d := domain.Device{
		DeviceID:          uuid.New(),
		WalletAddress:     p.WalletAddress,
		DeviceName:        p.DeviceName,
		DeviceType:        p.DeviceType,
		Platform:          p.Platform,
		PairingCode:       &code,
		PairingCodeExpiry: &expiry,
		IsActive:          true,
		LastUsed:          p.CreatedAt,
		LastIPAddress:     p.LastIPAddress,
		UserAgent:         p.UserAgent,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.CreatedAt,
	}
	f.byID[d.DeviceID] = d
	return d, nil
}

func (f *fakeDevices) GetByID(_ context.Context, deviceID uuid.UUID) (domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[deviceID]
	if !ok {
		return domain.Device{}, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeDevices) FindByLivePairingCode(_ context.Context, code string, now time.Time) (domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.byID {
		if d.IsActive && d.PairingCode != nil && *d.PairingCode == code &&
			d.PairingCodeExpiry != nil && now.Before(*d.PairingCodeExpiry) {
			return d, nil
		}
	}
	return domain.Device{}, domain.ErrNotFound
}

func (f *fakeDevices) CompletePairing(_ context.Context, deviceID uuid.UUID, code string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[deviceID]
	if !ok || d.PairingCode == nil || *d.PairingCode != code ||
		d.PairingCodeExpiry == nil || !now.Before(*d.PairingCodeExpiry) {
		return false, nil
	}
	d.PairingCode = nil
	d.PairingCodeExpiry = nil
	d.IsTrusted = true
	pairedAt := now
	d.PairedAt = &pairedAt
	d.LastUsed = now
	d.UpdatedAt = now
	f.byID[deviceID] = d
	return true, nil
}

func (f *fakeDevices) ListActiveByWallet(_ context.Context, wallet string) ([]domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Device
	for _, d := range f.byID {
		if d.IsActive && d.WalletAddress == wallet {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsed.After(out[j].LastUsed) })
	return out, nil
}

func (f *fakeDevices) Revoke(_ context.Context, deviceID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[deviceID]
	if !ok {
		return domain.ErrNotFound
	}
	d.IsActive = false
	d.IsTrusted = false
	d.PairingCode = nil
	d.PairingCodeExpiry = nil
	d.UpdatedAt = at
	f.byID[deviceID] = d
	return nil
}

func (f *fakeDevices) RevokeAllByWallet(_ context.Context, wallet string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var revoked int64
	for id, d := range f.byID {
		if d.IsActive && d.WalletAddress == wallet {
			d.IsActive = false
			d.IsTrusted = false
			d.PairingCode = nil
			d.PairingCodeExpiry = nil
			d.UpdatedAt = at
			f.byID[id] = d
			revoked++
		}
	}
	return revoked, nil
}

func (f *fakeDevices) Touch(_ context.Context, deviceID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[deviceID]
	if !ok || !d.IsActive || !d.IsTrusted {
		return nil
	}
	d.LastUsed = at
	d.TotalVerifications++
	f.byID[deviceID] = d
	return nil
}

func (f *fakeDevices) SweepExpiredCodes(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	for id, d := range f.byID {
		if d.PairingCode != nil && d.PairingCodeExpiry != nil && !now.Before(*d.PairingCodeExpiry) {
			d.PairingCode = nil
			d.PairingCodeExpiry = nil
			f.byID[id] = d
			swept++
		}
	}
	return swept, nil
}

type fakeVerifications struct {
	mu        sync.Mutex
	records   []domain.Verification
	insertErr error
}

func (f *fakeVerifications) Insert(_ context.Context, v domain.Verification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, v)
	return nil
}

func (f *fakeVerifications) ListByWallet(_ context.Context, wallet string, limit, offset int) ([]domain.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []domain.Verification
	for _, r := range f.records {
		if r.WalletAddress == wallet {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].VerifiedAt.After(matched[j].VerifiedAt) })
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeVerifications) CountByWallet(_ context.Context, wallet string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if r.WalletAddress == wallet {
			n++
		}
	}
	return n, nil
}

func (f *fakeVerifications) DailyStats(_ context.Context, contract string, since time.Time) ([]domain.DailyStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDate := map[string]*domain.DailyStat{}
	for _, r := range f.records {
		if r.ContractAddress != contract || r.VerifiedAt.Before(since) {
			continue
		}
		date := r.VerifiedAt.Format("2006-01-02")
		stat, ok := byDate[date]
		if !ok {
			stat = &domain.DailyStat{Date: date}
			byDate[date] = stat
		}
		stat.Total++
		if r.Result == domain.ResultSuccess {
			stat.Success++
		} else {
			stat.Failed++
		}
	}
	var out []domain.DailyStat
	for _, stat := range byDate {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeVerifications) FailureReasons(_ context.Context, contract string, since time.Time) ([]domain.ReasonCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, r := range f.records {
		if r.ContractAddress != contract || r.VerifiedAt.Before(since) || r.Reason == nil {
			continue
		}
		counts[*r.Reason]++
	}
	var out []domain.ReasonCount
	for reason, count := range counts {
		out = append(out, domain.ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (f *fakeVerifications) OrganizerStats(_ context.Context, organizerID string, since time.Time) (domain.OrganizerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallets := map[string]bool{}
	contracts := map[string]bool{}
	var stats domain.OrganizerStats
	for _, r := range f.records {
		if r.OrganizerID != organizerID || r.VerifiedAt.Before(since) {
			continue
		}
		stats.TotalVerifications++
		if r.Result == domain.ResultSuccess {
			stats.SuccessfulVerifications++
		}
		wallets[r.WalletAddress] = true
		contracts[r.ContractAddress] = true
	}
	stats.UniqueWallets = int64(len(wallets))
	stats.UniqueCollections = int64(len(contracts))
	if stats.TotalVerifications > 0 {
		stats.SuccessRate = float64(stats.SuccessfulVerifications) / float64(stats.TotalVerifications) * 100
	}
	return stats, nil
}

func (f *fakeVerifications) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []domain.Verification
	var deleted int64
	for _, r := range f.records {
		if r.VerifiedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return deleted, nil
}

type fakeSessionStore struct {
	mu    sync.Mutex
	items map[string]ports.SessionData
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{items: map[string]ports.SessionData{}}
}

func (f *fakeSessionStore) Put(_ context.Context, code string, data ports.SessionData, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[code] = data
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, code string) (*ports.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.items[code]
	if !ok {
		return nil, nil
	}
	cp := data
	return &cp, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, code)
	return nil
}

func (f *fakeSessionStore) IncrementCount(_ context.Context, code string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.items[code]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	data.VerificationCount++
	f.items[code] = data
	return data.VerificationCount, nil
}

func (f *fakeSessionStore) ListByOrganizer(_ context.Context, organizerID string) (map[string]ports.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]ports.SessionData{}
	for code, data := range f.items {
		if data.OrganizerID == organizerID {
			out[code] = data
		}
	}
	return out, nil
}

// fakeSignatures accepts exactly the sentinel signature so tests exercise both
// branches without real key material.
type fakeSignatures struct {
	reject bool
}

const validSignature = "valid-signature"

func (f *fakeSignatures) Verify(message, signature, claimedAddress string) bool {
	if f.reject {
		return false
	}
	return message != "" && claimedAddress != "" && signature == validSignature
}

type fakeTokenSigner struct{}

func (fakeTokenSigner) Sign(claims ports.WalletClaims) (string, error) {
	return "token:" + claims.WalletAddress, nil
}

func (fakeTokenSigner) ParseAndValidate(raw string) (ports.WalletClaims, error) {
	wallet, ok := strings.CutPrefix(raw, "token:")
	if !ok || wallet == "" {
		return ports.WalletClaims{}, errors.New("malformed token")
	}
	return ports.WalletClaims{WalletAddress: wallet}, nil
}
