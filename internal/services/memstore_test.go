package rewards

import (
	"context"
	"fmt"
	"sync"
	"time"

	model "github.com/glkeru/rewards/internal/models"
	"github.com/google/uuid"
)

// In-memory хранилище с семантикой Postgres-слоя: эксклюзивная секция
// вместо FOR UPDATE, условные переходы вместо guarded UPDATE
type memStore struct {
	mu           sync.Mutex
	dependents   map[uuid.UUID]*model.Dependent
	ledger       []model.LedgerEntry
	gifts        map[uuid.UUID]*model.Gift
	entitlements map[uuid.UUID]*model.Entitlement
}

func newMemStore() *memStore {
	return &memStore{
		dependents:   make(map[uuid.UUID]*model.Dependent),
		gifts:        make(map[uuid.UUID]*model.Gift),
		entitlements: make(map[uuid.UUID]*model.Entitlement),
	}
}

func (m *memStore) addDependent(guardian uuid.UUID, name string, balance int64) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.dependents[id] = &model.Dependent{UUID: id, Guardian: guardian, Name: name, Balance: balance}
	return id
}

func (m *memStore) addEntitlement(guardian uuid.UUID, product string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.entitlements[id] = &model.Entitlement{UUID: id, Product: product, Guardian: guardian, Status: model.EntitlementActive}
	return id
}

func (m *memStore) ledgerSum(dependent uuid.UUID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, e := range m.ledger {
		if e.Dependent == dependent {
			sum += e.Points
		}
	}
	return sum
}

func (m *memStore) ledgerCount(dependent uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.ledger {
		if e.Dependent == dependent {
			count++
		}
	}
	return count
}

func (m *memStore) ApplyDelta(ctx context.Context, req model.DeltaRequest) (res model.DeltaResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dep, ok := m.dependents[req.Dependent]
	if !ok {
		return res, fmt.Errorf("dependent %s: %w", req.Dependent, model.ErrDependentNotFound)
	}
	res.Name = dep.Name
	res.NewBalance = dep.Balance

	if req.CorrelationRef != "" {
		for _, e := range m.ledger {
			if e.Dependent == req.Dependent && e.Reason == req.Reason && e.CorrelationRef == req.CorrelationRef {
				return res, nil
			}
		}
	}

	effective, err := model.ResolveDelta(dep.Balance, req.Delta, req.Floor, req.ClampToFloor)
	if err != nil {
		return res, err
	}
	if effective == 0 {
		return res, nil
	}

	dep.Balance += effective
	m.ledger = append(m.ledger, model.LedgerEntry{
		UUID:           uuid.New(),
		Dependent:      req.Dependent,
		Points:         effective,
		BalanceAfter:   dep.Balance,
		Reason:         req.Reason,
		TaskRef:        req.TaskRef,
		CorrelationRef: req.CorrelationRef,
		CreatedAt:      time.Now(),
	})
	res.NewBalance = dep.Balance
	res.Applied = true
	return res, nil
}

func (m *memStore) GetDependent(ctx context.Context, dependent uuid.UUID) (model.Dependent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dep, ok := m.dependents[dependent]
	if !ok {
		return model.Dependent{}, fmt.Errorf("dependent %s: %w", dependent, model.ErrDependentNotFound)
	}
	return *dep, nil
}

func (m *memStore) GetBalance(ctx context.Context, dependent uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dep, ok := m.dependents[dependent]
	if !ok {
		return 0, fmt.Errorf("dependent %s: %w", dependent, model.ErrDependentNotFound)
	}
	return dep.Balance, nil
}

func (m *memStore) GetLedger(ctx context.Context, dependent uuid.UUID, from time.Time, to time.Time) ([]model.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []model.LedgerEntry
	for _, e := range m.ledger {
		if e.Dependent == dependent && !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *memStore) GiftCreate(ctx context.Context, gift model.Gift) (model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.entitlements[gift.Entitlement]
	if !ok || ent.Status != model.EntitlementActive || ent.Dependent != nil {
		return gift, fmt.Errorf("entitlement %s: %w", gift.Entitlement, model.ErrEntitlementUnavailable)
	}

	gift.UUID = uuid.New()
	gift.Status = model.GiftSent
	gift.SentAt = time.Now()
	m.gifts[gift.UUID] = &gift

	dependent := gift.Dependent
	ent.Dependent = &dependent
	ent.Status = model.EntitlementAssigned
	return gift, nil
}

func (m *memStore) GiftByID(ctx context.Context, gift uuid.UUID) (model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gifts[gift]
	if !ok {
		return model.Gift{}, fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
	}
	return *g, nil
}

func (m *memStore) FindLiveGift(ctx context.Context, product string, guardian uuid.UUID, dependent uuid.UUID) (model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.gifts {
		if g.Product == product && g.Guardian == guardian && g.Dependent == dependent && g.Status.Live() {
			return *g, nil
		}
	}
	return model.Gift{}, fmt.Errorf("gift %s/%s: %w", product, dependent, model.ErrGiftNotFound)
}

func (m *memStore) SentGiftsReady(ctx context.Context, dependent uuid.UUID, total int64) ([]model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var gifts []model.Gift
	for _, g := range m.gifts {
		if g.Dependent == dependent && g.Status == model.GiftSent && g.Threshold <= total {
			gifts = append(gifts, *g)
		}
	}
	return gifts, nil
}

func (m *memStore) GiftsForDependent(ctx context.Context, dependent uuid.UUID) ([]model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var gifts []model.Gift
	for _, g := range m.gifts {
		if g.Dependent == dependent {
			gifts = append(gifts, *g)
		}
	}
	return gifts, nil
}

func (m *memStore) UnlockGift(ctx context.Context, gift uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gifts[gift]
	if !ok || g.Status != model.GiftSent {
		return false, nil
	}
	now := time.Now()
	g.Status = model.GiftUnlocked
	g.UnlockedAt = &now
	return true, nil
}

func (m *memStore) ActivateGift(ctx context.Context, gift uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gifts[gift]
	if !ok {
		return false, fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
	}
	if g.Status != model.GiftUnlocked {
		return false, nil
	}
	now := time.Now()
	g.Status = model.GiftActivated
	g.ActivatedAt = &now
	m.entitlements[g.Entitlement].Status = model.EntitlementActive
	return true, nil
}

func (m *memStore) RevokeGift(ctx context.Context, gift uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gifts[gift]
	if !ok {
		return false, fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotFound)
	}
	if !g.Status.Live() {
		return false, nil
	}
	now := time.Now()
	g.Status = model.GiftRevoked
	g.RevokedAt = &now
	ent := m.entitlements[g.Entitlement]
	ent.Dependent = nil
	ent.Status = model.EntitlementActive
	return true, nil
}

func (m *memStore) EntitlementByID(ctx context.Context, entitlement uuid.UUID) (model.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ent, ok := m.entitlements[entitlement]
	if !ok {
		return model.Entitlement{}, fmt.Errorf("entitlement %s: %w", entitlement, model.ErrEntitlementUnavailable)
	}
	return *ent, nil
}
