package rewards

import (
	"context"
	"time"

	model "github.com/glkeru/rewards/internal/models"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=./../services/mock_rewards_test.go -package=rewards . GiftStorage,EventEmitter,Notifier,AuditLog

type LedgerStorage interface {
	ApplyDelta(ctx context.Context, req model.DeltaRequest) (model.DeltaResult, error)
	GetDependent(ctx context.Context, dependent uuid.UUID) (model.Dependent, error)
	GetBalance(ctx context.Context, dependent uuid.UUID) (balance int64, err error)
	GetLedger(ctx context.Context, dependent uuid.UUID, from time.Time, to time.Time) (entries []model.LedgerEntry, err error)
}

type GiftStorage interface {
	GiftCreate(ctx context.Context, gift model.Gift) (model.Gift, error)
	GiftByID(ctx context.Context, gift uuid.UUID) (model.Gift, error)
	FindLiveGift(ctx context.Context, product string, guardian uuid.UUID, dependent uuid.UUID) (model.Gift, error)
	SentGiftsReady(ctx context.Context, dependent uuid.UUID, total int64) ([]model.Gift, error)
	UnlockGift(ctx context.Context, gift uuid.UUID) (bool, error)
	ActivateGift(ctx context.Context, gift uuid.UUID) (bool, error)
	RevokeGift(ctx context.Context, gift uuid.UUID) (bool, error)
	GiftsForDependent(ctx context.Context, dependent uuid.UUID) ([]model.Gift, error)
	EntitlementByID(ctx context.Context, entitlement uuid.UUID) (model.Entitlement, error)
}

type CacheStorage interface {
	GetBalance(ctx context.Context, dependent uuid.UUID) (balance int64, err error)
	SetBalance(ctx context.Context, dependent uuid.UUID, balance int64) (err error)
	InvalidateBalance(ctx context.Context, dependent uuid.UUID) error
}

// Отправка событий жизненного цикла, fire-and-forget
type EventEmitter interface {
	Emit(ctx context.Context, event string, payload model.GiftEvent) error
}

// Сервис уведомлений, черный ящик
type Notifier interface {
	Notify(ctx context.Context, msg model.Notification) error
}

// Журнал аудита, append-only
type AuditLog interface {
	Append(ctx context.Context, rec model.AuditRecord) error
}

// Разблокировка подарков после начисления
type Sweeper interface {
	Sweep(ctx context.Context, dependent uuid.UUID, newTotal int64)
}
