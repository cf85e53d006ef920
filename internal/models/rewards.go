package rewards

import (
	"time"

	"github.com/google/uuid"
)

// Счет баллов подопечного
type Dependent struct {
	UUID     uuid.UUID
	Guardian uuid.UUID // UUID опекуна
	Name     string    // имя подопечного
	Balance  int64     // баланс баллов
}

// Причины изменения баланса
type Reason string

const (
	ReasonTask        Reason = "task_completion"
	ReasonGame        Reason = "game_completion"
	ReasonAdWatch     Reason = "ad_watch"
	ReasonPurchase    Reason = "purchase_debit"
	ReasonMarketBuy   Reason = "market_task_purchase"
	ReasonMarketSale  Reason = "market_sale"
	ReasonAdminAdjust Reason = "admin_adjustment"
)

// Запись журнала
type LedgerEntry struct {
	UUID           uuid.UUID
	Dependent      uuid.UUID // UUID счета
	Points         int64     // дельта со знаком
	BalanceAfter   int64     // баланс после применения
	Reason         Reason    // причина
	TaskRef        string    // ID задания
	CorrelationRef string    // ID внешней операции
	CreatedAt      time.Time
}

// Запрос на изменение баланса
type DeltaRequest struct {
	Dependent      uuid.UUID
	Delta          int64
	Reason         Reason
	TaskRef        string
	CorrelationRef string
	Floor          *int64 // минимально допустимый баланс
	ClampToFloor   bool   // вместо отказа урезать дельту до floor
}

// Результат изменения баланса
type DeltaResult struct {
	NewBalance int64
	Name       string
	Applied    bool // false - нулевая дельта или повтор correlationRef
}

// Расчет эффективной дельты с учетом floor
func ResolveDelta(current int64, delta int64, floor *int64, clamp bool) (int64, error) {
	if floor == nil {
		return delta, nil
	}
	candidate := current + delta
	if candidate >= *floor {
		return delta, nil
	}
	if !clamp {
		return 0, ErrInsufficientBalance
	}
	return *floor - current, nil
}

// Статусы подарка
type GiftStatus string

const (
	GiftSent      GiftStatus = "SENT"
	GiftUnlocked  GiftStatus = "UNLOCKED"
	GiftActivated GiftStatus = "ACTIVATED"
	GiftRevoked   GiftStatus = "REVOKED"
)

// Live - подарок еще не завершен
func (s GiftStatus) Live() bool {
	return s == GiftSent || s == GiftUnlocked
}

// Подарок: обещание передать право на продукт после достижения порога баллов
type Gift struct {
	UUID        uuid.UUID
	Guardian    uuid.UUID
	Dependent   uuid.UUID
	Product     string
	Entitlement uuid.UUID // UUID права
	Threshold   int64     // порог баллов, > 0
	Status      GiftStatus
	Message     string
	SentAt      time.Time
	UnlockedAt  *time.Time
	ActivatedAt *time.Time
	RevokedAt   *time.Time
}

// Статусы права на продукт
type EntitlementStatus string

const (
	EntitlementActive   EntitlementStatus = "ACTIVE"
	EntitlementAssigned EntitlementStatus = "ASSIGNED_AS_GIFT"
)

// Право опекуна на продукт, опционально делегированное подопечному
type Entitlement struct {
	UUID      uuid.UUID
	Product   string
	Guardian  uuid.UUID
	Dependent *uuid.UUID // делегирование, nil - не назначено
	Status    EntitlementStatus
	Metadata  map[string]string
}

// Роли акторов
type Role string

const (
	RoleGuardian  Role = "guardian"
	RoleDependent Role = "dependent"
	RoleAdmin     Role = "admin"
)

type Actor struct {
	UUID uuid.UUID
	Role Role
}

// События жизненного цикла подарка
const (
	EventGiftSent      = "gift.sent"
	EventGiftUnlocked  = "gift.unlocked"
	EventGiftActivated = "gift.activated"
	EventGiftRevoked   = "gift.revoked"
)

type GiftEvent struct {
	Gift      uuid.UUID         `json:"giftId"`
	Guardian  uuid.UUID         `json:"guardianId"`
	Dependent uuid.UUID         `json:"dependentId"`
	Product   string            `json:"productRef"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Запись аудита
type AuditRecord struct {
	Actor     uuid.UUID         `bson:"actor" json:"actor"`
	Role      Role              `bson:"role" json:"role"`
	Action    string            `bson:"action" json:"action"`
	Subject   uuid.UUID         `bson:"subject" json:"subject"`
	Details   map[string]string `bson:"details" json:"details"`
	CreatedAt time.Time         `bson:"createdat" json:"createdAt"`
}

// Сообщение для сервиса уведомлений
type Notification struct {
	Recipient uuid.UUID         `json:"recipient"`
	Template  string            `json:"template"`
	Params    map[string]string `json:"params"`
}
