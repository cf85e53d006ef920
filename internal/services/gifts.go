package rewards

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	interf "github.com/glkeru/rewards/internal/interfaces"
	model "github.com/glkeru/rewards/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Жизненный цикл подарка: SENT -> UNLOCKED -> ACTIVATED, отзыв до активации.
// Переходы выполняются условными обновлениями в хранилище, блокировок нет.
type GiftService struct {
	logger *zap.Logger
	db     interf.GiftStorage
	deps   interf.LedgerStorage
	events interf.EventEmitter
	notify interf.Notifier
	audit  interf.AuditLog
}

func NewGiftService(logger *zap.Logger, db interf.GiftStorage, deps interf.LedgerStorage,
	events interf.EventEmitter, notify interf.Notifier, audit interf.AuditLog) *GiftService {
	return &GiftService{logger, db, deps, events, notify, audit}
}

// Отправка подарка. Повторная отправка по той же тройке
// продукт/опекун/подопечный возвращает существующий подарок
func (s *GiftService) Send(ctx context.Context, guardian uuid.UUID, entitlement uuid.UUID, dependent uuid.UUID, threshold int64, message string) (model.Gift, error) {
	if threshold <= 0 {
		return model.Gift{}, fmt.Errorf("threshold must be positive, got %d", threshold)
	}

	ent, err := s.db.EntitlementByID(ctx, entitlement)
	if err != nil {
		return model.Gift{}, err
	}
	if ent.Guardian != guardian {
		return model.Gift{}, fmt.Errorf("entitlement %s belongs to another guardian: %w", entitlement, model.ErrEntitlementUnavailable)
	}

	// подопечный должен быть привязан к опекуну
	dep, err := s.deps.GetDependent(ctx, dependent)
	if err != nil {
		return model.Gift{}, err
	}
	if dep.Guardian != guardian {
		return model.Gift{}, fmt.Errorf("dependent %s: %w", dependent, model.ErrDependentNotFound)
	}

	// идемпотентность: живой подарок уже есть
	existing, err := s.db.FindLiveGift(ctx, ent.Product, guardian, dependent)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrGiftNotFound) {
		return model.Gift{}, err
	}

	if ent.Status != model.EntitlementActive || ent.Dependent != nil {
		return model.Gift{}, fmt.Errorf("entitlement %s: %w", entitlement, model.ErrEntitlementUnavailable)
	}

	gift := model.Gift{
		Guardian:    guardian,
		Dependent:   dependent,
		Product:     ent.Product,
		Entitlement: entitlement,
		Threshold:   threshold,
		Message:     message,
	}
	created, err := s.db.GiftCreate(ctx, gift)
	if err != nil {
		return model.Gift{}, err
	}

	s.emit(ctx, model.EventGiftSent, created)
	s.auditGift(ctx, model.Actor{UUID: guardian, Role: model.RoleGuardian}, "gift.send", created,
		map[string]string{"threshold": strconv.FormatInt(threshold, 10)})
	s.notifyGift(ctx, dependent, "gift.sent", created)
	return created, nil
}

// Активация: владеющий подопечный или администратор.
// Повторная активация - no-op
func (s *GiftService) Activate(ctx context.Context, actor model.Actor, gift uuid.UUID) error {
	g, err := s.db.GiftByID(ctx, gift)
	if err != nil {
		return err
	}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleDependent:
		if g.Dependent != actor.UUID {
			return fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotOwned)
		}
	default:
		return fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotOwned)
	}

	if g.Status == model.GiftActivated {
		return nil
	}
	if g.Status != model.GiftUnlocked {
		return fmt.Errorf("gift %s is %s: %w", gift, g.Status, model.ErrInvalidGiftTransition)
	}

	ok, err := s.db.ActivateGift(ctx, gift)
	if err != nil {
		return err
	}
	if !ok {
		// конкурент успел раньше, перечитываем статус
		g, err = s.db.GiftByID(ctx, gift)
		if err != nil {
			return err
		}
		if g.Status == model.GiftActivated {
			return nil
		}
		return fmt.Errorf("gift %s is %s: %w", gift, g.Status, model.ErrInvalidGiftTransition)
	}

	s.emit(ctx, model.EventGiftActivated, g)
	s.auditGift(ctx, actor, "gift.activate", g, nil)
	s.notifyGift(ctx, g.Guardian, "gift.activated", g)
	return nil
}

// Отзыв: выдавший опекун или администратор. Активированный подарок
// неизменяем, повторный отзыв - no-op
func (s *GiftService) Revoke(ctx context.Context, actor model.Actor, gift uuid.UUID, reason string) error {
	g, err := s.db.GiftByID(ctx, gift)
	if err != nil {
		return err
	}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleGuardian:
		if g.Guardian != actor.UUID {
			return fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotOwned)
		}
	default:
		return fmt.Errorf("gift %s: %w", gift, model.ErrGiftNotOwned)
	}

	if g.Status == model.GiftRevoked {
		return nil
	}
	if g.Status == model.GiftActivated {
		return fmt.Errorf("gift %s is activated: %w", gift, model.ErrInvalidGiftTransition)
	}

	ok, err := s.db.RevokeGift(ctx, gift)
	if err != nil {
		return err
	}
	if !ok {
		g, err = s.db.GiftByID(ctx, gift)
		if err != nil {
			return err
		}
		if g.Status == model.GiftRevoked {
			return nil
		}
		return fmt.Errorf("gift %s is %s: %w", gift, g.Status, model.ErrInvalidGiftTransition)
	}

	s.emit(ctx, model.EventGiftRevoked, g)
	s.auditGift(ctx, actor, "gift.revoke", g, map[string]string{"reason": reason})
	s.notifyGift(ctx, g.Dependent, "gift.revoked", g)
	return nil
}

// Подарки подопечного
func (s *GiftService) GiftsForDependent(ctx context.Context, dependent uuid.UUID) ([]model.Gift, error) {
	return s.db.GiftsForDependent(ctx, dependent)
}

// Разблокировка подарков с достигнутым порогом после начисления.
// Каждый подарок обрабатывается независимо, ошибка одного не прерывает
// остальные. Повторный вызов с тем же балансом ничего не меняет
func (s *GiftService) Sweep(ctx context.Context, dependent uuid.UUID, newTotal int64) {
	gifts, err := s.db.SentGiftsReady(ctx, dependent, newTotal)
	if err != nil {
		s.logger.Error("Sweep load error",
			zap.Error(err),
			zap.String("dependent", dependent.String()))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, gift := range gifts {
		gift := gift
		g.Go(func() error {
			ok, err := s.db.UnlockGift(ctx, gift.UUID)
			if err != nil {
				s.logger.Error("Sweep unlock error",
					zap.Error(err),
					zap.String("gift", gift.UUID.String()))
				return nil
			}
			// конкурент уже перевел подарок - пропускаем
			if !ok {
				return nil
			}
			s.emit(ctx, model.EventGiftUnlocked, gift)
			s.auditGift(ctx, model.Actor{UUID: dependent, Role: model.RoleDependent}, "gift.unlock", gift,
				map[string]string{"balance": strconv.FormatInt(newTotal, 10)})
			s.notifyGift(ctx, gift.Dependent, "gift.unlocked", gift)
			return nil
		})
	}
	g.Wait()
}

// отправка события, сбой не откатывает переход
func (s *GiftService) emit(ctx context.Context, event string, gift model.Gift) {
	if s.events == nil {
		return
	}
	err := s.events.Emit(ctx, event, model.GiftEvent{
		Gift:      gift.UUID,
		Guardian:  gift.Guardian,
		Dependent: gift.Dependent,
		Product:   gift.Product,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("Emit error",
			zap.Error(err),
			zap.String("event", event),
			zap.String("gift", gift.UUID.String()))
	}
}

func (s *GiftService) auditGift(ctx context.Context, actor model.Actor, action string, gift model.Gift, details map[string]string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Append(ctx, model.AuditRecord{
		Actor:   actor.UUID,
		Role:    actor.Role,
		Action:  action,
		Subject: gift.UUID,
		Details: details,
	})
	if err != nil {
		s.logger.Error("Audit append error", zap.Error(err), zap.String("action", action))
	}
}

func (s *GiftService) notifyGift(ctx context.Context, recipient uuid.UUID, template string, gift model.Gift) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(ctx, model.Notification{
		Recipient: recipient,
		Template:  template,
		Params:    map[string]string{"gift": gift.UUID.String(), "product": gift.Product},
	})
	if err != nil {
		s.logger.Error("Notify error", zap.Error(err), zap.String("template", template))
	}
}
