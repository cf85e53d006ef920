package rewards

import (
	"context"
	"fmt"
	"strconv"
	"time"

	interf "github.com/glkeru/rewards/internal/interfaces"
	model "github.com/glkeru/rewards/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Единственный путь изменения баланса подопечного
type AccountingService struct {
	logger  *zap.Logger
	db      interf.LedgerStorage
	cache   interf.CacheStorage
	notify  interf.Notifier
	audit   interf.AuditLog
	sweeper interf.Sweeper
}

func NewAccountingService(logger *zap.Logger, db interf.LedgerStorage, cache interf.CacheStorage,
	notify interf.Notifier, audit interf.AuditLog, sweeper interf.Sweeper) *AccountingService {
	return &AccountingService{logger, db, cache, notify, audit, sweeper}
}

var zeroFloor int64 = 0

// Применение дельты без побочных шагов - разблокировку подарков
// вызывают точки входа по причинам
func (s *AccountingService) ApplyDelta(ctx context.Context, req model.DeltaRequest) (model.DeltaResult, error) {
	res, err := s.db.ApplyDelta(ctx, req)
	if err != nil {
		return res, err
	}
	if res.Applied {
		s.invalidate(ctx, req.Dependent)
	}
	return res, nil
}

// Начисление за выполненное задание
func (s *AccountingService) TaskCompleted(ctx context.Context, dependent uuid.UUID, points int64, taskRef string) (model.DeltaResult, error) {
	return s.earn(ctx, model.DeltaRequest{
		Dependent: dependent,
		Delta:     points,
		Reason:    model.ReasonTask,
		TaskRef:   taskRef,
	})
}

// Начисление за игру
func (s *AccountingService) GameCompleted(ctx context.Context, dependent uuid.UUID, points int64, gameRef string) (model.DeltaResult, error) {
	return s.earn(ctx, model.DeltaRequest{
		Dependent: dependent,
		Delta:     points,
		Reason:    model.ReasonGame,
		TaskRef:   gameRef,
	})
}

// Начисление за просмотр рекламы
func (s *AccountingService) AdWatched(ctx context.Context, dependent uuid.UUID, points int64, correlationRef string) (model.DeltaResult, error) {
	return s.earn(ctx, model.DeltaRequest{
		Dependent:      dependent,
		Delta:          points,
		Reason:         model.ReasonAdWatch,
		CorrelationRef: correlationRef,
	})
}

// Начисление за продажу задания на маркетплейсе
func (s *AccountingService) MarketSale(ctx context.Context, dependent uuid.UUID, points int64, saleRef string) (model.DeltaResult, error) {
	return s.earn(ctx, model.DeltaRequest{
		Dependent:      dependent,
		Delta:          points,
		Reason:         model.ReasonMarketSale,
		CorrelationRef: saleRef,
	})
}

// Списание за покупку в магазине, баланс не может уйти ниже нуля
func (s *AccountingService) Purchase(ctx context.Context, dependent uuid.UUID, cost int64, purchaseRef string) (model.DeltaResult, error) {
	return s.debit(ctx, model.DeltaRequest{
		Dependent:      dependent,
		Delta:          -cost,
		Reason:         model.ReasonPurchase,
		CorrelationRef: purchaseRef,
		Floor:          &zeroFloor,
	})
}

// Списание за покупку задания на маркетплейсе
func (s *AccountingService) MarketTaskPurchased(ctx context.Context, dependent uuid.UUID, cost int64, purchaseRef string) (model.DeltaResult, error) {
	return s.debit(ctx, model.DeltaRequest{
		Dependent:      dependent,
		Delta:          -cost,
		Reason:         model.ReasonMarketBuy,
		CorrelationRef: purchaseRef,
		Floor:          &zeroFloor,
	})
}

// Административная корректировка: при clamp отрицательная дельта
// урезается до нуля вместо отказа
func (s *AccountingService) AdminAdjust(ctx context.Context, actor model.Actor, dependent uuid.UUID, delta int64, correlationRef string, clamp bool) (model.DeltaResult, error) {
	req := model.DeltaRequest{
		Dependent:      dependent,
		Delta:          delta,
		Reason:         model.ReasonAdminAdjust,
		CorrelationRef: correlationRef,
		Floor:          &zeroFloor,
		ClampToFloor:   clamp,
	}
	res, err := s.db.ApplyDelta(ctx, req)
	if err != nil {
		return res, err
	}
	if !res.Applied {
		return res, nil
	}
	s.invalidate(ctx, dependent)
	if s.audit != nil {
		err = s.audit.Append(ctx, model.AuditRecord{
			Actor:   actor.UUID,
			Role:    actor.Role,
			Action:  "points.adjust",
			Subject: dependent,
			Details: map[string]string{
				"delta":       strconv.FormatInt(delta, 10),
				"balance":     strconv.FormatInt(res.NewBalance, 10),
				"correlation": correlationRef,
			},
		})
		if err != nil {
			s.logger.Error("Audit append error", zap.Error(err))
		}
	}
	if delta > 0 && s.sweeper != nil {
		s.sweeper.Sweep(ctx, dependent, res.NewBalance)
	}
	s.notifyBalance(ctx, dependent, res.NewBalance)
	return res, nil
}

// общий путь начисления
func (s *AccountingService) earn(ctx context.Context, req model.DeltaRequest) (model.DeltaResult, error) {
	if req.Delta <= 0 {
		return model.DeltaResult{}, fmt.Errorf("earn delta must be positive, got %d", req.Delta)
	}
	res, err := s.db.ApplyDelta(ctx, req)
	if err != nil {
		return res, err
	}
	if !res.Applied {
		return res, nil
	}
	s.invalidate(ctx, req.Dependent)
	// разблокировка подарков - best effort, начисление уже состоялось
	if s.sweeper != nil {
		s.sweeper.Sweep(ctx, req.Dependent, res.NewBalance)
	}
	s.notifyBalance(ctx, req.Dependent, res.NewBalance)
	return res, nil
}

// общий путь списания
func (s *AccountingService) debit(ctx context.Context, req model.DeltaRequest) (model.DeltaResult, error) {
	if req.Delta >= 0 {
		return model.DeltaResult{}, fmt.Errorf("debit delta must be negative, got %d", req.Delta)
	}
	res, err := s.db.ApplyDelta(ctx, req)
	if err != nil {
		return res, err
	}
	if !res.Applied {
		return res, nil
	}
	s.invalidate(ctx, req.Dependent)
	s.notifyBalance(ctx, req.Dependent, res.NewBalance)
	return res, nil
}

// баланс
func (s *AccountingService) GetBalance(ctx context.Context, dependent uuid.UUID) (balance int64, err error) {
	// cache
	if s.cache != nil {
		balance, err = s.cache.GetBalance(ctx, dependent)
		if err != nil {
			// database
			balance, err = s.db.GetBalance(ctx, dependent)
			if err != nil {
				return 0, err
			}
			_ = s.cache.SetBalance(ctx, dependent, balance)
		}
	} else {
		balance, err = s.db.GetBalance(ctx, dependent)
		if err != nil {
			return 0, err
		}
	}
	return
}

func (s *AccountingService) GetDependent(ctx context.Context, dependent uuid.UUID) (model.Dependent, error) {
	return s.db.GetDependent(ctx, dependent)
}

// записи журнала
func (s *AccountingService) GetLedger(ctx context.Context, dependent uuid.UUID, from time.Time, to time.Time) ([]model.LedgerEntry, error) {
	return s.db.GetLedger(ctx, dependent, from, to)
}

// инвалидировать кэш баланса
func (s *AccountingService) invalidate(ctx context.Context, dependent uuid.UUID) {
	if s.cache == nil {
		return
	}
	err := s.cache.InvalidateBalance(ctx, dependent)
	if err != nil {
		s.logger.Error(err.Error())
	}
}

// уведомление об изменении баланса, ошибки не блокируют операцию
func (s *AccountingService) notifyBalance(ctx context.Context, dependent uuid.UUID, balance int64) {
	if s.notify == nil {
		return
	}
	err := s.notify.Notify(ctx, model.Notification{
		Recipient: dependent,
		Template:  "balance.changed",
		Params:    map[string]string{"balance": strconv.FormatInt(balance, 10)},
	})
	if err != nil {
		s.logger.Error("Notify error", zap.Error(err))
	}
}
