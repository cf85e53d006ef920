// Job - списание баллов за покупки в магазине
// Опрос RabbitMQ -> ApplyDelta с floor=0 -> подтверждение в очередь confirms
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	db "github.com/glkeru/rewards/internal/db"
	rabbitmq "github.com/glkeru/rewards/internal/external/rabbitmq"
	interf "github.com/glkeru/rewards/internal/interfaces"
	model "github.com/glkeru/rewards/internal/models"
	services "github.com/glkeru/rewards/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PurchaseMessage struct {
	PurchaseId string `json:"purchaseId"`
	Dependent  string `json:"dependentId"`
	Cost       int64  `json:"cost"`
}

func parsePurchase(body []byte) (dependent uuid.UUID, cost int64, purchaseId string, err error) {
	purchase := &PurchaseMessage{}
	err = json.Unmarshal(body, purchase)
	if err != nil {
		return
	}
	if purchase.PurchaseId == "" {
		return uuid.Nil, 0, "", fmt.Errorf("Invalid purchase: purchaseId field is required")
	}
	dependent, err = uuid.Parse(purchase.Dependent)
	if err != nil {
		return uuid.Nil, 0, "", fmt.Errorf("Invalid purchase: dependentId field is required")
	}
	return dependent, purchase.Cost, purchase.PurchaseId, nil
}

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// rabbit
	rabbit, err := rabbitmq.NewRabbitConsumer()
	if err != nil {
		panic(err)
	}
	defer rabbit.Close()

	// database
	storage, err := db.NewRewardsDB(logger)
	if err != nil {
		panic(err)
	}

	// cache
	var cache interf.CacheStorage
	cache, err = db.NewCacheService()
	if err != nil {
		logger.Error(err.Error())
		cache = nil
	}

	// списания подарки не разблокируют, sweeper не нужен
	accounting := services.NewAccountingService(logger, storage, cache, nil, nil, nil)

	// start
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

loop:
	for {
		select {
		case <-interrupt:
			cancel()
			break loop
		case <-ctx.Done():
			break loop
		case msg, ok := <-rabbit.Msg:
			if !ok {
				break loop
			}
			dependent, cost, purchaseId, err := parsePurchase(msg.Body)
			if err != nil {
				logger.Error(err.Error())
				continue
			}
			_, err = accounting.Purchase(ctx, dependent, cost, purchaseId)
			switch {
			case err == nil:
				err = rabbit.Processed(ctx, purchaseId, true, "")
			case errors.Is(err, model.ErrInsufficientBalance):
				// отказ покупателю, баланс не тронут
				err = rabbit.Processed(ctx, purchaseId, false, "insufficient balance")
			case errors.Is(err, model.ErrDependentNotFound):
				err = rabbit.Processed(ctx, purchaseId, false, "dependent not found")
			default:
				logger.Error(err.Error(), zap.String("purchase", purchaseId))
				continue
			}
			if err != nil {
				logger.Error(err.Error(), zap.String("purchase", purchaseId))
			}
		}
	}
}
