// Job - обработка выполненных заданий
// Опрос Kafka -> начисление баллов и разблокировка подарков
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	db "github.com/glkeru/rewards/internal/db"
	kafka "github.com/glkeru/rewards/internal/external/kafka"
	notify "github.com/glkeru/rewards/internal/external/notify"
	interf "github.com/glkeru/rewards/internal/interfaces"
	services "github.com/glkeru/rewards/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskMessage struct {
	TaskId    string `json:"taskId"`
	Dependent string `json:"dependentId"`
	Points    int64  `json:"points"`
}

func parseTask(taskJson string) (dependent uuid.UUID, points int64, taskId string, err error) {
	task := &TaskMessage{}
	err = json.Unmarshal([]byte(taskJson), task)
	if err != nil {
		return
	}
	if task.TaskId == "" {
		return uuid.Nil, 0, "", fmt.Errorf("Invalid task: taskId field is required")
	}
	dependent, err = uuid.Parse(task.Dependent)
	if err != nil {
		return uuid.Nil, 0, "", fmt.Errorf("Invalid task: dependentId field is required")
	}
	return dependent, task.Points, task.TaskId, nil
}

// Job - Обработка заданий
func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// kafka
	reader, err := kafka.GetNewReader("tasks")
	if err != nil {
		panic(err)
	}
	defer reader.CloseReader()

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

	// audit
	var audit interf.AuditLog
	audit, err = db.NewAuditDB()
	if err != nil {
		logger.Error(err.Error())
		audit = nil
	}

	// события
	var events interf.EventEmitter
	events, err = kafka.GetNewWriter("gift-events")
	if err != nil {
		logger.Error(err.Error())
		events = nil
	}

	// уведомления
	var notifier interf.Notifier
	notifier, err = notify.NewNotifyClient()
	if err != nil {
		logger.Error(err.Error())
		notifier = nil
	}

	// services
	gifts := services.NewGiftService(logger, storage, storage, events, notifier, audit)
	accounting := services.NewAccountingService(logger, storage, cache, notifier, audit, gifts)

	// start
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var semcount int
	semenv := os.Getenv("REWARDS_TASKS_COUNT")
	if semenv == "" {
		semcount = 5
	} else {
		semcount, err = strconv.Atoi(semenv)
		if err != nil {
			semcount = 5
		}
	}
	if semcount == 0 {
		semcount = 1
	}

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, semcount)

loop:
	for {
		select {
		case <-interrupt:
			cancel()
			break loop
		case <-ctx.Done():
			break loop
		default:

			task, err := reader.GetNewMessage(ctx)
			if err != nil {
				logger.Error(err.Error())
				break loop
			}

			semaphore <- struct{}{}
			wg.Add(1)
			go func(task string) {
				defer wg.Done()
				defer func() { <-semaphore }()
				dependent, points, taskId, err := parseTask(task)
				if err != nil {
					logger.Error(err.Error())
					return
				}
				_, err = accounting.TaskCompleted(ctx, dependent, points, taskId)
				if err != nil {
					logger.Error(err.Error())
					return
				}
			}(task)
		}
	}
	wg.Wait()
}
