// HTTP API - баланс, журнал, подарки; gRPC health для проб
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/glkeru/rewards/internal/api"
	db "github.com/glkeru/rewards/internal/db"
	kafka "github.com/glkeru/rewards/internal/external/kafka"
	notify "github.com/glkeru/rewards/internal/external/notify"
	interf "github.com/glkeru/rewards/internal/interfaces"
	services "github.com/glkeru/rewards/internal/services"
	otelinit "github.com/glkeru/rewards/observability/otel"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	port := os.Getenv("REWARDS_PORT")
	if port == "" {
		panic("env REWARDS_PORT is not set")
	}
	grpcport := os.Getenv("REWARDS_GRPC_PORT")
	if grpcport == "" {
		panic("env REWARDS_GRPC_PORT is not set")
	}

	ctx := context.Background()
	shutdownTracer := otelinit.InitTracer(ctx)
	defer shutdownTracer()

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

	// события жизненного цикла подарков
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

	// api handlers
	r := api.NewHandler(accounting, gifts, logger)
	mx := http.NewServeMux()
	mx.Handle("/metrics", promhttp.Handler())
	mx.Handle("/", otelhttp.NewHandler(r, "rewards"))
	srv := &http.Server{
		Handler:      mx,
		Addr:         ":" + port,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	go srv.ListenAndServe()

	// gRPC health
	lis, err := net.Listen("tcp", "0.0.0.0:"+grpcport)
	if err != nil {
		panic(err)
	}
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, health.NewServer())
	go grpcServer.Serve(lis)

	// shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	grpcServer.GracefulStop()
	timeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(timeout)
	if err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
