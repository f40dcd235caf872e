package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/common/database"
	"github.com/osamahameedprojects/blood-pressure-simulator/common/logger"
	mqttcommon "github.com/osamahameedprojects/blood-pressure-simulator/common/mqtt"
	rediscommon "github.com/osamahameedprojects/blood-pressure-simulator/common/redis"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/bridge"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/config"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/httpapi"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/progress"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/repository"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scenario"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/service"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/simulator"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "bp-simulator")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis：会话指针 + 压力快照缓存 + 测量事件流。
	// 连接失败时退化为进程内 KV，事件流发布关闭。
	var kv store.KVStore
	redisClient := rediscommon.NewRedisClient(&cfg.Redis)
	if err := rediscommon.Ping(context.Background(), redisClient); err != nil {
		log.Warn("Redis unavailable, using in-memory KV", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
		kv = store.NewMemoryKVStore()
	} else {
		kv = store.NewRedisKVStore(redisClient)
	}
	sessionStore := store.NewSessionStore(kv)

	// 持久化：DB 可用走 Postgres，否则内存 repo 支持联测
	var db *sql.DB
	var usersRepo repository.UsersRepo
	var progressRepo repository.ProgressRepo
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for bp-simulator")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}
	if db != nil {
		usersRepo = repository.NewPostgresUsersRepo(db, log)
		progressRepo = repository.NewPostgresProgressRepo(db, log)
	} else {
		usersRepo = repository.NewMemoryUsersRepo()
		progressRepo = repository.NewMemoryProgressRepo()
	}

	ledger := progress.NewLedger(progressRepo, log)
	authService := service.NewAuthService(usersRepo, progressRepo, ledger, sessionStore, log)

	// 桥：浏览器 WebSocket 必有，MQTT 袖带可选
	hub := bridge.NewHub(log)
	fanout := bridge.NewFanout(hub)

	simCfg := simulator.SessionConfig{
		DeflateInterval: cfg.Simulator.DeflateInterval,
		PushInterval:    cfg.Simulator.PushInterval,
	}
	trainingService := service.NewTrainingService(
		simCfg,
		scenario.NewGenerator(),
		ledger,
		sessionStore,
		hub,
		fanout,
		redisClient,
		cfg.Stream.AttemptStream,
		log,
	)
	hub.SetOnButton(trainingService.PumpFromBridge)

	var mqttClient *mqttcommon.Client
	var mqttBridge *bridge.MQTTBridge
	if cfg.Bridge.MQTTEnabled {
		if c, err := mqttcommon.NewClient(&cfg.Bridge.MQTT, log); err == nil {
			mqttClient = c
			b, err := bridge.NewMQTTBridge(c, cfg.Bridge.ButtonTopic, cfg.Bridge.StatusTopic,
				cfg.Bridge.MQTT.QoS, trainingService.PumpFromBridge, log)
			if err != nil {
				log.Warn("MQTT bridge setup failed", zap.Error(err))
			} else {
				mqttBridge = b
				fanout.Add(b)
				log.Info("MQTT cuff bridge enabled",
					zap.String("button_topic", cfg.Bridge.ButtonTopic),
					zap.String("status_topic", cfg.Bridge.StatusTopic))
			}
		} else {
			// 桥缺席静默降级：手动打气仍然可用
			log.Warn("MQTT broker unavailable, bridge disabled", zap.Error(err))
		}
	}

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, log))
	router.RegisterTrainingRoutes(httpapi.NewTrainingHandler(trainingService, log), authService)
	router.RegisterProgressRoutes(httpapi.NewProgressHandler(authService, sessionStore, log))
	router.RegisterBridgeRoutes(hub.HandleWS)
	router.RegisterHealthRoutes()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	trainingService.Shutdown()
	hub.CloseAll()
	if mqttBridge != nil {
		mqttBridge.Close()
	}
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		database.Close(db)
	}

	log.Info("bp-simulator stopped")
}
