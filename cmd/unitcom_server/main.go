package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"unitcom_server/internal/config"
	dao "unitcom_server/internal/dao/mysql"
	myredis "unitcom_server/internal/dao/redis"
	"unitcom_server/internal/gateway/websocket"
	"unitcom_server/internal/handler"
	"unitcom_server/internal/https_server"
	"unitcom_server/internal/infrastructure/logger"
	"unitcom_server/internal/infrastructure/storage"
	"unitcom_server/internal/service"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/util/jwt"
	"unitcom_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// config first, everything else reads it
	conf := config.GetConfig()

	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("logger initialised")

	repos := dao.Init()
	zap.L().Info("database initialised")

	myredis.Init()
	zap.L().Info("redis initialised")

	jwt.Init(conf.AuthConfig.SessionSecret)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	store, err := storage.NewLocalStore(conf.StorageConfig.RootPath, conf.StorageConfig.PublicBase)
	if err != nil {
		zap.L().Fatal("init blob store failed", zap.Error(err))
	}

	// push gateway and change-notification pipeline
	manager := websocket.NewConnManager()
	var broker notify.Broker
	if conf.KafkaConfig.MessageMode == "kafka" {
		// one consumer group per node so every node fans events out to
		// its own connections
		hostname, _ := os.Hostname()
		broker = notify.NewKafkaBroker(manager, "unitcom-notify-"+hostname)
	} else {
		broker = notify.NewChannelBroker(manager)
	}
	go broker.Start()
	typing := notify.NewTypingRelay(manager)
	typing.Start()
	zap.L().Info("notification pipeline started",
		zap.String("mode", conf.KafkaConfig.MessageMode))

	services := service.NewServices(repos, broker, typing, store)
	handlers := handler.NewHandlers(services, manager, conf.AuthConfig.WebhookSecret)
	engine := https_server.Init(handlers)

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server stopped", zap.Error(err))
		}
	}()
	zap.L().Info("server started",
		zap.String("host", conf.MainConfig.Host), zap.Int("port", conf.MainConfig.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down...")
	typing.Close()
	broker.Close()
	zap.L().Info("server closed")
}
