package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"huddle_social_server/internal/config"
	"huddle_social_server/internal/dao/mysql"
	myredis "huddle_social_server/internal/dao/redis"
	"huddle_social_server/internal/handler"
	"huddle_social_server/internal/httpserver"
	"huddle_social_server/internal/infrastructure/logger"
	"huddle_social_server/internal/service"
	"huddle_social_server/internal/service/presence"
	"huddle_social_server/internal/service/push"
	"huddle_social_server/pkg/util/jwt"
	"huddle_social_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库和 Repository 层
	repos := mysql.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 与雪花算法
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	zap.L().Info("JWT/Snowflake 初始化成功")

	// 初始化 validator 中文翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 6. 初始化在线注册表和推送事件总线
	// 事件总线按配置选择实现：channel 单机 / kafka 多实例
	registry := presence.NewRegistry(repos.User)
	dispatcher := push.NewDispatcher(registry)
	if conf.KafkaConfig.EventMode == "kafka" {
		push.GlobalBus = push.NewKafkaBus(dispatcher)
	} else {
		push.GlobalBus = push.NewChannelBus(dispatcher)
	}
	go push.GlobalBus.Start()
	zap.L().Info("推送事件总线初始化成功", zap.String("mode", conf.KafkaConfig.EventMode))

	// 7. 初始化 Service 层 (依赖注入)
	service.InitServices(repos, myredis.GetCacheService(), push.GlobalBus, registry)
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化 HTTP 服务器
	engine := httpserver.Init()
	zap.L().Info("HTTP 服务器初始化成功")

	// 9. 启动服务
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port
	go func() {
		if err := engine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault")
			return
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	push.GlobalBus.Close()
	if err := myredis.Close(); err != nil {
		zap.L().Warn("关闭 Redis 连接失败", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
