package main

// @title           topicbook Todo API
// @version         0.1.0
// @description     待办事项的列表、创建与删除接口。
// @BasePath        /

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"

	"topicbook/internal/config"
	"topicbook/internal/handlers"
	"topicbook/internal/server"
	"topicbook/internal/services"
	"topicbook/internal/storage"
)

// main 为待办服务入口：加载配置、初始化日志/存储、注册路由并启动 HTTP 服务。
func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml|yml|json if present)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.FirstExisting("config.yaml", "config.yml", "config.json")
	}
	cfg, err := config.LoadFrom(path)
	server.ConfigureLogging(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	log.WithFields(log.Fields{
		"env":          cfg.Env,
		"http_addr":    cfg.Todo.HTTPAddr,
		"database_url": cfg.Database.URLMasked(),
		"config_file":  cfg.Path,
		"cors_any":     cfg.CORS.AllowAllOrigins,
	}).Info("configuration loaded")

	// 存储不可用时直接终止启动
	db, err := storage.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer storage.Close(db)

	mutate, closeLimiter, err := server.MutationLimiter(cfg, "todo")
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer closeLimiter()

	router := server.NewEngine(cfg)
	handlers.NewTodoHandler(services.NewTodoService(db)).RegisterRoutes(router, mutate...)
	handlers.NewOpsHandler(db, cfg.Metrics.Enable).RegisterRoutes(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Path != "" {
		go func() {
			if err := config.Watch(ctx, cfg.Path, func(c config.Config) { server.SetLogLevel(c.LogLevel) }); err != nil {
				log.WithError(err).Warn("config watch disabled")
			}
		}()
	}

	if err := server.Run(ctx, cfg.Todo.HTTPAddr, router); err != nil {
		log.WithError(err).Fatal("listen")
	}
}
