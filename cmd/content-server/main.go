package main

// @title           topicbook Content API
// @version         0.1.0
// @description     科目 → 书籍 → 章节 → 主题 的层级浏览接口，以及主题正文更新接口。
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

// main 为内容服务入口：加载配置、初始化日志/存储、注册路由并启动 HTTP 服务。
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
		"http_addr":    cfg.Content.HTTPAddr,
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

	mutate, closeLimiter, err := server.MutationLimiter(cfg, "content")
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer closeLimiter()

	router := server.NewEngine(cfg)
	handlers.NewContentHandler(services.NewContentService(db)).RegisterRoutes(router, mutate...)
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

	if err := server.Run(ctx, cfg.Content.HTTPAddr, router); err != nil {
		log.WithError(err).Fatal("listen")
	}
}
