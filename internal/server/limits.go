package server

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"topicbook/internal/config"
	"topicbook/internal/middlewares"
	"topicbook/internal/storage"
)

// MutationLimiter 在启用限流时连接 Redis 并返回写接口使用的中间件；未启用时返回空切片。
// 返回的 closeFn 总是可以安全调用。
func MutationLimiter(cfg config.Config, prefix string) (mw []gin.HandlerFunc, closeFn func(), err error) {
	if !cfg.Limits.Enable {
		return nil, func() {}, nil
	}
	rdb, err := storage.InitRedis(cfg.Redis)
	if err != nil {
		return nil, func() {}, err
	}
	log.WithFields(log.Fields{
		"redis_addr": cfg.Redis.Addr,
		"limit":      cfg.Limits.MutationsPerMinute,
		"window":     cfg.Limits.Window.String(),
	}).Info("mutation rate limit enabled")
	mw = []gin.HandlerFunc{
		middlewares.RateLimit(rdb, prefix, cfg.Limits.MutationsPerMinute, cfg.Limits.Window, middlewares.ByClientIP),
	}
	return mw, func() { _ = rdb.Close() }, nil
}
