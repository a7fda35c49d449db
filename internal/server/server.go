// Package server 组装两个服务共用的 HTTP 引擎（中间件栈）并负责启动与优雅退出。
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"topicbook/internal/config"
	"topicbook/internal/metrics"
	"topicbook/internal/middlewares"
)

// ShutdownTimeout 为优雅退出时等待在途请求完成的上限。
const ShutdownTimeout = 10 * time.Second

// NewEngine 创建带公共中间件的 gin 引擎：恢复、请求 ID、访问日志、安全头、CORS 与指标。
func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// c.Done()/c.Err() 跟随请求上下文，客户端断开时在途查询随之取消
	router.ContextWithFallback = true
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CORS(cfg.CORS))
	if cfg.Metrics.Enable {
		router.Use(metrics.Handler())
	}
	return router
}

// ConfigureLogging 配置结构化日志格式与级别；级别无法识别时保持 info。
func ConfigureLogging(level string) {
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	SetLogLevel(level)
}

// SetLogLevel 调整日志级别，配置热加载时调用。
func SetLogLevel(level string) {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		log.WithField("log_level", level).Warn("unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Run 在 addr 上启动 HTTP 服务，收到 SIGINT/SIGTERM 或 ctx 取消后优雅退出。
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
		return err
	}
	log.Info("server stopped")
	return nil
}
