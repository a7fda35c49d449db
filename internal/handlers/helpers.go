package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"topicbook/internal/middlewares"
	"topicbook/internal/services"
)

// internalError 记录底层错误并返回不透明的 500 纯文本。
func internalError(c *gin.Context, op string, err error, msg string) {
	log.WithError(err).WithFields(log.Fields{
		"op":         op,
		"request_id": c.GetString(middlewares.RequestIDKey),
	}).Error(msg)
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, msg)
}

// badRequest 用于参数类型转换失败（非整数 id、非法 JSON 等）。
func badRequest(c *gin.Context, err error, msg string) {
	log.WithError(err).WithField("request_id", c.GetString(middlewares.RequestIDKey)).Debug(msg)
	c.String(http.StatusBadRequest, msg)
}

// chain 在写接口中间件之后追加处理函数，返回新切片，避免共享底层数组。
func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

// bindContentQuery 提取可选的整数查询参数。参数出现但不是整数（包括空值）时返回错误。
func bindContentQuery(c *gin.Context) (services.ContentQuery, error) {
	var q services.ContentQuery
	fields := []struct {
		name string
		dst  **int64
	}{
		{"subject_id", &q.SubjectID},
		{"book_id", &q.BookID},
		{"section_id", &q.SectionID},
	}
	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return services.ContentQuery{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = &v
	}
	return q, nil
}
