package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"topicbook/internal/services"
)

// TodoHandler 提供待办事项的列表、创建与删除接口。
type TodoHandler struct {
	todos *services.TodoService
}

func NewTodoHandler(ts *services.TodoService) *TodoHandler {
	return &TodoHandler{todos: ts}
}

// RegisterRoutes 挂载待办服务的全部端点。创建与删除沿用 GET 以兼容既有前端。
func (h *TodoHandler) RegisterRoutes(r gin.IRouter, mutate ...gin.HandlerFunc) {
	r.GET("/", h.list)
	r.GET("/create", chain(mutate, h.create)...)
	r.GET("/delete/:id", chain(mutate, h.delete)...)
}

// @Summary      待办列表
// @Tags         todo
// @Produce      json
// @Success      200 {array} storage.TodoItem
// @Failure      500 {string} string "Error fetching todos"
// @Router       / [get]
func (h *TodoHandler) list(c *gin.Context) {
	items, err := h.todos.List(c)
	if err != nil {
		internalError(c, "list_todos", err, "Error fetching todos")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      创建待办
// @Description  description 原样保存（允许为空），不回显新建行
// @Tags         todo
// @Produce      plain
// @Param        description query string false "描述"
// @Success      200 {string} string "Todo created"
// @Failure      500 {string} string "Error creating todo"
// @Router       /create [get]
func (h *TodoHandler) create(c *gin.Context) {
	if err := h.todos.Create(c, c.Query("description")); err != nil {
		internalError(c, "create_todo", err, "Error creating todo")
		return
	}
	c.String(http.StatusOK, "Todo created")
}

// @Summary      删除待办
// @Description  无论是否存在匹配行均返回成功
// @Tags         todo
// @Produce      plain
// @Param        id path int true "待办ID"
// @Success      200 {string} string "Todo deleted"
// @Failure      400 {string} string
// @Failure      500 {string} string "Error deleting todo"
// @Router       /delete/{id} [get]
func (h *TodoHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err, "Invalid todo id")
		return
	}
	n, err := h.todos.Delete(c, id)
	if err != nil {
		internalError(c, "delete_todo", err, "Error deleting todo")
		return
	}
	log.WithFields(log.Fields{"id": id, "rows_affected": n}).Debug("todo delete")
	c.String(http.StatusOK, "Todo deleted")
}
