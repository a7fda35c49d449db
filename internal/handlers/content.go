package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"topicbook/internal/services"
)

// ContentHandler 提供科目/书籍/章节/主题的层级浏览接口与主题正文更新接口。
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(cs *services.ContentService) *ContentHandler {
	return &ContentHandler{content: cs}
}

// RegisterRoutes 挂载内容服务的全部端点。mutate 为写接口额外的中间件（如限流），可为空。
func (h *ContentHandler) RegisterRoutes(r gin.IRouter, mutate ...gin.HandlerFunc) {
	r.GET("/", h.listSubjects)
	r.GET("/books", h.listBooks)
	r.GET("/sections", h.listSections)
	r.GET("/topics", h.listTopics)
	r.POST("/update", chain(mutate, h.updateTopic)...)
}

// updateTopicRequest 为 /update 的请求体；两个字段都必须出现，markdown 允许为空串。
type updateTopicRequest struct {
	Markdown *string `json:"markdown" binding:"required"`
	TopicID  *int64  `json:"topic_id" binding:"required"`
}

// @Summary      科目列表
// @Tags         content
// @Produce      json
// @Success      200 {array} storage.Subject
// @Failure      500 {string} string "Error fetching subjects"
// @Router       / [get]
func (h *ContentHandler) listSubjects(c *gin.Context) {
	subjects, err := h.content.ListSubjects(c)
	if err != nil {
		internalError(c, "list_subjects", err, "Error fetching subjects")
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// @Summary      书籍列表
// @Description  按 subject_id 过滤；未携带 subject_id 时不匹配任何书籍
// @Tags         content
// @Produce      json
// @Param        subject_id query int false "科目ID"
// @Success      200 {array} storage.Book
// @Failure      400 {string} string
// @Failure      500 {string} string "Error fetching books"
// @Router       /books [get]
func (h *ContentHandler) listBooks(c *gin.Context) {
	q, err := bindContentQuery(c)
	if err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}
	books, err := h.content.ListBooks(c, q)
	if err != nil {
		internalError(c, "list_books", err, "Error fetching books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// @Summary      章节列表
// @Tags         content
// @Produce      json
// @Param        book_id query int false "书籍ID"
// @Success      200 {array} storage.Section
// @Failure      400 {string} string
// @Failure      500 {string} string "Error fetching sections"
// @Router       /sections [get]
func (h *ContentHandler) listSections(c *gin.Context) {
	q, err := bindContentQuery(c)
	if err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}
	sections, err := h.content.ListSections(c, q)
	if err != nil {
		internalError(c, "list_sections", err, "Error fetching sections")
		return
	}
	c.JSON(http.StatusOK, sections)
}

// @Summary      主题列表
// @Description  携带 section_id 时按 subject_id+book_id+section_id 过滤，否则仅按 subject_id 过滤（book_id 被忽略）
// @Tags         content
// @Produce      json
// @Param        subject_id query int false "科目ID"
// @Param        book_id    query int false "书籍ID"
// @Param        section_id query int false "章节ID"
// @Success      200 {array} storage.Topic
// @Failure      400 {string} string
// @Failure      500 {string} string "Error fetching topics"
// @Router       /topics [get]
func (h *ContentHandler) listTopics(c *gin.Context) {
	q, err := bindContentQuery(c)
	if err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}
	topics, err := h.content.ListTopics(c, q)
	if err != nil {
		internalError(c, "list_topics", err, "Error fetching topics")
		return
	}
	c.JSON(http.StatusOK, topics)
}

// @Summary      更新主题正文
// @Tags         content
// @Accept       json
// @Produce      plain
// @Param        body body updateTopicRequest true "{markdown, topic_id}"
// @Success      200 {string} string "Topic successfully updated!"
// @Failure      400 {string} string
// @Failure      404 {string} string "No topic found with the given ID"
// @Failure      500 {string} string "Error updating topic"
// @Router       /update [post]
func (h *ContentHandler) updateTopic(c *gin.Context) {
	var req updateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid update payload")
		return
	}
	err := h.content.UpdateTopicMarkdown(c, *req.TopicID, *req.Markdown)
	switch {
	case errors.Is(err, services.ErrTopicNotFound):
		c.String(http.StatusNotFound, "No topic found with the given ID")
	case err != nil:
		internalError(c, "update_topic", err, "Error updating topic")
	default:
		c.String(http.StatusOK, "Topic successfully updated!")
	}
}
