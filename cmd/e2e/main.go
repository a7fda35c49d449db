package main

// 端到端巡检：对运行中的内容服务与待办服务依次调用全部端点并校验响应。
// 用法：go run ./cmd/e2e -content http://127.0.0.1:8080 -todo http://127.0.0.1:8081

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// scenario 封装一次端到端巡检过程中共享的资源。
type scenario struct {
	client  *http.Client
	content *url.URL
	todo    *url.URL
}

type named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type topic struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}

type todoItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

func banner(title string) { log.Infof("=== %s ===", title) }

func step(format string, args ...interface{}) { log.Infof(" • "+format, args...) }

func main() {
	var (
		contentBase string
		todoBase    string
		timeout     time.Duration
		skipContent bool
		skipTodo    bool
	)
	flag.StringVar(&contentBase, "content", "http://127.0.0.1:8080", "Base URL of the content service")
	flag.StringVar(&todoBase, "todo", "http://127.0.0.1:8081", "Base URL of the todo service")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout for requests")
	flag.BoolVar(&skipContent, "skip-content", false, "Skip content service checks")
	flag.BoolVar(&skipTodo, "skip-todo", false, "Skip todo service checks")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	s := &scenario{
		client:  &http.Client{Timeout: timeout},
		content: mustURL(contentBase),
		todo:    mustURL(todoBase),
	}
	if !skipContent {
		s.runContent()
	}
	if !skipTodo {
		s.runTodo()
	}
	log.Info("E2E OK — 全部检查通过")
}

func (s *scenario) runContent() {
	banner("Content Service")
	step("Probe /healthz")
	must(s.expectStatus(http.MethodGet, s.content, "/healthz", nil, http.StatusOK, nil), "content healthz")

	step("GET / (subjects ordered by id)")
	var subjects []named
	must(s.expectStatus(http.MethodGet, s.content, "/", nil, http.StatusOK, &subjects), "list subjects")
	for i := 1; i < len(subjects); i++ {
		if subjects[i-1].ID >= subjects[i].ID {
			log.Fatalf("subjects not ordered by id: %+v", subjects)
		}
	}
	if len(subjects) == 0 {
		log.Warn("no subjects in store, skipping hierarchy walk")
		return
	}
	subj := subjects[0]

	step("GET /books without subject_id (expect empty)")
	var books []named
	must(s.expectStatus(http.MethodGet, s.content, "/books", nil, http.StatusOK, &books), "list books unfiltered")
	if len(books) != 0 {
		log.Fatalf("expected no books without subject_id, got %d", len(books))
	}

	step("GET /books?subject_id=%d", subj.ID)
	must(s.expectStatus(http.MethodGet, s.content, fmt.Sprintf("/books?subject_id=%d", subj.ID), nil, http.StatusOK, &books), "list books")

	var topics []topic
	step("GET /topics?subject_id=%d", subj.ID)
	must(s.expectStatus(http.MethodGet, s.content, fmt.Sprintf("/topics?subject_id=%d", subj.ID), nil, http.StatusOK, &topics), "list topics")

	if len(books) > 0 {
		step("GET /sections?book_id=%d", books[0].ID)
		var sections []named
		must(s.expectStatus(http.MethodGet, s.content, fmt.Sprintf("/sections?book_id=%d", books[0].ID), nil, http.StatusOK, &sections), "list sections")
		if len(sections) > 0 {
			q := fmt.Sprintf("/topics?subject_id=%d&book_id=%d&section_id=%d", subj.ID, books[0].ID, sections[0].ID)
			step("GET %s", q)
			var scoped []topic
			must(s.expectStatus(http.MethodGet, s.content, q, nil, http.StatusOK, &scoped), "list section topics")
		}
	}

	step("POST /update with unknown topic (expect 404)")
	must(s.expectStatus(http.MethodPost, s.content, "/update", map[string]any{"markdown": "x", "topic_id": -1}, http.StatusNotFound, nil), "update missing topic")

	if len(topics) == 0 {
		log.Warn("no topics for subject, skipping write-then-read")
		return
	}
	t := topics[0]
	marker := fmt.Sprintf("%s\n<!-- e2e %d -->", t.Markdown, time.Now().UnixNano())
	step("POST /update topic %d, then read back", t.ID)
	must(s.expectStatus(http.MethodPost, s.content, "/update", map[string]any{"markdown": marker, "topic_id": t.ID}, http.StatusOK, nil), "update topic")
	must(s.expectStatus(http.MethodGet, s.content, fmt.Sprintf("/topics?subject_id=%d", subj.ID), nil, http.StatusOK, &topics), "reread topics")
	if got := findTopic(topics, t.ID); got == nil || got.Markdown != marker {
		log.Fatalf("topic %d markdown not updated", t.ID)
	}
	step("Restore topic %d markdown", t.ID)
	must(s.expectStatus(http.MethodPost, s.content, "/update", map[string]any{"markdown": t.Markdown, "topic_id": t.ID}, http.StatusOK, nil), "restore topic")
}

func (s *scenario) runTodo() {
	banner("Todo Service")
	step("Probe /healthz")
	must(s.expectStatus(http.MethodGet, s.todo, "/healthz", nil, http.StatusOK, nil), "todo healthz")

	var before []todoItem
	step("GET / (todos)")
	must(s.expectStatus(http.MethodGet, s.todo, "/", nil, http.StatusOK, &before), "list todos")

	desc := fmt.Sprintf("e2e todo %d", time.Now().UnixNano())
	step("GET /create?description=%q", desc)
	must(s.expectStatus(http.MethodGet, s.todo, "/create?description="+url.QueryEscape(desc), nil, http.StatusOK, nil), "create todo")

	var after []todoItem
	must(s.expectStatus(http.MethodGet, s.todo, "/", nil, http.StatusOK, &after), "list todos after create")
	created := findTodo(after, desc)
	if created == nil || created.Done || len(after) != len(before)+1 {
		log.Fatalf("created todo not listed as expected (before=%d after=%d)", len(before), len(after))
	}

	step("GET /delete/%d", created.ID)
	must(s.expectStatus(http.MethodGet, s.todo, fmt.Sprintf("/delete/%d", created.ID), nil, http.StatusOK, nil), "delete todo")
	must(s.expectStatus(http.MethodGet, s.todo, "/", nil, http.StatusOK, &after), "list todos after delete")
	if findTodo(after, desc) != nil {
		log.Fatalf("todo %d still listed after delete", created.ID)
	}

	step("GET /delete/%d again (still 200)", created.ID)
	must(s.expectStatus(http.MethodGet, s.todo, fmt.Sprintf("/delete/%d", created.ID), nil, http.StatusOK, nil), "delete todo twice")
}

// expectStatus 发送请求并校验状态码；out 非空时将响应体解析为 JSON。
func (s *scenario) expectStatus(method string, base *url.URL, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, base.ResolveReference(mustURL(path)).String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d, want %d: %s", method, path, resp.StatusCode, want, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

func findTopic(list []topic, id int64) *topic {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func findTodo(list []todoItem, desc string) *todoItem {
	for i := range list {
		if list[i].Description == desc {
			return &list[i]
		}
	}
	return nil
}

func must(err error, msg string) {
	if err != nil {
		log.WithError(err).Fatal(msg)
	}
}

func mustURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		log.WithError(err).Fatalf("parse url %q", raw)
	}
	return u
}
