package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"topicbook/internal/metrics"
	"topicbook/internal/storage"
)

// TodoService 提供待办事项的列表、创建与删除。
type TodoService struct{ db *gorm.DB }

func NewTodoService(db *gorm.DB) *TodoService { return &TodoService{db: db} }

// List 返回全部待办事项，按 id 升序。
func (s *TodoService) List(ctx context.Context) ([]storage.TodoItem, error) {
	out := make([]storage.TodoItem, 0)
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	metrics.ObserveQuery("list_todos", err)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return out, nil
}

// Create 以 done=false 插入一条待办；description 原样保存，允许为空串。
func (s *TodoService) Create(ctx context.Context, description string) error {
	item := &storage.TodoItem{Description: description, Done: false}
	err := s.db.WithContext(ctx).Create(item).Error
	metrics.ObserveQuery("create_todo", err)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// Delete 删除指定 id 的待办并返回受影响行数；行不存在不视为错误。
func (s *TodoService) Delete(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&storage.TodoItem{})
	metrics.ObserveQuery("delete_todo", res.Error)
	if res.Error != nil {
		return 0, fmt.Errorf("delete todo %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
