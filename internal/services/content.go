package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"topicbook/internal/metrics"
	"topicbook/internal/storage"
)

// ErrTopicNotFound 表示更新时没有任何主题匹配给定 id。
var ErrTopicNotFound = errors.New("topic not found")

// ContentService 提供科目 → 书籍 → 章节 → 主题的层级查询与主题正文更新。
type ContentService struct{ db *gorm.DB }

func NewContentService(db *gorm.DB) *ContentService { return &ContentService{db: db} }

// ListSubjects 返回全部科目，按 id 升序。
func (s *ContentService) ListSubjects(ctx context.Context) ([]storage.Subject, error) {
	out := make([]storage.Subject, 0)
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	metrics.ObserveQuery("list_subjects", err)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

func (s *ContentService) ListBooks(ctx context.Context, q ContentQuery) ([]storage.Book, error) {
	out := make([]storage.Book, 0)
	p := BooksPredicate(q)
	err := s.db.WithContext(ctx).Where(p.Clause, p.Args...).Order("id").Find(&out).Error
	metrics.ObserveQuery("list_books", err)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

func (s *ContentService) ListSections(ctx context.Context, q ContentQuery) ([]storage.Section, error) {
	out := make([]storage.Section, 0)
	p := SectionsPredicate(q)
	err := s.db.WithContext(ctx).Where(p.Clause, p.Args...).Order("id").Find(&out).Error
	metrics.ObserveQuery("list_sections", err)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out, nil
}

func (s *ContentService) ListTopics(ctx context.Context, q ContentQuery) ([]storage.Topic, error) {
	out := make([]storage.Topic, 0)
	p := TopicsPredicate(q)
	err := s.db.WithContext(ctx).Where(p.Clause, p.Args...).Order("id").Find(&out).Error
	metrics.ObserveQuery("list_topics", err)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return out, nil
}

// UpdateTopicMarkdown 覆盖指定主题的 markdown 正文；无匹配行时返回 ErrTopicNotFound。
func (s *ContentService) UpdateTopicMarkdown(ctx context.Context, topicID int64, markdown string) error {
	res := s.db.WithContext(ctx).Model(&storage.Topic{}).Where("id = ?", topicID).Update("markdown", markdown)
	metrics.ObserveQuery("update_topic", res.Error)
	if res.Error != nil {
		return fmt.Errorf("update topic %d: %w", topicID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTopicNotFound
	}
	return nil
}
