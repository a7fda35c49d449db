// Package storagetest 为测试提供带表结构的临时 SQLite 存储与数据构造辅助。
package storagetest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"topicbook/internal/config"
	"topicbook/internal/storage"
)

// NewDB 在 t.TempDir() 下创建 SQLite 文件并建立全部表，测试结束自动关闭。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "topicbook.db")
	db, err := storage.Open(config.DatabaseConfig{URL: url, MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	models := append(storage.ContentModels(), storage.TodoModels()...)
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { storage.Close(db) })
	return db
}

// Content 为常用的一组层级数据。
type Content struct {
	Math, Physics         storage.Subject
	Algebra, Geometry     storage.Book
	Mechanics             storage.Book
	Linear, Quadratic     storage.Section
	Vectors, Scalars      storage.Topic
	Triangles             storage.Topic
	Kinematics, Unsection storage.Topic
}

// SeedContent 写入两门科目、三本书、两个章节与若干主题。
func SeedContent(t *testing.T, db *gorm.DB) Content {
	t.Helper()
	var c Content
	c.Math = storage.Subject{Name: "Mathematics"}
	c.Physics = storage.Subject{Name: "Physics"}
	mustCreate(t, db, &c.Math, &c.Physics)

	c.Algebra = storage.Book{Name: "Algebra", SubjectID: c.Math.ID}
	c.Geometry = storage.Book{Name: "Geometry", SubjectID: c.Math.ID}
	c.Mechanics = storage.Book{Name: "Mechanics", SubjectID: c.Physics.ID}
	mustCreate(t, db, &c.Algebra, &c.Geometry, &c.Mechanics)

	c.Linear = storage.Section{Name: "Linear equations", BookID: c.Algebra.ID}
	c.Quadratic = storage.Section{Name: "Quadratics", BookID: c.Algebra.ID}
	mustCreate(t, db, &c.Linear, &c.Quadratic)

	c.Vectors = storage.Topic{Name: "Vectors", Markdown: "# Vectors", SubjectID: c.Math.ID, BookID: c.Algebra.ID, SectionID: &c.Linear.ID}
	c.Scalars = storage.Topic{Name: "Scalars", Markdown: "# Scalars", SubjectID: c.Math.ID, BookID: c.Algebra.ID, SectionID: &c.Quadratic.ID}
	c.Triangles = storage.Topic{Name: "Triangles", Markdown: "# Triangles", SubjectID: c.Math.ID, BookID: c.Geometry.ID}
	c.Kinematics = storage.Topic{Name: "Kinematics", Markdown: "# Kinematics", SubjectID: c.Physics.ID, BookID: c.Mechanics.ID}
	c.Unsection = storage.Topic{Name: "Notes", Markdown: "", SubjectID: c.Math.ID, BookID: c.Algebra.ID}
	mustCreate(t, db, &c.Vectors, &c.Scalars, &c.Triangles, &c.Kinematics, &c.Unsection)
	return c
}

// SeedTodos 按顺序写入待办事项。
func SeedTodos(t *testing.T, db *gorm.DB, descriptions ...string) []storage.TodoItem {
	t.Helper()
	items := make([]storage.TodoItem, 0, len(descriptions))
	for _, d := range descriptions {
		it := storage.TodoItem{Description: d}
		mustCreate(t, db, &it)
		items = append(items, it)
	}
	return items
}

func mustCreate(t *testing.T, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}
}
