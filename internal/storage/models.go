package storage

// 本文件定义与既有表结构对应的 GORM 模型。表由外部创建与维护，这里只负责映射。

// Subject 顶层科目（subjects 表）。
type Subject struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// Book 隶属于某个科目（books 表）。对外只暴露 id 与 name。
type Book struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	SubjectID int64  `gorm:"not null;index" json:"-"`
}

// Section 隶属于某本书（sections 表）。
type Section struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	BookID int64  `gorm:"not null;index" json:"-"`
}

// Topic 为层级的叶子节点，携带 markdown 正文；SectionID 可为空。
type Topic struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Markdown  string `gorm:"type:text;not null;default:''" json:"markdown"`
	SubjectID int64  `gorm:"not null;index" json:"-"`
	BookID    int64  `gorm:"not null;index" json:"-"`
	SectionID *int64 `gorm:"index" json:"-"`
}

// TodoItem 为待办事项（todos 表），与内容层级无关。
type TodoItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string `gorm:"type:text;not null" json:"description"`
	Done        bool   `gorm:"not null" json:"done"`
}

func (TodoItem) TableName() string { return "todos" }

// ContentModels 与 TodoModels 列出各服务依赖的表，供测试与本地开发建表使用。
func ContentModels() []any { return []any{&Subject{}, &Book{}, &Section{}, &Topic{}} }

func TodoModels() []any { return []any{&TodoItem{}} }
