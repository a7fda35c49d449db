package services

// 查询参数的类型化表示与纯函数形式的过滤条件构造。

// ContentQuery 为内容接口可选的查询参数；nil 表示请求中未携带该参数。
type ContentQuery struct {
	SubjectID *int64
	BookID    *int64
	SectionID *int64
}

// Predicate 为一条 WHERE 条件及其绑定参数。
type Predicate struct {
	Clause string
	Args   []any
}

// bindable 将可选参数转为绑定值：缺省时绑定 NULL。
// 与 NULL 做等值比较不会命中任何行，因此缺省参数查询结果为空，而不是返回全部。
func bindable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// BooksPredicate 按 subject_id 过滤书籍。
func BooksPredicate(q ContentQuery) Predicate {
	return Predicate{Clause: "subject_id = ?", Args: []any{bindable(q.SubjectID)}}
}

// SectionsPredicate 按 book_id 过滤章节。
func SectionsPredicate(q ContentQuery) Predicate {
	return Predicate{Clause: "book_id = ?", Args: []any{bindable(q.BookID)}}
}

// TopicsPredicate 携带 section_id 时按三者同时过滤；否则仅按 subject_id 过滤。
// 注意：未携带 section_id 时 book_id 被忽略，这是既有客户端依赖的行为，保持不变。
func TopicsPredicate(q ContentQuery) Predicate {
	if q.SectionID != nil {
		return Predicate{
			Clause: "subject_id = ? AND book_id = ? AND section_id = ?",
			Args:   []any{bindable(q.SubjectID), bindable(q.BookID), *q.SectionID},
		}
	}
	return Predicate{Clause: "subject_id = ?", Args: []any{bindable(q.SubjectID)}}
}
