// Package services 提供应用的领域服务层：内容层级的只读查询与主题正文更新，以及待办事项的增删查。
// 每个操作只执行一条语句，直接读写存储，不做缓存与重试。
package services
