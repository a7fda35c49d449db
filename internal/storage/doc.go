// Package storage 提供底层持久化适配：按 DATABASE_URL 打开关系型存储连接池（SQLite / MySQL），
// 声明与既有表结构对应的 GORM 模型，以及限流所需的 Redis 连接。
// 表结构由外部维护，本包不执行迁移；其它层应通过 services 访问存储。
package storage
