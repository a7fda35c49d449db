// Package config 负责加载与解析进程配置，支持 YAML/JSON 配置文件、环境变量与默认值合并，
// 并提供配置文件变更监听（热加载日志级别等运行时参数）。
package config
