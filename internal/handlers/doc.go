// Package handlers 暴露 HTTP 层接口，负责路由注册、参数提取（类型转换）与响应序列化。
// 内容服务与待办服务各有一个 Handler；业务查询统一委托 services 层完成。
package handlers
