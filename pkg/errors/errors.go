// Package errors 定义跨模块共享的错误分类。
//
// 各 Service 的模块错误通过 %w 包裹这里的分类哨兵，
// Handler 先按模块错误映射业务码，未命中时按分类决定 HTTP 状态码。
package errors

import "errors"

var (
	// ErrValidation 输入格式错误或超出取值范围
	ErrValidation = errors.New("参数校验失败")
	// ErrPolicyViolation 业务规则禁止的操作（如修改已结束学年）
	ErrPolicyViolation = errors.New("操作违反业务规则")
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrConflict 唯一约束冲突
	ErrConflict = errors.New("记录已存在")
	// ErrConfigurationMissing 学术配置缺失（调用方应回退到默认值，而非失败）
	ErrConfigurationMissing = errors.New("学术配置未初始化")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
