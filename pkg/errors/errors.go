package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrRunInProgress 同一 scope 已有运行中的排班
var ErrRunInProgress = errors.New("该范围已有排班运行中，请稍后重试")
