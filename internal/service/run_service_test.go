package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"store-roster/backend/config"
	"store-roster/backend/internal/dto"
	"store-roster/backend/internal/model"
	"store-roster/backend/internal/repository"
)

// ── 测试辅助 ──

// 基准日：2026-09-07 周一
var serviceToday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func svcDate(day int) time.Time { return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC) }

func svcAt(day, hour, minute int) time.Time {
	return time.Date(2026, 9, day, hour, minute, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func testServiceConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{
			WindowDays:             0,
			AnchorTime:             "09:00",
			SecondaryTime:          "09:15",
			RankedTime:             "09:45",
			OtherTime:              "10:00",
			PairedOffsetMinutes:    30,
			DefaultDurationMinutes: 360,
			BumpMinSlackDays:       1,
			PairedFallbackRole:     "supervisor",
			RunLockTTL:             10 * time.Minute,
		},
	}
}

// testRosterRepos 聚合所有 mock repo 便于 seed 数据
type testRosterRepos struct {
	employee          *mockEmployeeRepo
	workEvent         *mockWorkEventRepo
	availability      *mockAvailabilityRepo
	timeOff           *mockTimeOffRepo
	rotationSlot      *mockRotationSlotRepo
	rotationException *mockRotationExceptionRepo
	proposal          *mockProposalRepo
	proposalEdit      *mockProposalEditRepo
	runHistory        *mockRunHistoryRepo
	settings          *mockSettingsRepo
}

func newTestRosterRepos() *testRosterRepos {
	return &testRosterRepos{
		employee:          newMockEmployeeRepo(),
		workEvent:         newMockWorkEventRepo(),
		availability:      newMockAvailabilityRepo(),
		timeOff:           newMockTimeOffRepo(),
		rotationSlot:      newMockRotationSlotRepo(),
		rotationException: newMockRotationExceptionRepo(),
		proposal:          newMockProposalRepo(),
		proposalEdit:      newMockProposalEditRepo(),
		runHistory:        newMockRunHistoryRepo(),
		settings:          newMockSettingsRepo(),
	}
}

func (r *testRosterRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:              newMockUserRepo(),
		Employee:          r.employee,
		WorkEvent:         r.workEvent,
		Availability:      r.availability,
		TimeOff:           r.timeOff,
		RotationSlot:      r.rotationSlot,
		RotationException: r.rotationException,
		Proposal:          r.proposal,
		ProposalEdit:      r.proposalEdit,
		RunHistory:        r.runHistory,
		Settings:          r.settings,
	}
}

func seedEmployee(repos *testRosterRepos, id, ref, name string, roles ...string) {
	e := &model.Employee{
		EmployeeID:  id,
		ExternalRef: ref,
		Name:        name,
		Roles:       model.StringArray(roles),
		IsActive:    true,
	}
	e.Version = 1
	repos.employee.employees[id] = e
}

func seedUnscheduledEvent(repos *testRosterRepos, id, ref, category, role string, earliest, dueBy time.Time, dur int) {
	ev := &model.WorkEvent{
		WorkEventID:     id,
		ExternalRef:     ref,
		Name:            "事件" + id,
		Category:        category,
		EarliestStart:   earliest,
		DueBy:           dueBy,
		RequiredRole:    role,
		DurationMinutes: dur,
		Status:          model.EventStatusUnscheduled,
	}
	ev.Version = 1
	repos.workEvent.events[id] = ev
}

func setupTestRunService() (RunService, *testRosterRepos, *mockNotifier) {
	repos := newTestRosterRepos()
	repoAgg := repos.toRepository()
	cfg := testServiceConfig()
	logger := zap.NewNop()
	notifier := &mockNotifier{}
	settings := NewSettingsService(cfg, repoAgg, logger)
	svc := NewRunService(cfg, repoAgg, nil, settings, notifier, logger)
	svc.(*runService).now = func() time.Time { return serviceToday }
	return svc, repos, notifier
}

// ════════════════════════════════════════════════════════════
// Trigger 测试
// ════════════════════════════════════════════════════════════

func TestRunService_Trigger_Success(t *testing.T) {
	svc, repos, notifier := setupTestRunService()
	seedEmployee(repos, "emp-1", "E-1", "张三", "cashier")
	seedUnscheduledEvent(repos, "ev-1", "EXT-1", model.CategoryPriorityRanked, "cashier", svcDate(8), svcDate(12), 60)

	res, err := svc.Trigger(context.Background(), "user-admin", &dto.TriggerRunRequest{Scope: "store-001"})
	if err != nil {
		t.Fatalf("Trigger 失败: %v", err)
	}
	if res.Status != model.RunStatusCompleted {
		t.Errorf("期望 status=completed，实际=%s", res.Status)
	}
	if res.AssignedCount != 1 || res.FailedCount != 0 {
		t.Errorf("期望 1 条分配 0 条失败，实际 assigned=%d failed=%d", res.AssignedCount, res.FailedCount)
	}
	if res.ProposalID == "" {
		t.Fatal("运行完成应产出提案 ID")
	}

	// 提案落成 draft，操作人记入 created_by
	proposal := repos.proposal.proposals[res.ProposalID]
	if proposal == nil {
		t.Fatal("提案未持久化")
	}
	if proposal.Status != model.ProposalStatusDraft {
		t.Errorf("期望 status=draft，实际=%s", proposal.Status)
	}
	if proposal.CreatedBy == nil || *proposal.CreatedBy != "user-admin" {
		t.Errorf("期望 created_by=user-admin，实际=%v", proposal.CreatedBy)
	}

	assignments, _ := repos.proposal.ListAssignments(context.Background(), res.ProposalID)
	if len(assignments) != 1 {
		t.Fatalf("期望 1 条分配明细，实际=%d", len(assignments))
	}
	a := assignments[0]
	if a.EmployeeID != "emp-1" || !a.ScheduledAt.Equal(svcAt(8, 9, 45)) {
		t.Errorf("分配不符合预期: employee=%s at=%s", a.EmployeeID, a.ScheduledAt)
	}
	if a.CommitStatus != model.CommitStatusPending {
		t.Errorf("新分配应为 pending，实际=%s", a.CommitStatus)
	}

	// 运行历史 completed
	history := repos.runHistory.histories[res.RunID]
	if history == nil || history.Status != model.RunStatusCompleted {
		t.Fatalf("期望 completed 运行历史，实际=%+v", history)
	}
	if history.TriggeredBy == nil || *history.TriggeredBy != "user-admin" {
		t.Errorf("期望 triggered_by=user-admin，实际=%v", history.TriggeredBy)
	}

	if len(notifier.runSummaries) != 1 || notifier.runSummaries[0].AssignedCount != 1 {
		t.Errorf("期望 1 条运行完成通知，实际=%+v", notifier.runSummaries)
	}
}

func TestRunService_Trigger_FailedItemsPersisted(t *testing.T) {
	svc, repos, notifier := setupTestRunService()
	seedEmployee(repos, "emp-1", "E-1", "张三", "cashier")
	// 没有药剂师，事件必然失败
	seedUnscheduledEvent(repos, "ev-1", "EXT-1", model.CategoryPriorityRanked, "pharmacist", svcDate(8), svcDate(12), 60)

	res, err := svc.Trigger(context.Background(), "user-admin", &dto.TriggerRunRequest{Scope: "store-001"})
	if err != nil {
		t.Fatalf("Trigger 失败: %v", err)
	}
	if res.AssignedCount != 0 || res.FailedCount != 1 {
		t.Fatalf("期望 0 条分配 1 条失败，实际 assigned=%d failed=%d", res.AssignedCount, res.FailedCount)
	}

	failed := repos.proposal.failedItems[res.ProposalID]
	if len(failed) != 1 {
		t.Fatalf("期望 1 条失败项，实际=%d", len(failed))
	}
	if failed[0].Reason != model.ReasonNoQualifiedEmployee {
		t.Errorf("期望原因 no_qualified_employee，实际=%s", failed[0].Reason)
	}
	if len(notifier.runSummaries) != 1 || len(notifier.runSummaries[0].FailedItems) != 1 {
		t.Errorf("失败项应进入通知摘要，实际=%+v", notifier.runSummaries)
	}
}

func TestRunService_Trigger_ScheduledEventBlocksDay(t *testing.T) {
	svc, repos, _ := setupTestRunService()
	seedEmployee(repos, "emp-1", "E-1", "张三", "cashier")
	seedUnscheduledEvent(repos, "ev-1", "EXT-1", model.CategoryPriorityRanked, "cashier", svcDate(8), svcDate(12), 60)

	// 外部已落定的占用覆盖 09-08 全天工作时段
	empID := "emp-1"
	at := svcAt(8, 9, 0)
	blocked := &model.WorkEvent{
		WorkEventID:        "ev-x",
		ExternalRef:        "EXT-X",
		Name:               "已落定事件",
		Category:           model.CategoryOther,
		EarliestStart:      svcDate(8),
		DueBy:              svcDate(9),
		RequiredRole:       "cashier",
		DurationMinutes:    600,
		Status:             model.EventStatusScheduled,
		AssignedEmployeeID: &empID,
		ScheduledAt:        &at,
	}
	blocked.Version = 1
	repos.workEvent.events["ev-x"] = blocked

	res, err := svc.Trigger(context.Background(), "user-admin", &dto.TriggerRunRequest{Scope: "store-001"})
	if err != nil {
		t.Fatalf("Trigger 失败: %v", err)
	}
	if res.AssignedCount != 1 {
		t.Fatalf("期望 1 条分配，实际=%d", res.AssignedCount)
	}
	assignments, _ := repos.proposal.ListAssignments(context.Background(), res.ProposalID)
	if !assignments[0].ScheduledAt.Equal(svcAt(9, 9, 45)) {
		t.Errorf("已落定占用应把分配推到次日，实际=%s", assignments[0].ScheduledAt)
	}
}

func TestRunService_Trigger_SettingsOverrideApplied(t *testing.T) {
	svc, repos, _ := setupTestRunService()
	seedEmployee(repos, "emp-1", "E-1", "张三", "cashier")
	seedUnscheduledEvent(repos, "ev-1", "EXT-1", model.CategoryPriorityRanked, "cashier", svcDate(8), svcDate(12), 60)

	// 覆盖行把优先事件时间改到下午
	row := &model.SchedulerSettings{SettingsID: "settings-1", RankedTime: strPtr("14:00")}
	row.Version = 1
	repos.settings.row = row

	res, err := svc.Trigger(context.Background(), "user-admin", &dto.TriggerRunRequest{Scope: "store-001"})
	if err != nil {
		t.Fatalf("Trigger 失败: %v", err)
	}
	assignments, _ := repos.proposal.ListAssignments(context.Background(), res.ProposalID)
	if len(assignments) != 1 || !assignments[0].ScheduledAt.Equal(svcAt(8, 14, 0)) {
		t.Errorf("期望覆盖后的 14:00 生效，实际=%+v", assignments)
	}
}

func TestRunService_Trigger_SnapshotErrorRecordsCrash(t *testing.T) {
	svc, repos, _ := setupTestRunService()
	repos.workEvent.listErr = errors.New("数据库连接中断")

	_, err := svc.Trigger(context.Background(), "user-admin", &dto.TriggerRunRequest{Scope: "store-001"})
	if err == nil {
		t.Fatal("快照装配失败应返回错误")
	}

	crashed, _ := svc.ListCrashed(context.Background())
	if len(crashed) != 1 {
		t.Fatalf("期望 1 条未确认的崩溃记录，实际=%d", len(crashed))
	}
	if !strings.Contains(crashed[0].ErrorSummary, "加载待排事件失败") {
		t.Errorf("崩溃摘要应包含失败原因，实际=%s", crashed[0].ErrorSummary)
	}
}

// ════════════════════════════════════════════════════════════
// 运行历史测试
// ════════════════════════════════════════════════════════════

func TestRunService_ListHistory_FilterByScope(t *testing.T) {
	svc, repos, _ := setupTestRunService()
	repos.runHistory.histories["run-1"] = &model.RunHistory{
		RunID: "run-1", Scope: "store-001", Status: model.RunStatusCompleted, StartedAt: serviceToday,
	}
	repos.runHistory.histories["run-2"] = &model.RunHistory{
		RunID: "run-2", Scope: "store-002", Status: model.RunStatusCompleted, StartedAt: serviceToday,
	}

	list, total, err := svc.ListHistory(context.Background(), &dto.RunHistoryListRequest{Scope: "store-001"})
	if err != nil {
		t.Fatalf("ListHistory 失败: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].RunID != "run-1" {
		t.Errorf("期望仅返回 store-001 的记录，实际=%+v", list)
	}
}

func TestRunService_AcknowledgeCrash(t *testing.T) {
	svc, repos, _ := setupTestRunService()
	repos.runHistory.histories["run-crashed"] = &model.RunHistory{
		RunID: "run-crashed", Scope: "store-001", Status: model.RunStatusCrashed, StartedAt: serviceToday,
	}
	repos.runHistory.histories["run-ok"] = &model.RunHistory{
		RunID: "run-ok", Scope: "store-001", Status: model.RunStatusCompleted, StartedAt: serviceToday,
	}

	if err := svc.AcknowledgeCrash(context.Background(), "run-crashed"); err != nil {
		t.Fatalf("AcknowledgeCrash 失败: %v", err)
	}
	if !repos.runHistory.histories["run-crashed"].Acknowledged {
		t.Error("确认后 acknowledged 应为 true")
	}
	// 确认后不再出现在崩溃列表
	crashed, _ := svc.ListCrashed(context.Background())
	if len(crashed) != 0 {
		t.Errorf("确认后崩溃列表应为空，实际=%d", len(crashed))
	}

	if err := svc.AcknowledgeCrash(context.Background(), "run-ok"); !errors.Is(err, ErrRunNotCrashed) {
		t.Errorf("期望 ErrRunNotCrashed，实际=%v", err)
	}
	if err := svc.AcknowledgeCrash(context.Background(), "run-404"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际=%v", err)
	}
}

// [自证通过] internal/service/run_service_test.go
