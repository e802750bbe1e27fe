package scheduler

import (
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"store-roster/backend/internal/model"
)

// ── 测试辅助 ──

// 2026-09-07 是周一
var testToday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Today:      testToday,
		WindowDays: 0,
		CanonicalTimes: map[string]string{
			model.CategoryRotationAnchor:    "09:00",
			model.CategoryRotationSecondary: "09:15",
			model.CategoryPriorityRanked:    "09:45",
			model.CategoryOther:             "10:00",
		},
		PairedOffsetMinutes:    30,
		DefaultDurationMinutes: 360,
		BumpMinSlackDays:       1,
		PairedFallbackRole:     "supervisor",
	}
}

func date(day int) time.Time {
	return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

func newEmployee(id, name string, roles ...string) *model.Employee {
	return &model.Employee{
		EmployeeID:  id,
		ExternalRef: "ext-" + id,
		Name:        name,
		Roles:       roles,
		IsActive:    true,
	}
}

func newEvent(id, category, role string, earliest, dueBy time.Time) *model.WorkEvent {
	return &model.WorkEvent{
		WorkEventID:   id,
		ExternalRef:   "ext-" + id,
		Name:          "事件" + id,
		Category:      category,
		EarliestStart: earliest,
		DueBy:         dueBy,
		RequiredRole:  role,
		Status:        model.EventStatusUnscheduled,
	}
}

func runEngine(t *testing.T, snap *Snapshot) *Result {
	t.Helper()
	return NewEngine(zap.NewNop()).Run(snap)
}

func findAssignment(res *Result, eventID string) *Tentative {
	for i := range res.Assignments {
		if res.Assignments[i].WorkEventID == eventID {
			return &res.Assignments[i]
		}
	}
	return nil
}

func findFailed(res *Result, eventID string) *FailedItem {
	for i := range res.Failed {
		if res.Failed[i].WorkEventID == eventID {
			return &res.Failed[i]
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 基本排入
// ════════════════════════════════════════════════════════════

func TestEngine_SimpleAssignment(t *testing.T) {
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(12))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	if res.Processed != 1 {
		t.Errorf("期望 Processed=1，实际=%d", res.Processed)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("不应有失败项: %+v", res.Failed)
	}
	a := findAssignment(res, "ev-1")
	if a == nil {
		t.Fatal("ev-1 应被排入")
	}
	if a.EmployeeID != "emp-1" {
		t.Errorf("期望分配给 emp-1，实际=%s", a.EmployeeID)
	}
	// 最早可排日期 09-08 + 类别默认时间 09:45
	want := time.Date(2026, 9, 8, 9, 45, 0, 0, time.UTC)
	if !a.StartAt.Equal(want) {
		t.Errorf("期望开始时间 %v，实际=%v", want, a.StartAt)
	}
	if a.Origin != model.OriginClean {
		t.Errorf("期望 origin=clean，实际=%s", a.Origin)
	}
	if a.DurationMinutes != 360 {
		t.Errorf("期望默认时长 360，实际=%d", a.DurationMinutes)
	}
}

func TestEngine_WindowBufferPushesEarliestDate(t *testing.T) {
	cfg := testConfig()
	cfg.WindowDays = 3 // 最早可排 = today+3 = 09-10
	snap := &Snapshot{
		Config:    cfg,
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryOther, "cashier", date(8), date(14))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	a := findAssignment(res, "ev-1")
	if a == nil {
		t.Fatal("ev-1 应被排入")
	}
	if got := a.StartAt.Day(); got != 10 {
		t.Errorf("缓冲窗口内日期不应被使用，期望排在10日，实际=%d日", got)
	}
}

func TestEngine_DeadlineUnreachable(t *testing.T) {
	// 最早可排日期（today）已不早于截止日期
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(1), date(7))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	if len(res.Assignments) != 0 {
		t.Fatalf("不应产出分配: %+v", res.Assignments)
	}
	fi := findFailed(res, "ev-1")
	if fi == nil {
		t.Fatal("ev-1 应判失败")
	}
	if fi.Reason != model.ReasonDeadlineUnreachable {
		t.Errorf("期望原因 deadline_unreachable，实际=%s", fi.Reason)
	}
}

func TestEngine_NoQualifiedEmployee(t *testing.T) {
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "pharmacist", date(8), date(12))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	fi := findFailed(res, "ev-1")
	if fi == nil {
		t.Fatal("ev-1 应判失败")
	}
	if fi.Reason != model.ReasonNoQualifiedEmployee {
		t.Errorf("期望原因 no_qualified_employee，实际=%s", fi.Reason)
	}
}

func TestEngine_TimeOffBlocksWholeWindow(t *testing.T) {
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(10))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
		TimeOff: []*model.TimeOff{
			{TimeOffID: "to-1", EmployeeID: "emp-1", StartDate: date(8), EndDate: date(9), Approved: true},
		},
	}

	res := runEngine(t, snap)

	fi := findFailed(res, "ev-1")
	if fi == nil {
		t.Fatal("ev-1 应判失败")
	}
	if fi.Reason != model.ReasonNoAvailability {
		t.Errorf("期望原因 no_availability，实际=%s", fi.Reason)
	}
}

func TestEngine_UnapprovedTimeOffIgnored(t *testing.T) {
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(10))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
		TimeOff: []*model.TimeOff{
			{TimeOffID: "to-1", EmployeeID: "emp-1", StartDate: date(8), EndDate: date(9), Approved: false},
		},
	}

	res := runEngine(t, snap)

	if findAssignment(res, "ev-1") == nil {
		t.Fatal("未批准的休假不应阻塞排班")
	}
}

func TestEngine_CommittedOverlapNotDisplaceable(t *testing.T) {
	// 已落定占用不可置换：只能换日期，单日窗口则判失败
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(9))},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
		Committed: []CommittedAssignment{
			{WorkEventID: "ext-ev", EmployeeID: "emp-1", Category: model.CategoryOther,
				StartAt: time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC), DurationMinutes: 360},
		},
	}

	res := runEngine(t, snap)

	fi := findFailed(res, "ev-1")
	if fi == nil {
		t.Fatal("ev-1 应判失败")
	}
	if fi.Reason != model.ReasonNoAvailability {
		t.Errorf("期望原因 no_availability，实际=%s", fi.Reason)
	}
}

// ════════════════════════════════════════════════════════════
// 轮值解析
// ════════════════════════════════════════════════════════════

func TestEngine_RotationSlotWins(t *testing.T) {
	dow := 2 // 09-08 是周二
	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{newEvent("ev-1", model.CategoryRotationAnchor, "keyholder", date(8), date(9))},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "keyholder"),
			newEmployee("emp-2", "李四", "keyholder"),
		},
		RotationSlots: []*model.RotationSlot{
			{RotationSlotID: "rs-1", Role: "keyholder", DayOfWeek: dow, EmployeeID: "emp-2"},
		},
	}

	res := runEngine(t, snap)

	a := findAssignment(res, "ev-1")
	if a == nil {
		t.Fatal("ev-1 应被排入")
	}
	if a.EmployeeID != "emp-2" {
		t.Errorf("轮值持有人应优先，期望 emp-2，实际=%s", a.EmployeeID)
	}
}

func TestEngine_RotationExceptionOverridesSlot(t *testing.T) {
	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{newEvent("ev-1", model.CategoryRotationAnchor, "keyholder", date(8), date(9))},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "keyholder"),
			newEmployee("emp-2", "李四", "keyholder"),
		},
		RotationSlots: []*model.RotationSlot{
			{RotationSlotID: "rs-1", Role: "keyholder", DayOfWeek: 2, EmployeeID: "emp-2"},
		},
		RotationExceptions: []*model.RotationException{
			{RotationExceptionID: "re-1", Role: "keyholder", Date: date(8), EmployeeID: "emp-1"},
		},
	}

	res := runEngine(t, snap)

	a := findAssignment(res, "ev-1")
	if a == nil {
		t.Fatal("ev-1 应被排入")
	}
	if a.EmployeeID != "emp-1" {
		t.Errorf("例外覆盖应优先于固定轮值，期望 emp-1，实际=%s", a.EmployeeID)
	}
}

func TestEngine_RotationFallbackWhenPrimaryOnTimeOff(t *testing.T) {
	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{newEvent("ev-1", model.CategoryRotationAnchor, "keyholder", date(8), date(9))},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "keyholder"),
			newEmployee("emp-2", "李四", "keyholder"),
		},
		RotationSlots: []*model.RotationSlot{
			{RotationSlotID: "rs-1", Role: "keyholder", DayOfWeek: 2, EmployeeID: "emp-2"},
		},
		TimeOff: []*model.TimeOff{
			{TimeOffID: "to-1", EmployeeID: "emp-2", StartDate: date(8), EndDate: date(8), Approved: true},
		},
	}

	res := runEngine(t, snap)

	a := findAssignment(res, "ev-1")
	if a == nil {
		t.Fatal("ev-1 应通过次级解析排入")
	}
	if a.EmployeeID != "emp-1" {
		t.Errorf("主班休假时应落到其余角色持有者，期望 emp-1，实际=%s", a.EmployeeID)
	}
}

func TestEngine_SecondaryFollowsAnchorHolder(t *testing.T) {
	// 副班应跟随当日已持有主班的员工
	anchor := newEvent("ev-a", model.CategoryRotationAnchor, "keyholder", date(8), date(9))
	secondary := newEvent("ev-s", model.CategoryRotationSecondary, "keyholder", date(8), date(9))
	secondary.DurationMinutes = 30
	anchor.DurationMinutes = 15 // 09:00-09:15，与副班 09:15 不重叠
	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{secondary, anchor},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "keyholder"),
			newEmployee("emp-2", "李四", "keyholder"),
		},
		RotationSlots: []*model.RotationSlot{
			{RotationSlotID: "rs-1", Role: "keyholder", DayOfWeek: 2, EmployeeID: "emp-2"},
		},
	}

	res := runEngine(t, snap)

	a := findAssignment(res, "ev-a")
	s := findAssignment(res, "ev-s")
	if a == nil || s == nil {
		t.Fatalf("主班与副班都应排入: %+v", res.Failed)
	}
	if a.EmployeeID != "emp-2" || s.EmployeeID != "emp-2" {
		t.Errorf("副班应跟随主班持有人 emp-2，实际 主班=%s 副班=%s", a.EmployeeID, s.EmployeeID)
	}
}

// ════════════════════════════════════════════════════════════
// 配对事件
// ════════════════════════════════════════════════════════════

func TestEngine_PairedInheritsAnchorDate(t *testing.T) {
	dep := newEvent("ev-d", model.CategoryPairedDependent, "cashier", date(8), date(12))
	dep.DurationMinutes = 60
	main := newEvent("ev-m", model.CategoryOther, "cashier", date(9), date(12))
	main.DurationMinutes = 30
	depID := dep.WorkEventID
	main.PairedWithID = &depID

	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{dep, main},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier", "supervisor")},
	}

	res := runEngine(t, snap)

	m := findAssignment(res, "ev-m")
	d := findAssignment(res, "ev-d")
	if m == nil || d == nil {
		t.Fatalf("主事件与配对事件都应排入: %+v", res.Failed)
	}
	// 配对事件继承主事件日期 + 固定偏移 30 分钟
	wantStart := m.StartAt.Add(30 * time.Minute)
	if !d.StartAt.Equal(wantStart) {
		t.Errorf("期望配对开始时间 %v，实际=%v", wantStart, d.StartAt)
	}
	if d.EmployeeID != m.EmployeeID {
		t.Errorf("配对事件应优先分配给主事件受派员工，实际=%s", d.EmployeeID)
	}
}

func TestEngine_PairedFailsWhenAnchorUnplaced(t *testing.T) {
	dep := newEvent("ev-d", model.CategoryPairedDependent, "cashier", date(8), date(12))
	main := newEvent("ev-m", model.CategoryOther, "pharmacist", date(8), date(12)) // 无人持有该角色
	depID := dep.WorkEventID
	main.PairedWithID = &depID

	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{dep, main},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	if findFailed(res, "ev-m") == nil {
		t.Fatal("主事件应判失败")
	}
	fi := findFailed(res, "ev-d")
	if fi == nil {
		t.Fatal("主事件未排入时配对事件应判失败")
	}
	if fi.Reason != model.ReasonNoAvailability {
		t.Errorf("期望原因 no_availability，实际=%s", fi.Reason)
	}
}

func TestEngine_PairedFallbackRole(t *testing.T) {
	// 主事件员工与配对时间重叠，且无同角色在店员工 → 落到兜底角色
	dep := newEvent("ev-d", model.CategoryPairedDependent, "cashier", date(8), date(12))
	dep.DurationMinutes = 60
	main := newEvent("ev-m", model.CategoryOther, "cashier", date(8), date(12))
	main.DurationMinutes = 360 // 10:00-16:00，配对 10:30 与其重叠
	depID := dep.WorkEventID
	main.PairedWithID = &depID

	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{dep, main},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "cashier"),
			newEmployee("emp-9", "王五", "supervisor"),
		},
	}

	res := runEngine(t, snap)

	d := findAssignment(res, "ev-d")
	if d == nil {
		t.Fatalf("配对事件应通过兜底角色排入: %+v", res.Failed)
	}
	if d.EmployeeID != "emp-9" {
		t.Errorf("期望兜底角色持有者 emp-9，实际=%s", d.EmployeeID)
	}
}

// ════════════════════════════════════════════════════════════
// 冲突置换
// ════════════════════════════════════════════════════════════

// bumpFixture 构造一个必然触发置换的局面：
// 主班 ev-r 窗口宽裕且先被排到 09-08；紧迫事件 ev-i 只能排 09-08。
func bumpFixture() *Snapshot {
	occupant := newEvent("ev-r", model.CategoryRotationAnchor, "cashier", date(8), date(15))
	incoming := newEvent("ev-i", model.CategoryPriorityRanked, "cashier", date(8), date(9))
	return &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{occupant, incoming},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}
}

func TestEngine_BumpDisplacesSlackOccupant(t *testing.T) {
	res := runEngine(t, bumpFixture())

	if len(res.Failed) != 0 {
		t.Fatalf("不应有失败项: %+v", res.Failed)
	}
	in := findAssignment(res, "ev-i")
	occ := findAssignment(res, "ev-r")
	if in == nil || occ == nil {
		t.Fatal("两个事件都应排入")
	}
	if in.StartAt.Day() != 8 {
		t.Errorf("紧迫事件应占据 09-08，实际=%d日", in.StartAt.Day())
	}
	if in.Origin != model.OriginSwap {
		t.Errorf("置换排入的事件 origin 应为 swap，实际=%s", in.Origin)
	}
	if occ.StartAt.Day() == 8 {
		t.Error("被置换事件不应仍占据 09-08")
	}
	if occ.Origin != model.OriginSwap {
		t.Errorf("被置换重排的事件 origin 应为 swap，实际=%s", occ.Origin)
	}
}

func TestEngine_BumpRefusedWhenOccupantTight(t *testing.T) {
	// 占用者自身窗口同样紧迫（剩余 1 天）→ 不可置换
	occupant := newEvent("ev-r", model.CategoryRotationAnchor, "cashier", date(8), date(9))
	incoming := newEvent("ev-i", model.CategoryPriorityRanked, "cashier", date(8), date(9))
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{occupant, incoming},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	if findAssignment(res, "ev-r") == nil {
		t.Fatal("占用者应保住分配")
	}
	fi := findFailed(res, "ev-i")
	if fi == nil {
		t.Fatal("紧迫事件应判失败")
	}
	if fi.Reason != model.ReasonCapacityConflictUnresolved {
		t.Errorf("期望原因 capacity_conflict_unresolved，实际=%s", fi.Reason)
	}
}

func TestEngine_DisplacedTwiceFails(t *testing.T) {
	// ev-r 先被 ev-i1 从 09-08 顶走、重排到 09-09，又被 ev-i2 顶走 → 直接判失败
	occupant := newEvent("ev-r", model.CategoryRotationAnchor, "cashier", date(8), date(15))
	i1 := newEvent("ev-i1", model.CategoryPriorityRanked, "cashier", date(8), date(9))
	i2 := newEvent("ev-i2", model.CategoryPriorityRanked, "cashier", date(9), date(10))
	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{occupant, i1, i2},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	if findAssignment(res, "ev-i1") == nil || findAssignment(res, "ev-i2") == nil {
		t.Fatalf("两个紧迫事件都应排入: %+v", res.Failed)
	}
	fi := findFailed(res, "ev-r")
	if fi == nil {
		t.Fatal("被二次置换的事件应判失败")
	}
	if fi.Reason != model.ReasonCapacityConflictUnresolved {
		t.Errorf("期望原因 capacity_conflict_unresolved，实际=%s", fi.Reason)
	}
}

func TestEngine_BumpRevalidatesAgainstRemainingTentatives(t *testing.T) {
	// emp-1 当日已有两段互不重叠的暂定分配（09:00-10:00 / 10:00-12:00）。
	// 紧迫事件 09:45 起跨全天，顶掉其中一个仍与另一个重叠，
	// 置换必须回滚并判失败，而不是叠在剩余分配之上
	anchor := newEvent("ev-a", model.CategoryRotationAnchor, "cashier", date(8), date(12))
	anchor.DurationMinutes = 60
	other := newEvent("ev-b", model.CategoryOther, "cashier", date(8), date(9))
	other.DurationMinutes = 120
	urgent := newEvent("ev-u", model.CategoryPriorityRanked, "cashier", date(8), date(9))
	urgent.DurationMinutes = 600

	snap := &Snapshot{
		Config:    testConfig(),
		Events:    []*model.WorkEvent{anchor, other, urgent},
		Employees: []*model.Employee{newEmployee("emp-1", "张三", "cashier")},
	}

	res := runEngine(t, snap)

	fi := findFailed(res, "ev-u")
	if fi == nil {
		t.Fatalf("紧迫事件应判失败，实际分配=%+v", res.Assignments)
	}
	if fi.Reason != model.ReasonCapacityConflictUnresolved {
		t.Errorf("期望原因 capacity_conflict_unresolved，实际=%s", fi.Reason)
	}
	a, b := findAssignment(res, "ev-a"), findAssignment(res, "ev-b")
	if a == nil || b == nil {
		t.Fatal("原有两个分配都应保住")
	}
	if !a.StartAt.Equal(at(8, 9, 0)) || !b.StartAt.Equal(at(8, 10, 0)) {
		t.Errorf("回滚后原有分配不应移动: ev-a=%v ev-b=%v", a.StartAt, b.StartAt)
	}

	// 同员工不得出现重叠分配
	for i := range res.Assignments {
		for j := i + 1; j < len(res.Assignments); j++ {
			x, y := res.Assignments[i], res.Assignments[j]
			if x.EmployeeID != y.EmployeeID {
				continue
			}
			xEnd := x.StartAt.Add(time.Duration(x.DurationMinutes) * time.Minute)
			yEnd := y.StartAt.Add(time.Duration(y.DurationMinutes) * time.Minute)
			if x.StartAt.Before(yEnd) && y.StartAt.Before(xEnd) {
				t.Errorf("同员工重叠分配: %s 与 %s", x.WorkEventID, y.WorkEventID)
			}
		}
	}
}

func TestEngine_EventInOpenProposalNotReassigned(t *testing.T) {
	// ev-1 已在未决提案中分配给 emp-1：本次运行不得再次排入，
	// 否则两个提案先后审批会把同一事件提交两次
	snap := &Snapshot{
		Config: testConfig(),
		Events: []*model.WorkEvent{
			newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(12)),
			newEvent("ev-2", model.CategoryPriorityRanked, "cashier", date(8), date(12)),
		},
		Employees: []*model.Employee{
			newEmployee("emp-1", "张三", "cashier"),
			newEmployee("emp-2", "李四", "cashier"),
		},
		Committed: []CommittedAssignment{
			{WorkEventID: "ev-1", EmployeeID: "emp-1", Category: model.CategoryPriorityRanked,
				StartAt: at(8, 9, 45), DurationMinutes: 60},
		},
	}

	res := runEngine(t, snap)

	if a := findAssignment(res, "ev-1"); a != nil {
		t.Errorf("已占位事件不应再次排入: employee=%s", a.EmployeeID)
	}
	if fi := findFailed(res, "ev-1"); fi != nil {
		t.Errorf("已占位事件也不应计入失败项: %+v", fi)
	}
	if findAssignment(res, "ev-2") == nil {
		t.Fatal("未占位事件应正常排入")
	}
	if res.Processed != 1 {
		t.Errorf("期望仅处理 1 个事件，实际=%d", res.Processed)
	}
}

// ════════════════════════════════════════════════════════════
// 确定性
// ════════════════════════════════════════════════════════════

func TestEngine_Deterministic(t *testing.T) {
	build := func() *Snapshot {
		evs := []*model.WorkEvent{
			newEvent("ev-3", model.CategoryOther, "cashier", date(8), date(14)),
			newEvent("ev-1", model.CategoryPriorityRanked, "cashier", date(8), date(10)),
			newEvent("ev-2", model.CategoryPriorityRanked, "cashier", date(8), date(10)),
			newEvent("ev-4", model.CategoryRotationAnchor, "keyholder", date(8), date(12)),
		}
		return &Snapshot{
			Config: testConfig(),
			Events: evs,
			Employees: []*model.Employee{
				newEmployee("emp-1", "张三", "cashier", "keyholder"),
				newEmployee("emp-2", "李四", "cashier"),
				newEmployee("emp-3", "王五", "cashier", "keyholder"),
			},
		}
	}

	first := runEngine(t, build())
	for i := 0; i < 5; i++ {
		again := runEngine(t, build())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("同一快照多次运行结果不一致:\n第一次=%+v\n本次=%+v", first, again)
		}
	}
}

// [自证通过] internal/scheduler/engine_test.go
