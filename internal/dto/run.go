package dto

// ── 排班运行模块 DTO ──

// TriggerRunRequest 触发排班运行请求
type TriggerRunRequest struct {
	Scope string `json:"scope" binding:"required,max=100"` // 排班范围标识，如门店编号
}

// RunResultResponse 运行结果响应
type RunResultResponse struct {
	RunID          string `json:"run_id"`
	Scope          string `json:"scope"`
	Status         string `json:"status"`
	ProposalID     string `json:"proposal_id,omitempty"` // completed 时产出的提案
	ProcessedCount int    `json:"processed_count"`
	AssignedCount  int    `json:"assigned_count"`
	FailedCount    int    `json:"failed_count"`
	DurationMillis int64  `json:"duration_millis"`
}

// RunHistoryListRequest 运行历史查询参数
type RunHistoryListRequest struct {
	PaginationRequest
	Scope string `form:"scope" binding:"omitempty,max=100"`
}

// RunHistoryResponse 运行历史响应
type RunHistoryResponse struct {
	RunID          string `json:"run_id"`
	Scope          string `json:"scope"`
	Status         string `json:"status"`
	StartedAt      string `json:"started_at"`
	DurationMillis int64  `json:"duration_millis"`
	ProcessedCount int    `json:"processed_count"`
	AssignedCount  int    `json:"assigned_count"`
	FailedCount    int    `json:"failed_count"`
	ErrorSummary   string `json:"error_summary,omitempty"`
	Acknowledged   bool   `json:"acknowledged"`
}

// [自证通过] internal/dto/run.go
