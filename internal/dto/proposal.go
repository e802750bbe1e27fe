package dto

// ── 提案审批模块 DTO ──

// ProposalListRequest 提案列表查询参数
type ProposalListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=draft approved rejected committing committed partially_committed"`
}

// ProposalSummaryResponse 提案摘要响应
type ProposalSummaryResponse struct {
	ProposalID  string `json:"proposal_id"`
	RunID       string `json:"run_id"`
	Scope       string `json:"scope"`
	Status      string `json:"status"`
	AckRequired bool   `json:"ack_required"`
	CreatedAt   string `json:"created_at"`
	Version     int    `json:"version"`
}

// ProposalDetailResponse 提案明细响应
type ProposalDetailResponse struct {
	ProposalID  string                       `json:"proposal_id"`
	RunID       string                       `json:"run_id"`
	Scope       string                       `json:"scope"`
	Status      string                       `json:"status"`
	ApprovedAt  *string                      `json:"approved_at,omitempty"`
	AckRequired bool                         `json:"ack_required"`
	Assignments []ProposalAssignmentResponse `json:"assignments"`
	FailedItems []ProposalFailedItemResponse `json:"failed_items"`
	CreatedAt   string                       `json:"created_at"`
	Version     int                          `json:"version"`
}

// ProposalAssignmentResponse 提案分配明细响应
type ProposalAssignmentResponse struct {
	AssignmentID    string `json:"assignment_id"`
	WorkEventID     string `json:"work_event_id"`
	WorkEventName   string `json:"work_event_name,omitempty"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name,omitempty"`
	ScheduledAt     string `json:"scheduled_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Origin          string `json:"origin"`
	Rationale       string `json:"rationale,omitempty"`
	CommitStatus    string `json:"commit_status"`
	CommitError     string `json:"commit_error,omitempty"`
	Version         int    `json:"version"`
}

// ProposalFailedItemResponse 提案失败项响应
type ProposalFailedItemResponse struct {
	FailedItemID  string `json:"failed_item_id"`
	WorkEventID   string `json:"work_event_id"`
	WorkEventName string `json:"work_event_name,omitempty"`
	Reason        string `json:"reason"`
	Detail        string `json:"detail,omitempty"`
}

// ApproveProposalRequest 审批提案请求
type ApproveProposalRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// RejectProposalRequest 驳回提案请求
type RejectProposalRequest struct {
	Reason  string `json:"reason"  binding:"omitempty,max=500"`
	Version int    `json:"version" binding:"required,min=1"`
}

// EditAssignmentRequest 人工调整分配请求（仅 draft 状态）
type EditAssignmentRequest struct {
	EmployeeID  string `json:"employee_id"  binding:"required,uuid"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
	Reason      string `json:"reason"       binding:"omitempty,max=500"`
	Version     int    `json:"version"      binding:"required,min=1"`
}

// ValidateAssignmentRequest 人工调整前的校验请求
type ValidateAssignmentRequest struct {
	EmployeeID  string `json:"employee_id"  binding:"required,uuid"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
}

// ValidateAssignmentResponse 校验结果响应
type ValidateAssignmentResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// CommitResultResponse 提交结果响应
type CommitResultResponse struct {
	ProposalID     string `json:"proposal_id"`
	Status         string `json:"status"`
	CommittedCount int    `json:"committed_count"`
	FailedCount    int    `json:"failed_count"`
}

// ProposalEditResponse 人工调整审计记录响应
type ProposalEditResponse struct {
	EditID             string `json:"edit_id"`
	AssignmentID       string `json:"assignment_id"`
	OriginalEmployeeID string `json:"original_employee_id"`
	NewEmployeeID      string `json:"new_employee_id"`
	OriginalAt         string `json:"original_at"`
	NewAt              string `json:"new_at"`
	Reason             string `json:"reason,omitempty"`
	OperatorID         string `json:"operator_id"`
	CreatedAt          string `json:"created_at"`
}

// [自证通过] internal/dto/proposal.go
