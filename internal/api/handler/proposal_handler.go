package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"store-roster/backend/internal/dto"
	"store-roster/backend/internal/service"
	pkgerrors "store-roster/backend/pkg/errors"
	"store-roster/backend/pkg/response"
)

// ProposalHandler 提案审批模块 HTTP 处理器
type ProposalHandler struct {
	svc service.ProposalService
}

// NewProposalHandler 创建 ProposalHandler
func NewProposalHandler(svc service.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// Get 提案详情
// GET /api/v1/proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProposalNotFound) {
			response.NotFound(c, 17001, "提案不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetOpenByScope 指定范围当前未关闭的提案
// GET /api/v1/proposals/draft
func (h *ProposalHandler) GetOpenByScope(c *gin.Context) {
	scope := c.Query("scope")
	if scope == "" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.svc.GetOpenByScope(c.Request.Context(), scope)
	if err != nil {
		if errors.Is(err, service.ErrProposalNotFound) {
			response.NotFound(c, 17001, "提案不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List 提案列表
// GET /api/v1/proposals
func (h *ProposalHandler) List(c *gin.Context) {
	var req dto.ProposalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListEdits 提案人工调整审计记录
// GET /api/v1/proposals/:id/edits
func (h *ProposalHandler) ListEdits(c *gin.Context) {
	result, err := h.svc.ListEdits(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProposalNotFound) {
			response.NotFound(c, 17001, "提案不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// EditAssignment 人工调整分配（仅草稿状态）
// PUT /api/v1/proposals/:id/assignments/:assignmentId
func (h *ProposalHandler) EditAssignment(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.EditAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.svc.EditAssignment(c.Request.Context(), operatorID, c.Param("id"), c.Param("assignmentId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 17002, "提案分配不存在")
		case errors.Is(err, service.ErrProposalNotDraft):
			response.Conflict(c, 17003, "提案不在草稿状态，禁止调整")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12002, "员工不存在")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ValidateAssignment 人工调整前的约束校验（只读，不落库）
// POST /api/v1/proposals/:id/assignments/:assignmentId/validate
func (h *ProposalHandler) ValidateAssignment(c *gin.Context) {
	var req dto.ValidateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.svc.ValidateAssignment(c.Request.Context(), c.Param("id"), c.Param("assignmentId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 17002, "提案分配不存在")
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, 12002, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Approve 审批通过提案
// POST /api/v1/proposals/:id/approve
func (h *ProposalHandler) Approve(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ApproveProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.svc.Approve(c.Request.Context(), operatorID, c.Param("id"), req.Version); err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrProposalNotDraft):
			response.Conflict(c, 17003, "提案不在草稿状态，禁止审批")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// Reject 驳回提案
// POST /api/v1/proposals/:id/reject
func (h *ProposalHandler) Reject(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.svc.Reject(c.Request.Context(), operatorID, c.Param("id"), req.Version); err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrProposalNotDraft):
			response.Conflict(c, 17003, "提案不在草稿状态，禁止驳回")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// Commit 提交已通过审批的提案到外部系统
// POST /api/v1/proposals/:id/commit
func (h *ProposalHandler) Commit(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Commit(c.Request.Context(), operatorID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrProposalNotApproved):
			response.Conflict(c, 17004, "提案未通过审批，禁止提交")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// RetryItem 重试单条提交失败的分配
// POST /api/v1/proposals/:id/assignments/:assignmentId/retry
func (h *ProposalHandler) RetryItem(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.RetryItem(c.Request.Context(), operatorID, c.Param("id"), c.Param("assignmentId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 17002, "提案分配不存在")
		case errors.Is(err, service.ErrNoPartialFailure):
			response.Conflict(c, 17005, "提案没有待确认的部分提交失败")
		case errors.Is(err, service.ErrAssignmentNotFailed):
			response.Conflict(c, 17006, "该分配未处于提交失败状态")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Acknowledge 确认部分提交失败
// POST /api/v1/proposals/:id/ack
func (h *ProposalHandler) Acknowledge(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Acknowledge(c.Request.Context(), operatorID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			response.NotFound(c, 17001, "提案不存在")
		case errors.Is(err, service.ErrNoPartialFailure):
			response.Conflict(c, 17005, "提案没有待确认的部分提交失败")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/proposal_handler.go
