package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// UserAdminService 用户管理服务
type UserAdminService struct {
	userRepo        *repository.UserRepository
	reservationRepo *repository.ReservationRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(
	userRepo *repository.UserRepository,
	reservationRepo *repository.ReservationRepository,
) *UserAdminService {
	return &UserAdminService{
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
	}
}

// UserListFilters 用户列表筛选条件
type UserListFilters struct {
	Email  string
	Name   string
	Role   string
	Status *int8
}

// UserDetail 用户详情
type UserDetail struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Avatar             *string   `json:"avatar,omitempty"`
	Role               string    `json:"role"`
	Status             int8      `json:"status"`
	ActiveReservations int64     `json:"active_reservations"`
	CreatedAt          time.Time `json:"created_at"`
}

// List 获取用户列表
func (s *UserAdminService) List(ctx context.Context, page, pageSize int, filters *UserListFilters) ([]*UserDetail, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	repoFilters := map[string]interface{}{}
	if filters != nil {
		if filters.Email != "" {
			repoFilters["email"] = filters.Email
		}
		if filters.Name != "" {
			repoFilters["name"] = filters.Name
		}
		if filters.Role != "" {
			repoFilters["role"] = filters.Role
		}
		if filters.Status != nil {
			repoFilters["status"] = *filters.Status
		}
	}

	users, total, err := s.userRepo.List(ctx, offset, pageSize, repoFilters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	result := make([]*UserDetail, 0, len(users))
	for _, user := range users {
		result = append(result, convertUserDetail(user, 0))
	}
	return result, total, nil
}

// Get 获取用户详情，含进行中的预订数
func (s *UserAdminService) Get(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	active, err := s.reservationRepo.CountByUserAndStatus(ctx, id, models.ActiveReservationStatuses)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertUserDetail(user, active), nil
}

// SetStatus 启用或禁用用户
func (s *UserAdminService) SetStatus(ctx context.Context, id int64, status int8) error {
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return errors.ErrInvalidParams.WithMessage("无效的用户状态")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	// 管理员账号不允许在此处禁用
	if user.IsAdmin() && status == models.UserStatusDisabled {
		return errors.ErrPermissionDenied.WithMessage("不能禁用管理员账号")
	}

	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SetRole 设置用户角色
func (s *UserAdminService) SetRole(ctx context.Context, id int64, role string) error {
	if role != models.RoleCustomer && role != models.RoleAdmin {
		return errors.ErrInvalidParams.WithMessage("无效的角色")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"role": role}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

func convertUserDetail(user *models.User, activeReservations int64) *UserDetail {
	return &UserDetail{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Avatar:             user.Avatar,
		Role:               user.Role,
		Status:             user.Status,
		ActiveReservations: activeReservations,
		CreatedAt:          user.CreatedAt,
	}
}
