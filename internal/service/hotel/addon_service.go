package hotel

import (
	"context"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// AddonService 附加服务管理
type AddonService struct {
	serviceRepo     *repository.ServiceRepository
	reservationRepo *repository.ReservationRepository
}

// NewAddonService 创建附加服务管理
func NewAddonService(
	serviceRepo *repository.ServiceRepository,
	reservationRepo *repository.ReservationRepository,
) *AddonService {
	return &AddonService{
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateAddonRequest 创建附加服务请求
type CreateAddonRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// UpdateAddonRequest 更新附加服务请求（仅更新非空字段）
type UpdateAddonRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// AddonInfo 附加服务信息
type AddonInfo struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

// CreateAddon 创建附加服务
func (s *AddonService) CreateAddon(ctx context.Context, req *CreateAddonRequest) (*AddonInfo, error) {
	service := &models.ServiceAddon{
		Name:        req.Name,
		Description: req.Description,
		Price:       utils.RoundMoney(req.Price),
		Status:      models.ServiceStatusActive,
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertAddonInfo(service), nil
}

// GetAddon 获取附加服务详情
func (s *AddonService) GetAddon(ctx context.Context, id int64) (*AddonInfo, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrServiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertAddonInfo(service), nil
}

// ListActiveAddons 获取上架的附加服务（面向顾客）
func (s *AddonService) ListActiveAddons(ctx context.Context) ([]*AddonInfo, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	result := make([]*AddonInfo, 0, len(services))
	for _, service := range services {
		result = append(result, s.convertAddonInfo(service))
	}
	return result, nil
}

// ListAddons 获取附加服务列表（面向管理端）
func (s *AddonService) ListAddons(ctx context.Context, page, pageSize int, name, status string) ([]*AddonInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	services, total, err := s.serviceRepo.List(ctx, offset, pageSize, map[string]interface{}{
		"name":   name,
		"status": status,
	})
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	result := make([]*AddonInfo, 0, len(services))
	for _, service := range services {
		result = append(result, s.convertAddonInfo(service))
	}
	return result, total, nil
}

// UpdateAddon 更新附加服务
func (s *AddonService) UpdateAddon(ctx context.Context, id int64, req *UpdateAddonRequest) (*AddonInfo, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrServiceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.ErrAmountInvalid
		}
		fields["price"] = utils.RoundMoney(*req.Price)
	}
	if req.Status != nil {
		if *req.Status != models.ServiceStatusActive && *req.Status != models.ServiceStatusInactive {
			return nil, errors.ErrInvalidParams.WithMessage("无效的服务状态")
		}
		fields["status"] = *req.Status
	}

	if len(fields) > 0 {
		if err := s.serviceRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		service, err = s.serviceRepo.GetByID(ctx, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	return s.convertAddonInfo(service), nil
}

// DeleteAddon 删除附加服务
// 被预订引用的服务不允许删除，只能下架
func (s *AddonService) DeleteAddon(ctx context.Context, id int64) error {
	if _, err := s.serviceRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrServiceNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.reservationRepo.CountItemsByService(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrServiceInUse
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// convertAddonInfo 转换附加服务信息
func (s *AddonService) convertAddonInfo(service *models.ServiceAddon) *AddonInfo {
	return &AddonInfo{
		ID:          service.ID,
		Name:        service.Name,
		Description: service.Description,
		Price:       service.Price,
		Status:      service.Status,
	}
}
