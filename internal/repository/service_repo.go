package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// ServiceRepository 附加服务仓储
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建附加服务仓储
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create 创建附加服务
func (r *ServiceRepository) Create(ctx context.Context, service *models.ServiceAddon) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// GetByID 根据 ID 获取附加服务
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*models.ServiceAddon, error) {
	var service models.ServiceAddon
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// GetByIDs 根据 ID 列表获取附加服务
func (r *ServiceRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.ServiceAddon, error) {
	var services []*models.ServiceAddon
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&services).Error
	return services, err
}

// Update 更新附加服务
func (r *ServiceRepository) Update(ctx context.Context, service *models.ServiceAddon) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// UpdateFields 更新指定字段
func (r *ServiceRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.ServiceAddon{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除附加服务
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.ServiceAddon{}, id).Error
}

// List 获取附加服务列表
func (r *ServiceRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.ServiceAddon, int64, error) {
	var services []*models.ServiceAddon
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ServiceAddon{})

	// 应用过滤条件
	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

// ListActive 获取上架的附加服务
func (r *ServiceRepository) ListActive(ctx context.Context) ([]*models.ServiceAddon, error) {
	var services []*models.ServiceAddon
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ServiceStatusActive).
		Order("id ASC").
		Find(&services).Error
	return services, err
}
