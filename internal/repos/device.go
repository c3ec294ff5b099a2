package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abexp/abexp-backend/internal/domain"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
)

type DeviceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, device *domain.Device) error
	GetByID(ctx context.Context, tx *gorm.DB, id domain.DeviceID) (*domain.Device, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Device, error)
}

type deviceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeviceRepo(db *gorm.DB, baseLog *logger.Logger) DeviceRepo {
	return &deviceRepo{db: db, log: baseLog.With("repo", "DeviceRepo")}
}

func (r *deviceRepo) Create(ctx context.Context, tx *gorm.DB, device *domain.Device) error {
	t := tx
	if t == nil {
		t = r.db
	}
	row := &DeviceRow{ID: device.ID.UUID(), CreatedAt: device.CreatedAt}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.DuplicateDeviceError{ID: device.ID}
		}
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (r *deviceRepo) GetByID(ctx context.Context, tx *gorm.DB, id domain.DeviceID) (*domain.Device, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row DeviceRow
	if err := t.WithContext(ctx).Where("id = ?", id.UUID()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.DeviceNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("fetch device %s: %w", id, err)
	}
	device, err := deviceFromRow(&row)
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Device, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*DeviceRow
	if err := t.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	devices := make([]domain.Device, 0, len(rows))
	for _, row := range rows {
		device, err := deviceFromRow(row)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}
