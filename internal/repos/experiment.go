package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abexp/abexp-backend/internal/domain"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
)

type ExperimentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exp *domain.Experiment) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Experiment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Experiment, error)
	Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	return &experimentRepo{db: db, log: baseLog.With("repo", "ExperimentRepo")}
}

func (r *experimentRepo) Create(ctx context.Context, tx *gorm.DB, exp *domain.Experiment) error {
	t := tx
	if t == nil {
		t = r.db
	}
	row := experimentToRow(exp)
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.DuplicateExperimentError{Name: exp.Name}
		}
		return fmt.Errorf("create experiment: %w", err)
	}
	return nil
}

func (r *experimentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Experiment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*ExperimentRow
	if err := t.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch experiments: %w", err)
	}
	experiments := make([]domain.Experiment, 0, len(rows))
	for _, row := range rows {
		exp, err := experimentFromRow(row)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, exp)
	}
	return experiments, nil
}

func (r *experimentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Experiment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row ExperimentRow
	if err := t.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ExperimentNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("fetch experiment %s: %w", id, err)
	}
	exp, err := experimentFromRow(&row)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// Finish sets finished_at only when it is still unset and reports how many
// rows changed. The conditional write keeps the transition at-most-once when
// concurrent finish requests race.
func (r *experimentRepo) Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Model(&ExperimentRow{}).
		Where("id = ? AND finished_at IS NULL", id).
		Update("finished_at", at)
	if res.Error != nil {
		return 0, fmt.Errorf("finish experiment %s: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
