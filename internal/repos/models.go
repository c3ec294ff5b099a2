package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abexp/abexp-backend/internal/domain"
)

type ExperimentRow struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string                 `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Variants   []ExperimentVariantRow `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExperimentID;references:ID" json:"variants,omitempty"`
	CreatedAt  time.Time              `gorm:"not null" json:"created_at"`
	FinishedAt *time.Time             `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (ExperimentRow) TableName() string { return "experiment" }

// ExperimentVariantRow keeps the insertion order of variants in Position.
// The order defines the assignment bucket boundaries, so it is persisted
// explicitly and reads always sort by it.
type ExperimentVariantRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExperimentID uuid.UUID `gorm:"type:uuid;not null;index" json:"experiment_id"`
	Position     int       `gorm:"column:position;not null" json:"position"`
	Data         string    `gorm:"column:data;not null" json:"data"`
	Distribution float64   `gorm:"column:distribution;not null" json:"distribution"`
}

func (ExperimentVariantRow) TableName() string { return "experiment_variant" }

type DeviceRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DeviceRow) TableName() string { return "device" }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ExperimentRow{},
		&ExperimentVariantRow{},
		&DeviceRow{},
	)
}

func experimentToRow(exp *domain.Experiment) *ExperimentRow {
	variants := exp.Variants.Variants()
	rows := make([]ExperimentVariantRow, 0, len(variants))
	for i, v := range variants {
		rows = append(rows, ExperimentVariantRow{
			ID:           uuid.New(),
			ExperimentID: exp.ID,
			Position:     i,
			Data:         v.Data.String(),
			Distribution: v.Distribution.Value(),
		})
	}
	return &ExperimentRow{
		ID:         exp.ID,
		Name:       exp.Name.String(),
		Variants:   rows,
		CreatedAt:  exp.CreatedAt,
		FinishedAt: exp.FinishedAt,
	}
}

func experimentFromRow(row *ExperimentRow) (domain.Experiment, error) {
	name, err := domain.NewExperimentName(row.Name)
	if err != nil {
		return domain.Experiment{}, fmt.Errorf("experiment %s: %w", row.ID, err)
	}
	variants := make([]domain.Variant, 0, len(row.Variants))
	for _, v := range row.Variants {
		data, err := domain.NewVariantData(v.Data)
		if err != nil {
			return domain.Experiment{}, fmt.Errorf("experiment %s variant %s: %w", row.ID, v.ID, err)
		}
		distribution, err := domain.NewVariantDistribution(v.Distribution)
		if err != nil {
			return domain.Experiment{}, fmt.Errorf("experiment %s variant %s: %w", row.ID, v.ID, err)
		}
		variants = append(variants, domain.NewVariant(distribution, data))
	}
	validated, err := domain.NewExperimentVariants(variants)
	if err != nil {
		return domain.Experiment{}, fmt.Errorf("experiment %s: %w", row.ID, err)
	}
	return domain.NewExperiment(row.ID, name, validated, row.CreatedAt, row.FinishedAt), nil
}

func deviceFromRow(row *DeviceRow) (domain.Device, error) {
	id, err := domain.NewDeviceID(row.ID.String())
	if err != nil {
		return domain.Device{}, fmt.Errorf("device %s: %w", row.ID, err)
	}
	return domain.NewDevice(id, row.CreatedAt), nil
}
