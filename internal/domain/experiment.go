package domain

import (
	"time"

	"github.com/google/uuid"
)

// Experiment combines identity, validated variants and lifecycle timestamps.
// FinishedAt is nil while the experiment is active; FinishExperiment sets it
// exactly once and it is never cleared.
type Experiment struct {
	ID         uuid.UUID
	Name       ExperimentName
	Variants   ExperimentVariants
	CreatedAt  time.Time
	FinishedAt *time.Time
}

func NewExperiment(id uuid.UUID, name ExperimentName, variants ExperimentVariants, createdAt time.Time, finishedAt *time.Time) Experiment {
	return Experiment{
		ID:         id,
		Name:       name,
		Variants:   variants,
		CreatedAt:  createdAt,
		FinishedAt: finishedAt,
	}
}

func (e Experiment) IsFinished() bool { return e.FinishedAt != nil }

// AcceptsDevice reports whether a device participates in live assignment:
// the experiment must still be active and must have been created at or
// before the device was first seen.
func (e Experiment) AcceptsDevice(d Device) bool {
	if e.IsFinished() {
		return false
	}
	return !e.CreatedAt.After(d.CreatedAt)
}

// CreateExperimentRequest carries the validated inputs for a new experiment.
type CreateExperimentRequest struct {
	Name     ExperimentName
	Variants ExperimentVariants
}

// DeviceExperiment is the variant a device sees for one experiment.
// It is derived on every query, never stored.
type DeviceExperiment struct {
	ExperimentID uuid.UUID
	Name         ExperimentName
	Data         VariantData
}
