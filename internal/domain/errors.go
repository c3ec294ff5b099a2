package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrExperimentNameEmpty        = errors.New("experiment name cannot be empty")
	ErrVariantDataEmpty           = errors.New("variant data cannot be empty")
	ErrVariantDistributionInvalid = errors.New("variant distribution must be more than zero and less than or equal to 100")
	ErrDistributionSum            = errors.New("sum of variant distributions is not equal to 100")
)

type InvalidDeviceIDError struct {
	Raw string
}

func (e InvalidDeviceIDError) Error() string {
	return fmt.Sprintf("%s is not a valid device id", e.Raw)
}

type DuplicateExperimentError struct {
	Name ExperimentName
}

func (e DuplicateExperimentError) Error() string {
	return fmt.Sprintf("experiment with name %s already exists", e.Name)
}

type ExperimentNotFoundError struct {
	ID uuid.UUID
}

func (e ExperimentNotFoundError) Error() string {
	return fmt.Sprintf("experiment with id %s does not exist", e.ID)
}

type ExperimentFinishedError struct {
	ID uuid.UUID
}

func (e ExperimentFinishedError) Error() string {
	return fmt.Sprintf("experiment with id %s is already finished", e.ID)
}

type DuplicateDeviceError struct {
	ID DeviceID
}

func (e DuplicateDeviceError) Error() string {
	return fmt.Sprintf("device with id %s already exists", e.ID)
}

type DeviceNotFoundError struct {
	ID DeviceID
}

func (e DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device with id %s does not exist", e.ID)
}
