package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeviceID is a valid, non-nil device UUID.
type DeviceID uuid.UUID

func NewDeviceID(raw string) (DeviceID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return DeviceID{}, InvalidDeviceIDError{Raw: raw}
	}
	if id == uuid.Nil {
		return DeviceID{}, InvalidDeviceIDError{Raw: raw}
	}
	return DeviceID(id), nil
}

func (id DeviceID) UUID() uuid.UUID { return uuid.UUID(id) }

func (id DeviceID) String() string { return uuid.UUID(id).String() }

// Device is a known device. CreatedAt is fixed on first observation and
// anchors eligibility for both live assignment and statistics.
type Device struct {
	ID        DeviceID
	CreatedAt time.Time
}

func NewDevice(id DeviceID, createdAt time.Time) Device {
	return Device{ID: id, CreatedAt: createdAt}
}
