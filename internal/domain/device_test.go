package domain

import (
	"errors"
	"testing"
)

func TestNewDeviceID(t *testing.T) {
	raw := "550e8400-e29b-41d4-a716-446655440000"
	id, err := NewDeviceID(raw)
	if err != nil {
		t.Fatalf("NewDeviceID(%q): %v", raw, err)
	}
	if id.String() != raw {
		t.Fatalf("DeviceID round trip: got %q", id.String())
	}
}

func TestNewDeviceIDRejectsNil(t *testing.T) {
	raw := "00000000-0000-0000-0000-000000000000"
	_, err := NewDeviceID(raw)
	var invalid InvalidDeviceIDError
	if !errors.As(err, &invalid) || invalid.Raw != raw {
		t.Fatalf("nil uuid: got err=%v", err)
	}
}

func TestNewDeviceIDRejectsGarbage(t *testing.T) {
	_, err := NewDeviceID("abracadabra")
	var invalid InvalidDeviceIDError
	if !errors.As(err, &invalid) {
		t.Fatalf("garbage id: got err=%v", err)
	}
}
