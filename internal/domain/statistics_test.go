package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testDevice(t *testing.T, raw string, createdAt time.Time) Device {
	t.Helper()
	id, err := NewDeviceID(raw)
	if err != nil {
		t.Fatalf("NewDeviceID(%q): %v", raw, err)
	}
	return NewDevice(id, createdAt)
}

func TestAcceptsDevice(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name, _ := NewExperimentName("layout")
	vs := mustVariants(t, mustVariant(t, 100.0, "only"))
	exp := NewExperiment(uuid.New(), name, vs, base, nil)

	before := testDevice(t, "550e8400-e29b-41d4-a716-446655440000", base.Add(-time.Hour))
	exact := testDevice(t, "c9a1d5a2-41d4-4f5e-9d5b-7b2f6a3c8e10", base)
	after := testDevice(t, "6f1c7b9e-2d3a-4c5b-8e9f-0a1b2c3d4e5f", base.Add(time.Hour))

	if exp.AcceptsDevice(before) {
		t.Fatalf("device seen before experiment creation must not participate")
	}
	if !exp.AcceptsDevice(exact) {
		t.Fatalf("device seen exactly at experiment creation must participate")
	}
	if !exp.AcceptsDevice(after) {
		t.Fatalf("device seen after experiment creation must participate")
	}

	finishedAt := base.Add(2 * time.Hour)
	finished := NewExperiment(exp.ID, exp.Name, exp.Variants, exp.CreatedAt, &finishedAt)
	if finished.AcceptsDevice(after) {
		t.Fatalf("finished experiment must not accept devices")
	}
}

func TestNewStatisticsExperimentEligibility(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name, _ := NewExperimentName("checkout")
	vs := mustVariants(t, mustVariant(t, 50.0, "old"), mustVariant(t, 50.0, "new"))
	exp := NewExperiment(uuid.New(), name, vs, base, nil)

	devices := []Device{
		testDevice(t, "550e8400-e29b-41d4-a716-446655440000", base.Add(-time.Minute)),
		testDevice(t, "c9a1d5a2-41d4-4f5e-9d5b-7b2f6a3c8e10", base),
		testDevice(t, "6f1c7b9e-2d3a-4c5b-8e9f-0a1b2c3d4e5f", base.Add(time.Minute)),
	}

	stat := NewStatisticsExperiment(exp, devices)
	if stat.ID != exp.ID || stat.Name != exp.Name {
		t.Fatalf("identity: got %v %v", stat.ID, stat.Name)
	}
	// The device seen before the experiment does not count; the one seen at
	// exactly the creation instant does.
	if stat.TotalDevices != 2 {
		t.Fatalf("TotalDevices: got %d, want 2", stat.TotalDevices)
	}
	if len(stat.Variants) != 2 {
		t.Fatalf("variants: got %d", len(stat.Variants))
	}

	matched := 0
	for _, v := range stat.Variants {
		matched += v.TotalDevices
	}
	if matched != stat.TotalDevices {
		t.Fatalf("variant counts %d do not add up to %d", matched, stat.TotalDevices)
	}
}

// The variant a device is shown by live assignment must be the variant it is
// counted under in statistics.
func TestStatisticsMatchLiveAssignment(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name, _ := NewExperimentName("pricing")
	vs := mustVariants(t,
		mustVariant(t, 75.0, "A"),
		mustVariant(t, 10.0, "B"),
		mustVariant(t, 5.0, "C"),
		mustVariant(t, 10.0, "D"),
	)
	exp := NewExperiment(uuid.New(), name, vs, base, nil)
	device := testDevice(t, "550e8400-e29b-41d4-a716-446655440000", base.Add(time.Minute))

	assigned := exp.Variants.AssignVariant(device.ID.String())

	stat := NewStatisticsExperiment(exp, []Device{device})
	for _, v := range stat.Variants {
		want := 0
		if v.Data == assigned {
			want = 1
		}
		if v.TotalDevices != want {
			t.Fatalf("variant %q: counted %d, want %d", v.Data, v.TotalDevices, want)
		}
	}
}

func TestNewStatisticsExperimentZeroDevices(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name, _ := NewExperimentName("empty")
	vs := mustVariants(t, mustVariant(t, 60.0, "x"), mustVariant(t, 40.0, "y"))
	exp := NewExperiment(uuid.New(), name, vs, base, nil)

	stat := NewStatisticsExperiment(exp, nil)
	if stat.TotalDevices != 0 {
		t.Fatalf("TotalDevices: got %d", stat.TotalDevices)
	}
	for _, v := range stat.Variants {
		if v.TotalDevices != 0 || v.PercentageDevices != 0.0 {
			t.Fatalf("variant %q: got count=%d percentage=%v", v.Data, v.TotalDevices, v.PercentageDevices)
		}
	}
}
