package domain

import "github.com/google/uuid"

// StatisticsVariant is the participation count and share for one variant.
type StatisticsVariant struct {
	Data              VariantData
	TotalDevices      int
	PercentageDevices float64
}

// StatisticsExperiment summarizes variant distribution for one experiment
// across the device population. Derived per query, never stored.
type StatisticsExperiment struct {
	ID           uuid.UUID
	Name         ExperimentName
	TotalDevices int
	Variants     []StatisticsVariant
}

// NewStatisticsExperiment tabulates participation for one experiment.
// A device counts once its CreatedAt is at or after the experiment's
// CreatedAt; finished experiments keep reporting. The comparison is kept
// separate from Experiment.AcceptsDevice, which only governs live
// assignment.
//
// Every eligible device is replayed through AssignVariant, so a device's
// counted variant always matches what live assignment shows it. With zero
// eligible devices every percentage is reported as 0.
func NewStatisticsExperiment(exp Experiment, devices []Device) StatisticsExperiment {
	var eligible []Device
	for _, d := range devices {
		if !d.CreatedAt.Before(exp.CreatedAt) {
			eligible = append(eligible, d)
		}
	}

	counts := make(map[VariantData]int, len(exp.Variants.Variants()))
	for _, d := range eligible {
		counts[exp.Variants.AssignVariant(d.ID.String())]++
	}

	total := len(eligible)
	variants := make([]StatisticsVariant, 0, len(exp.Variants.Variants()))
	for _, v := range exp.Variants.Variants() {
		matched := counts[v.Data]
		percentage := 0.0
		if total > 0 {
			percentage = float64(matched) / float64(total) * 100.0
		}
		variants = append(variants, StatisticsVariant{
			Data:              v.Data,
			TotalDevices:      matched,
			PercentageDevices: percentage,
		})
	}

	return StatisticsExperiment{
		ID:           exp.ID,
		Name:         exp.Name,
		TotalDevices: total,
		Variants:     variants,
	}
}
