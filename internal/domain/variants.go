package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

// ExperimentName is a trimmed, non-empty experiment name.
type ExperimentName string

func NewExperimentName(raw string) (ExperimentName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrExperimentNameEmpty
	}
	return ExperimentName(trimmed), nil
}

func (n ExperimentName) String() string { return string(n) }

// VariantDistribution is a variant weight in percent, in (0, 100].
type VariantDistribution float64

func NewVariantDistribution(value float64) (VariantDistribution, error) {
	if value <= 0.0 || value > 100.0 {
		return 0, ErrVariantDistributionInvalid
	}
	return VariantDistribution(value), nil
}

func (d VariantDistribution) Value() float64 { return float64(d) }

// VariantData is the opaque payload returned to clients for a variant,
// e.g. a label or a URL.
type VariantData string

func NewVariantData(raw string) (VariantData, error) {
	if raw == "" {
		return "", ErrVariantDataEmpty
	}
	return VariantData(raw), nil
}

func (d VariantData) String() string { return string(d) }

// Variant is one arm of an experiment.
type Variant struct {
	Distribution VariantDistribution
	Data         VariantData
}

func NewVariant(distribution VariantDistribution, data VariantData) Variant {
	return Variant{Distribution: distribution, Data: data}
}

// Allowed deviation for the sum of distributions, in percentage points.
// Weights like three times 33.3 sum to 99.9 and must still validate.
const distributionSumEpsilon = 0.2

// ExperimentVariants is a non-empty, ordered list of variants whose
// distributions sum to 100 within distributionSumEpsilon. The order is
// load-bearing: it defines the bucket boundaries used by AssignVariant.
type ExperimentVariants struct {
	variants []Variant
}

func NewExperimentVariants(variants []Variant) (ExperimentVariants, error) {
	if len(variants) == 0 {
		return ExperimentVariants{}, ErrDistributionSum
	}
	sum := 0.0
	for _, v := range variants {
		sum += v.Distribution.Value()
	}
	if math.Abs(sum-100.0) > distributionSumEpsilon {
		return ExperimentVariants{}, ErrDistributionSum
	}
	out := make([]Variant, len(variants))
	copy(out, variants)
	return ExperimentVariants{variants: out}, nil
}

func (v ExperimentVariants) Variants() []Variant { return v.variants }

// AssignVariant deterministically maps an identity string to one of the
// configured variants. The same identity and the same variant order always
// produce the same result, across processes and over time.
func (v ExperimentVariants) AssignVariant(identity string) VariantData {
	return v.pick(hashScore(identity))
}

// hashScore maps an identity to a uniformly distributed score in [0, 100).
func hashScore(identity string) float64 {
	digest := sha256.Sum256([]byte(identity))
	h := binary.BigEndian.Uint64(digest[:8])
	return float64(h) / float64(math.MaxUint64) * 100.0
}

// pick walks the variants in insertion order and returns the first whose
// cumulative weight exceeds the score. A score landing exactly on a boundary
// falls into the next variant. The last variant absorbs any rounding tail.
func (v ExperimentVariants) pick(score float64) VariantData {
	cumulative := 0.0
	for _, variant := range v.variants {
		cumulative += variant.Distribution.Value()
		if score < cumulative {
			return variant.Data
		}
	}
	return v.variants[len(v.variants)-1].Data
}
