package service

import (
	"math"

	"github.com/marketday/fleamarket-api/internal/domain/entity"
)

// LinearProvision charges a flat percentage of the set's total price,
// rounded to the nearest minor unit.
func LinearProvision(ratePercent float64) ProvisionFunc {
	return func(items []entity.Item) *int64 {
		var sum int64
		for _, item := range items {
			sum += item.Price
		}
		due := int64(math.Round(float64(sum) * ratePercent / 100))
		return &due
	}
}

// StepProvision charges a fixed fee per complete group of stepSize items.
// Quantization makes partial compensations drift; the reconciliation fix
// line absorbs the difference.
func StepProvision(stepSize int, stepFee int64) ProvisionFunc {
	return func(items []entity.Item) *int64 {
		if stepSize <= 0 {
			return nil
		}
		due := int64(len(items)/stepSize) * stepFee
		return &due
	}
}
