// Package nutrition holds the aggregation engine: BMR estimation and
// nutrient summation over meal-log entries.
//
// Everything here is a pure function of its arguments. Catalog data comes in
// through the Lookuper interface so callers decide where it is loaded from.
package nutrition

import (
	"math"
	"strings"

	"github.com/sakif/nutrition-tracker/internal/model"
)

// Lookuper resolves a food item key to its nutrient vector. Unknown keys
// must resolve to the zero vector. model.Catalog implements it.
type Lookuper interface {
	Lookup(key string) model.NutrientVector
}

// Harris-Benedict coefficients.
const (
	maleBase   = 88.362
	maleWeight = 13.397
	maleHeight = 4.799
	maleAge    = 5.677

	otherBase   = 447.593
	otherWeight = 9.247
	otherHeight = 3.098
	otherAge    = 4.330
)

// BMR is an estimated basal metabolic rate in kcal/day.
type BMR float64

// Value returns the unrounded estimate.
func (b BMR) Value() float64 { return float64(b) }

// Rounded returns the estimate rounded to the nearest whole kcal.
func (b BMR) Rounded() int { return int(math.Round(float64(b))) }

// EstimateBMR applies the Harris-Benedict equation.
//
// Only a case-insensitive "male" selects the male coefficients; every other
// gender value, including the empty string, uses the second branch.
func EstimateBMR(gender string, weightKg, heightCm float64, ageYears int) BMR {
	age := float64(ageYears)
	if strings.EqualFold(gender, "male") {
		return BMR(maleBase + maleWeight*weightKg + maleHeight*heightCm - maleAge*age)
	}
	return BMR(otherBase + otherWeight*weightKg + otherHeight*heightCm - otherAge*age)
}

// SumNutrients adds up the nutrients of every item. Duplicate keys are
// counted once per occurrence and unknown keys add nothing.
func SumNutrients(items []string, catalog Lookuper) model.NutrientVector {
	var total model.NutrientVector
	for _, key := range items {
		total = total.Add(catalog.Lookup(key))
	}
	return total
}

// AggregateEntries sums the nutrients of all items across entries, starting
// from the zero vector.
func AggregateEntries(entries []model.MealLogEntry, catalog Lookuper) model.NutrientVector {
	var total model.NutrientVector
	for _, e := range entries {
		total = total.Add(SumNutrients(e.Items, catalog))
	}
	return total
}
