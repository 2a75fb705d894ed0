package enrich

import (
	"math"
	"strings"

	"github.com/wattgod/training-plans-component/internal/model"
)

// CategoryRecreational is assigned below the lowest racing threshold.
const CategoryRecreational = "Recreational"

type threshold struct {
	minWattsPerKg float64
	category      string
}

// Thresholds are ordered from the highest minimum down; the first one met wins.
var (
	maleCategories = []threshold{
		{5.0, "Pro/Cat1"},
		{4.2, "Cat2"},
		{3.7, "Cat3"},
		{3.2, "Cat4"},
		{2.5, "Cat5"},
	}
	femaleCategories = []threshold{
		{4.3, "Pro/Cat1"},
		{3.6, "Cat2"},
		{3.2, "Cat3"},
		{2.8, "Cat4"},
		{2.2, "Cat5"},
	}
)

// Power computes watts per kilogram from FTP and body weight in pounds and
// the matching racing category. The kilogram figure is not rounded before
// dividing.
func Power(ftp, weightLbs float64, sex string) *model.PowerMetrics {
	if ftp <= 0 || weightLbs <= 0 {
		return nil
	}
	wpkg := ftp / (weightLbs * kgPerLb)
	return &model.PowerMetrics{
		WattsPerKg: math.Round(wpkg*100) / 100,
		Category:   Category(wpkg, sex),
	}
}

// Category returns the racing category for a watts-per-kilogram figure.
// Any sex other than "female" is scored on the male table.
func Category(wpkg float64, sex string) string {
	// TODO: confirm whether answers other than male/female should keep
	// falling back to the male table.
	table := maleCategories
	if strings.EqualFold(strings.TrimSpace(sex), "female") {
		table = femaleCategories
	}
	for _, t := range table {
		if wpkg >= t.minWattsPerKg {
			return t.category
		}
	}
	return CategoryRecreational
}
