package domain

import "fmt"

// BMICategory is the weight band derived from a BMI value.
type BMICategory string

const (
	Underweight BMICategory = "Underweight"
	Normal      BMICategory = "Normal"
	Overweight  BMICategory = "Overweight"
	Obese       BMICategory = "Obese"
)

// Band boundaries; each lower bound is inclusive.
const (
	normalMinBMI     = 18.5
	overweightMinBMI = 25.0
	obeseMinBMI      = 30.0
)

// Progress bar range: BMI 10 maps to 0 and BMI 40 maps to 1.
const (
	progressFloorBMI = 10.0
	progressSpanBMI  = 30.0
)

func (c BMICategory) String() string { return string(c) }

// Label returns the text shown next to the BMI value.
func (c BMICategory) Label() string {
	switch c {
	case Normal:
		return "Normal Weight"
	case Obese:
		return "Obesity"
	default:
		return string(c)
	}
}

// Color returns the hex color used for the category label and progress bar.
func (c BMICategory) Color() string {
	switch c {
	case Underweight:
		return "#3B8ED0"
	case Normal:
		return "#2CC985"
	case Overweight:
		return "#E1A337"
	default:
		return "#C42B1C"
	}
}

// BMIResult is a computed body mass index with its band and display progress.
type BMIResult struct {
	BMI      float64
	Category BMICategory
	Progress float64 // 0.0–1.0
}

// ClassifyBMI computes BMI from height in meters and weight in kilograms.
// Both inputs must be strictly positive.
func ClassifyBMI(heightM, weightKg float64) (BMIResult, error) {
	if heightM <= 0 || weightKg <= 0 {
		return BMIResult{}, fmt.Errorf("height %g m, weight %g kg must be positive: %w", heightM, weightKg, ErrDomainPrecondition)
	}
	bmi := weightKg / (heightM * heightM)
	return BMIResult{
		BMI:      bmi,
		Category: bmiCategory(bmi),
		Progress: bmiProgress(bmi),
	}, nil
}

func bmiCategory(bmi float64) BMICategory {
	switch {
	case bmi < normalMinBMI:
		return Underweight
	case bmi < overweightMinBMI:
		return Normal
	case bmi < obeseMinBMI:
		return Overweight
	default:
		return Obese
	}
}

func bmiProgress(bmi float64) float64 {
	p := (bmi - progressFloorBMI) / progressSpanBMI
	return min(max(p, 0), 1)
}
