package domain

// UnitCategory identifies a conversion family. Units never cross categories.
type UnitCategory string

const (
	CategoryLength      UnitCategory = "length"
	CategoryTemperature UnitCategory = "temperature"
	CategoryBMI         UnitCategory = "bmi"
	CategoryCurrency    UnitCategory = "currency"
)

// Categories lists every category in display order.
var Categories = []UnitCategory{CategoryLength, CategoryTemperature, CategoryBMI, CategoryCurrency}

func (c UnitCategory) String() string { return string(c) }
