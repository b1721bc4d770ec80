package rooms

// Layout grid conversion. The layout editor stores room geometry in grid
// units; one grid unit is 0.5 m.
const metersPerGridUnit = 0.5

// GridToMeters converts layout grid units to meters.
func GridToMeters(units float64) float64 {
	return units * metersPerGridUnit
}

// MetersToGrid converts meters to layout grid units.
func MetersToGrid(meters float64) float64 {
	return meters / metersPerGridUnit
}

// GridAreaToSquareMeters converts a grid-unit area to square meters.
func GridAreaToSquareMeters(gridArea float64) float64 {
	return gridArea * metersPerGridUnit * metersPerGridUnit
}

const sqftPerSqm = 10.7639

// SquareMetersToSquareFeet converts floor area for layouts imported from
// imperial-unit sources.
func SquareMetersToSquareFeet(sqm float64) float64 {
	return sqm * sqftPerSqm
}

// SquareFeetToSquareMeters converts floor area to the metric storage unit.
func SquareFeetToSquareMeters(sqft float64) float64 {
	return sqft / sqftPerSqm
}

// HoursToMinutes converts operating hours to minutes for the staffing
// formula.
func HoursToMinutes(hours float64) float64 {
	return hours * 60
}
