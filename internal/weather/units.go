package weather

import "fmt"

const cmPerInch = 2.54

// CmToIn converts centimeters to inches.
func CmToIn(cm float64) float64 {
	return cm / cmPerInch
}

// InToCm converts inches to centimeters.
func InToCm(in float64) float64 {
	return in * cmPerInch
}

// FormatInches renders an inch amount with one decimal and a trailing ".
func FormatInches(in float64) string {
	return fmt.Sprintf("%.1f\"", in)
}
