package billing

// FitLine fits y = intercept + slope*x by ordinary least squares over
// values indexed 0..n-1.
func FitLine(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// AnnualProjection sums the fitted line's next twelve points. With
// fewer than two months of history there is no trend to extend, so the
// requested month's total is annualized instead. Negative forecast
// points clamp to zero.
func AnnualProjection(totals []float64, monthTotal float64) float64 {
	if len(totals) < 2 {
		return monthTotal * 12
	}
	slope, intercept := FitLine(totals)
	sum := 0.0
	for i := len(totals); i < len(totals)+12; i++ {
		y := intercept + slope*float64(i)
		if y < 0 {
			y = 0
		}
		sum += y
	}
	return sum
}
