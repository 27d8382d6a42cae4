package profiling

// Summary holds the descriptive markers of one numeric sample. Variance and
// standard deviation use the n-1 denominator; they are NaN for a single
// observation.
type Summary struct {
	Count         int
	Mean          float64
	StdDev        float64
	Variance      float64
	Min           float64
	Max           float64
	FirstQuartile float64
	Median        float64
	ThirdQuartile float64
}

// IQR returns the interquartile range
func (s Summary) IQR() float64 {
	return s.ThirdQuartile - s.FirstQuartile
}

// CategoricalProfile holds the descriptive markers of one label column
type CategoricalProfile struct {
	Count  int
	Unique int
	Mode   interface{}
}

// Fit is an ordinary least squares line y = Intercept + Slope*x
type Fit struct {
	Intercept float64
	Slope     float64
	RSquared  float64
}
