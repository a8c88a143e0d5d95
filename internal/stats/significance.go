package stats

import (
	"fmt"
	"math"
)

// Counts are the aggregate inputs for one variant.
type Counts struct {
	Impressions int64
	Conversions int64
}

// Result of the two-proportion z-test. PValue is nil when the test
// cannot run (no data or no variance); formatted values are strings so
// the API and dashboard show stable precision.
type Result struct {
	Significant bool    `json:"significant"`
	PValue      *string `json:"pValue"`
	ZScore      string  `json:"zScore,omitempty"`
	Message     string  `json:"message"`
}

// Significance runs a pooled two-proportion z-test at alpha 0.05.
// Symmetric in its arguments: swapping a and b changes nothing but
// which variant a caller would crown.
func Significance(a, b Counts) Result {
	n1, n2 := float64(a.Impressions), float64(b.Impressions)
	c1, c2 := float64(a.Conversions), float64(b.Conversions)

	if n1 == 0 || n2 == 0 {
		return Result{Significant: false, PValue: nil, Message: "Insufficient data"}
	}

	p1 := c1 / n1
	p2 := c2 / n2
	pooled := (c1 + c2) / (n1 + n2)

	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return Result{Significant: false, PValue: nil, Message: "No variance"}
	}

	z := math.Abs(p1-p2) / se
	p := 2 * (1 - normalCDF(z))

	significant := p < 0.05
	message := "Not yet significant"
	if significant {
		message = "Statistically significant!"
	}

	pValue := fmt.Sprintf("%.4f", p)
	return Result{
		Significant: significant,
		PValue:      &pValue,
		ZScore:      fmt.Sprintf("%.2f", z),
		Message:     message,
	}
}

// normalCDF approximates the standard normal CDF with the Zelen &
// Severo polynomial (Abramowitz & Stegun 26.2.17), accurate to about
// 7.5e-8. The constants are load-bearing: downstream expectations are
// bound to this exact approximation.
func normalCDF(x float64) float64 {
	t := 1 / (1 + 0.2316419*math.Abs(x))
	d := 0.3989423 * math.Exp(-x*x/2)
	p := d * t * (0.3193815 + t*(-0.3565638+t*(1.781478+t*(-1.821256+t*1.330274))))
	if x > 0 {
		return 1 - p
	}
	return p
}

// ConversionRate formats conversions/impressions as a percentage with
// two decimals, "0.00" when there are no impressions.
func ConversionRate(impressions, conversions int64) string {
	if impressions == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(conversions)/float64(impressions)*100)
}
