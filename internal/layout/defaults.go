package layout

import (
	"math"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// Defaults used whenever an override or snapshot value is missing or invalid.
const (
	DefaultRows             = 25
	DefaultCols             = 25
	DefaultZoom             = 1.0
	DefaultShowNumbers      = true
	DefaultAutoNumber       = true
	DefaultContinuousPaint  = true
	DefaultLegendVisible    = true
	DefaultGridLinesVisible = false
	DefaultPriceSeat        = 20000
	DefaultPriceTable       = 80000
	DefaultHistoryLimit     = 50

	DefaultTool = model.ToolSeat
	DefaultMode = model.ModePaint
)

// Bounds for the clamped numeric fields.
const (
	MinZoom         = 0.5
	MaxZoom         = 2.0
	MinHistoryLimit = 10
	MaxHistoryLimit = 200
)

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// sanitizeZoom clamps z into the zoom range, using fallback when z is not a
// usable number.
func sanitizeZoom(z, fallback float64) float64 {
	if !finite(z) || z <= 0 {
		z = fallback
	}
	return clampFloat(z, MinZoom, MaxZoom)
}

// sanitizeBasePrice truncates to an integer amount and floors at zero.
func sanitizeBasePrice(p, fallback float64) float64 {
	if !finite(p) {
		p = fallback
	}
	return math.Max(0, math.Trunc(p))
}

func sanitizeSeatCounter(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func sanitizeHistoryLimit(n int) int {
	return clampInt(n, MinHistoryLimit, MaxHistoryLimit)
}
