package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/model"
)

func fv(v float64) *float64 { return &v }

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	// idx = 0.75 interpolates between 10 and 20.
	assert.InDelta(t, 17.5, Percentile(values, 25), 1e-9)
	assert.InDelta(t, 25.0, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 32.5, Percentile(values, 75), 1e-9)
	assert.InDelta(t, 37.0, Percentile(values, 90), 1e-9)
	assert.InDelta(t, 10.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 40.0, Percentile(values, 100), 1e-9)
}

func TestPercentileEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 42.0, Percentile([]float64{42}, 90))

	// Integral index returns the element itself.
	assert.Equal(t, 20.0, Percentile([]float64{10, 20, 30}, 50))
}

func TestByCurrency(t *testing.T) {
	items := []model.Item{
		{ID: "a", Valuation: fv(100), Currency: "EUR"},
		{ID: "b", Valuation: fv(300), Currency: "EUR"},
		{ID: "c", Valuation: fv(50), Currency: "USD"},
		{ID: "d", Valuation: fv(0), Currency: "EUR"},   // zero: excluded
		{ID: "e", Currency: "EUR"},                     // missing: excluded
		{ID: "f", Valuation: fv(-10), Currency: "EUR"}, // negative: excluded
		{ID: "g", Valuation: fv(999), Currency: "EUR", Deleted: true},
	}

	got := ByCurrency(items)

	require.Len(t, got, 2)

	eur := got["EUR"]
	assert.Equal(t, 2, eur.Count)
	assert.Equal(t, 100.0, eur.Min)
	assert.Equal(t, 300.0, eur.Max)
	assert.InDelta(t, 200.0, eur.Mean, 1e-9)
	assert.InDelta(t, 200.0, eur.Median, 1e-9)
	assert.InDelta(t, 400.0, eur.Total, 1e-9)
	// Population std-dev over {100, 300}: sqrt(((100-200)^2+(300-200)^2)/2).
	assert.InDelta(t, 100.0, eur.StdDev, 1e-9)

	usd := got["USD"]
	assert.Equal(t, 1, usd.Count)
	assert.Equal(t, 50.0, usd.Min)
	assert.Equal(t, 50.0, usd.Max)
	assert.Equal(t, 50.0, usd.Median)
	assert.Equal(t, 0.0, usd.StdDev)
}

func TestByCurrencyEmptyInput(t *testing.T) {
	assert.Empty(t, ByCurrency(nil))
	assert.Empty(t, ByCurrency([]model.Item{{ID: "a"}}))
}

func TestByCurrencyQuartiles(t *testing.T) {
	items := []model.Item{
		{Valuation: fv(10), Currency: "EUR"},
		{Valuation: fv(20), Currency: "EUR"},
		{Valuation: fv(30), Currency: "EUR"},
		{Valuation: fv(40), Currency: "EUR"},
	}

	eur := ByCurrency(items)["EUR"]
	assert.InDelta(t, 17.5, eur.P25, 1e-9)
	assert.InDelta(t, 32.5, eur.P75, 1e-9)
	assert.InDelta(t, 37.0, eur.P90, 1e-9)
}
