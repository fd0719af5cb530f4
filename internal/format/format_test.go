package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestDistance(t *testing.T) {
	tests := []struct {
		name   string
		meters *float64
		want   string
	}{
		{"absent", nil, "N/A"},
		{"zero", f64(0), "0 m"},
		{"meters", f64(500), "500 m"},
		{"truncated meters", f64(999.9), "999 m"},
		{"just under", f64(999), "999 m"},
		{"boundary", f64(1000), "1.0 km"},
		{"one and a half", f64(1500), "1.5 km"},
		{"half up", f64(1250), "1.3 km"},
		{"binary tie", f64(1150), "1.2 km"},
		{"round down", f64(1249), "1.2 km"},
		{"carry", f64(9960), "10.0 km"},
		{"far", f64(120261.77), "120.3 km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.meters))
		})
	}
}

func TestCurrency_Indonesia(t *testing.T) {
	assert.Equal(t, "Rp25.000", Currency(25000, Indonesia))
	assert.Equal(t, "Rp0", Currency(0, Indonesia))
	assert.Equal(t, "Rp1.250.000", Currency(1250000, Indonesia))
	assert.Equal(t, "Rp15.001", Currency(15000.6, Indonesia))
	assert.Equal(t, "-Rp5.000", Currency(-5000, Indonesia))
}

func TestCurrency_UnitedStates(t *testing.T) {
	assert.Equal(t, "$1,234.50", Currency(1234.5, UnitedStates))
	assert.Equal(t, "$25,000.00", Currency(25000, UnitedStates))
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "", Price(nil, Indonesia))
	assert.Equal(t, "Rp25.000", Price(i64(25000), Indonesia))
}

func TestLocaleFor(t *testing.T) {
	assert.Equal(t, Indonesia, LocaleFor("id-ID"))
	assert.Equal(t, UnitedStates, LocaleFor("en-US"))
	assert.Equal(t, Indonesia, LocaleFor("not a tag"))
}

func TestPackageCount(t *testing.T) {
	tests := []struct {
		name     string
		products []domain.Product
		want     int
		ok       bool
	}{
		{"absent", nil, 0, false},
		{"empty", []domain.Product{}, -1, true},
		{"single", []domain.Product{{ID: "p1"}}, 0, true},
		{"three", []domain.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := PackageCount(tt.products)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRating(t *testing.T) {
	assert.Equal(t, "N/A", Rating(nil))
	assert.Equal(t, "4.0", Rating(f64(4)))
	assert.Equal(t, "4.5", Rating(f64(4.5)))
	assert.Equal(t, "4.75", Rating(f64(4.75)))
}
