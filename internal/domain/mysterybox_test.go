package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCoordinates_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinates
		wantErr bool
	}{
		{"jakarta", Coordinates{-6.2, 106.816666}, false},
		{"poles and antimeridian", Coordinates{90, -180}, false},
		{"latitude too high", Coordinates{90.1, 0}, true},
		{"latitude too low", Coordinates{-91, 0}, true},
		{"longitude too high", Coordinates{0, 180.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMysteryBox_Validate(t *testing.T) {
	assert.NoError(t, (&MysteryBox{}).Validate())
	assert.NoError(t, (&MysteryBox{Price: ptr(int64(0)), Restaurant: &Restaurant{Distance: ptr(0.0)}}).Validate())
	assert.ErrorIs(t, (&MysteryBox{Price: ptr(int64(-1))}).Validate(), ErrNegativePrice)
	assert.ErrorIs(t, (&MysteryBox{Restaurant: &Restaurant{Distance: ptr(-0.5)}}).Validate(), ErrNegativeDistance)
}

func TestDistanceMeters(t *testing.T) {
	monas := Coordinates{Latitude: -6.175392, Longitude: 106.827153}

	assert.InDelta(t, 0, DistanceMeters(monas, monas), 1e-9)

	// One degree of latitude is ~111.2 km everywhere.
	north := Coordinates{Latitude: monas.Latitude + 1, Longitude: monas.Longitude}
	assert.InDelta(t, 111195, DistanceMeters(monas, north), 50)

	// Symmetric.
	bandung := Coordinates{Latitude: -6.917464, Longitude: 107.619123}
	assert.InDelta(t, DistanceMeters(monas, bandung), DistanceMeters(bandung, monas), 1e-6)
	assert.InDelta(t, 120262, DistanceMeters(monas, bandung), 5)
}

func TestWithDistanceFrom_CopiesRestaurant(t *testing.T) {
	orig := &MysteryBox{
		ID:   "box-1",
		Name: "Roti Sore",
		Restaurant: &Restaurant{
			ID:        "resto-1",
			Name:      "Bakery Senja",
			Latitude:  -6.2,
			Longitude: 106.8,
		},
	}

	got := orig.WithDistanceFrom(Coordinates{Latitude: -6.2, Longitude: 106.8})
	require.NotNil(t, got.Restaurant.Distance)
	assert.InDelta(t, 0, *got.Restaurant.Distance, 1e-6)
	assert.Nil(t, orig.Restaurant.Distance, "original must not be mutated")
	assert.NotSame(t, orig.Restaurant, got.Restaurant)
}

func TestWithDistanceFrom_NoRestaurant(t *testing.T) {
	orig := &MysteryBox{ID: "box-2"}
	got := orig.WithDistanceFrom(Coordinates{})
	assert.Nil(t, got.Restaurant)
	assert.NotSame(t, orig, got)
}
