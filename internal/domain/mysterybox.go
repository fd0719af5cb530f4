package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrNegativeDistance   = errors.New("distance must not be negative")
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Validate checks that the coordinates lie on the globe.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinates, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinates, c.Longitude)
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Restaurant is the seller of a mystery box. Distance is in meters from the
// requesting device and is only known once a location has been supplied.
type Restaurant struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Rating    *float64 `json:"rating,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lng"`
}

// Location returns the restaurant's position.
func (r *Restaurant) Location() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Product is one food item bundled into a box.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price *int64 `json:"price,omitempty"`
}

// MysteryBox is a discounted bundle of surplus food offered by a restaurant.
// Price is in whole rupiah. A nil Products slice means the backend did not
// send the list, which is distinct from an empty list.
type MysteryBox struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Price      *int64      `json:"price,omitempty"`
	Products   []Product   `json:"products"`
	Restaurant *Restaurant `json:"restaurant,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Validate enforces that price and distance, when present, are non-negative.
func (m *MysteryBox) Validate() error {
	if m.Price != nil && *m.Price < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePrice, *m.Price)
	}
	if m.Restaurant != nil && m.Restaurant.Distance != nil && *m.Restaurant.Distance < 0 {
		return fmt.Errorf("%w: %f", ErrNegativeDistance, *m.Restaurant.Distance)
	}
	return nil
}

// WithDistanceFrom returns a copy of the box whose restaurant distance is
// measured from loc. The receiver is not modified, so cached records can be
// shared between requests.
func (m *MysteryBox) WithDistanceFrom(loc Coordinates) *MysteryBox {
	out := *m
	if m.Restaurant != nil {
		r := *m.Restaurant
		d := DistanceMeters(loc, r.Location())
		r.Distance = &d
		out.Restaurant = &r
	}
	return &out
}
