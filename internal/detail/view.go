package detail

import (
	"fmt"
	"strings"

	"github.com/Dffarhn/recyle-food-mobile/internal/format"
)

const (
	ActionPay  = "Bayar"
	ActionCart = "Keranjang"
)

// View holds the display strings for one state of the detail screen.
type View struct {
	Title       string   `json:"title"`
	Loading     bool     `json:"loading"`
	Error       string   `json:"error,omitempty"`
	Restaurant  string   `json:"restaurant,omitempty"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Packages    string   `json:"packages,omitempty"`
	Distance    string   `json:"distance,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	Actions     []string `json:"actions"`
}

// Render maps a state to display strings. Idle renders only the title and
// actions.
func Render(s State, loc format.Locale) View {
	v := View{
		Title:   "Detail",
		Actions: []string{ActionPay, ActionCart},
	}

	switch s.Status {
	case StatusLoading:
		v.Loading = true
	case StatusError:
		v.Error = "Error: " + s.Message
	case StatusSuccess:
		box := s.Box
		if box == nil {
			break
		}
		v.Price = format.Price(box.Price, loc)
		v.Description = "Anda bisa mendapatkan paket mystery box " + box.Name
		if n, ok := format.PackageCount(box.Products); ok {
			v.Packages = fmt.Sprintf("%d paket makanan", n)
		} else {
			v.Packages = "null paket makanan"
		}
		v.Distance = format.NotAvailable
		v.Rating = format.NotAvailable
		if r := box.Restaurant; r != nil {
			v.Restaurant = r.Name
			v.Distance = format.Distance(r.Distance)
			v.Rating = format.Rating(r.Rating)
		}
	}
	return v
}

// Lines returns the non-empty fields in screen order.
func (v View) Lines() []string {
	lines := []string{v.Title}
	if v.Loading {
		lines = append(lines, "Loading...")
	}
	for _, s := range []string{v.Error, v.Restaurant, v.Price, v.Description, v.Packages} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if v.Distance != "" || v.Rating != "" {
		lines = append(lines, fmt.Sprintf("Jarak: %s  Rating: %s", v.Distance, v.Rating))
	}
	lines = append(lines, "["+strings.Join(v.Actions, "] [")+"]")
	return lines
}

func (v View) String() string {
	return strings.Join(v.Lines(), "\n")
}
