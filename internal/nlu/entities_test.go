package nlu

import (
	"testing"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantType  model.PropertyType
		wantRooms *int
		wantMin   *float64
		wantMax   *float64
		wantLoc   string
	}{
		{
			name:      "Room count and max budget",
			text:      "looking for a 3-room house under 200",
			wantType:  model.PropertyTypeSale,
			wantRooms: intPtr(3),
			wantMax:   float64Ptr(200_000_000),
		},
		{
			name:     "Location after preposition",
			text:     "do you have apartments in the north",
			wantType: model.PropertyTypeSale,
			wantLoc:  "North",
		},
		{
			name:     "Location capture stops at filler words",
			text:     "Apartments in Cali for less than 300",
			wantType: model.PropertyTypeSale,
			wantMax:  float64Ptr(300_000_000),
			wantLoc:  "Cali",
		},
		{
			name:    "Whitelisted place without preposition",
			text:    "something downtown please",
			wantLoc: "Downtown",
		},
		{
			name:     "Accents are folded",
			text:     "Casa en Bogotá, house near Medellín",
			wantType: model.PropertyTypeSale,
			wantLoc:  "Medellin",
		},
		{
			name:     "Rent beats sale",
			text:     "a house for rent up to 1.500.000",
			wantType: model.PropertyTypeRent,
			wantMax:  float64Ptr(1_500_000),
		},
		{
			name:     "Lot beats sale",
			text:     "I want to buy a lot",
			wantType: model.PropertyTypeLot,
		},
		{
			name:     "Word stem fallback",
			text:     "we rented before?",
			wantType: model.PropertyTypeRent,
		},
		{
			name:     "A lot of is a quantity",
			text:     "a house with a lot of light",
			wantType: model.PropertyTypeSale,
		},
		{
			name:      "Written room count",
			text:      "two bedroom apartment",
			wantType:  model.PropertyTypeSale,
			wantRooms: intPtr(2),
		},
		{
			name:     "Room count out of range is ignored and not a budget",
			text:     "a building with 15 rooms",
			wantType: "",
		},
		{
			name:    "Amount without max framing seeds the minimum",
			text:    "from 150",
			wantMin: float64Ptr(150_000_000),
		},
		{
			name:    "Decimal millions",
			text:    "up to 1.5 million",
			wantMin: float64Ptr(1_500_000),
			wantMax: float64Ptr(1_500_000),
		},
		{
			name:    "Empty text",
			text:    "   ",
			wantLoc: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)

			if got.PropertyType != tt.wantType {
				t.Errorf("PropertyType = %q, want %q", got.PropertyType, tt.wantType)
			}
			if !equalInt(got.RoomCount, tt.wantRooms) {
				t.Errorf("RoomCount = %v, want %v", deref(got.RoomCount), deref(tt.wantRooms))
			}
			if !equalFloat(got.BudgetMin, tt.wantMin) {
				t.Errorf("BudgetMin = %v, want %v", deref(got.BudgetMin), deref(tt.wantMin))
			}
			if !equalFloat(got.BudgetMax, tt.wantMax) {
				t.Errorf("BudgetMax = %v, want %v", deref(got.BudgetMax), deref(tt.wantMax))
			}
			if got.Location != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got.Location, tt.wantLoc)
			}
		})
	}
}

func TestExtractRoomRange(t *testing.T) {
	for n := 0; n <= 12; n++ {
		got := Extract(itoa(n) + " rooms")
		inRange := n >= 1 && n <= 10
		if inRange && (got.RoomCount == nil || *got.RoomCount != n) {
			t.Errorf("%d rooms: RoomCount = %v, want %d", n, deref(got.RoomCount), n)
		}
		if !inRange && got.RoomCount != nil {
			t.Errorf("%d rooms: RoomCount = %d, want nil", n, *got.RoomCount)
		}
	}
}

// The two budget passes are kept as they are: the first pass wins and the
// million scan only fills empty slots, so one amount can become both bounds.
func TestExtractBudgetPassPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMin float64
		wantMax float64
	}{
		{
			name:    "Single amount with million fills both bounds",
			text:    "house 300 million",
			wantMin: 300_000_000,
			wantMax: 300_000_000,
		},
		{
			name:    "Range without max framing takes the first number twice",
			text:    "between 150 and 250 million",
			wantMin: 150_000_000,
			wantMax: 150_000_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if got.BudgetMin == nil || *got.BudgetMin != tt.wantMin {
				t.Errorf("BudgetMin = %v, want %v", deref(got.BudgetMin), tt.wantMin)
			}
			if got.BudgetMax == nil || *got.BudgetMax != tt.wantMax {
				t.Errorf("BudgetMax = %v, want %v", deref(got.BudgetMax), tt.wantMax)
			}
		})
	}
}

func TestExtractMaxFramingLastAmountWins(t *testing.T) {
	got := Extract("3 bedrooms, 2 bathrooms, max 400")
	if got.RoomCount == nil || *got.RoomCount != 3 {
		t.Fatalf("RoomCount = %v, want 3", deref(got.RoomCount))
	}
	if got.BudgetMax == nil || *got.BudgetMax != 400_000_000 {
		t.Errorf("BudgetMax = %v, want 400000000", deref(got.BudgetMax))
	}
	if got.BudgetMin != nil {
		t.Errorf("BudgetMin = %v, want nil", *got.BudgetMin)
	}
}

// A number attached to a room noun or an area unit is never read as a
// budget, even when it is the first number in the text.
func TestExtractSkipsNonPriceNumbers(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantRooms *int
		wantMin   *float64
		wantMax   *float64
	}{
		{
			name:      "Room count before a million amount",
			text:      "3 rooms 300 million",
			wantRooms: intPtr(3),
			wantMin:   float64Ptr(300_000_000),
			wantMax:   float64Ptr(300_000_000),
		},
		{
			name: "Area in square meters",
			text: "apartment of 120 m2",
		},
		{
			name: "Area with superscript unit",
			text: "apartment of 120 m²",
		},
		{
			name:    "Area next to a price",
			text:    "house of 90 square meters for 250 million",
			wantMin: float64Ptr(250_000_000),
			wantMax: float64Ptr(250_000_000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !equalInt(got.RoomCount, tt.wantRooms) {
				t.Errorf("RoomCount = %v, want %v", deref(got.RoomCount), deref(tt.wantRooms))
			}
			if !equalFloat(got.BudgetMin, tt.wantMin) {
				t.Errorf("BudgetMin = %v, want %v", deref(got.BudgetMin), deref(tt.wantMin))
			}
			if !equalFloat(got.BudgetMax, tt.wantMax) {
				t.Errorf("BudgetMax = %v, want %v", deref(got.BudgetMax), deref(tt.wantMax))
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Hola   MUNDO ": "hola mundo",
		"Medellín":        "medellin",
		"ÁÉÍÓÚ ñ":         "aeiou n",
		"":                "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

// Helper functions
func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
