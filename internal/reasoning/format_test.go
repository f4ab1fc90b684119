package reasoning

import (
	"reflect"
	"testing"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{210_000_000, "$210.0M"},
		{1_000_000, "$1.0M"},
		{1_250_000, "$1.25M"},
		{2_100_000, "$2.10M"},
		{850_000, "$850,000"},
		{999_999, "$999,999"},
		{0, "$0"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.value); got != tt.want {
			t.Errorf("FormatPrice(%.0f) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestPriceLabel(t *testing.T) {
	if got := PriceLabel(nil); got != "" {
		t.Errorf("PriceLabel(nil) = %q, want empty", got)
	}
	if got := PriceLabel(float64Ptr(0)); got != "" {
		t.Errorf("PriceLabel(0) = %q, want empty", got)
	}
	if got := PriceLabel(float64Ptr(3_000_000)); got != "$3.0M" {
		t.Errorf("PriceLabel(3M) = %q, want $3.0M", got)
	}
}

func TestBenefits(t *testing.T) {
	tests := []struct {
		name string
		prop model.PropertySummary
		want []string
	}{
		{
			name: "Rooms, area and location cap at three",
			prop: model.PropertySummary{
				Rooms:       intPtr(3),
				BuiltArea:   float64Ptr(95),
				Location:    "North",
				Description: "Bright living room and covered parking",
			},
			want: []string{"3 rooms", BenefitSpacious, BenefitWellLocated},
		},
		{
			name: "Total area is used when built area is missing",
			prop: model.PropertySummary{TotalArea: float64Ptr(120)},
			want: []string{BenefitSpacious},
		},
		{
			name: "Description fragments only",
			prop: model.PropertySummary{Description: "Lots of natural LIGHT, two-car garage"},
			want: []string{BenefitWellLit, BenefitParking},
		},
		{
			name: "Small area is not spacious",
			prop: model.PropertySummary{BuiltArea: float64Ptr(80), Location: "South"},
			want: []string{BenefitWellLocated},
		},
		{
			name: "Nothing known",
			prop: model.PropertySummary{},
			want: []string{BenefitAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Benefits(tt.prop); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Benefits() = %v, want %v", got, tt.want)
			}
		})
	}
}
