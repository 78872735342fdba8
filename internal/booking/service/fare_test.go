package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTicketPrice(t *testing.T) {
	cases := []struct {
		name       string
		base       string
		multiplier string
		discount   int
		want       string
	}{
		{"adult coupe", "100.00", "2.00", 0, "200.00"},
		{"child coupe", "100.00", "2.00", 50, "100.00"},
		{"infant free", "100.00", "2.00", 100, "0.00"},
		{"adult economy", "100.00", "1.00", 0, "100.00"},
		{"rounds half up", "33.33", "1.50", 0, "50.00"},
		{"child odd price", "99.99", "1.00", 50, "50.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := decimal.RequireFromString(tc.base)
			mult := decimal.RequireFromString(tc.multiplier)
			got := TicketPrice(base, mult, tc.discount)
			if got.StringFixed(2) != tc.want {
				t.Errorf("TicketPrice(%s, %s, %d%%) = %s, want %s",
					tc.base, tc.multiplier, tc.discount, got.StringFixed(2), tc.want)
			}
		})
	}
}

func TestTicketPriceAlwaysTwoDecimals(t *testing.T) {
	got := TicketPrice(decimal.RequireFromString("10"), decimal.RequireFromString("1.5"), 0)
	if got.Exponent() < -2 {
		t.Errorf("price %s has more than two decimal places", got.String())
	}
	if got.StringFixed(2) != "15.00" {
		t.Errorf("got %s, want 15.00", got.StringFixed(2))
	}
}
