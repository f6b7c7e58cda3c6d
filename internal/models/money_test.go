package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMoneyFromDecimalRoundsHalfUp(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "7.575", want: "7.58"},
		{input: "29.90", want: "29.90"},
		{input: "0.004", want: "0.00"},
		{input: "199", want: "199.00"},
	}
	for _, tc := range cases {
		got := NewMoneyFromDecimal(decimal.RequireFromString(tc.input)).String()
		if got != tc.want {
			t.Fatalf("%s want %s got %s", tc.input, tc.want, got)
		}
	}
}

func TestMoneyMarshalJSONFixedTwoDecimals(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.RequireFromString("14.9"))
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"14.90"` {
		t.Fatalf(`json want "14.90" got %s`, string(b))
	}
}
