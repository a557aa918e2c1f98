package validators

import (
	"math"
	"testing"
	"time"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            8000,
		MaxPrincipal:    1e9,
		MaxRate:         200,
		MaxTermYears:    50,
		MaxExtraPayment: 1e8,
		MaxShares:       1e9,
	}
}

func TestValidators(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError bool
	}{
		{
			name:      "valid principal",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     1000000.0,
			wantError: false,
		},
		{
			name:      "invalid principal zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     0.0,
			wantError: true,
		},
		{
			name:      "invalid principal over cap",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     2e9,
			wantError: true,
		},
		{
			name:      "invalid principal NaN",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     math.NaN(),
			wantError: true,
		},
		{
			name:      "valid zero rate",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     0.0,
			wantError: false,
		},
		{
			name:      "invalid rate negative",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     -1.0,
			wantError: true,
		},
		{
			name:      "valid term",
			validator: func(cfg *config.Config, v interface{}) error { return CheckTermYears(cfg, v.(int)) },
			value:     30,
			wantError: false,
		},
		{
			name:      "invalid term zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckTermYears(cfg, v.(int)) },
			value:     0,
			wantError: true,
		},
		{
			name:      "invalid term over cap",
			validator: func(cfg *config.Config, v interface{}) error { return CheckTermYears(cfg, v.(int)) },
			value:     51,
			wantError: true,
		},
		{
			name:      "valid extra payment",
			validator: func(cfg *config.Config, v interface{}) error { return CheckExtraPayment(cfg, v.(float64)) },
			value:     5000.0,
			wantError: false,
		},
		{
			name:      "invalid extra payment negative",
			validator: func(cfg *config.Config, v interface{}) error { return CheckExtraPayment(cfg, v.(float64)) },
			value:     -10.0,
			wantError: true,
		},
		{
			name:      "invalid shares infinite",
			validator: func(cfg *config.Config, v interface{}) error { return CheckShares(cfg, "shares", v.(float64)) },
			value:     math.Inf(1),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestCheckNonNegative(t *testing.T) {
	if err := CheckNonNegative("days_left", 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckNonNegative("days_left", -1); err == nil {
		t.Error("expected error for negative value")
	}
	if err := CheckFinite("pnl", -500); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckStartDate(t *testing.T) {
	got, err := CheckStartDate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", got)
	}
	if _, err := CheckStartDate("15/01/2024"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestCheckLoan(t *testing.T) {
	cfg := testConfig()
	ok := calculations.LoanInputs{Principal: 3000000, AnnualInterestRate: 6, TermYears: 30}
	if err := CheckLoan(cfg, ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := ok
	bad.ExtraPayment = -1
	if err := CheckLoan(cfg, bad); err == nil {
		t.Error("expected error for negative extra payment")
	}
}

func TestCheckTradingBlock(t *testing.T) {
	cfg := testConfig()
	block := calculations.NewTradingBlock("s", calculations.DefaultPriceRanges, 1)
	if err := CheckTradingBlock(cfg, block); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	block.PriceRanges[3].Shares = -2
	if err := CheckTradingBlock(cfg, block); err == nil {
		t.Error("expected error for negative shares")
	}
}
