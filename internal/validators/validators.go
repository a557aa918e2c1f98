package validators

import (
	"fmt"
	"time"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: value must be >= %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: value is too large (> %g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: value must be in range [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет сумму кредита
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 1e-9, cfg.MaxPrincipal)
}

// CheckRate проверяет годовую ставку в процентах
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_interest_rate", rate, 0.0, cfg.MaxRate)
}

// CheckTermYears проверяет срок кредита в годах
func CheckTermYears(cfg *config.Config, years int) error {
	return ValidateIntRange("term_years", years, 1, cfg.MaxTermYears)
}

// CheckExtraPayment проверяет дополнительный ежемесячный платеж
func CheckExtraPayment(cfg *config.Config, extra float64) error {
	return ValidatePositiveNumber("extra_payment", extra, 0.0, cfg.MaxExtraPayment)
}

// CheckShares проверяет количество акций в строке
func CheckShares(cfg *config.Config, name string, shares float64) error {
	return ValidatePositiveNumber(name, shares, 0.0, cfg.MaxShares)
}

// CheckFinite проверяет только конечность значения (PNL, стоимость, цена)
func CheckFinite(name string, value float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	return nil
}

// CheckNonNegative проверяет, что значение конечное и не отрицательное
func CheckNonNegative(name string, value float64) error {
	if err := CheckFinite(name, value); err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%s: value must be >= 0", name)
	}
	return nil
}

// CheckStartDate разбирает дату начала кредита (YYYY-MM-DD)
func CheckStartDate(value string) (time.Time, error) {
	t, err := time.Parse(calculations.StartDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_date: expected %s, got %q", calculations.StartDateLayout, value)
	}
	return t, nil
}

// CheckLoan проверяет все условия кредита
func CheckLoan(cfg *config.Config, in calculations.LoanInputs) error {
	if err := CheckPrincipal(cfg, in.Principal); err != nil {
		return err
	}
	if err := CheckRate(cfg, in.AnnualInterestRate); err != nil {
		return err
	}
	if err := CheckTermYears(cfg, in.TermYears); err != nil {
		return err
	}
	return CheckExtraPayment(cfg, in.ExtraPayment)
}

// CheckTradingBlock проверяет строки торгового блока
func CheckTradingBlock(cfg *config.Config, block calculations.TradingBlock) error {
	for i, r := range block.PriceRanges {
		if err := CheckShares(cfg, fmt.Sprintf("price_ranges[%d].shares", i), r.Shares); err != nil {
			return err
		}
	}
	for i, a := range block.Activities {
		if err := CheckShares(cfg, fmt.Sprintf("activities[%d].share", i), a.Share); err != nil {
			return err
		}
	}
	return nil
}
