package calculations

import (
	"math"
	"reflect"
	"testing"
	"time"
)

var loanStart = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestComputeAmortizationSchedule(t *testing.T) {
	tests := []struct {
		name         string
		inputs       LoanInputs
		wantRows     int
		checkSummary func(*testing.T, AmortizationResult)
	}{
		{
			name:     "basic annuity",
			inputs:   LoanInputs{Principal: 100000, AnnualInterestRate: 12, TermYears: 1, StartDate: loanStart},
			wantRows: 12,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				if math.Abs(result.Summary.MonthlyPayment-8884.88) > 0.01 {
					t.Errorf("expected monthly payment ~8884.88, got %f", result.Summary.MonthlyPayment)
				}
				last := result.Schedule[len(result.Schedule)-1]
				if last.Balance != 0 {
					t.Errorf("expected final balance 0, got %g", last.Balance)
				}
				if result.Summary.SavingsWithExtra != 0 {
					t.Errorf("expected no savings without extra payment, got %g", result.Summary.SavingsWithExtra)
				}
				if result.Summary.PayoffDate != "Jan 2025" {
					t.Errorf("expected payoff Jan 2025, got %s", result.Summary.PayoffDate)
				}
				if result.Summary.TotalPayment <= 100000 {
					t.Error("total payment should be greater than principal")
				}
			},
		},
		{
			name:     "zero rate",
			inputs:   LoanInputs{Principal: 120000, AnnualInterestRate: 0, TermYears: 1, StartDate: loanStart},
			wantRows: 12,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				if result.Summary.MonthlyPayment != 10000 {
					t.Errorf("expected monthly payment 10000, got %f", result.Summary.MonthlyPayment)
				}
				if result.Summary.TotalInterest != 0 {
					t.Errorf("expected total interest 0, got %f", result.Summary.TotalInterest)
				}
				paid := 0.0
				for _, row := range result.Schedule {
					if row.Interest != 0 {
						t.Errorf("period %d: expected zero interest, got %f", row.Period, row.Interest)
					}
					paid += row.Principal
				}
				if math.Abs(paid-120000) > 1e-6 {
					t.Errorf("principal payments sum to %f, want 120000", paid)
				}
			},
		},
		{
			name: "extra payment pays off early",
			inputs: LoanInputs{
				Principal: 100000, AnnualInterestRate: 12, TermYears: 1,
				StartDate: loanStart, ExtraPayment: 10000,
			},
			wantRows: 6,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				last := result.Schedule[len(result.Schedule)-1]
				if last.Balance != 0 {
					t.Errorf("expected final balance 0, got %g", last.Balance)
				}
				if last.ExtraPayment >= 10000 {
					t.Errorf("final extra payment should be clamped, got %f", last.ExtraPayment)
				}
				if result.Summary.SavingsWithExtra <= 0 {
					t.Error("extra payments should save interest")
				}
				if result.Summary.PayoffDate != last.Date {
					t.Errorf("payoff date %s, want %s", result.Summary.PayoffDate, last.Date)
				}
			},
		},
		{
			name:     "extra larger than principal",
			inputs:   LoanInputs{Principal: 5000, AnnualInterestRate: 6, TermYears: 5, StartDate: loanStart, ExtraPayment: 1e6},
			wantRows: 1,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				row := result.Schedule[0]
				if row.Balance != 0 {
					t.Errorf("expected balance 0, got %g", row.Balance)
				}
				if math.Abs(row.Principal+row.ExtraPayment-5000) > 1e-9 {
					t.Errorf("principal+extra = %f, want 5000", row.Principal+row.ExtraPayment)
				}
			},
		},
		{
			name:     "non-positive principal",
			inputs:   LoanInputs{Principal: 0, AnnualInterestRate: 5, TermYears: 10, StartDate: loanStart},
			wantRows: 0,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				if result.Summary.PayoffDate != "2024-01-15" {
					t.Errorf("expected payoff to fall back to start date, got %s", result.Summary.PayoffDate)
				}
				if result.Summary.TotalPayment != 0 || result.Summary.TotalInterest != 0 {
					t.Error("expected empty totals")
				}
			},
		},
		{
			name:     "zero term",
			inputs:   LoanInputs{Principal: 100000, AnnualInterestRate: 5, TermYears: 0, StartDate: loanStart},
			wantRows: 0,
			checkSummary: func(t *testing.T, result AmortizationResult) {
				if result.Summary.MonthlyPayment != 0 {
					t.Errorf("expected guarded payment 0, got %f", result.Summary.MonthlyPayment)
				}
				if result.Summary.SavingsWithExtra != 0 {
					t.Errorf("expected savings 0, got %f", result.Summary.SavingsWithExtra)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeAmortizationSchedule(tt.inputs)
			if len(result.Schedule) != tt.wantRows {
				t.Fatalf("expected %d rows, got %d", tt.wantRows, len(result.Schedule))
			}
			if tt.checkSummary != nil {
				tt.checkSummary(t, result)
			}
		})
	}
}

func TestAmortizationInvariants(t *testing.T) {
	inputs := []LoanInputs{
		{Principal: 3000000, AnnualInterestRate: 6, TermYears: 30, StartDate: loanStart},
		{Principal: 3000000, AnnualInterestRate: 6, TermYears: 30, StartDate: loanStart, ExtraPayment: 5000},
		{Principal: 250000, AnnualInterestRate: 0, TermYears: 7, StartDate: loanStart, ExtraPayment: 999},
		{Principal: 1, AnnualInterestRate: 24, TermYears: 2, StartDate: loanStart},
		{Principal: 1.3020815e6, AnnualInterestRate: 39.6, TermYears: 49, StartDate: loanStart},
		{Principal: 1e9, AnnualInterestRate: 36, TermYears: 50, StartDate: loanStart},
		{Principal: 1e6, AnnualInterestRate: 36, TermYears: 50, StartDate: loanStart, ExtraPayment: 100},
	}

	for _, in := range inputs {
		result := ComputeAmortizationSchedule(in)
		if len(result.Schedule) == 0 {
			t.Fatalf("%+v: empty schedule", in)
		}

		prev := in.Principal
		repaid := 0.0
		for _, row := range result.Schedule {
			if row.Balance < 0 {
				t.Errorf("%+v: period %d negative balance %g", in, row.Period, row.Balance)
			}
			if row.Balance > prev {
				t.Errorf("%+v: period %d balance increased %g -> %g", in, row.Period, prev, row.Balance)
			}
			if row.ExtraPayment < 0 {
				t.Errorf("%+v: period %d negative extra %g", in, row.Period, row.ExtraPayment)
			}
			prev = row.Balance
			repaid += row.Principal + row.ExtraPayment
		}

		if last := result.Schedule[len(result.Schedule)-1]; last.Balance != 0 {
			t.Errorf("%+v: final balance %g, want 0", in, last.Balance)
		}
		if math.Abs(repaid-in.Principal) > 1e-6*in.Principal {
			t.Errorf("%+v: repaid %f, want %f", in, repaid, in.Principal)
		}
		if result.Summary.SavingsWithExtra < 0 {
			t.Errorf("%+v: negative savings", in)
		}
		if in.ExtraPayment == 0 && result.Summary.SavingsWithExtra != 0 {
			t.Errorf("%+v: savings %g without extra payment", in, result.Summary.SavingsWithExtra)
		}
	}
}

func TestAmortizationFullyRepaysAcrossRange(t *testing.T) {
	principals := []float64{1000, 123456.78, 1.3020815e6, 1e9}
	rates := []float64{0.5, 12, 24, 30, 36, 39.6, 75, 200}
	years := []int{1, 10, 25, 49, 50}

	for _, p := range principals {
		for _, r := range rates {
			for _, y := range years {
				in := LoanInputs{Principal: p, AnnualInterestRate: r, TermYears: y, StartDate: loanStart}
				result := ComputeAmortizationSchedule(in)
				if len(result.Schedule) == 0 || len(result.Schedule) > y*12 {
					t.Errorf("%+v: %d rows, want at most %d", in, len(result.Schedule), y*12)
					continue
				}
				if last := result.Schedule[len(result.Schedule)-1]; last.Balance != 0 {
					t.Errorf("%+v: final balance %g, want 0", in, last.Balance)
				}
				if result.Summary.SavingsWithExtra != 0 {
					t.Errorf("%+v: savings %g without extra payment", in, result.Summary.SavingsWithExtra)
				}
			}
		}
	}
}

func TestComputeAmortizationScheduleIsPure(t *testing.T) {
	in := LoanInputs{Principal: 500000, AnnualInterestRate: 7.5, TermYears: 15, StartDate: loanStart, ExtraPayment: 1200}
	first := ComputeAmortizationSchedule(in)
	second := ComputeAmortizationSchedule(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different schedules")
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		period int
		want   string
	}{
		{1, "Feb 2024"},
		{11, "Dec 2024"},
		{12, "Jan 2025"},
		{360, "Jan 2054"},
	}

	for _, tt := range tests {
		if got := PeriodLabel(loanStart, tt.period); got != tt.want {
			t.Errorf("PeriodLabel(%d) = %s, want %s", tt.period, got, tt.want)
		}
	}
}

func TestSampleForChart(t *testing.T) {
	rows := func(n int) []AmortizationRow {
		out := make([]AmortizationRow, n)
		for i := range out {
			out[i] = AmortizationRow{Period: i + 1, Balance: float64(n - i)}
		}
		return out
	}

	tests := []struct {
		name       string
		rows       []AmortizationRow
		wantPeriod []int
	}{
		{name: "empty", rows: nil, wantPeriod: []int{}},
		{name: "single", rows: rows(1), wantPeriod: []int{1}},
		{name: "yearly plus final", rows: rows(30), wantPeriod: []int{1, 13, 25, 30}},
		{name: "final on boundary", rows: rows(25), wantPeriod: []int{1, 13, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := SampleForChart(tt.rows)
			got := make([]int, 0, len(points))
			for _, p := range points {
				got = append(got, p.Period)
			}
			if !reflect.DeepEqual(got, tt.wantPeriod) {
				t.Errorf("sampled periods %v, want %v", got, tt.wantPeriod)
			}
		})
	}
}
