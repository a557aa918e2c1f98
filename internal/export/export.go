package export

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/cloud-ru/finsim-go/internal/calculations"
)

// ContentType MIME-тип выгрузки графика
const ContentType = "application/xml"

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ScheduleXML выгружает условия, сводку и график платежей в XML
func ScheduleXML(in calculations.LoanInputs, result calculations.AmortizationResult) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("amortization")

	inputs := root.CreateElement("inputs")
	inputs.CreateAttr("principal", amount(in.Principal))
	inputs.CreateAttr("annual_interest_rate", strconv.FormatFloat(in.AnnualInterestRate, 'f', -1, 64))
	inputs.CreateAttr("term_years", strconv.Itoa(in.TermYears))
	inputs.CreateAttr("start_date", in.StartDate.Format(calculations.StartDateLayout))
	inputs.CreateAttr("extra_payment", amount(in.ExtraPayment))

	summary := root.CreateElement("summary")
	summary.CreateAttr("monthly_payment", amount(result.Summary.MonthlyPayment))
	summary.CreateAttr("total_interest", amount(result.Summary.TotalInterest))
	summary.CreateAttr("total_payment", amount(result.Summary.TotalPayment))
	summary.CreateAttr("payoff_date", result.Summary.PayoffDate)
	summary.CreateAttr("savings_with_extra", amount(result.Summary.SavingsWithExtra))

	schedule := root.CreateElement("schedule")
	schedule.CreateAttr("periods", strconv.Itoa(len(result.Schedule)))
	for _, r := range result.Schedule {
		row := schedule.CreateElement("row")
		row.CreateAttr("period", strconv.Itoa(r.Period))
		row.CreateAttr("date", r.Date)
		row.CreateElement("payment").SetText(amount(r.Payment))
		row.CreateElement("principal").SetText(amount(r.Principal))
		row.CreateElement("interest").SetText(amount(r.Interest))
		row.CreateElement("extra_payment").SetText(amount(r.ExtraPayment))
		row.CreateElement("total_payment").SetText(amount(r.TotalPayment))
		row.CreateElement("balance").SetText(amount(r.Balance))
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write schedule XML: %w", err)
	}
	return data, nil
}
