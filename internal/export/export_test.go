package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/finsim-go/internal/calculations"
)

func TestScheduleXML(t *testing.T) {
	in := calculations.LoanInputs{
		Principal:          100000,
		AnnualInterestRate: 12,
		TermYears:          1,
		StartDate:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		ExtraPayment:       10000,
	}
	result := calculations.ComputeAmortizationSchedule(in)

	data, err := ScheduleXML(in, result)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	inputs := doc.FindElement("/amortization/inputs")
	require.NotNil(t, inputs)
	assert.Equal(t, "100000.00", inputs.SelectAttrValue("principal", ""))
	assert.Equal(t, "12", inputs.SelectAttrValue("annual_interest_rate", ""))
	assert.Equal(t, "2024-01-15", inputs.SelectAttrValue("start_date", ""))

	summary := doc.FindElement("/amortization/summary")
	require.NotNil(t, summary)
	assert.Equal(t, "8884.88", summary.SelectAttrValue("monthly_payment", ""))
	assert.Equal(t, result.Summary.PayoffDate, summary.SelectAttrValue("payoff_date", ""))

	rows := doc.FindElements("/amortization/schedule/row")
	require.Len(t, rows, len(result.Schedule))
	assert.Equal(t, "1", rows[0].SelectAttrValue("period", ""))
	assert.Equal(t, "Feb 2024", rows[0].SelectAttrValue("date", ""))
	assert.Equal(t, "10000.00", rows[0].FindElement("./extra_payment").Text())

	last := rows[len(rows)-1]
	assert.Equal(t, "0.00", last.FindElement("./balance").Text())
}

func TestScheduleXMLEmpty(t *testing.T) {
	in := calculations.LoanInputs{StartDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)}
	data, err := ScheduleXML(in, calculations.ComputeAmortizationSchedule(in))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	schedule := doc.FindElement("//schedule")
	require.NotNil(t, schedule)
	assert.Equal(t, "0", schedule.SelectAttrValue("periods", ""))
	assert.Empty(t, schedule.ChildElements())
}
