package trademap

import (
	"fmt"
	"strconv"
	"time"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
)

// zeroCouponYears is the year count at and above which a period is treated
// as a zero-coupon / single-payment marker regardless of months and days.
const zeroCouponYears = 25

// spanTolerance is the month tolerance when deciding whether a period spans
// the whole trade; it absorbs day-count rounding in the source data.
const spanTolerance = 1

// spanDateLayout is the fixed layout used for the whole-trade span check.
const spanDateLayout = "2006-01-02"

// calculatePeriod turns years/months/days source fields into a canonical
// period string: "TERM"/"ATMATURITY" for full-trade periods, otherwise a
// single unit rendered as "{years}Y", "{months}M" or "{days}D" in that
// priority order.
func (it *Interpreter) calculatePeriod(spec *mapping.PeriodSpec, rec Record, ctx Context) (any, error) {
	years, err := it.periodComponent(spec.Years, rec, ctx)
	if err != nil {
		return nil, err
	}

	months, err := it.periodComponent(spec.Months, rec, ctx)
	if err != nil {
		return nil, err
	}

	days, err := it.periodComponent(spec.Days, rec, ctx)
	if err != nil {
		return nil, err
	}

	if years >= zeroCouponYears {
		return fullTermValue(spec.Calculation), nil
	}

	totalMonths := years*12 + months

	if totalMonths == 0 && days == 0 {
		return fullTermValue(spec.Calculation), nil
	}

	// When trade start/end dates are configured, a period within one month
	// of the whole trade span also counts as full-term. Any parse failure
	// here falls through to the unit rendering below.
	if spec.StartDate != "" && spec.EndDate != "" {
		if tradeMonths, ok := it.tradeSpanMonths(spec, rec, ctx); ok && totalMonths >= tradeMonths-spanTolerance {
			return fullTermValue(spec.Calculation), nil
		}
	}

	switch {
	case years > 0:
		return fmt.Sprintf("%dY", years), nil
	case months > 0:
		return fmt.Sprintf("%dM", months), nil
	case days > 0:
		return fmt.Sprintf("%dD", days), nil
	default:
		return fullTermValue(spec.Calculation), nil
	}
}

// periodComponent reads one integer component of a period.
func (it *Interpreter) periodComponent(tpl string, rec Record, ctx Context) (int, error) {
	field := resolveTemplate(tpl, LegAssignment{ReceiveSource: legAbsent, PaySource: legAbsent}, ctx.LegIdx)

	raw, ok := rec[field]
	if !ok {
		return 0, &MappingError{Reason: ReasonMissingField, Field: field}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("period field %s: %w", field, err)
	}

	return n, nil
}

// tradeSpanMonths computes the whole-trade span in calendar months from the
// configured start/end date fields. ok is false when either field is
// missing or unparsable.
func (it *Interpreter) tradeSpanMonths(spec *mapping.PeriodSpec, rec Record, ctx Context) (int, bool) {
	la := LegAssignment{ReceiveSource: legAbsent, PaySource: legAbsent}

	start, ok := rec[resolveTemplate(spec.StartDate, la, ctx.LegIdx)]
	if !ok {
		return 0, false
	}

	end, ok := rec[resolveTemplate(spec.EndDate, la, ctx.LegIdx)]
	if !ok {
		return 0, false
	}

	startDt, err := time.Parse(spanDateLayout, start)
	if err != nil {
		return 0, false
	}

	endDt, err := time.Parse(spanDateLayout, end)
	if err != nil {
		return 0, false
	}

	return (endDt.Year()-startDt.Year())*12 + int(endDt.Month()) - int(startDt.Month()), true
}

// fullTermValue is the full-trade-period rendering for each calculation kind.
func fullTermValue(calc mapping.CalculationType) string {
	if calc == mapping.CalcPaymentFrequency {
		return "ATMATURITY"
	}

	return "TERM"
}
