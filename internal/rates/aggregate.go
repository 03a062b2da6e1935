// Package rates summarizes freight board quotes for a lane.
package rates

import (
	"fmt"
	"math"

	"github.com/tournevent/freightbench/pkg/board"
)

// Line is one quote with its estimated total for the lane.
type Line struct {
	Quote board.Quote

	// TotalCost is rate x mileage rounded to cents. It is nil for
	// per-kilogram quotes, which have no lane total.
	TotalCost *float64
}

// Summary is the aggregate view of a set of quotes.
type Summary struct {
	Lines   []Line
	Mileage int

	// AverageRate is the unweighted mean at full precision.
	// Use FormatMoney for display.
	AverageRate float64

	// TopCarrier is the first quote with the greatest rate, or nil when
	// there are no quotes.
	TopCarrier *board.Quote
}

// Quotes returns the summarized quotes in input order.
func (s Summary) Quotes() []board.Quote {
	quotes := make([]board.Quote, len(s.Lines))
	for i, l := range s.Lines {
		quotes[i] = l.Quote
	}
	return quotes
}

// Aggregate computes the average, top carrier and per-quote totals.
// An empty quote list yields a zero average and no top carrier.
func Aggregate(quotes []board.Quote, mileage int) Summary {
	s := Summary{
		Lines:   make([]Line, len(quotes)),
		Mileage: mileage,
	}

	var sum float64
	for i, q := range quotes {
		sum += q.AverageRate
		s.Lines[i] = Line{Quote: q}
		if q.PerMile() {
			total := Round2(q.AverageRate * float64(mileage))
			s.Lines[i].TotalCost = &total
		}
		if s.TopCarrier == nil || q.AverageRate > s.TopCarrier.AverageRate {
			s.TopCarrier = &s.Lines[i].Quote
		}
	}
	if len(quotes) > 0 {
		s.AverageRate = sum / float64(len(quotes))
	}
	return s
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders v with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
