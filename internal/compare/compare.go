// Package compare judges a user-entered rate against the market average of
// the latest search.
package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tournevent/freightbench/internal/rates"
)

// Verdicts.
const (
	VerdictAbove = "Above market average"
	VerdictBelow = "Below market average"
	VerdictAt    = "At market average"
)

// InvalidNumberMessage is shown when the entered rate does not parse.
const InvalidNumberMessage = "Please enter a valid number"

// ValidationError reports unusable comparison input.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return InvalidNumberMessage
}

// Comparison is the result of comparing one rate.
type Comparison struct {
	UserRate      float64
	MarketAverage float64
	Difference    float64
	Verdict       string
}

// Comparator keeps the market average of the most recent summary.
type Comparator struct {
	mu      sync.RWMutex
	average float64
	known   bool
}

// New creates a comparator with no market average yet.
func New() *Comparator {
	return &Comparator{}
}

// OnSummary is a rates.Subscriber that records the summary average.
func (c *Comparator) OnSummary(s rates.Summary) {
	c.SetMarketAverage(s.AverageRate)
}

// SetMarketAverage overrides the market average.
func (c *Comparator) SetMarketAverage(avg float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.average = avg
	c.known = true
}

// MarketAverage returns the current average and whether one has been set.
func (c *Comparator) MarketAverage() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.average, c.known
}

// FormatMarketAverage renders the average with two decimals. Before any
// summary has been seen that is "0.00".
func (c *Comparator) FormatMarketAverage() string {
	avg, _ := c.MarketAverage()
	return rates.FormatMoney(avg)
}

// Compare parses input as a rate and compares it to the market average.
// Before any summary has been seen the average is 0.
func (c *Comparator) Compare(input string) (Comparison, error) {
	rate, err := parseRate(input)
	if err != nil {
		return Comparison{}, err
	}
	avg, _ := c.MarketAverage()
	return Against(rate, avg), nil
}

// Against compares rate to an explicit market average.
func Against(rate, average float64) Comparison {
	cmp := Comparison{
		UserRate:      rate,
		MarketAverage: average,
		Difference:    rates.Round2(rate - average),
	}
	switch {
	case rate > average:
		cmp.Verdict = VerdictAbove
	case rate < average:
		cmp.Verdict = VerdictBelow
	default:
		cmp.Verdict = VerdictAt
	}
	return cmp
}

func parseRate(input string) (float64, error) {
	s := strings.TrimSpace(input)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Input: input}
	}
	return v, nil
}

// String renders a one-line description of the comparison.
func (c Comparison) String() string {
	return fmt.Sprintf("%s (%s vs %s)", c.Verdict, rates.FormatMoney(c.UserRate), rates.FormatMoney(c.MarketAverage))
}
