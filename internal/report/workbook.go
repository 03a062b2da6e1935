// Package report exports search results as spreadsheets.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/rates"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the benchmark is written to.
const SheetName = "Benchmark"

// ErrNoResult is returned when there is nothing to export.
var ErrNoResult = errors.New("no search result to export")

// WriteWorkbook renders res as an .xlsx workbook: a route header followed by
// one row per board quote and the market average.
func WriteWorkbook(w io.Writer, res *benchmark.RouteResult) error {
	if res == nil {
		return ErrNoResult
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Origin", string(res.Route.Origin)},
		{"Destination", string(res.Route.Destination)},
		{"Mileage", res.Mileage},
		{"International", res.International},
		{},
		{"Board", "Average Rate", "Unit", "Currency", "Total Estimated Cost"},
	}
	for _, l := range res.Summary.Lines {
		var total interface{} = ""
		if l.TotalCost != nil {
			total = *l.TotalCost
		}
		rows = append(rows, []interface{}{
			l.Quote.Board, rates.Round2(l.Quote.AverageRate), string(l.Quote.Unit), l.Quote.Currency, total,
		})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Market Average", rates.Round2(res.Summary.AverageRate)})
	if top := res.TopCarrier(); top != nil {
		rows = append(rows, []interface{}{"Top Carrier", top.Board})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// FileName suggests a download name for a result.
func FileName(res *benchmark.RouteResult) string {
	return fmt.Sprintf("benchmark-%s.xlsx", res.SearchedAt.UTC().Format("20060102-150405"))
}
