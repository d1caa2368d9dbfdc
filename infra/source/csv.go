package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/pmsched/core/model"
	"github.com/kilianp07/pmsched/core/network"
)

// ResourcePrefix marks activity table columns holding per-day resource units.
const ResourcePrefix = "res:"

var estimateColumns = []string{"optimistic", "most_likely", "pessimistic"}

// header maps lower-cased column names to their index.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: "csv", Line: 1, Err: errors.New("missing header")}
	}
	if err != nil {
		return nil, err
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, &ParseError{Source: "csv", Line: 1, Column: col, Err: errors.New("missing column")}
		}
	}
	return h, nil
}

func (h header) cell(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return cr
}

// ReadActivitiesCSV parses an activity table. Required columns are id and
// duration; optimistic, most_likely and pessimistic come as a group;
// budget_cost, actual_cost and percent_complete are optional, and every
// "res:<kind>" column contributes per-day units of that resource kind.
// Blank cells leave the attribute unset.
func ReadActivitiesCSV(r io.Reader) ([]model.Activity, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "id", "duration")
	if err != nil {
		return nil, err
	}
	withEstimate := 0
	for _, c := range estimateColumns {
		if _, ok := h[c]; ok {
			withEstimate++
		}
	}
	if withEstimate != 0 && withEstimate != len(estimateColumns) {
		return nil, &ParseError{Source: "csv", Line: 1, Err: errors.New("optimistic, most_likely and pessimistic must appear together")}
	}
	kinds := map[string]string{}
	for col := range h {
		if strings.HasPrefix(col, ResourcePrefix) {
			kinds[col] = strings.TrimPrefix(col, ResourcePrefix)
		}
	}

	var out []model.Activity
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		a, perr := parseActivity(h, row, kinds, withEstimate > 0)
		if perr != nil {
			perr.Line = line
			return nil, perr
		}
		out = append(out, a)
	}
	return out, nil
}

func parseActivity(h header, row []string, kinds map[string]string, withEstimate bool) (model.Activity, *ParseError) {
	a := model.Activity{ID: h.cell(row, "id")}
	d, perr := parseInt(h, row, "duration", true)
	if perr != nil {
		return a, perr
	}
	a.Duration = d

	if withEstimate && h.cell(row, "optimistic") != "" {
		var vals [3]float64
		for i, col := range estimateColumns {
			v, perr := parseFloat(h, row, col, true)
			if perr != nil {
				return a, perr
			}
			vals[i] = v
		}
		a.Estimate = &model.Estimate{Optimistic: vals[0], MostLikely: vals[1], Pessimistic: vals[2]}
	}
	for col, dst := range map[string]*float64{
		"budget_cost":      &a.BudgetCost,
		"actual_cost":      &a.ActualCost,
		"percent_complete": &a.PercentComplete,
	} {
		v, perr := parseFloat(h, row, col, false)
		if perr != nil {
			return a, perr
		}
		*dst = v
	}
	for col, kind := range kinds {
		units, perr := parseInt(h, row, col, false)
		if perr != nil {
			return a, perr
		}
		if units == 0 {
			continue
		}
		if a.Resources == nil {
			a.Resources = make(map[string]int)
		}
		a.Resources[kind] = units
	}
	return a, nil
}

func parseInt(h header, row []string, col string, required bool) (int, *ParseError) {
	s := h.cell(row, col)
	if s == "" {
		if required {
			return 0, &ParseError{Source: "csv", Column: col, Err: errors.New("empty cell")}
		}
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// accept "3.0" style cells produced by spreadsheets
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, &ParseError{Source: "csv", Column: col, Err: fmt.Errorf("not an integer: %q", s)}
		}
		v = int(f)
	}
	return v, nil
}

func parseFloat(h header, row []string, col string, required bool) (float64, *ParseError) {
	s := h.cell(row, col)
	if s == "" {
		if required {
			return 0, &ParseError{Source: "csv", Column: col, Err: errors.New("empty cell")}
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Source: "csv", Column: col, Err: fmt.Errorf("not a number: %q", s)}
	}
	return v, nil
}

// ReadDependenciesCSV parses a dependency table with columns id and
// predecessors.
func ReadDependenciesCSV(r io.Reader, sentinel string) ([]network.Dependency, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "id", "predecessors")
	if err != nil {
		return nil, err
	}
	var out []network.Dependency
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		id := h.cell(row, "id")
		if id == "" {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Source: "csv", Line: line, Column: "id", Err: errors.New("empty cell")}
		}
		out = append(out, network.Dependency{
			Activity:     id,
			Predecessors: network.ParsePredecessors(h.cell(row, "predecessors"), sentinel),
		})
	}
	return out, nil
}
