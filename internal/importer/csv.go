package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/loadplan/internal/domain"
)

const utf8BOM = "\uFEFF"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Column layout of the two accepted CSV schemas.
const (
	periodColumns        = 3
	workloadFixedColumns = 4
)

// PeriodRow is one parsed line of a period CSV. WorkingDays is always zero
// here; it is computed later from the plan's calendar.
type PeriodRow struct {
	Row         int
	Name        string
	StartDate   domain.Date
	EndDate     domain.Date
	WorkingDays int
}

// ToPeriod turns the row into a Period with a fresh ID.
func (r PeriodRow) ToPeriod() domain.Period {
	return domain.NewPeriod(r.Name, r.StartDate, r.EndDate, r.WorkingDays)
}

// WorkloadRow is one parsed line of a workload CSV. Hours[i] belongs to the
// i-th known period.
type WorkloadRow struct {
	Row         int
	WorkType    string
	ProjectName string
	TaskName    string
	MemberName  string
	Hours       []float64
}

// record is a non-blank CSV line with its physical line number.
type record struct {
	line   int
	fields []string
}

// readRecords tokenizes text, drops the header and blank lines, and fails
// when no data rows remain.
func readRecords(text string) ([]record, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	var records []record
	header := true
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Row: pe.StartLine, Err: fmt.Errorf("%w: %v", ErrMalformedInput, pe.Err)}
			}
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if isBlank(fields) {
			continue
		}
		line, _ := r.FieldPos(0)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		records = append(records, record{line: line, fields: fields})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty or header-only", ErrMalformedInput)
	}
	return records, nil
}

func isBlank(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
}

// ParsePeriods parses a period CSV (name,startDate,endDate). The first
// invalid row aborts the parse; no partial result is returned.
func ParsePeriods(text string) ([]PeriodRow, error) {
	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}

	rows := make([]PeriodRow, 0, len(records))
	for _, rec := range records {
		if len(rec.fields) != periodColumns {
			return nil, &ParseError{
				Row: rec.line,
				Err: fmt.Errorf("%w: expected %d columns (name,startDate,endDate), got %d", ErrMalformedInput, periodColumns, len(rec.fields)),
			}
		}

		start, err := parseDateCell(rec, 1)
		if err != nil {
			return nil, err
		}
		end, err := parseDateCell(rec, 2)
		if err != nil {
			return nil, err
		}

		rows = append(rows, PeriodRow{
			Row:       rec.line,
			Name:      rec.fields[0],
			StartDate: start,
			EndDate:   end,
		})
	}
	return rows, nil
}

func parseDateCell(rec record, idx int) (domain.Date, error) {
	value := rec.fields[idx]
	if !datePattern.MatchString(value) {
		return domain.Date{}, &ParseError{Row: rec.line, Column: idx + 1, Value: value, Err: ErrInvalidDateFormat}
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, &ParseError{Row: rec.line, Column: idx + 1, Value: value, Err: ErrInvalidDateFormat}
	}
	return d, nil
}

// ParseWorkload parses a workload CSV
// (workType,projectName,taskName,memberName,hours1..hoursN). The first
// invalid row aborts the parse; no partial result is returned.
func ParseWorkload(text string) ([]WorkloadRow, error) {
	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}

	rows := make([]WorkloadRow, 0, len(records))
	for _, rec := range records {
		if len(rec.fields) < workloadFixedColumns {
			return nil, &ParseError{
				Row: rec.line,
				Err: fmt.Errorf("%w: at least %d columns required (workType,projectName,taskName,memberName), got %d",
					ErrMalformedInput, workloadFixedColumns, len(rec.fields)),
			}
		}

		hourCells := rec.fields[workloadFixedColumns:]
		hours := make([]float64, len(hourCells))
		for i, cell := range hourCells {
			h, err := parseHours(cell)
			if err != nil {
				return nil, &ParseError{Row: rec.line, Column: workloadFixedColumns + i + 1, Value: cell, Err: ErrInvalidNumber}
			}
			hours[i] = h
		}

		rows = append(rows, WorkloadRow{
			Row:         rec.line,
			WorkType:    rec.fields[0],
			ProjectName: rec.fields[1],
			TaskName:    rec.fields[2],
			MemberName:  rec.fields[3],
			Hours:       hours,
		})
	}
	return rows, nil
}

func parseHours(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}
