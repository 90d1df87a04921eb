// Package export renders plans as spreadsheet-friendly summaries.
package export

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/shopspring/decimal"
)

// utf8BOM makes spreadsheet applications detect UTF-8.
const utf8BOM = "\uFEFF"

// Row labels and headers used by the summary sheets.
const (
	CategoryHeader = "作業分類"
	MemberHeader   = "メンバー名"
	LeaveLabel     = "休み"
	ProjectLabel   = "Project"
	FeatureLabel   = "Feature"
)

// SummaryRow is one line of a summary: a label, a member and one total
// per period in plan order.
type SummaryRow struct {
	Label  string
	Member string
	Hours  []decimal.Decimal
}

// Summary is a header plus rows, shared by the CSV and workbook writers.
type Summary struct {
	Header []string
	Rows   []SummaryRow
}

type cell struct {
	memberID string
	periodID string
	typ      domain.WorkType
}

// totals sums the plan's hours per cell exactly, ignoring task names.
type totals map[cell]decimal.Decimal

func sumHours(p *domain.Plan) totals {
	t := make(totals, len(p.WorkLogs))
	for _, l := range p.WorkLogs {
		k := cell{memberID: l.MemberID, periodID: l.PeriodID, typ: l.Type}
		t[k] = t[k].Add(decimal.NewFromFloat(l.Hours))
	}
	return t
}

func (t totals) row(label string, m domain.Member, periods []domain.Period, wt domain.WorkType) SummaryRow {
	r := SummaryRow{Label: label, Member: m.Name, Hours: make([]decimal.Decimal, len(periods))}
	for i, per := range periods {
		r.Hours[i] = t[cell{memberID: m.ID, periodID: per.ID, typ: wt}]
	}
	return r
}

func header(first string, periods []domain.Period) []string {
	h := make([]string, 0, len(periods)+2)
	h = append(h, first, MemberHeader)
	for _, per := range periods {
		h = append(h, per.Name)
	}
	return h
}

// WorkloadSummary has a Project and a Feature row per member.
func WorkloadSummary(p *domain.Plan) Summary {
	t := sumHours(p)
	s := Summary{Header: header(CategoryHeader, p.Periods)}
	for _, m := range p.Members {
		s.Rows = append(s.Rows,
			t.row(ProjectLabel, m, p.Periods, domain.WorkProject),
			t.row(FeatureLabel, m, p.Periods, domain.WorkFeature),
		)
	}
	return s
}

// LeavesSummary has one leave row per member.
func LeavesSummary(p *domain.Plan) Summary {
	t := sumHours(p)
	s := Summary{Header: header(LeaveLabel, p.Periods)}
	for _, m := range p.Members {
		s.Rows = append(s.Rows, t.row(LeaveLabel, m, p.Periods, domain.WorkLeave))
	}
	return s
}

// Records flattens the summary for a CSV writer.
func (s Summary) Records() [][]string {
	out := make([][]string, 0, len(s.Rows)+1)
	out = append(out, s.Header)
	for _, r := range s.Rows {
		rec := make([]string, 0, len(r.Hours)+2)
		rec = append(rec, r.Label, r.Member)
		for _, h := range r.Hours {
			rec = append(rec, h.String())
		}
		out = append(out, rec)
	}
	return out
}

// CSV renders the summary without a BOM.
func (s Summary) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(s.Records()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GenerateWorkloadSummaryCSV renders the workload summary of p.
func GenerateWorkloadSummaryCSV(p *domain.Plan) (string, error) {
	return WorkloadSummary(p).CSV()
}

// GenerateLeavesSummaryCSV renders the leave summary of p.
func GenerateLeavesSummaryCSV(p *domain.Plan) (string, error) {
	return LeavesSummary(p).CSV()
}

// WriteWithBOM writes content prefixed with a UTF-8 byte order mark.
func WriteWithBOM(w io.Writer, content string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	_, err := io.WriteString(w, content)
	return err
}
