// Package capacity works out how many hours each member can give to project
// and feature work in each period, and how many of those are still free.
package capacity

import "github.com/alexanderramin/loadplan/internal/domain"

// Line is the capacity of one work type against the hours logged to it.
// Remaining goes negative when a member is overbooked.
type Line struct {
	Capacity  float64
	Logged    float64
	Remaining float64
}

// Row is one member in one period.
type Row struct {
	MemberID    string
	MemberName  string
	PeriodID    string
	PeriodName  string
	WorkingDays int

	// Gross is working days times the plan's daily hours.
	Gross float64
	Leave float64
	// Available is Gross minus leave, after the member's buffer.
	Available float64

	Project Line
	Feature Line
}

// Options tune the report. WithBuffer applies each member's buffer
// percentage; without it the full net hours count.
type Options struct {
	WithBuffer bool
}

// Compute returns a row per member and period, members outermost, both in
// plan order.
func Compute(p domain.Plan, opts Options) []Row {
	leave := make(map[cellKey]float64)
	logged := make(map[cellKey]map[domain.WorkType]float64)
	for _, l := range p.WorkLogs {
		k := cellKey{l.MemberID, l.PeriodID}
		if l.Type == domain.WorkLeave {
			leave[k] += l.Hours
			continue
		}
		if logged[k] == nil {
			logged[k] = make(map[domain.WorkType]float64, 2)
		}
		logged[k][l.Type] += l.Hours
	}

	rows := make([]Row, 0, len(p.Members)*len(p.Periods))
	for _, m := range p.Members {
		for _, per := range p.Periods {
			k := cellKey{m.ID, per.ID}
			gross := float64(per.WorkingDays) * p.Settings.DefaultDailyHours
			available := gross - leave[k]
			if opts.WithBuffer {
				available *= 1 - m.Buffer/100
			}
			rows = append(rows, Row{
				MemberID:    m.ID,
				MemberName:  m.Name,
				PeriodID:    per.ID,
				PeriodName:  per.Name,
				WorkingDays: per.WorkingDays,
				Gross:       gross,
				Leave:       leave[k],
				Available:   available,
				Project:     line(available*m.ProjectRatio/100, logged[k][domain.WorkProject]),
				Feature:     line(available*m.FeatureRatio/100, logged[k][domain.WorkFeature]),
			})
		}
	}
	return rows
}

// Total sums rows into one, typically a member's rows across all periods.
// Identity fields are taken from the first row.
func Total(rows []Row) Row {
	var t Row
	if len(rows) > 0 {
		t.MemberID, t.MemberName = rows[0].MemberID, rows[0].MemberName
	}
	for _, r := range rows {
		t.WorkingDays += r.WorkingDays
		t.Gross += r.Gross
		t.Leave += r.Leave
		t.Available += r.Available
		t.Project = t.Project.add(r.Project)
		t.Feature = t.Feature.add(r.Feature)
	}
	return t
}

type cellKey struct {
	memberID string
	periodID string
}

func line(capacity, logged float64) Line {
	return Line{Capacity: capacity, Logged: logged, Remaining: capacity - logged}
}

func (l Line) add(o Line) Line {
	return Line{
		Capacity:  l.Capacity + o.Capacity,
		Logged:    l.Logged + o.Logged,
		Remaining: l.Remaining + o.Remaining,
	}
}
