package formatter

import (
	"math"
	"strconv"

	"github.com/alexanderramin/loadplan/internal/capacity"
	"github.com/alexanderramin/loadplan/internal/domain"
)

// FormatMembers renders a plan's members with their capacity attributes.
func FormatMembers(members []domain.Member) string {
	if len(members) == 0 {
		return Dim("No members.") + "\n"
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.Name,
			FormatHours(m.Buffer),
			FormatHours(m.ProjectRatio),
			FormatHours(m.FeatureRatio),
			TruncID(m.ID),
		})
	}
	return RenderTable([]string{"MEMBER", "BUFFER %", "PROJECT %", "FEATURE %", "ID"}, rows)
}

// FormatWorkLogs renders work logs with member and period names resolved.
// The ID column is the prefix "log edit" and "log delete" accept.
func FormatWorkLogs(p *domain.Plan, logs []domain.WorkLog) string {
	if len(logs) == 0 {
		return Dim("No work logs.") + "\n"
	}
	members := make(map[string]string, len(p.Members))
	for _, m := range p.Members {
		members[m.ID] = m.Name
	}
	periods := make(map[string]string, len(p.Periods))
	for _, per := range p.Periods {
		periods[per.ID] = per.Name
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			TruncID(l.ID),
			nameOrID(members, l.MemberID),
			nameOrID(periods, l.PeriodID),
			WorkTypeBadge(l.Type),
			l.TaskName,
			FormatHours(l.Hours),
		})
	}
	return RenderTable([]string{"ID", "MEMBER", "PERIOD", "TYPE", "TASK", "HOURS"}, rows)
}

// FormatCapacity renders one line per member and period followed by the
// member's total. Status is over once logged hours pass capacity and
// tight while 30% or less of it is left.
func FormatCapacity(rows []capacity.Row) string {
	if len(rows) == 0 {
		return Dim("No members or periods to report on.") + "\n"
	}

	out := make([][]string, 0, len(rows)+len(rows)/2)
	start := 0
	for i := range rows {
		out = append(out, capacityCells(rows[i].MemberName, rows[i].PeriodName, rows[i]))
		if i == len(rows)-1 || rows[i+1].MemberID != rows[i].MemberID {
			if i > start {
				out = append(out, capacityCells("", Dim("total"), capacity.Total(rows[start:i+1])))
			}
			start = i + 1
		}
	}
	return RenderTable([]string{
		"MEMBER", "PERIOD", "DAYS", "LEAVE", "AVAILABLE",
		"PROJECT", "LEFT", "FEATURE", "LEFT", "STATUS",
	}, out)
}

func capacityCells(member, period string, r capacity.Row) []string {
	return []string{
		member,
		period,
		strconv.Itoa(r.WorkingDays),
		roundHours(r.Leave),
		roundHours(r.Available),
		roundHours(r.Project.Capacity),
		roundHours(r.Project.Remaining),
		roundHours(r.Feature.Capacity),
		roundHours(r.Feature.Remaining),
		capacityStatus(r),
	}
}

// roundHours prints hours to one decimal place.
func roundHours(h float64) string {
	return FormatHours(math.Round(h*10) / 10)
}

func capacityStatus(r capacity.Row) string {
	worst := math.Inf(1)
	for _, l := range []capacity.Line{r.Project, r.Feature} {
		if l.Capacity == 0 && l.Logged == 0 {
			continue
		}
		if l.Capacity <= 0 {
			worst = math.Inf(-1)
			continue
		}
		worst = min(worst, l.Remaining/l.Capacity*100)
	}
	switch {
	case math.IsInf(worst, 1):
		return Dim("--")
	case worst < 0:
		return StyleRed.Render("over")
	case worst <= 30:
		return StyleYellow.Render("tight")
	default:
		return StyleGreen.Render("ok")
	}
}
