package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/loadplan/internal/domain"
)

// FormatPlanList renders all plans with the active one marked.
func FormatPlanList(plans []*domain.Plan, activeID string) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Create one with: loadplan plan create NAME") + "\n"
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		marker := " "
		name := p.Name
		if p.ID == activeID {
			marker = StyleGreen.Render("●")
			name = Bold(name)
		}
		rows = append(rows, []string{
			marker,
			name,
			strconv.Itoa(len(p.Members)),
			strconv.Itoa(len(p.Periods)),
			strconv.Itoa(len(p.WorkLogs)),
			TruncID(p.ID),
		})
	}
	return RenderTable([]string{"", "PLAN", "MEMBERS", "PERIODS", "LOGS", "ID"}, rows)
}

// FormatSettings renders a plan's capacity settings.
func FormatSettings(s domain.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily hours:      %s\n", FormatHours(s.DefaultDailyHours))
	fmt.Fprintf(&b, "Public holidays:  %s\n", onOff(s.ConsiderPublicHolidays))
	if len(s.CompanyHolidays) == 0 {
		fmt.Fprintf(&b, "Company holidays: %s", Dim("none"))
		return b.String()
	}
	dates := make([]string, len(s.CompanyHolidays))
	for i, d := range s.CompanyHolidays {
		dates[i] = d.String()
	}
	fmt.Fprintf(&b, "Company holidays: %s", strings.Join(dates, ", "))
	return b.String()
}

// FormatPlan renders a plan's settings, periods and per-member hours.
func FormatPlan(p *domain.Plan, active bool) string {
	title := p.Name
	if active {
		title += " (active)"
	}

	var b strings.Builder
	b.WriteString(RenderBox(title, FormatSettings(p.Settings)))
	b.WriteString("\n\n")

	b.WriteString(Header("Periods"))
	b.WriteString("\n")
	if len(p.Periods) == 0 {
		b.WriteString(Dim("No periods imported.") + "\n")
	} else {
		b.WriteString(FormatPeriods(p.Periods))
	}

	b.WriteString("\n")
	b.WriteString(Header("Members"))
	b.WriteString("\n")
	if len(p.Members) == 0 {
		b.WriteString(Dim("No members.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(p.Members))
	for _, m := range p.Members {
		var project, feature, leave float64
		for _, l := range p.WorkLogs {
			if l.MemberID != m.ID {
				continue
			}
			switch l.Type {
			case domain.WorkProject:
				project += l.Hours
			case domain.WorkFeature:
				feature += l.Hours
			case domain.WorkLeave:
				leave += l.Hours
			}
		}
		rows = append(rows, []string{
			m.Name,
			FormatHours(project),
			FormatHours(feature),
			FormatHours(leave),
			FormatHours(m.Buffer),
		})
	}
	b.WriteString(RenderTable([]string{"MEMBER", "PROJECT", "FEATURE", "LEAVE", "BUFFER %"}, rows))
	return b.String()
}

func FormatPeriods(periods []domain.Period) string {
	rows := make([][]string, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, []string{
			p.Name,
			p.StartDate.String(),
			p.EndDate.String(),
			strconv.Itoa(p.WorkingDays),
		})
	}
	return RenderTable([]string{"PERIOD", "START", "END", "DAYS"}, rows)
}

func onOff(b bool) string {
	if b {
		return StyleGreen.Render("on")
	}
	return StyleDim.Render("off")
}
