package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/importer"
	"github.com/alexanderramin/loadplan/internal/reconcile"
	"github.com/alexanderramin/loadplan/internal/repository"
)

// FormatStagedList renders the pending staging buckets.
func FormatStagedList(entries []repository.StagedEntry) string {
	if len(entries) == 0 {
		return Dim("Nothing staged.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			BucketLabel(e.Key),
			strconv.Itoa(len(e.Payload.Periods)),
			strconv.Itoa(len(e.Payload.Members)),
			strconv.Itoa(len(e.Payload.WorkLogs)),
			HumanTimestamp(e.StagedAt),
		})
	}
	return RenderTable([]string{"BUCKET", "PERIODS", "MEMBERS", "LOGS", "STAGED"}, rows)
}

// FormatPayload renders the contents of one staging bucket. Work logs show
// member and period names when the payload carries them.
func FormatPayload(key domain.StagingKey, p *domain.StagingPayload) string {
	if p.IsEmpty() {
		return Dim(fmt.Sprintf("Nothing staged for %s.", key)) + "\n"
	}

	var b strings.Builder
	b.WriteString(Header("Staged " + key.String()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s, %s, %s\n\n",
		plural(len(p.Periods), "period"), plural(len(p.Members), "member"), plural(len(p.WorkLogs), "work log"))

	if len(p.Periods) > 0 {
		b.WriteString(FormatPeriods(p.Periods))
		b.WriteString("\n")
	}

	if len(p.WorkLogs) > 0 {
		members := make(map[string]string, len(p.Members))
		for _, m := range p.Members {
			members[m.ID] = m.Name
		}
		periods := make(map[string]string, len(p.Periods))
		for _, x := range p.Periods {
			periods[x.ID] = x.Name
		}
		rows := make([][]string, 0, len(p.WorkLogs))
		for _, l := range p.WorkLogs {
			rows = append(rows, []string{
				nameOrID(members, l.MemberID),
				nameOrID(periods, l.PeriodID),
				WorkTypeBadge(l.Type),
				l.TaskName,
				FormatHours(l.Hours),
			})
		}
		b.WriteString(RenderTable([]string{"MEMBER", "PERIOD", "TYPE", "TASK", "HOURS"}, rows))
	} else if len(p.Members) > 0 {
		names := make([]string, len(p.Members))
		for i, m := range p.Members {
			names[i] = m.Name
		}
		fmt.Fprintf(&b, "Members: %s\n", strings.Join(names, ", "))
	}
	return b.String()
}

// FormatReport summarizes what a merge did or would do.
func FormatReport(r reconcile.Report) string {
	if !r.Changed() {
		return Dim("No changes: the live plan already matches.") + "\n"
	}
	rows := [][]string{
		{"Members", countCell(r.MembersAdded, "added"), strconv.Itoa(r.MembersMatched) + " matched"},
		{"Periods", countCell(r.PeriodsAdded, "added"), strconv.Itoa(r.PeriodsMatched) + " matched"},
		{"Work logs", countCell(r.WorkLogsAdded, "added"), replacedCell(r.WorkLogsReplaced) + ", " + strconv.Itoa(r.WorkLogsKept) + " kept"},
	}
	out := RenderTable([]string{"", "NEW", "EXISTING"}, rows)
	if n := len(r.Remapped); n > 0 {
		out += Dim(fmt.Sprintf("%s matched by name and remapped to live ids.", plural(n, "staged id"))) + "\n"
	}
	return out
}

// FormatWarnings lists non-fatal conversion findings.
func FormatWarnings(ws []importer.Warning) string {
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("%s:", plural(len(ws), "warning"))))
	b.WriteString("\n")
	for _, w := range ws {
		fmt.Fprintf(&b, "  %s %s\n", StyleYellow.Render("!"), w.String())
	}
	return b.String()
}

func countCell(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n > 0 {
		return StyleGreen.Render(s)
	}
	return s
}

func replacedCell(n int) string {
	s := strconv.Itoa(n) + " replaced"
	if n > 0 {
		return StyleYellow.Render(s)
	}
	return s
}

func nameOrID(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return TruncID(id)
}
