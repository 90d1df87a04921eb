// Package reconcile merges staged imports into live plans.
//
// Members and periods carry two identities: an opaque ID that work logs
// reference, and a name that is the natural key across merges. A staged
// entity whose name already exists live is dropped in favor of the live
// one, and every staged work log pointing at the dropped ID is rewritten
// to the live ID. Entities are never kept twice under the same name, and
// a staged entity whose ID is already taken under another name is given a
// fresh one.
package reconcile

import (
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/google/uuid"
)

// Report summarizes what a merge did (or would do).
type Report struct {
	MembersAdded     int
	MembersMatched   int
	PeriodsAdded     int
	PeriodsMatched   int
	Remapped         map[string]string // staged ID -> ID in the merged plan
	WorkLogsAdded    int
	WorkLogsReplaced int
	WorkLogsKept     int
}

// Changed reports whether applying the merge would alter the live plan's
// collections.
func (r Report) Changed() bool {
	return r.MembersAdded > 0 || r.PeriodsAdded > 0 || r.WorkLogsAdded > 0 || r.WorkLogsReplaced > 0
}

// index tracks which names and IDs a merged collection already holds.
type index struct {
	idByName map[string]string
	usedIDs  map[string]bool
}

func newIndex[T any](items []T, key func(T) (name, id string)) *index {
	ix := &index{
		idByName: make(map[string]string, len(items)),
		usedIDs:  make(map[string]bool, len(items)),
	}
	for _, it := range items {
		name, id := key(it)
		if _, ok := ix.idByName[name]; !ok {
			ix.idByName[name] = id
		}
		ix.usedIDs[id] = true
	}
	return ix
}

func (ix *index) lookup(name string) (string, bool) {
	id, ok := ix.idByName[name]
	return id, ok
}

// claim registers a new entity and returns the ID it will carry: id itself,
// or a fresh one when id already belongs to another entity.
func (ix *index) claim(name, id string) string {
	if ix.usedIDs[id] {
		id = uuid.New().String()
	}
	ix.idByName[name] = id
	ix.usedIDs[id] = true
	return id
}

func memberKey(m domain.Member) (string, string) { return m.Name, m.ID }
func periodKey(p domain.Period) (string, string) { return p.Name, p.ID }

// Merge folds staged into a copy of live. A nil or empty payload returns
// live unchanged. live itself is never mutated.
func Merge(live domain.Plan, staged *domain.StagingPayload) (domain.Plan, Report) {
	report := Report{Remapped: map[string]string{}}
	if staged.IsEmpty() {
		return live, report
	}

	out := live.Clone()
	memberRemap := make(map[string]string)
	periodRemap := make(map[string]string)

	members := newIndex(out.Members, memberKey)
	for _, m := range staged.Members {
		if liveID, ok := members.lookup(m.Name); ok {
			report.MembersMatched++
			if liveID != m.ID {
				memberRemap[m.ID] = liveID
			}
			continue
		}
		if id := members.claim(m.Name, m.ID); id != m.ID {
			memberRemap[m.ID] = id
			m.ID = id
		}
		out.Members = append(out.Members, m)
		report.MembersAdded++
	}

	periods := newIndex(out.Periods, periodKey)
	for _, p := range staged.Periods {
		if liveID, ok := periods.lookup(p.Name); ok {
			report.PeriodsMatched++
			if liveID != p.ID {
				periodRemap[p.ID] = liveID
			}
			continue
		}
		if id := periods.claim(p.Name, p.ID); id != p.ID {
			periodRemap[p.ID] = id
			p.ID = id
		}
		out.Periods = append(out.Periods, p)
		report.PeriodsAdded++
	}

	rewritten := rewriteLogs(staged.WorkLogs, memberRemap, periodRemap)

	incoming := make(map[domain.WorkLogKey]struct{}, len(rewritten))
	for _, l := range rewritten {
		incoming[l.Key()] = struct{}{}
	}

	liveKeys := make(map[domain.WorkLogKey]struct{}, len(out.WorkLogs))
	logIDs := make(map[string]bool, len(out.WorkLogs)+len(rewritten))
	logs := make([]domain.WorkLog, 0, len(out.WorkLogs)+len(rewritten))
	for _, l := range out.WorkLogs {
		liveKeys[l.Key()] = struct{}{}
		if _, replaced := incoming[l.Key()]; replaced {
			continue
		}
		logs = append(logs, l)
		logIDs[l.ID] = true
		report.WorkLogsKept++
	}
	for i, l := range rewritten {
		if logIDs[l.ID] {
			rewritten[i].ID = uuid.New().String()
		}
		logIDs[rewritten[i].ID] = true
		if _, ok := liveKeys[l.Key()]; ok {
			report.WorkLogsReplaced++
		} else {
			report.WorkLogsAdded++
		}
	}
	out.WorkLogs = append(logs, rewritten...)

	for from, to := range memberRemap {
		report.Remapped[from] = to
	}
	for from, to := range periodRemap {
		report.Remapped[from] = to
	}
	return out, report
}

// rewriteLogs points member and period references at their surviving IDs.
// Every staged log is kept, so rows sharing a content key add up. Unmapped
// IDs pass through.
func rewriteLogs(in []domain.WorkLog, memberRemap, periodRemap map[string]string) []domain.WorkLog {
	out := make([]domain.WorkLog, len(in))
	for i, l := range in {
		if id, ok := memberRemap[l.MemberID]; ok {
			l.MemberID = id
		}
		if id, ok := periodRemap[l.PeriodID]; ok {
			l.PeriodID = id
		}
		out[i] = l
	}
	return out
}

// MergeInto merges staged into *live in place. Used by direct imports that
// already own the plan value.
func MergeInto(live *domain.Plan, staged *domain.StagingPayload) Report {
	merged, report := Merge(*live, staged)
	*live = merged
	return report
}

// Preview reports what Merge would do without returning the merged plan.
func Preview(live domain.Plan, staged *domain.StagingPayload) Report {
	_, report := Merge(live, staged)
	return report
}
