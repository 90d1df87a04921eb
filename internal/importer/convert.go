package importer

import (
	"fmt"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/google/uuid"
)

// MemberResolver returns the member for a name, creating and registering
// one when the caller does not know it yet.
type MemberResolver interface {
	ResolveMember(name string) (domain.Member, error)
}

// MemberResolverFunc adapts a plain function to MemberResolver.
type MemberResolverFunc func(name string) (domain.Member, error)

func (f MemberResolverFunc) ResolveMember(name string) (domain.Member, error) {
	return f(name)
}

// MemberRegistry is the standard resolver: known members are matched by
// exact name, unknown names get a new member with import defaults.
type MemberRegistry struct {
	byName  map[string]domain.Member
	created []domain.Member
}

// NewMemberRegistry seeds the registry with members the caller already
// knows. Earlier entries win when names repeat.
func NewMemberRegistry(known ...[]domain.Member) *MemberRegistry {
	r := &MemberRegistry{byName: make(map[string]domain.Member)}
	for _, set := range known {
		for _, m := range set {
			if _, ok := r.byName[m.Name]; !ok {
				r.byName[m.Name] = m
			}
		}
	}
	return r
}

func (r *MemberRegistry) ResolveMember(name string) (domain.Member, error) {
	if m, ok := r.byName[name]; ok {
		return m, nil
	}
	m := domain.NewMember(name)
	r.byName[name] = m
	r.created = append(r.created, m)
	return m, nil
}

// Created returns the members minted by this registry, in creation order.
func (r *MemberRegistry) Created() []domain.Member {
	return r.created
}

type WarningCode string

const (
	WarnPeriodOutOfRange WarningCode = "PERIOD_OUT_OF_RANGE"
	WarnUnknownWorkType  WarningCode = "UNKNOWN_WORK_TYPE"
)

// Warning is a non-fatal conversion finding.
type Warning struct {
	Code    WarningCode
	Row     int
	Column  int
	Message string
}

func (w Warning) String() string {
	if w.Column > 0 {
		return fmt.Sprintf("row %d, column %d: %s", w.Row, w.Column, w.Message)
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// ConvertResult holds the work logs produced from workload rows.
type ConvertResult struct {
	WorkLogs []domain.WorkLog
	Warnings []Warning
}

// Convert maps workload rows onto work logs. Hours[i] is booked against
// periods[i]; non-positive hours produce nothing and hours past the last
// period are skipped with a warning. Members listed in members seed the
// name lookup; other names go through resolver once each.
func Convert(rows []WorkloadRow, periods []domain.Period, members []domain.Member, resolver MemberResolver) (*ConvertResult, error) {
	memberIDs := make(map[string]string, len(members))
	for _, m := range members {
		memberIDs[m.Name] = m.ID
	}

	result := &ConvertResult{}
	for _, row := range rows {
		memberID, ok := memberIDs[row.MemberName]
		if !ok {
			m, err := resolver.ResolveMember(row.MemberName)
			if err != nil {
				return nil, fmt.Errorf("resolving member %q (row %d): %w", row.MemberName, row.Row, err)
			}
			memberID = m.ID
			memberIDs[row.MemberName] = memberID
		}

		workType, known := domain.ParseWorkTypeLabel(row.WorkType)
		if !known {
			result.Warnings = append(result.Warnings, Warning{
				Code:    WarnUnknownWorkType,
				Row:     row.Row,
				Column:  1,
				Message: fmt.Sprintf("unrecognized work type %q, treating as %s", row.WorkType, workType),
			})
		}

		taskName := row.ProjectName + " - " + row.TaskName
		for i, hours := range row.Hours {
			if hours <= 0 {
				continue
			}
			if i >= len(periods) {
				result.Warnings = append(result.Warnings, Warning{
					Code:    WarnPeriodOutOfRange,
					Row:     row.Row,
					Column:  workloadFixedColumns + i + 1,
					Message: fmt.Sprintf("period %d does not exist, skipping", i+1),
				})
				continue
			}

			result.WorkLogs = append(result.WorkLogs, domain.WorkLog{
				ID:       uuid.New().String(),
				MemberID: memberID,
				PeriodID: periods[i].ID,
				Type:     workType,
				TaskName: taskName,
				Hours:    hours,
			})
		}
	}
	return result, nil
}
