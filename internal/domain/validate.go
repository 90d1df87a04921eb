package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidRecord wraps struct-level validation failures.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrDuplicateName indicates two members or two periods share a name
	// within one plan.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrDuplicateID indicates two members, periods or work logs share an
	// ID within one plan.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDanglingReference indicates a work log whose member or period does
	// not exist in the same plan.
	ErrDanglingReference = errors.New("dangling reference")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRecord runs the struct tag checks on a single member, period,
// work log or settings value.
func ValidateRecord(v any) error {
	if err := structValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// ValidatePlan checks the plan invariants: valid records, unique IDs,
// unique member and period names, and work logs that reference existing
// members and periods.
func ValidatePlan(p Plan) error {
	if err := ValidateRecord(p.Settings); err != nil {
		return fmt.Errorf("plan %q settings: %w", p.Name, err)
	}

	memberIDs := make(map[string]bool, len(p.Members))
	memberNames := make(map[string]bool, len(p.Members))
	for _, m := range p.Members {
		if err := ValidateRecord(m); err != nil {
			return fmt.Errorf("member %q: %w", m.Name, err)
		}
		if memberNames[m.Name] {
			return fmt.Errorf("member %q: %w", m.Name, ErrDuplicateName)
		}
		if memberIDs[m.ID] {
			return fmt.Errorf("member %q id %s: %w", m.Name, m.ID, ErrDuplicateID)
		}
		memberNames[m.Name] = true
		memberIDs[m.ID] = true
	}

	periodIDs := make(map[string]bool, len(p.Periods))
	periodNames := make(map[string]bool, len(p.Periods))
	for _, per := range p.Periods {
		if err := ValidateRecord(per); err != nil {
			return fmt.Errorf("period %q: %w", per.Name, err)
		}
		if periodNames[per.Name] {
			return fmt.Errorf("period %q: %w", per.Name, ErrDuplicateName)
		}
		if periodIDs[per.ID] {
			return fmt.Errorf("period %q id %s: %w", per.Name, per.ID, ErrDuplicateID)
		}
		periodNames[per.Name] = true
		periodIDs[per.ID] = true
	}

	logIDs := make(map[string]bool, len(p.WorkLogs))
	for _, l := range p.WorkLogs {
		if err := ValidateRecord(l); err != nil {
			return fmt.Errorf("work log %s: %w", l.ID, err)
		}
		if logIDs[l.ID] {
			return fmt.Errorf("work log %s: %w", l.ID, ErrDuplicateID)
		}
		logIDs[l.ID] = true
		if !memberIDs[l.MemberID] {
			return fmt.Errorf("work log %s: member %s: %w", l.ID, l.MemberID, ErrDanglingReference)
		}
		if !periodIDs[l.PeriodID] {
			return fmt.Errorf("work log %s: period %s: %w", l.ID, l.PeriodID, ErrDanglingReference)
		}
	}
	return nil
}
