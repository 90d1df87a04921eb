package service

import (
	"context"
	"io"

	"github.com/alexanderramin/loadplan/internal/capacity"
	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/alexanderramin/loadplan/internal/importer"
	"github.com/alexanderramin/loadplan/internal/reconcile"
	"github.com/alexanderramin/loadplan/internal/repository"
)

type PlanService interface {
	// Create adds an empty plan and makes it active.
	Create(ctx context.Context, name string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	Get(ctx context.Context, id string) (*domain.Plan, error)
	GetByName(ctx context.Context, name string) (*domain.Plan, error)
	// Active returns the active plan, falling back to the first plan.
	Active(ctx context.Context) (*domain.Plan, error)
	SetActive(ctx context.Context, name string) (*domain.Plan, error)
	Rename(ctx context.Context, oldName, newName string) (*domain.Plan, error)
	// Delete removes a plan. Deleting the active plan activates the first
	// remaining one.
	Delete(ctx context.Context, name string) error
	UpdateSettings(ctx context.Context, name string, upd SettingsUpdate) (*domain.Plan, error)
	// Capacity reports per member and period how many project and feature
	// hours the named plan ("" for the active one) can still take.
	Capacity(ctx context.Context, name string, opts capacity.Options) (*CapacityResult, error)
}

// CapacityResult is a capacity report for one plan.
type CapacityResult struct {
	Plan *domain.Plan
	Rows []capacity.Row
}

// EditService changes members, periods and work logs of one plan by hand.
// Every method takes the plan name, "" meaning the active plan, and
// validates the whole plan before saving.
type EditService interface {
	AddMember(ctx context.Context, planName, name string, upd MemberUpdate) (*domain.Member, error)
	UpdateMember(ctx context.Context, planName, name string, upd MemberUpdate) (*domain.Member, error)
	// DeleteMember removes the member and every work log it owns, returning
	// how many logs went with it.
	DeleteMember(ctx context.Context, planName, name string) (int, error)

	AddPeriod(ctx context.Context, planName, name string, start, end domain.Date) (*domain.Period, error)
	UpdatePeriod(ctx context.Context, planName, name string, upd PeriodUpdate) (*domain.Period, error)
	// DeletePeriod removes the period and every work log booked in it.
	DeletePeriod(ctx context.Context, planName, name string) (int, error)

	// AddLog records hours, including leave, for a member in a period.
	AddLog(ctx context.Context, planName string, entry LogEntry) (*domain.WorkLog, error)
	// UpdateLog and DeleteLog accept a work log ID or a unique prefix of it.
	UpdateLog(ctx context.Context, planName, id string, upd LogUpdate) (*domain.WorkLog, error)
	DeleteLog(ctx context.Context, planName, id string) error
}

// MemberUpdate changes only the fields that are set. On AddMember unset
// fields keep the import defaults.
type MemberUpdate struct {
	Name         *string
	Buffer       *float64
	ProjectRatio *float64
	FeatureRatio *float64
}

// PeriodUpdate changes only the fields that are set. New dates recompute
// the period's working days.
type PeriodUpdate struct {
	Name      *string
	StartDate *domain.Date
	EndDate   *domain.Date
}

// LogEntry names the member and period a new work log belongs to. A leave
// entry without a task name is recorded as "leave".
type LogEntry struct {
	Member   string
	Period   string
	Type     domain.WorkType
	TaskName string
	Hours    float64
}

// LogUpdate changes only the fields that are set.
type LogUpdate struct {
	TaskName *string
	Hours    *float64
}

// SettingsUpdate changes only the fields that are set.
type SettingsUpdate struct {
	DefaultDailyHours      *float64
	ConsiderPublicHolidays *bool
	CompanyHolidays        []domain.Date
	ReplaceHolidays        bool
}

// StageResult describes what a staging import left in its bucket.
type StageResult struct {
	Key      domain.StagingKey
	Payload  *domain.StagingPayload
	Added    int // rows converted by this call
	Warnings []importer.Warning
}

// ImportResult describes a direct import into a live plan.
type ImportResult struct {
	Plan     *domain.Plan
	Report   reconcile.Report
	Warnings []importer.Warning
}

type ImportService interface {
	StagePeriods(ctx context.Context, csvText, planName string) (*StageResult, error)
	StageWorkload(ctx context.Context, csvText, planName string) (*StageResult, error)
	ImportPeriods(ctx context.Context, csvText string) (*ImportResult, error)
	ImportWorkload(ctx context.Context, csvText string) (*ImportResult, error)
}

type StagingService interface {
	Pending(ctx context.Context) ([]repository.StagedEntry, error)
	Load(ctx context.Context, planName string) (*domain.StagingPayload, error)
	Clear(ctx context.Context, target domain.StagingTarget, planName string) error
}

// ApplyResult describes a merge of a staging bucket into a live plan.
type ApplyResult struct {
	Plan    *domain.Plan
	Report  reconcile.Report
	Applied bool
}

type ReconcileService interface {
	Preview(ctx context.Context, planName string) (*ApplyResult, error)
	Apply(ctx context.Context, planName string) (*ApplyResult, error)
}

type ExportService interface {
	PeriodsCSV(ctx context.Context, planName string) (string, error)
	WorkloadSummaryCSV(ctx context.Context, planName string) (string, error)
	LeavesSummaryCSV(ctx context.Context, planName string) (string, error)
	Workbook(ctx context.Context, planName string, w io.Writer) error
	Dump(ctx context.Context) (*domain.Document, error)
	Load(ctx context.Context, doc *domain.Document) error
}
