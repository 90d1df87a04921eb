package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/loadplan/internal/db"
	"github.com/alexanderramin/loadplan/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, name, default_daily_hours, consider_public_holidays, company_holidays, created_at, updated_at`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	holidays, err := encodeHolidays(p.Settings.CompanyHolidays)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Settings.DefaultDailyHours,
		boolToInt(p.Settings.ConsiderPublicHolidays),
		holidays,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %q: %w", p.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("inserting plan: %w", err)
	}
	return r.insertChildren(ctx, p)
}

func (r *SQLitePlanRepo) Get(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	return r.load(ctx, row)
}

func (r *SQLitePlanRepo) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE name = ?`, name)
	return r.load(ctx, row)
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	rows.Close()

	for _, p := range plans {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Save rewrites the plan row and replaces its members, periods and work
// logs with the ones in p.
func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	holidays, err := encodeHolidays(p.Settings.CompanyHolidays)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET name = ?, default_daily_hours = ?, consider_public_holidays = ?, company_holidays = ?, updated_at = ?
		WHERE id = ?`,
		p.Name,
		p.Settings.DefaultDailyHours,
		boolToInt(p.Settings.ConsiderPublicHolidays),
		holidays,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %q: %w", p.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("updating plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %s: %w", p.ID, ErrNotFound)
	}

	for _, stmt := range []string{
		`DELETE FROM work_logs WHERE plan_id = ?`,
		`DELETE FROM members WHERE plan_id = ?`,
		`DELETE FROM periods WHERE plan_id = ?`,
	} {
		if _, err := r.db.ExecContext(ctx, stmt, p.ID); err != nil {
			return fmt.Errorf("clearing plan children: %w", err)
		}
	}
	return r.insertChildren(ctx, p)
}

func (r *SQLitePlanRepo) Rename(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE plans SET name = ?, updated_at = ? WHERE id = ?`, name, nowUTC(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %q: %w", name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("renaming plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans`); err != nil {
		return fmt.Errorf("deleting plans: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) insertChildren(ctx context.Context, p *domain.Plan) error {
	for i, m := range p.Members {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO members (plan_id, id, name, buffer, project_ratio, feature_ratio, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, m.ID, m.Name, m.Buffer, m.ProjectRatio, m.FeatureRatio, i)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("member %q: %w", m.Name, duplicateKind(err, "members"))
			}
			return fmt.Errorf("inserting member %q: %w", m.Name, err)
		}
	}
	for i, per := range p.Periods {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO periods (plan_id, id, name, start_date, end_date, working_days, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, per.ID, per.Name, per.StartDate.String(), per.EndDate.String(), per.WorkingDays, i)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("period %q: %w", per.Name, duplicateKind(err, "periods"))
			}
			return fmt.Errorf("inserting period %q: %w", per.Name, err)
		}
	}
	for i, l := range p.WorkLogs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO work_logs (plan_id, id, member_id, period_id, type, task_name, hours, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, l.ID, l.MemberID, l.PeriodID, string(l.Type), l.TaskName, l.Hours, i)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("work log %s: %w", l.ID, domain.ErrDuplicateID)
			}
			return fmt.Errorf("inserting work log %s: %w", l.ID, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) load(ctx context.Context, row *sql.Row) (*domain.Plan, error) {
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(s rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var considerHolidays int
	var holidaysJSON, createdAt, updatedAt string
	err := s.Scan(
		&p.ID, &p.Name,
		&p.Settings.DefaultDailyHours, &considerHolidays, &holidaysJSON,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.Settings.ConsiderPublicHolidays = intToBool(considerHolidays)
	if err := json.Unmarshal([]byte(holidaysJSON), &p.Settings.CompanyHolidays); err != nil {
		return nil, fmt.Errorf("decoding company holidays of plan %q: %w", p.Name, err)
	}
	if p.Settings.CompanyHolidays == nil {
		p.Settings.CompanyHolidays = []domain.Date{}
	}
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}

func (r *SQLitePlanRepo) loadChildren(ctx context.Context, p *domain.Plan) error {
	var err error
	if p.Members, err = r.listMembers(ctx, p.ID); err != nil {
		return err
	}
	if p.Periods, err = r.listPeriods(ctx, p.ID); err != nil {
		return err
	}
	if p.WorkLogs, err = r.listWorkLogs(ctx, p.ID); err != nil {
		return err
	}
	return nil
}

func (r *SQLitePlanRepo) listMembers(ctx context.Context, planID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, buffer, project_ratio, feature_ratio FROM members WHERE plan_id = ? ORDER BY position, rowid`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Buffer, &m.ProjectRatio, &m.FeatureRatio); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

func (r *SQLitePlanRepo) listPeriods(ctx context.Context, planID string) ([]domain.Period, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, working_days FROM periods WHERE plan_id = ? ORDER BY position, rowid`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		var p domain.Period
		var start, end string
		if err := rows.Scan(&p.ID, &p.Name, &start, &end, &p.WorkingDays); err != nil {
			return nil, fmt.Errorf("scanning period row: %w", err)
		}
		if p.StartDate, err = parseOptionalDate(start); err != nil {
			return nil, fmt.Errorf("period %q start_date: %w", p.Name, err)
		}
		if p.EndDate, err = parseOptionalDate(end); err != nil {
			return nil, fmt.Errorf("period %q end_date: %w", p.Name, err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating periods: %w", err)
	}
	return periods, nil
}

func (r *SQLitePlanRepo) listWorkLogs(ctx context.Context, planID string) ([]domain.WorkLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, period_id, type, task_name, hours FROM work_logs WHERE plan_id = ? ORDER BY position, rowid`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing work logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.WorkLog{}
	for rows.Next() {
		var l domain.WorkLog
		var wt string
		if err := rows.Scan(&l.ID, &l.MemberID, &l.PeriodID, &wt, &l.TaskName, &l.Hours); err != nil {
			return nil, fmt.Errorf("scanning work log row: %w", err)
		}
		l.Type = domain.WorkType(wt)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work logs: %w", err)
	}
	return logs, nil
}

func encodeHolidays(days []domain.Date) (string, error) {
	if days == nil {
		days = []domain.Date{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encoding company holidays: %w", err)
	}
	return string(b), nil
}

func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}
