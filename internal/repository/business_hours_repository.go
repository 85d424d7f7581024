package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
)

// BusinessHoursRuleRepo persists the calendar of dated and weekly
// open/close rules. Rules are independent top-level entities with no
// foreign references. DATE columns are scanned into time.Time via
// parseTime; TIME columns come back as strings and are parsed into
// minute-of-day values.
type BusinessHoursRuleRepo struct {
	db *sql.DB
}

// NewBusinessHoursRuleRepo constructs a BusinessHoursRuleRepo with the given DB handle.
func NewBusinessHoursRuleRepo(db *sql.DB) *BusinessHoursRuleRepo {
	return &BusinessHoursRuleRepo{db: db}
}

const ruleColumns = `id, start_date, end_date, specific_date, weekday, open_time, close_time, is_closed, created_at, updated_at`

func scanRule(row interface{ Scan(...any) error }) (*model.BusinessHoursRule, error) {
	var r model.BusinessHoursRule
	var specificDate sql.NullTime
	var weekday sql.NullInt32
	var openTime, closeTime sql.NullString
	if err := row.Scan(&r.ID, &r.StartDate, &r.EndDate, &specificDate, &weekday, &openTime, &closeTime, &r.Closed, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.StartDate = model.DateOf(r.StartDate)
	r.EndDate = model.DateOf(r.EndDate)
	if specificDate.Valid {
		d := model.DateOf(specificDate.Time)
		r.SpecificDate = &d
	}
	if weekday.Valid {
		day := time.Weekday(weekday.Int32)
		r.Weekday = &day
	}
	if openTime.Valid {
		t, err := model.ParseTimeOfDay(openTime.String)
		if err != nil {
			return nil, err
		}
		r.Open = &t
	}
	if closeTime.Valid {
		t, err := model.ParseTimeOfDay(closeTime.String)
		if err != nil {
			return nil, err
		}
		r.Close = &t
	}
	return &r, nil
}

// ruleArgs converts the nullable rule fields to driver values.
func ruleArgs(r *model.BusinessHoursRule) (specificDate any, weekday any, openTime any, closeTime any) {
	if r.SpecificDate != nil {
		specificDate = r.SpecificDate.Format(time.DateOnly)
	}
	if r.Weekday != nil {
		weekday = int(*r.Weekday)
	}
	if r.Open != nil {
		openTime = r.Open.String() + ":00"
	}
	if r.Close != nil {
		closeTime = r.Close.String() + ":00"
	}
	return
}

// GetAll returns every rule ordered by id.
func (repo *BusinessHoursRuleRepo) GetAll(ctx context.Context) ([]*model.BusinessHoursRule, error) {
	const q = `SELECT ` + ruleColumns + ` FROM business_hours_rules ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BusinessHoursRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a rule by its ID or ErrRuleNotFound.
func (repo *BusinessHoursRuleRepo) GetByID(ctx context.Context, id uint64) (*model.BusinessHoursRule, error) {
	const q = `SELECT ` + ruleColumns + ` FROM business_hours_rules WHERE id = ?`
	r, err := scanRule(repo.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return r, nil
}

// RulesForDate returns all rules whose inclusive [start_date, end_date]
// range contains the given civil date. The calendar layers precedence on
// top of this set.
func (repo *BusinessHoursRuleRepo) RulesForDate(ctx context.Context, date time.Time) ([]*model.BusinessHoursRule, error) {
	const q = `SELECT ` + ruleColumns + ` FROM business_hours_rules WHERE start_date <= ? AND end_date >= ?`
	day := model.DateOf(date).Format(time.DateOnly)
	rows, err := repo.db.QueryContext(ctx, q, day, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BusinessHoursRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a validated rule and reads it back to populate ID and
// timestamps.
func (repo *BusinessHoursRuleRepo) Create(ctx context.Context, r *model.BusinessHoursRule) error {
	specificDate, weekday, openTime, closeTime := ruleArgs(r)
	const qInsert = `INSERT INTO business_hours_rules
	                 (start_date, end_date, specific_date, weekday, open_time, close_time, is_closed)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, qInsert,
		r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly),
		specificDate, weekday, openTime, closeTime, r.Closed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	const qSelect = `SELECT ` + ruleColumns + ` FROM business_hours_rules WHERE id = ?`
	stored, err := scanRule(repo.db.QueryRowContext(ctx, qSelect, uint64(id)))
	if err != nil {
		return err
	}
	*r = *stored
	return nil
}

// Update persists a modified rule.
func (repo *BusinessHoursRuleRepo) Update(ctx context.Context, r *model.BusinessHoursRule) error {
	specificDate, weekday, openTime, closeTime := ruleArgs(r)
	const q = `UPDATE business_hours_rules
	           SET start_date = ?, end_date = ?, specific_date = ?, weekday = ?, open_time = ?, close_time = ?, is_closed = ?
	           WHERE id = ?`
	_, err := repo.db.ExecContext(ctx, q,
		r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly),
		specificDate, weekday, openTime, closeTime, r.Closed, r.ID)
	return err
}

// Delete removes a rule, returning ErrRuleNotFound when it does not exist.
func (repo *BusinessHoursRuleRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM business_hours_rules WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRuleNotFound
	}
	return nil
}
