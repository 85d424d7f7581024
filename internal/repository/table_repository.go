package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
)

// mysqlErrRowIsReferenced is raised when a DELETE violates a foreign key
// held by child rows (reservations referencing the table).
const mysqlErrRowIsReferenced = 1451

// TableRepo provides persistence for restaurant tables. It embeds a
// database handle to perform queries and commands.
type TableRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableColumns = `id, name, capacity, status, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	var name string
	var capacity int
	var status string
	if err := row.Scan(&t.ID, &name, &capacity, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Name = model.TableName(name)
	t.Capacity = model.Capacity(capacity)
	t.Status = model.TableStatus(status)
	return &t, nil
}

// GetByID retrieves a table by its ID. It returns ErrTableNotFound when no
// row is found.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all tables ordered by id.
func (r *TableRepo) List(ctx context.Context) ([]*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new table. After insert the record is read back so the
// ID, status and timestamp fields reflect what the database stored.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const qInsert = `INSERT INTO tables (name, capacity, status) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.Name.String(), t.Capacity.Int(), string(t.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	const qSelect = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	stored, err := scanTable(r.db.QueryRowContext(ctx, qSelect, uint64(id)))
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// Update persists the table's name, capacity and status. Partial updates
// are resolved by the caller: it loads the current row, overwrites the
// fields it wants to change and passes the merged entity here.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET name = ?, capacity = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name.String(), t.Capacity.Int(), string(t.Status), t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the values did not change, so confirm
		// the row actually exists before reporting not found.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTableNotFound
		}
	}
	return nil
}

// UpdateStatus flips only the lifecycle status of a table. Used by the
// admission service when bookings and cancellations change table state.
func (r *TableRepo) UpdateStatus(ctx context.Context, id uint64, status model.TableStatus) error {
	const q = `UPDATE tables SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, string(status), id)
	return err
}

// Delete removes a table. The reservations table holds a restricting
// foreign key, so deleting a table that reservations still reference
// fails; that driver error is translated to ErrConflict.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tables WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlErrRowIsReferenced {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}
