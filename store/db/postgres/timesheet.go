package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

// CreateTimesheetEntries inserts all entries of a submitted week in one
// transaction: a week submission is all-or-nothing.
func (d *DB) CreateTimesheetEntries(ctx context.Context, creates []*store.CreateTimesheetEntry) ([]*store.TimesheetEntry, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	stmt := `
		INSERT INTO timesheet_entry (employee_id, week_start, date, project_id, hours, description, billable, created_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	entries := make([]*store.TimesheetEntry, 0, len(creates))
	for _, create := range creates {
		entry := &store.TimesheetEntry{
			EmployeeID:  create.EmployeeID,
			WeekStart:   create.WeekStart,
			Date:        create.Date,
			ProjectID:   create.ProjectID,
			Hours:       create.Hours,
			Description: create.Description,
			Billable:    create.Billable,
			CreatedTs:   now,
		}
		if err := tx.QueryRowContext(ctx, stmt,
			create.EmployeeID,
			create.WeekStart,
			create.Date,
			create.ProjectID,
			create.Hours,
			create.Description,
			create.Billable,
			now,
		).Scan(&entry.ID); err != nil {
			return nil, errors.Wrap(err, "failed to create timesheet entry")
		}
		entries = append(entries, entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit timesheet entries")
	}
	return entries, nil
}

func (d *DB) ListTimesheetEntries(ctx context.Context, find *store.FindTimesheetEntry) ([]*store.TimesheetEntry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = "+placeholder(len(args)+1)), append(args, *find.EmployeeID)
	}
	if find.WeekStart != nil {
		where, args = append(where, "week_start = "+placeholder(len(args)+1)), append(args, *find.WeekStart)
	}

	query := `
		SELECT id, employee_id, week_start, date, project_id, hours, description, billable, created_ts
		FROM timesheet_entry
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list timesheet entries")
	}
	defer rows.Close()

	var entries []*store.TimesheetEntry
	for rows.Next() {
		var entry store.TimesheetEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EmployeeID,
			&entry.WeekStart,
			&entry.Date,
			&entry.ProjectID,
			&entry.Hours,
			&entry.Description,
			&entry.Billable,
			&entry.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan timesheet entry")
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (d *DB) CreateExpenseClaim(ctx context.Context, create *store.CreateExpenseClaim) (*store.ExpenseClaim, error) {
	now := time.Now().Unix()
	args := []any{
		create.UID, create.EmployeeID, create.CategoryID, create.Amount, create.Currency, create.Description,
		create.ExpenseDate, create.ReceiptURL, store.StatusPending, now, now,
	}
	stmt := `
		INSERT INTO expense_claim (
			uid, employee_id, category_id, amount, currency, description,
			expense_date, receipt_url, status, created_ts, updated_ts
		)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, uid, employee_id, category_id, amount, currency, description,
			expense_date, receipt_url, status, approver_id, comments, created_ts, updated_ts
	`
	claim, err := scanExpenseClaim(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create expense claim")
	}
	return claim, nil
}

func (d *DB) GetExpenseClaim(ctx context.Context, find *store.FindExpenseClaim) (*store.ExpenseClaim, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = "+placeholder(len(args)+1)), append(args, *find.EmployeeID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `
		SELECT id, uid, employee_id, category_id, amount, currency, description,
			expense_date, receipt_url, status, approver_id, comments, created_ts, updated_ts
		FROM expense_claim
		WHERE ` + strings.Join(where, " AND ") + `
		LIMIT 1`

	claim, err := scanExpenseClaim(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(errors.Cause(err), sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return claim, nil
}

func (d *DB) UpdateExpenseClaim(ctx context.Context, update *store.UpdateExpenseClaim) (*store.ExpenseClaim, error) {
	set, args := []string{}, []any{}

	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, update.UpdatedTs)
	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *update.Status)
	}
	if update.ApproverID != nil {
		set, args = append(set, "approver_id = "+placeholder(len(args)+1)), append(args, *update.ApproverID)
	}
	if update.Comments != nil {
		set, args = append(set, "comments = "+placeholder(len(args)+1)), append(args, *update.Comments)
	}
	args = append(args, update.ID)

	stmt := `
		UPDATE expense_claim
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, employee_id, category_id, amount, currency, description,
			expense_date, receipt_url, status, approver_id, comments, created_ts, updated_ts
	`
	claim, err := scanExpenseClaim(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update expense claim")
	}
	return claim, nil
}

func scanExpenseClaim(row rowScanner) (*store.ExpenseClaim, error) {
	var claim store.ExpenseClaim
	var receiptURL, comments sql.NullString
	var approverID sql.NullInt32
	if err := row.Scan(
		&claim.ID,
		&claim.UID,
		&claim.EmployeeID,
		&claim.CategoryID,
		&claim.Amount,
		&claim.Currency,
		&claim.Description,
		&claim.ExpenseDate,
		&receiptURL,
		&claim.Status,
		&approverID,
		&comments,
		&claim.CreatedTs,
		&claim.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan expense claim")
	}
	if receiptURL.Valid {
		claim.ReceiptURL = &receiptURL.String
	}
	if approverID.Valid {
		claim.ApproverID = &approverID.Int32
	}
	if comments.Valid {
		claim.Comments = &comments.String
	}
	return &claim, nil
}
