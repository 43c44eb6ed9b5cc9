package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

func (d *DB) CreateLeaveType(ctx context.Context, create *store.CreateLeaveType) (*store.LeaveType, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO leave_type (uid, name, description, annual_entitlement, paid, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (uid) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			annual_entitlement = excluded.annual_entitlement,
			paid = excluded.paid
		RETURNING id
	`
	leaveType := &store.LeaveType{
		UID:               create.UID,
		Name:              create.Name,
		Description:       create.Description,
		AnnualEntitlement: create.AnnualEntitlement,
		Paid:              create.Paid,
		CreatedTs:         now,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.Name,
		create.Description,
		create.AnnualEntitlement,
		create.Paid,
		now,
	).Scan(&leaveType.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create leave type")
	}
	return leaveType, nil
}

func (d *DB) ListLeaveTypes(ctx context.Context) ([]*store.LeaveType, error) {
	query := `
		SELECT id, uid, name, description, annual_entitlement, paid, created_ts
		FROM leave_type
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list leave types")
	}
	defer rows.Close()

	var leaveTypes []*store.LeaveType
	for rows.Next() {
		var leaveType store.LeaveType
		if err := rows.Scan(
			&leaveType.ID,
			&leaveType.UID,
			&leaveType.Name,
			&leaveType.Description,
			&leaveType.AnnualEntitlement,
			&leaveType.Paid,
			&leaveType.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan leave type")
		}
		leaveTypes = append(leaveTypes, &leaveType)
	}
	return leaveTypes, rows.Err()
}

func (d *DB) GetLeaveTypeByUID(ctx context.Context, uid string) (*store.LeaveType, error) {
	query := `
		SELECT id, uid, name, description, annual_entitlement, paid, created_ts
		FROM leave_type
		WHERE uid = ?`

	var leaveType store.LeaveType
	err := d.db.QueryRowContext(ctx, query, uid).Scan(
		&leaveType.ID,
		&leaveType.UID,
		&leaveType.Name,
		&leaveType.Description,
		&leaveType.AnnualEntitlement,
		&leaveType.Paid,
		&leaveType.CreatedTs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get leave type")
	}
	return &leaveType, nil
}

func (d *DB) UpsertLeaveBalance(ctx context.Context, upsert *store.UpsertLeaveBalance) (*store.LeaveBalance, error) {
	stmt := `
		INSERT INTO leave_balance (employee_id, leave_type_id, year, opening, accrued, consumed, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE SET
			opening = excluded.opening,
			accrued = excluded.accrued,
			consumed = excluded.consumed,
			balance = excluded.balance
		RETURNING id, employee_id, leave_type_id, year, opening, accrued, consumed, balance
	`
	balance := upsert.Opening + upsert.Accrued - upsert.Consumed
	var leaveBalance store.LeaveBalance
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.EmployeeID,
		upsert.LeaveTypeID,
		upsert.Year,
		upsert.Opening,
		upsert.Accrued,
		upsert.Consumed,
		balance,
	).Scan(
		&leaveBalance.ID,
		&leaveBalance.EmployeeID,
		&leaveBalance.LeaveTypeID,
		&leaveBalance.Year,
		&leaveBalance.Opening,
		&leaveBalance.Accrued,
		&leaveBalance.Consumed,
		&leaveBalance.Balance,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert leave balance")
	}
	return &leaveBalance, nil
}

func (d *DB) ListLeaveBalances(ctx context.Context, find *store.FindLeaveBalance) ([]*store.LeaveBalance, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = ?"), append(args, *find.EmployeeID)
	}
	if find.LeaveTypeID != nil {
		where, args = append(where, "leave_type_id = ?"), append(args, *find.LeaveTypeID)
	}
	if find.Year != nil {
		where, args = append(where, "year = ?"), append(args, *find.Year)
	}

	query := `
		SELECT id, employee_id, leave_type_id, year, opening, accrued, consumed, balance
		FROM leave_balance
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY leave_type_id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list leave balances")
	}
	defer rows.Close()

	var balances []*store.LeaveBalance
	for rows.Next() {
		var balance store.LeaveBalance
		if err := rows.Scan(
			&balance.ID,
			&balance.EmployeeID,
			&balance.LeaveTypeID,
			&balance.Year,
			&balance.Opening,
			&balance.Accrued,
			&balance.Consumed,
			&balance.Balance,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan leave balance")
		}
		balances = append(balances, &balance)
	}
	return balances, rows.Err()
}

func (d *DB) AdjustLeaveBalance(ctx context.Context, employeeID, leaveTypeID int32, year int, days float64) error {
	stmt := `
		UPDATE leave_balance
		SET consumed = consumed + ?, balance = balance - ?
		WHERE employee_id = ? AND leave_type_id = ? AND year = ?
	`
	result, err := d.db.ExecContext(ctx, stmt, days, days, employeeID, leaveTypeID, year)
	if err != nil {
		return errors.Wrap(err, "failed to adjust leave balance")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("no leave balance row for employee %d type %d year %d", employeeID, leaveTypeID, year)
	}
	return nil
}

func (d *DB) CreateLeaveRequest(ctx context.Context, create *store.CreateLeaveRequest) (*store.LeaveRequest, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO leave_request (
			uid, employee_id, leave_type_id, start_date, end_date, days,
			reason, partial_day, status, created_ts, updated_ts
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	request := &store.LeaveRequest{
		UID:         create.UID,
		EmployeeID:  create.EmployeeID,
		LeaveTypeID: create.LeaveTypeID,
		StartDate:   create.StartDate,
		EndDate:     create.EndDate,
		Days:        create.Days,
		Reason:      create.Reason,
		PartialDay:  create.PartialDay,
		Status:      store.StatusPending,
		CreatedTs:   now,
		UpdatedTs:   now,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.EmployeeID,
		create.LeaveTypeID,
		create.StartDate,
		create.EndDate,
		create.Days,
		create.Reason,
		create.PartialDay,
		store.StatusPending,
		now,
		now,
	).Scan(&request.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create leave request")
	}
	return request, nil
}

func (d *DB) GetLeaveRequest(ctx context.Context, find *store.FindLeaveRequest) (*store.LeaveRequest, error) {
	list, err := d.ListLeaveRequests(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListLeaveRequests(ctx context.Context, find *store.FindLeaveRequest) ([]*store.LeaveRequest, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = ?"), append(args, *find.EmployeeID)
	}
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `
		SELECT id, uid, employee_id, leave_type_id, start_date, end_date, days,
			reason, partial_day, status, approver_id, comments, created_ts, updated_ts
		FROM leave_request
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list leave requests")
	}
	defer rows.Close()

	var requests []*store.LeaveRequest
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (d *DB) UpdateLeaveRequest(ctx context.Context, update *store.UpdateLeaveRequest) (*store.LeaveRequest, error) {
	set, args := []string{"updated_ts = ?"}, []any{update.UpdatedTs}

	if update.Status != nil {
		set, args = append(set, "status = ?"), append(args, *update.Status)
	}
	if update.ApproverID != nil {
		set, args = append(set, "approver_id = ?"), append(args, *update.ApproverID)
	}
	if update.Comments != nil {
		set, args = append(set, "comments = ?"), append(args, *update.Comments)
	}
	args = append(args, update.ID)

	stmt := `
		UPDATE leave_request
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ?
		RETURNING id, uid, employee_id, leave_type_id, start_date, end_date, days,
			reason, partial_day, status, approver_id, comments, created_ts, updated_ts
	`
	request, err := scanLeaveRequest(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update leave request")
	}
	return request, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeaveRequest(row rowScanner) (*store.LeaveRequest, error) {
	var request store.LeaveRequest
	var partialDay, comments sql.NullString
	var approverID sql.NullInt32
	if err := row.Scan(
		&request.ID,
		&request.UID,
		&request.EmployeeID,
		&request.LeaveTypeID,
		&request.StartDate,
		&request.EndDate,
		&request.Days,
		&request.Reason,
		&partialDay,
		&request.Status,
		&approverID,
		&comments,
		&request.CreatedTs,
		&request.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan leave request")
	}
	if partialDay.Valid {
		request.PartialDay = &partialDay.String
	}
	if approverID.Valid {
		request.ApproverID = &approverID.Int32
	}
	if comments.Valid {
		request.Comments = &comments.String
	}
	return &request, nil
}
