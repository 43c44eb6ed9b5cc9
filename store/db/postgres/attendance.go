package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

func (d *DB) CreateAttendance(ctx context.Context, create *store.CreateAttendance) (*store.AttendanceRecord, error) {
	now := time.Now().Unix()
	args := []any{create.EmployeeID, create.Date, create.CheckIn, create.Status, create.Location, now, now}
	stmt := `
		INSERT INTO attendance (employee_id, date, check_in, status, location, created_ts, updated_ts)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, employee_id, date, check_in, check_out, status, work_hours, location, created_ts, updated_ts
	`
	record, err := scanAttendance(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create attendance record")
	}
	return record, nil
}

func (d *DB) GetAttendance(ctx context.Context, find *store.FindAttendance) (*store.AttendanceRecord, error) {
	list, err := d.ListAttendance(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListAttendance(ctx context.Context, find *store.FindAttendance) ([]*store.AttendanceRecord, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = "+placeholder(len(args)+1)), append(args, *find.EmployeeID)
	}
	if find.Date != nil {
		where, args = append(where, "date = "+placeholder(len(args)+1)), append(args, *find.Date)
	}
	if find.StartDate != nil {
		where, args = append(where, "date >= "+placeholder(len(args)+1)), append(args, *find.StartDate)
	}
	if find.EndDate != nil {
		where, args = append(where, "date <= "+placeholder(len(args)+1)), append(args, *find.EndDate)
	}

	query := `
		SELECT id, employee_id, date, check_in, check_out, status, work_hours, location, created_ts, updated_ts
		FROM attendance
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list attendance records")
	}
	defer rows.Close()

	var records []*store.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (d *DB) UpdateAttendance(ctx context.Context, update *store.UpdateAttendance) (*store.AttendanceRecord, error) {
	set, args := []string{}, []any{}

	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, update.UpdatedTs)
	if update.CheckIn != nil {
		set, args = append(set, "check_in = "+placeholder(len(args)+1)), append(args, *update.CheckIn)
	}
	if update.CheckOut != nil {
		set, args = append(set, "check_out = "+placeholder(len(args)+1)), append(args, *update.CheckOut)
	}
	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *update.Status)
	}
	if update.WorkHours != nil {
		set, args = append(set, "work_hours = "+placeholder(len(args)+1)), append(args, *update.WorkHours)
	}
	if update.Location != nil {
		set, args = append(set, "location = "+placeholder(len(args)+1)), append(args, *update.Location)
	}
	args = append(args, update.ID)

	stmt := `
		UPDATE attendance
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, employee_id, date, check_in, check_out, status, work_hours, location, created_ts, updated_ts
	`
	record, err := scanAttendance(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update attendance record")
	}
	return record, nil
}

func scanAttendance(row rowScanner) (*store.AttendanceRecord, error) {
	var record store.AttendanceRecord
	var checkIn, checkOut, location sql.NullString
	if err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.Date,
		&checkIn,
		&checkOut,
		&record.Status,
		&record.WorkHours,
		&location,
		&record.CreatedTs,
		&record.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan attendance record")
	}
	if checkIn.Valid {
		record.CheckIn = &checkIn.String
	}
	if checkOut.Valid {
		record.CheckOut = &checkOut.String
	}
	if location.Valid {
		record.Location = &location.String
	}
	return &record, nil
}

func (d *DB) CreateRegularization(ctx context.Context, create *store.CreateRegularization) (*store.Regularization, error) {
	now := time.Now().Unix()
	args := []any{
		create.UID, create.EmployeeID, create.Date, create.Reason, create.RequestedCheckIn, create.RequestedCheckOut,
		store.StatusPending, now, now,
	}
	stmt := `
		INSERT INTO regularization (
			uid, employee_id, date, reason, requested_check_in, requested_check_out,
			status, created_ts, updated_ts
		)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, uid, employee_id, date, reason, requested_check_in, requested_check_out,
			status, approver_id, comments, created_ts, updated_ts
	`
	regularization, err := scanRegularization(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create regularization")
	}
	return regularization, nil
}

func (d *DB) GetRegularization(ctx context.Context, find *store.FindRegularization) (*store.Regularization, error) {
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
		SELECT id, uid, employee_id, date, reason, requested_check_in, requested_check_out,
			status, approver_id, comments, created_ts, updated_ts
		FROM regularization
		WHERE ` + strings.Join(where, " AND ") + `
		LIMIT 1`

	regularization, err := scanRegularization(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(errors.Cause(err), sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return regularization, nil
}

func (d *DB) UpdateRegularization(ctx context.Context, update *store.UpdateRegularization) (*store.Regularization, error) {
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
		UPDATE regularization
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, employee_id, date, reason, requested_check_in, requested_check_out,
			status, approver_id, comments, created_ts, updated_ts
	`
	regularization, err := scanRegularization(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update regularization")
	}
	return regularization, nil
}

func scanRegularization(row rowScanner) (*store.Regularization, error) {
	var regularization store.Regularization
	var requestedCheckIn, requestedCheckOut, comments sql.NullString
	var approverID sql.NullInt32
	if err := row.Scan(
		&regularization.ID,
		&regularization.UID,
		&regularization.EmployeeID,
		&regularization.Date,
		&regularization.Reason,
		&requestedCheckIn,
		&requestedCheckOut,
		&regularization.Status,
		&approverID,
		&comments,
		&regularization.CreatedTs,
		&regularization.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan regularization")
	}
	if requestedCheckIn.Valid {
		regularization.RequestedCheckIn = &requestedCheckIn.String
	}
	if requestedCheckOut.Valid {
		regularization.RequestedCheckOut = &requestedCheckOut.String
	}
	if approverID.Valid {
		regularization.ApproverID = &approverID.Int32
	}
	if comments.Valid {
		regularization.Comments = &comments.String
	}
	return &regularization, nil
}
