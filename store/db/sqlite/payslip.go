package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

func (d *DB) CreatePayslip(ctx context.Context, create *store.CreatePayslip) (*store.Payslip, error) {
	earningsJSON, err := json.Marshal(create.Earnings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal earnings")
	}
	deductionsJSON, err := json.Marshal(create.Deductions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal deductions")
	}

	now := time.Now().Unix()
	stmt := `
		INSERT INTO payslip (employee_id, period, earnings, deductions, net_pay, working_days, present_days, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	payslip := &store.Payslip{
		EmployeeID:  create.EmployeeID,
		Period:      create.Period,
		Earnings:    create.Earnings,
		Deductions:  create.Deductions,
		NetPay:      create.NetPay,
		WorkingDays: create.WorkingDays,
		PresentDays: create.PresentDays,
		CreatedTs:   now,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		create.EmployeeID,
		create.Period,
		string(earningsJSON),
		string(deductionsJSON),
		create.NetPay,
		create.WorkingDays,
		create.PresentDays,
		now,
	).Scan(&payslip.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create payslip")
	}
	return payslip, nil
}

func (d *DB) ListPayslips(ctx context.Context, find *store.FindPayslip) ([]*store.Payslip, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = ?"), append(args, *find.EmployeeID)
	}
	if find.Period != nil {
		where, args = append(where, "period = ?"), append(args, *find.Period)
	}

	query := `
		SELECT id, employee_id, period, earnings, deductions, net_pay, working_days, present_days, created_ts
		FROM payslip
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY period DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payslips")
	}
	defer rows.Close()

	var payslips []*store.Payslip
	for rows.Next() {
		var payslip store.Payslip
		var earningsJSON, deductionsJSON string
		if err := rows.Scan(
			&payslip.ID,
			&payslip.EmployeeID,
			&payslip.Period,
			&earningsJSON,
			&deductionsJSON,
			&payslip.NetPay,
			&payslip.WorkingDays,
			&payslip.PresentDays,
			&payslip.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan payslip")
		}
		if err := json.Unmarshal([]byte(earningsJSON), &payslip.Earnings); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal earnings")
		}
		if err := json.Unmarshal([]byte(deductionsJSON), &payslip.Deductions); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal deductions")
		}
		payslips = append(payslips, &payslip)
	}
	return payslips, rows.Err()
}

func (d *DB) CreateNotification(ctx context.Context, create *store.CreateNotification) (*store.Notification, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO notification (employee_id, type, title, message, is_read, created_ts)
		VALUES (?, ?, ?, ?, 0, ?)
		RETURNING id
	`
	notification := &store.Notification{
		EmployeeID: create.EmployeeID,
		Type:       create.Type,
		Title:      create.Title,
		Message:    create.Message,
		CreatedTs:  now,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		create.EmployeeID,
		create.Type,
		create.Title,
		create.Message,
		now,
	).Scan(&notification.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}
	return notification, nil
}

func (d *DB) ListNotifications(ctx context.Context, find *store.FindNotification) ([]*store.Notification, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.EmployeeID != nil {
		where, args = append(where, "employee_id = ?"), append(args, *find.EmployeeID)
	}
	if find.Read != nil {
		where, args = append(where, "is_read = ?"), append(args, *find.Read)
	}

	query := `
		SELECT id, employee_id, type, title, message, is_read, created_ts
		FROM notification
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	var notifications []*store.Notification
	for rows.Next() {
		var notification store.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.EmployeeID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.Read,
			&notification.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification")
		}
		notifications = append(notifications, &notification)
	}
	return notifications, rows.Err()
}
