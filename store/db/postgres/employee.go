package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

func (d *DB) CreateEmployee(ctx context.Context, create *store.CreateEmployee) (*store.Employee, error) {
	now := time.Now().Unix()
	fields := []string{
		"user_id", "employee_code", "first_name", "last_name", "email",
		"department", "designation", "role", "manager_id", "salary", "join_date",
		"created_ts", "updated_ts",
	}
	args := []any{
		create.UserID, create.EmployeeCode, create.FirstName, create.LastName, create.Email,
		create.Department, create.Designation, create.Role, create.ManagerID, create.Salary, create.JoinDate,
		now, now,
	}
	stmt := `INSERT INTO employee (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	employee := &store.Employee{
		UserID:       create.UserID,
		EmployeeCode: create.EmployeeCode,
		FirstName:    create.FirstName,
		LastName:     create.LastName,
		Email:        create.Email,
		Department:   create.Department,
		Designation:  create.Designation,
		Role:         create.Role,
		ManagerID:    create.ManagerID,
		Salary:       create.Salary,
		JoinDate:     create.JoinDate,
		CreatedTs:    now,
		UpdatedTs:    now,
	}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&employee.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create employee")
	}
	return employee, nil
}

func (d *DB) GetEmployee(ctx context.Context, find *store.FindEmployee) (*store.Employee, error) {
	list, err := d.ListEmployees(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListEmployees(ctx context.Context, find *store.FindEmployee) ([]*store.Employee, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.Department != nil {
		where, args = append(where, "department = "+placeholder(len(args)+1)), append(args, *find.Department)
	}

	query := `
		SELECT id, user_id, employee_code, first_name, last_name, email,
			department, designation, role, manager_id, salary, join_date,
			created_ts, updated_ts
		FROM employee
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list employees")
	}
	defer rows.Close()

	var employees []*store.Employee
	for rows.Next() {
		var employee store.Employee
		var managerID sql.NullInt32
		if err := rows.Scan(
			&employee.ID,
			&employee.UserID,
			&employee.EmployeeCode,
			&employee.FirstName,
			&employee.LastName,
			&employee.Email,
			&employee.Department,
			&employee.Designation,
			&employee.Role,
			&managerID,
			&employee.Salary,
			&employee.JoinDate,
			&employee.CreatedTs,
			&employee.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan employee")
		}
		if managerID.Valid {
			employee.ManagerID = &managerID.Int32
		}
		employees = append(employees, &employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
