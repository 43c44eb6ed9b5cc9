package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the PostgreSQL database behind the profile's DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: pgDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, placeholder(i))
	}
	return strings.Join(list, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS employee (
	id SERIAL PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	employee_code TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	designation TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'employee',
	manager_id INTEGER,
	salary DOUBLE PRECISION NOT NULL DEFAULT 0,
	join_date TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_type (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	annual_entitlement DOUBLE PRECISION NOT NULL DEFAULT 0,
	paid BOOLEAN NOT NULL DEFAULT TRUE,
	created_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_balance (
	id SERIAL PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	leave_type_id INTEGER NOT NULL,
	year INTEGER NOT NULL,
	opening DOUBLE PRECISION NOT NULL DEFAULT 0,
	accrued DOUBLE PRECISION NOT NULL DEFAULT 0,
	consumed DOUBLE PRECISION NOT NULL DEFAULT 0,
	balance DOUBLE PRECISION NOT NULL DEFAULT 0,
	UNIQUE(employee_id, leave_type_id, year)
);

CREATE TABLE IF NOT EXISTS leave_request (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	employee_id INTEGER NOT NULL,
	leave_type_id INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	days DOUBLE PRECISION NOT NULL,
	reason TEXT NOT NULL,
	partial_day TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	approver_id INTEGER,
	comments TEXT,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leave_request_employee ON leave_request (employee_id);

CREATE TABLE IF NOT EXISTS attendance (
	id SERIAL PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	check_in TEXT,
	check_out TEXT,
	status TEXT NOT NULL DEFAULT 'present',
	work_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	location TEXT,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL,
	UNIQUE(employee_id, date)
);

CREATE TABLE IF NOT EXISTS regularization (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	employee_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	reason TEXT NOT NULL,
	requested_check_in TEXT,
	requested_check_out TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	approver_id INTEGER,
	comments TEXT,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_regularization_employee ON regularization (employee_id);

CREATE TABLE IF NOT EXISTS timesheet_entry (
	id SERIAL PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	week_start TEXT NOT NULL,
	date TEXT NOT NULL,
	project_id TEXT NOT NULL,
	hours DOUBLE PRECISION NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	billable BOOLEAN NOT NULL DEFAULT FALSE,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timesheet_entry_week ON timesheet_entry (employee_id, week_start);

CREATE TABLE IF NOT EXISTS expense_claim (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	employee_id INTEGER NOT NULL,
	category_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL DEFAULT 'USD',
	description TEXT NOT NULL,
	expense_date TEXT NOT NULL,
	receipt_url TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	approver_id INTEGER,
	comments TEXT,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS payslip (
	id SERIAL PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	period TEXT NOT NULL,
	earnings TEXT NOT NULL,
	deductions TEXT NOT NULL,
	net_pay DOUBLE PRECISION NOT NULL,
	working_days INTEGER NOT NULL DEFAULT 0,
	present_days INTEGER NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL,
	UNIQUE(employee_id, period)
);

CREATE TABLE IF NOT EXISTS notification (
	id SERIAL PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notification_employee ON notification (employee_id);

CREATE TABLE IF NOT EXISTS chat_session (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL,
	user_id TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL,
	UNIQUE (uid, user_id)
);
CREATE INDEX IF NOT EXISTS idx_chat_session_user ON chat_session (user_id);

CREATE TABLE IF NOT EXISTS chat_turn (
	id SERIAL PRIMARY KEY,
	session_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	invocations TEXT NOT NULL DEFAULT '[]',
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_turn_session ON chat_turn (session_id);
`
