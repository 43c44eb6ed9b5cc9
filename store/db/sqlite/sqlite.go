package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database behind the profile's DSN.
//
// Pragmas:
//   - busy_timeout keeps concurrent clock actions from failing fast on lock.
//   - WAL journal mode is the recommended mode and prevents locking issues.
//
// With the modernc.org/sqlite driver, each pragma must be prefixed with
// `_pragma=`.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL mode, and it is what
	// serializes same-record mutations (two clock-ins for one employee/day
	// contend here and then on the unique index).
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

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

const latestSchema = `
CREATE TABLE IF NOT EXISTS employee (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL UNIQUE,
	employee_code TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	designation TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'employee',
	manager_id INTEGER,
	salary REAL NOT NULL DEFAULT 0,
	join_date TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_type (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	annual_entitlement REAL NOT NULL DEFAULT 0,
	paid INTEGER NOT NULL DEFAULT 1,
	created_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_balance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	leave_type_id INTEGER NOT NULL,
	year INTEGER NOT NULL,
	opening REAL NOT NULL DEFAULT 0,
	accrued REAL NOT NULL DEFAULT 0,
	consumed REAL NOT NULL DEFAULT 0,
	balance REAL NOT NULL DEFAULT 0,
	UNIQUE(employee_id, leave_type_id, year)
);

CREATE TABLE IF NOT EXISTS leave_request (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	employee_id INTEGER NOT NULL,
	leave_type_id INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	days REAL NOT NULL,
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
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	check_in TEXT,
	check_out TEXT,
	status TEXT NOT NULL DEFAULT 'present',
	work_hours REAL NOT NULL DEFAULT 0,
	location TEXT,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL,
	UNIQUE(employee_id, date)
);

CREATE TABLE IF NOT EXISTS regularization (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
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
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	week_start TEXT NOT NULL,
	date TEXT NOT NULL,
	project_id TEXT NOT NULL,
	hours REAL NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	billable INTEGER NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timesheet_entry_week ON timesheet_entry (employee_id, week_start);

CREATE TABLE IF NOT EXISTS expense_claim (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	employee_id INTEGER NOT NULL,
	category_id TEXT NOT NULL,
	amount REAL NOT NULL,
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
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	period TEXT NOT NULL,
	earnings TEXT NOT NULL,
	deductions TEXT NOT NULL,
	net_pay REAL NOT NULL,
	working_days INTEGER NOT NULL DEFAULT 0,
	present_days INTEGER NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL,
	UNIQUE(employee_id, period)
);

CREATE TABLE IF NOT EXISTS notification (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	is_read INTEGER NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notification_employee ON notification (employee_id);

CREATE TABLE IF NOT EXISTS chat_session (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL,
	user_id TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL,
	UNIQUE (uid, user_id)
);
CREATE INDEX IF NOT EXISTS idx_chat_session_user ON chat_session (user_id);

CREATE TABLE IF NOT EXISTS chat_turn (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	invocations TEXT NOT NULL DEFAULT '[]',
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_turn_session ON chat_turn (session_id);
`
