package assistant

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/assistant/catalog"
	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
	"github.com/lumenhr/lumen/store/db/sqlite"
)

type testEnv struct {
	store    *store.Store
	hr       *hr.Service
	catalog  *catalog.Catalog
	executor *Executor
	manager  *store.Employee
	employee *store.Employee
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	testProfile := &profile.Profile{
		Mode:   "test",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "lumen_test.db"),
	}
	driver, err := sqlite.NewDB(testProfile)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })

	st := store.New(driver, testProfile)
	require.NoError(t, st.Migrate(ctx))

	hrSvc := hr.NewService(st)
	require.NoError(t, hrSvc.Seed(ctx))

	operationCatalog, err := NewCatalog(hrSvc)
	require.NoError(t, err)

	manager, err := hrSvc.LookupEmployee(ctx, "demo-manager")
	require.NoError(t, err)
	require.NotNil(t, manager)
	employee, err := hrSvc.LookupEmployee(ctx, "demo-user")
	require.NoError(t, err)
	require.NotNil(t, employee)

	return &testEnv{
		store:    st,
		hr:       hrSvc,
		catalog:  operationCatalog,
		executor: NewExecutor(operationCatalog, 5*time.Second),
		manager:  manager,
		employee: employee,
	}
}

func (env *testEnv) leaveRequestCount(t *testing.T) int {
	t.Helper()
	requests, err := env.store.ListLeaveRequests(context.Background(), &store.FindLeaveRequest{
		EmployeeID: &env.employee.ID,
	})
	require.NoError(t, err)
	return len(requests)
}

func TestExecuteUnknownOperation(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "launchMissiles",
		RawArguments:  map[string]any{},
	})
	require.False(t, result.Success)
	require.Equal(t, ErrUnknownOperation, result.ErrorKind)
	require.Contains(t, result.Message, "launchMissiles")
}

func TestExecuteInvalidArgumentsHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "applyLeave",
		RawArguments: map[string]any{
			"leaveTypeId": "casual",
			// startDate, endDate, reason missing.
		},
		GuardrailsEvaluated: true,
	})
	require.False(t, result.Success)
	require.Equal(t, ErrInvalidArguments, result.ErrorKind)
	require.Contains(t, result.Message, "startDate")
	require.Contains(t, result.Message, "endDate")
	require.Contains(t, result.Message, "reason")
	require.Zero(t, env.leaveRequestCount(t))
}

func TestExecuteInvalidEnumValue(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.manager, &InvocationRequest{
		OperationName: "approveRequest",
		RawArguments: map[string]any{
			"requestType": "leave",
			"requestId":   "whatever",
			"decision":    "maybe",
		},
		GuardrailsEvaluated: true,
	})
	require.False(t, result.Success)
	require.Equal(t, ErrInvalidArguments, result.ErrorKind)
	require.Contains(t, result.Message, "decision")
}

func TestExecuteMutatingRequiresGuardrailEvaluation(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "applyLeave",
		RawArguments: map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2025-07-01",
			"endDate":     "2025-07-02",
			"reason":      "family event",
		},
	})
	require.False(t, result.Success)
	require.Equal(t, ErrGuardrailNotEvaluated, result.ErrorKind)
	require.Zero(t, env.leaveRequestCount(t))
}

func TestExecuteReadOnlySkipsGuardrailPrecondition(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "getLeaveTypes",
		RawArguments:  map[string]any{},
	})
	require.True(t, result.Success)
	leaveTypes, ok := result.Output.([]*store.LeaveType)
	require.True(t, ok)
	require.Len(t, leaveTypes, 3)
}

func TestExecuteSuccess(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "applyLeave",
		RawArguments: map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2025-07-01",
			"endDate":     "2025-07-02",
			"reason":      "family event",
		},
		GuardrailsEvaluated: true,
	})
	require.True(t, result.Success)
	require.Equal(t, "success", result.Summary())

	application, ok := result.Output.(*hr.LeaveApplication)
	require.True(t, ok)
	require.Equal(t, 2.0, application.Days)
	require.Equal(t, 1, env.leaveRequestCount(t))
}

func TestExecuteBackingServiceError(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "applyLeave",
		RawArguments: map[string]any{
			"leaveTypeId": "sabbatical",
			"startDate":   "2025-07-01",
			"endDate":     "2025-07-02",
			"reason":      "research",
		},
		GuardrailsEvaluated: true,
	})
	require.False(t, result.Success)
	require.Equal(t, ErrBackingServiceError, result.ErrorKind)
	require.Contains(t, result.Message, "sabbatical")
	require.Zero(t, env.leaveRequestCount(t))
}

func TestExecuteUnknownArgumentIsDropped(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), env.employee, &InvocationRequest{
		OperationName: "getLeaveBalance",
		RawArguments: map[string]any{
			"year":     float64(2025),
			"verbose":  true,
			"metadata": map[string]any{"source": "model"},
		},
	})
	require.True(t, result.Success)
	rows, ok := result.Output.([]*hr.BalanceByType)
	require.True(t, ok)
	require.Len(t, rows, 3)
}
