package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leaveSchema() *JSONSchema {
	return &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"leaveTypeId": {Type: "string", Description: "Leave type ID"},
			"startDate":   {Type: "string", Description: "Start date in YYYY-MM-DD format"},
			"endDate":     {Type: "string", Description: "End date in YYYY-MM-DD format"},
			"reason":      {Type: "string"},
			"partialDay":  {Type: "string", Enum: []string{"first_half", "second_half"}},
			"year":        {Type: "integer"},
		},
		Required: []string{"leaveTypeId", "startDate", "endDate", "reason"},
	}
}

func TestSchemaValidate(t *testing.T) {
	valid := map[string]any{
		"leaveTypeId": "casual",
		"startDate":   "2026-09-01",
		"endDate":     "2026-09-02",
		"reason":      "family event",
	}

	t.Run("valid payload", func(t *testing.T) {
		out, errs := leaveSchema().Validate(valid)
		require.Empty(t, errs)
		require.Equal(t, "casual", out["leaveTypeId"])
	})

	t.Run("missing required field", func(t *testing.T) {
		payload := map[string]any{"leaveTypeId": "casual"}
		_, errs := leaveSchema().Validate(payload)
		require.NotEmpty(t, errs)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		require.Contains(t, fields, "startDate")
		require.Contains(t, fields, "endDate")
		require.Contains(t, fields, "reason")
	})

	t.Run("invalid enum value", func(t *testing.T) {
		payload := map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2026-09-01",
			"endDate":     "2026-09-02",
			"reason":      "x",
			"partialDay":  "afternoon",
		}
		_, errs := leaveSchema().Validate(payload)
		require.Len(t, errs, 1)
		require.Equal(t, "partialDay", errs[0].Field)
		require.Contains(t, errs[0].Message, "first_half")
	})

	t.Run("wrong type", func(t *testing.T) {
		payload := map[string]any{
			"leaveTypeId": 42,
			"startDate":   "2026-09-01",
			"endDate":     "2026-09-02",
			"reason":      "x",
		}
		_, errs := leaveSchema().Validate(payload)
		require.Len(t, errs, 1)
		require.Equal(t, "leaveTypeId", errs[0].Field)
	})

	t.Run("json number coerces to int", func(t *testing.T) {
		payload := map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2026-09-01",
			"endDate":     "2026-09-02",
			"reason":      "x",
			"year":        float64(2026), // json.Unmarshal yields float64
		}
		out, errs := leaveSchema().Validate(payload)
		require.Empty(t, errs)
		require.Equal(t, 2026, out["year"])
	})

	t.Run("fractional number rejected for integer", func(t *testing.T) {
		payload := map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2026-09-01",
			"endDate":     "2026-09-02",
			"reason":      "x",
			"year":        2026.5,
		}
		_, errs := leaveSchema().Validate(payload)
		require.Len(t, errs, 1)
		require.Equal(t, "year", errs[0].Field)
	})

	t.Run("unknown fields are dropped", func(t *testing.T) {
		payload := map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2026-09-01",
			"endDate":     "2026-09-02",
			"reason":      "x",
			"extra":       "ignored",
		}
		out, errs := leaveSchema().Validate(payload)
		require.Empty(t, errs)
		_, ok := out["extra"]
		require.False(t, ok)
	})
}

func TestSchemaValidateNested(t *testing.T) {
	schema := &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"weekStart": {Type: "string"},
			"entries": {
				Type: "array",
				Items: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"date":     {Type: "string"},
						"hours":    {Type: "number"},
						"billable": {Type: "boolean"},
					},
					Required: []string{"date", "hours", "billable"},
				},
			},
		},
		Required: []string{"weekStart", "entries"},
	}

	t.Run("valid entries", func(t *testing.T) {
		payload := map[string]any{
			"weekStart": "2026-08-24",
			"entries": []any{
				map[string]any{"date": "2026-08-24", "hours": 7.5, "billable": true},
			},
		}
		out, errs := schema.Validate(payload)
		require.Empty(t, errs)
		entries := out["entries"].([]any)
		require.Len(t, entries, 1)
	})

	t.Run("entry missing field is reported with path", func(t *testing.T) {
		payload := map[string]any{
			"weekStart": "2026-08-24",
			"entries": []any{
				map[string]any{"date": "2026-08-24", "hours": 7.5},
			},
		}
		_, errs := schema.Validate(payload)
		require.Len(t, errs, 1)
		require.Equal(t, "entries[0].billable", errs[0].Field)
	})
}
