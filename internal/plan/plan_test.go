package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_UnmarshalJSON(t *testing.T) {
	t.Run("bare string becomes titled resource", func(t *testing.T) {
		var item StudyItem
		err := json.Unmarshal([]byte(`{"topic":"t","description":"d","duration_minutes":30,"resource":["Chapter 3 notes","Khan Academy"]}`), &item)
		require.NoError(t, err)
		require.Len(t, item.Resources, 2)
		assert.Equal(t, Resource{Title: "Chapter 3 notes"}, item.Resources[0])
		assert.Equal(t, "Khan Academy", item.Resources[1].Title)
	})

	t.Run("object keeps all fields", func(t *testing.T) {
		var r Resource
		err := json.Unmarshal([]byte(`{"title":"Lecture","type":"video","url":"https://example.com","description":"week 2"}`), &r)
		require.NoError(t, err)
		assert.Equal(t, Resource{Title: "Lecture", Type: "video", URL: "https://example.com", Description: "week 2"}, r)
	})

	t.Run("mixed list", func(t *testing.T) {
		var rs []Resource
		err := json.Unmarshal([]byte(`["notes", {"title":"book","type":"textbook"}]`), &rs)
		require.NoError(t, err)
		assert.Equal(t, "notes", rs[0].Title)
		assert.Equal(t, "textbook", rs[1].Type)
	})
}

func TestPlan_ToCandidate(t *testing.T) {
	p := &Plan{
		OverallGoal:    "goal",
		TotalStudyDays: 2,
		HoursPerDay:    1.5,
		DailySchedule: []DailySchedule{{
			Day: 1, FocusArea: "f", Summary: "s",
			StudyItems: []StudyItem{{Topic: "t", DurationMinutes: 30, Resources: []Resource{{Title: "r"}}}},
		}},
	}

	c, err := p.ToCandidate()
	require.NoError(t, err)
	n, ok := c.Number(FieldTotalStudyDays)
	require.True(t, ok)
	assert.Equal(t, 2.0, n)
	assert.Equal(t, "goal", c.String(FieldOverallGoal))

	days := c.List(FieldDailySchedule)
	require.Len(t, days, 1)
	items := days[0].(map[string]any)[FieldStudyItems].([]any)
	assert.Equal(t, 30.0, items[0].(map[string]any)[FieldDurationMinutes])
}

func TestCandidate_Clone(t *testing.T) {
	c := Candidate{
		FieldDailySchedule: []any{map[string]any{"day": 1.0, "study_item": []any{map[string]any{"topic": "t"}}}},
	}
	cp := c.Clone()
	day := cp.List(FieldDailySchedule)[0].(map[string]any)
	day["day"] = 7.0
	day["study_item"].([]any)[0].(map[string]any)["topic"] = "changed"

	orig := c.List(FieldDailySchedule)[0].(map[string]any)
	assert.Equal(t, 1.0, orig["day"])
	assert.Equal(t, "t", orig["study_item"].([]any)[0].(map[string]any)["topic"])
}

func TestError_Chain(t *testing.T) {
	inner := &Error{Kind: KindParse, Op: "assemble.core", Message: "no JSON recovered", Raw: "garbage"}
	outer := fmt.Errorf("structure: %w", inner)

	assert.Equal(t, KindParse, KindOf(outer))
	assert.True(t, IsKind(outer, KindParse))
	assert.False(t, IsKind(outer, KindTransport))
	assert.Equal(t, "garbage", RawOf(outer))
	assert.Contains(t, outer.Error(), "assemble.core: no JSON recovered")

	wrapped := Wrap(KindTransport, "complete", errors.New("connection refused"))
	assert.Equal(t, "complete: connection refused", wrapped.Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestResponse_JSON(t *testing.T) {
	t.Run("failure carries raw and parsed payloads", func(t *testing.T) {
		err := &Error{Kind: KindValidation, Op: "validate", Message: "Total study days must be positive, got 0",
			Parsed: map[string]any{"total_study_day": 0.0}, Raw: `{"total_study_day":0}`}
		resp := Failure("", err)
		require.True(t, resp.Failed())

		data, mErr := json.Marshal(resp)
		require.NoError(t, mErr)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, TagValidationFailed, decoded["error"])
		assert.Contains(t, decoded["details"], "must be positive")
		assert.NotNil(t, decoded["parsedJson"])
		assert.Equal(t, `{"total_study_day":0}`, decoded["rawResponse"])
	})

	t.Run("success round trip", func(t *testing.T) {
		resp := Success(&FrontendPlan{OverallGoal: "g", TotalStudyDays: 2}, "ok")
		data, err := json.Marshal(resp)
		require.NoError(t, err)

		var back Response
		require.NoError(t, json.Unmarshal(data, &back))
		require.False(t, back.Failed())
		assert.Equal(t, "g", back.Success.StructuredPlan.OverallGoal)
		assert.Equal(t, "ok", back.Success.Message)
	})
}

func TestParseHoursMode(t *testing.T) {
	tests := []struct {
		in      string
		want    HoursMode
		wantErr bool
	}{
		{"", HoursOverwrite, false},
		{"overwrite", HoursOverwrite, false},
		{"Redistribute", HoursRedistribute, false},
		{"scale", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHoursMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestResponse_RenderText(t *testing.T) {
	fp := &FrontendPlan{
		OverallGoal:    "Pass the thermodynamics exam",
		TotalStudyDays: 1,
		HoursPerDay:    1.5,
		DailyBreakdown: []FrontendDay{{
			Day:        1,
			DaySummary: "First law",
			Items:      []FrontendItem{{Topic: "Energy balance", EstimatedTimeHours: 1.5}},
		}},
		GeneralTips: []string{"Sleep"},
	}

	var sb strings.Builder
	require.NoError(t, Success(fp, "ok").RenderText(&sb))
	out := sb.String()
	assert.Contains(t, out, "Goal: Pass the thermodynamics exam")
	assert.Contains(t, out, "1 days, 1.5 hours per day")
	assert.Contains(t, out, "Day 1: First law")
	assert.Contains(t, out, "[1.5h] Energy balance")
	assert.Contains(t, out, "  - Sleep")

	sb.Reset()
	fail := Failure("", Errorf(KindValidation, "validate", "missing overall_goal"))
	require.NoError(t, fail.RenderText(&sb))
	assert.True(t, strings.HasPrefix(sb.String(), "error: "+TagValidationFailed))
}
