package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"taskapi/internal/domain/errors"
)

func TestTaskStatusLabels(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		tag    language.Tag
		want   string
	}{
		{name: "open in portuguese", status: StatusOpen, tag: language.BrazilianPortuguese, want: "Aberto"},
		{name: "concluded in portuguese", status: StatusConcluded, tag: language.BrazilianPortuguese, want: "Concluído"},
		{name: "open in english", status: StatusOpen, tag: language.English, want: "Open"},
		{name: "concluded in british english", status: StatusConcluded, tag: language.BritishEnglish, want: "Concluded"},
		{name: "unsupported language falls back", status: StatusOpen, tag: language.Japanese, want: "Aberto"},
		{name: "unknown status echoes value", status: TaskStatus("archived"), tag: language.English, want: "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.LabelFor(tt.tag))
		})
	}

	assert.Equal(t, "Aberto", StatusOpen.Label())
	assert.Equal(t, "Concluído", StatusConcluded.Label())
}

func TestParseTaskStatus(t *testing.T) {
	for _, s := range TaskStatuses {
		got, err := ParseTaskStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.True(t, s.Valid())
	}

	for _, s := range []string{"", "Open", "OPEN", "done", "concluído"} {
		_, err := ParseTaskStatus(s)
		assert.ErrorIs(t, err, errors.ErrInvalidStatus, s)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{header: "", want: language.BrazilianPortuguese},
		{header: "en", want: language.English},
		{header: "en-US,en;q=0.9", want: language.English},
		{header: "pt-BR,pt;q=0.9,en;q=0.5", want: language.BrazilianPortuguese},
		{header: "ja", want: language.BrazilianPortuguese},
		{header: "!!!", want: language.BrazilianPortuguese},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLanguage(tt.header))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2024-01-10", want: "2024-01-10"},
		{name: "rfc3339 keeps the date", input: "2024-01-10T23:15:00Z", want: "2024-01-10"},
		{name: "rfc3339 with offset", input: "2024-02-29T08:00:00-03:00", want: "2024-02-29"},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
		{name: "day first", input: "10/01/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
			assert.Equal(t, time.UTC, d.Location())
		})
	}

	assert.Panics(t, func() { MustParseDate("nope") })
}

func TestDateJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: MustParseDate("2024-01-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2024-01-10","unset":null}`, string(out))

	var in struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2024-03-01","b":null}`), &in))
	assert.Equal(t, "2024-03-01", in.A.String())
	assert.True(t, in.B.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"yesterday"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"a":20240301}`), &in))
}

func TestTaskPatchApply(t *testing.T) {
	base := Task{
		ID:          1,
		TypeID:      1,
		Title:       "t",
		Description: "d",
		StartDate:   MustParseDate("2024-01-01"),
		Deadline:    MustParseDate("2024-01-10"),
		FinishDate:  MustParseDate("2024-01-10"),
		Status:      StatusOpen,
		StatusLabel: StatusOpen.Label(),
	}

	title := "renamed"
	status := StatusConcluded
	deadline := MustParseDate("2024-02-01")

	task := base
	TaskPatch{Title: &title, Status: &status, Deadline: &deadline}.Apply(&task)

	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, StatusConcluded, task.Status)
	assert.Equal(t, "Concluído", task.StatusLabel)
	assert.Equal(t, "2024-02-01", task.Deadline.String())
	assert.Equal(t, base.Description, task.Description)
	assert.Equal(t, base.StartDate, task.StartDate)
	assert.Equal(t, base.FinishDate, task.FinishDate)
	assert.Equal(t, base.TypeID, task.TypeID)

	untouched := base
	TaskPatch{}.Apply(&untouched)
	assert.Equal(t, base, untouched)
}

func TestRequestConversion(t *testing.T) {
	typeID := int64(3)
	task := CreateTaskRequest{
		TypeID:      &typeID,
		Title:       "t",
		Description: "d",
		StartDate:   "2024-01-01",
		Deadline:    "2024-01-10T12:00:00Z",
		FinishDate:  "2024-01-10",
		Status:      "concluded",
	}.Task(7)

	assert.Equal(t, int64(3), task.TypeID)
	assert.Equal(t, int64(7), task.UserID)
	assert.Equal(t, "2024-01-10", task.Deadline.String())
	assert.Equal(t, StatusConcluded, task.Status)
	assert.False(t, task.Trashed())

	status := "open"
	start := "2024-05-05"
	patch := UpdateTaskRequest{Status: &status, StartDate: &start}.Patch()
	require.NotNil(t, patch.Status)
	require.NotNil(t, patch.StartDate)
	assert.Equal(t, StatusOpen, *patch.Status)
	assert.Equal(t, "2024-05-05", patch.StartDate.String())
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.Deadline)
}
