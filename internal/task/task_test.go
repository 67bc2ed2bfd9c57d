package task

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/eisen/internal/errors"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"High", PriorityHigh, false},
		{"high", PriorityHigh, false},
		{" H ", PriorityHigh, false},
		{"MEDIUM", PriorityMedium, false},
		{"med", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"urgent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error should wrap ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTask_JSONFieldNames(t *testing.T) {
	due := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "abc",
		Title:     "Ship it",
		DueDate:   &due,
		Priority:  PriorityHigh,
		Category:  "Work",
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)

	for _, field := range []string{`"id":"abc"`, `"title":"Ship it"`, `"isComplete":false`,
		`"dueDate":"2024-05-02T12:00:00Z"`, `"priority":"High"`, `"category":"Work"`,
		`"createdAt":"2024-05-01T09:00:00Z"`} {
		if !strings.Contains(got, field) {
			t.Errorf("encoded task %s missing %s", got, field)
		}
	}
	if strings.Contains(got, "description") {
		t.Errorf("empty description should be omitted: %s", got)
	}
}

func TestTask_UnmarshalLegacyTimestamps(t *testing.T) {
	data := `[
		{"id":"a","title":"A","isComplete":false,"dueDate":"2024-05-02T14:30","priority":"High","category":"work","createdAt":"2024-05-01T09:00:00.000Z"},
		{"id":"b","title":"B","isComplete":true,"priority":"Low","category":"Work","createdAt":"2024-05-01T09:00:00Z"},
		{"id":"c","title":"C","isComplete":false,"dueDate":"not a date","priority":"Medium","category":"Work","createdAt":"2024-05-01T09:00:00Z"},
		{"id":"d","title":"D","isComplete":false,"dueDate":null,"priority":"Medium","category":"Work","createdAt":"2024-05-01T09:00:00Z"}
	]`

	var tasks []Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("got %d tasks, want 4", len(tasks))
	}

	want := time.Date(2024, 5, 2, 14, 30, 0, 0, time.Local)
	if tasks[0].DueDate == nil || !tasks[0].DueDate.Equal(want) {
		t.Errorf("datetime-local due date = %v, want %v", tasks[0].DueDate, want)
	}
	if tasks[0].Category != "work" {
		t.Errorf("decoding must not normalize, got %q", tasks[0].Category)
	}
	if !tasks[0].CreatedAt.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", tasks[0].CreatedAt)
	}
	if tasks[1].DueDate != nil || !tasks[1].IsComplete {
		t.Errorf("task b decoded wrong: %+v", tasks[1])
	}
	if tasks[2].DueDate != nil {
		t.Errorf("unparseable due date should be dropped, got %v", tasks[2].DueDate)
	}
	if tasks[3].DueDate != nil {
		t.Errorf("null due date should decode to nil, got %v", tasks[3].DueDate)
	}
}

func TestTask_RoundTrip(t *testing.T) {
	due := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	in := Task{ID: "x", Title: "T", Description: "d", DueDate: &due, Priority: PriorityLow, Category: "Work"}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Task
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Description != in.Description || !out.DueDate.Equal(due) {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"valid", Draft{Title: "t", Category: "work", Priority: PriorityLow}, ""},
		{"blank title", Draft{Title: "  ", Category: "work", Priority: PriorityLow}, "title"},
		{"blank category", Draft{Title: "t", Category: " ", Priority: PriorityLow}, "category"},
		{"bad priority", Draft{Title: "t", Category: "work", Priority: "Urgent"}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var vErr *errors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{ClearDueDate: true}).IsEmpty() {
		t.Error("ClearDueDate patch should not be empty")
	}
}

func TestNormalizeCategories(t *testing.T) {
	in := []Task{{ID: "a", Category: "personal projects"}, {ID: "b", Category: "side gig"}}
	out := NormalizeCategories(in)

	if out[0].Category != "Personal Projects" || out[1].Category != "Side Gig" {
		t.Errorf("NormalizeCategories() = %+v", out)
	}
	if in[0].Category != "personal projects" {
		t.Error("NormalizeCategories must not modify its input")
	}
}
