package storage

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/Iron-Ham/eisen/internal/logging"
)

func TestRead(t *testing.T) {
	fallback := []string{"Work", "Personal Projects", "Freelance Jobs"}

	tests := []struct {
		name    string
		seed    *string
		readErr error
		want    []string
		logged  string
	}{
		{
			name: "absent key",
			want: fallback,
		},
		{
			name: "valid value",
			seed: ptr(`["Errands","Work"]`),
			want: []string{"Errands", "Work"},
		},
		{
			name:   "malformed json",
			seed:   ptr(`["Errands",`),
			want:   fallback,
			logged: "stored value is corrupt",
		},
		{
			name:   "wrong shape",
			seed:   ptr(`{"Errands":true}`),
			want:   fallback,
			logged: "stored value is corrupt",
		},
		{
			name: "empty value",
			seed: ptr(""),
			want: fallback,
		},
		{
			name: "json null",
			seed: ptr("null"),
			want: fallback,
		},
		{
			name:    "backend failure",
			readErr: io.ErrUnexpectedEOF,
			want:    fallback,
			logged:  "storage read failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewWriterLogger(&buf, logging.LevelDebug)

			b := NewMemoryBackend()
			if tt.seed != nil {
				b.Put(KeyCategories, []byte(*tt.seed))
			}
			b.FailReads(tt.readErr)

			got := Read(context.Background(), b, KeyCategories, fallback, logger)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Read() = %v, want %v", got, tt.want)
			}
			if tt.logged != "" && !strings.Contains(buf.String(), tt.logged) {
				t.Errorf("expected log to contain %q, got %q", tt.logged, buf.String())
			}
			if tt.logged == "" && strings.Contains(buf.String(), `"level":"WARN"`) {
				t.Errorf("unexpected warning: %s", buf.String())
			}
		})
	}
}

func TestRead_NilBackend(t *testing.T) {
	got := Read(context.Background(), nil, KeyTasks, 7, nil)
	if got != 7 {
		t.Errorf("Read() with nil backend = %d, want fallback 7", got)
	}
}

func ptr(s string) *string { return &s }
