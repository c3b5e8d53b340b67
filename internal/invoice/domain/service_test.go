package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    int
	}{
		{"due yesterday", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"partial day rounds up", time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), 1},
		{"just over one day", time.Date(2023, 12, 31, 18, 0, 0, 0, time.UTC), 2},
		{"due today", now, 0},
		{"due in the future", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 0},
		{"forty six days", time.Date(2023, 11, 17, 0, 0, 0, 0, time.UTC), 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOverdue(tt.dueDate, now))
		})
	}
}
