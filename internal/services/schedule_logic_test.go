package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
)

func mappings(ids ...uuid.UUID) []*types.WeekTemplateMapping {
	out := make([]*types.WeekTemplateMapping, 0, len(ids))
	for i, id := range ids {
		out = append(out, &types.WeekTemplateMapping{ID: uuid.New(), WeekTemplateID: id, Position: i})
	}
	return out
}

func TestMappingAtIndexCyclesWithPeriodN(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	active := mappings(a, b, c)

	want := []uuid.UUID{a, b, c, a, b, c, a}
	for index := 0; index < len(want); index++ {
		got := mappingAtIndex(active, index)
		if got == nil {
			t.Fatalf("index %d: got nil mapping", index)
		}
		if got.WeekTemplateID != want[index] {
			t.Errorf("index %d: got template %s, want %s", index, got.WeekTemplateID, want[index])
		}
	}
}

func TestMappingAtIndexAfterRemoval(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// Removing b shrinks the modulus: the same logical counter now lands on a
	// different template, but the relative order of the others is unchanged.
	active := mappings(a, c)
	if got := mappingAtIndex(active, 4); got.WeekTemplateID != a {
		t.Errorf("index 4 over {a,c}: got %s, want %s", got.WeekTemplateID, a)
	}
	if got := mappingAtIndex(active, 5); got.WeekTemplateID != c {
		t.Errorf("index 5 over {a,c}: got %s, want %s", got.WeekTemplateID, c)
	}

	// Restoring b keeps a before c.
	restored := mappings(a, b, c)
	seen := map[uuid.UUID]int{}
	for i := 0; i < 3; i++ {
		seen[mappingAtIndex(restored, i).WeekTemplateID] = i
	}
	if seen[a] > seen[c] {
		t.Errorf("restore changed relative order: a at %d, c at %d", seen[a], seen[c])
	}
}

func TestMappingAtIndexEmpty(t *testing.T) {
	if got := mappingAtIndex(nil, 3); got != nil {
		t.Errorf("expected nil mapping for empty list, got %+v", got)
	}
}

func TestAdvancementAnchor(t *testing.T) {
	// 2026-08-26 is a Wednesday.
	base := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		dayOfWeek int
		at        string
		want      time.Time
	}{
		{
			name:      "earlier weekday this week",
			now:       base,
			dayOfWeek: 1, // Monday
			at:        "00:00",
			want:      time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "later weekday falls back to last week",
			now:       base,
			dayOfWeek: 5, // Friday
			at:        "00:00",
			want:      time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "today with boundary already passed",
			now:       base,
			dayOfWeek: 3, // Wednesday
			at:        "09:00",
			want:      time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "today with boundary not yet reached",
			now:       base,
			dayOfWeek: 3,
			at:        "18:00",
			want:      time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "exact boundary counts as passed",
			now:       time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC),
			dayOfWeek: 3,
			at:        "18:00",
			want:      time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AdvancementAnchor(tc.now, tc.dayOfWeek, tc.at)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAdvancementAnchorRejectsBadInput(t *testing.T) {
	now := time.Now()
	if _, err := AdvancementAnchor(now, 7, "00:00"); err == nil {
		t.Errorf("expected error for day of week 7")
	}
	if _, err := AdvancementAnchor(now, 0, "noon"); err == nil {
		t.Errorf("expected error for unparseable time")
	}
	if _, err := AdvancementAnchor(now, 0, "25:00"); err == nil {
		t.Errorf("expected error for hour out of range")
	}
}

func TestDateForDayOfWeek(t *testing.T) {
	// Week starting Monday 2026-08-24.
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	if got := dateForDayOfWeek(start, 1); !got.Equal(start) {
		t.Errorf("Monday: got %s, want %s", got, start)
	}
	wantFri := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := dateForDayOfWeek(start, 5); !got.Equal(wantFri) {
		t.Errorf("Friday: got %s, want %s", got, wantFri)
	}
	// Sunday precedes Monday in calendar terms, so it lands at the far end of
	// this instance's span.
	wantSun := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if got := dateForDayOfWeek(start, 0); !got.Equal(wantSun) {
		t.Errorf("Sunday: got %s, want %s", got, wantSun)
	}
}
