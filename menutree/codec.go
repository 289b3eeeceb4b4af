package menutree

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"daily-menu/models"
)

type snapshotJSON struct {
	TodayID string           `json:"todayId"`
	Days    []models.DayMenu `json:"days"`
}

// MarshalJSON encodes the snapshot as {"todayId": ..., "days": [...]}.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{TodayID: t.todayID, Days: t.days})
}

// Restore decodes a snapshot produced by MarshalJSON. The decoded tree must
// satisfy every structural invariant or an ErrInvalidSnapshot is returned.
func Restore(data []byte, opts ...Option) (*Tree, error) {
	var s snapshotJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := Validate(s.TodayID, s.Days); err != nil {
		return nil, err
	}
	t := empty(opts)
	t.todayID = s.TodayID
	t.days = s.Days
	return t, nil
}

// Validate checks days against the tree invariants: unique dates, at most one
// shift per type, no empty shifts or variants, ids unique across the tree and
// todayID naming one of the days.
func Validate(todayID string, days []models.DayMenu) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSnapshot}, args...)...))
	}

	ids := make(map[string]bool)
	seen := func(id string) {
		if id == "" {
			invalid("empty id")
			return
		}
		if ids[id] {
			invalid("duplicate id %s", id)
		}
		ids[id] = true
	}

	dates := make(map[string]bool)
	hasToday := false
	for _, d := range days {
		seen(d.ID)
		if d.ID == todayID {
			hasToday = true
		}
		if _, err := time.Parse(DateLayout, d.Date); err != nil {
			invalid("day %s has bad date %q", d.ID, d.Date)
		}
		if dates[d.Date] {
			invalid("duplicate date %s", d.Date)
		}
		dates[d.Date] = true

		types := make(map[models.ShiftType]bool)
		for _, s := range d.Shifts {
			seen(s.ID)
			if !s.Type.Valid() {
				invalid("shift %s has bad type %q", s.ID, s.Type)
			}
			if types[s.Type] {
				invalid("day %s has two %s shifts", d.Date, s.Type)
			}
			types[s.Type] = true
			if len(s.Variants) == 0 {
				invalid("shift %s has no variants", s.ID)
			}
			for _, v := range s.Variants {
				seen(v.ID)
				if len(v.MenuItems) == 0 {
					invalid("variant %s has no menu items", v.ID)
				}
				for _, it := range v.MenuItems {
					seen(it.ID)
				}
			}
		}
	}
	if !hasToday {
		invalid("today %q is not among the days", todayID)
	}
	return errors.Join(errs...)
}
