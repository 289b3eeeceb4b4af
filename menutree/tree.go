// Package menutree holds the in-memory daily menu being edited by an admin:
// days, their lunch/dinner shifts, dish variants and the ingredient lines of
// each variant.
//
// A Tree is an immutable snapshot. Every operation returns a new Tree and
// leaves the receiver untouched, sharing whatever did not change. Operations
// address nodes by id only; positions shift as nodes are removed.
package menutree

import (
	"time"

	"daily-menu/models"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for DayMenu.Date.
const DateLayout = "2006-01-02"

type Tree struct {
	todayID string
	days    []models.DayMenu
	newID   func() string
	now     func() time.Time
}

type Option func(*Tree)

// WithClock sets the clock used to determine today's date.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) { t.now = now }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tree) { t.newID = gen }
}

// New returns a tree holding only today's (empty) menu.
func New(opts ...Option) *Tree {
	t := empty(opts)
	today := models.DayMenu{
		ID:     t.newID(),
		Date:   MinDate(t.now),
		Shifts: []models.Shift{},
	}
	t.todayID = today.ID
	t.days = []models.DayMenu{today}
	return t
}

func empty(opts []Option) *Tree {
	t := &Tree{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// MinDate returns the earliest date an admin may add, which is today's UTC
// calendar date.
func MinDate(now func() time.Time) string {
	return now().UTC().Format(DateLayout)
}

// with returns a sibling snapshot holding days.
func (t *Tree) with(days []models.DayMenu) *Tree {
	return &Tree{
		todayID: t.todayID,
		days:    days,
		newID:   t.newID,
		now:     t.now,
	}
}

func (t *Tree) TodayID() string { return t.todayID }

func (t *Tree) IsToday(dayID string) bool { return dayID == t.todayID }

// Len returns the number of days in the tree.
func (t *Tree) Len() int { return len(t.days) }

// Days returns a deep copy of all days in insertion order.
func (t *Tree) Days() []models.DayMenu {
	out := make([]models.DayMenu, len(t.days))
	for i, d := range t.days {
		out[i] = d.Clone()
	}
	return out
}

func (t *Tree) Day(dayID string) (models.DayMenu, bool) {
	i := dayIndex(t.days, dayID)
	if i < 0 {
		return models.DayMenu{}, false
	}
	return t.days[i].Clone(), true
}

// DayByDate looks a day up by its calendar date.
func (t *Tree) DayByDate(date string) (models.DayMenu, bool) {
	for _, d := range t.days {
		if d.Date == date {
			return d.Clone(), true
		}
	}
	return models.DayMenu{}, false
}

func (t *Tree) Shift(dayID, shiftID string) (models.Shift, bool) {
	i := dayIndex(t.days, dayID)
	if i < 0 {
		return models.Shift{}, false
	}
	j := shiftIndex(t.days[i].Shifts, shiftID)
	if j < 0 {
		return models.Shift{}, false
	}
	return t.days[i].Shifts[j].Clone(), true
}

func (t *Tree) Variant(dayID, shiftID, variantID string) (models.Variant, bool) {
	s, ok := t.Shift(dayID, shiftID)
	if !ok {
		return models.Variant{}, false
	}
	k := variantIndex(s.Variants, variantID)
	if k < 0 {
		return models.Variant{}, false
	}
	return s.Variants[k], true
}

// Rollover moves the tree to the clock's current date. Days before today are
// dropped, and today's day is either the existing day for that date or a new
// empty one placed first. It returns the receiver when nothing changed.
func (t *Tree) Rollover() *Tree {
	today := MinDate(t.now)
	if cur, ok := t.Day(t.todayID); ok && cur.Date == today {
		return t
	}

	var (
		days    []models.DayMenu
		todayID string
	)
	for _, d := range t.days {
		if d.Date < today {
			continue
		}
		if d.Date == today {
			todayID = d.ID
		}
		days = append(days, d)
	}
	if todayID == "" {
		fresh := models.DayMenu{ID: t.newID(), Date: today, Shifts: []models.Shift{}}
		todayID = fresh.ID
		days = append([]models.DayMenu{fresh}, days...)
	}

	next := t.with(days)
	next.todayID = todayID
	return next
}

// Equal reports whether both trees hold the same logical content.
func (t *Tree) Equal(other *Tree) bool {
	if t == other {
		return true
	}
	if other == nil || t.todayID != other.todayID || len(t.days) != len(other.days) {
		return false
	}
	for i := range t.days {
		if !dayEqual(t.days[i], other.days[i]) {
			return false
		}
	}
	return true
}

func dayEqual(a, b models.DayMenu) bool {
	if a.ID != b.ID || a.Date != b.Date || len(a.Shifts) != len(b.Shifts) {
		return false
	}
	for i := range a.Shifts {
		sa, sb := a.Shifts[i], b.Shifts[i]
		if sa.ID != sb.ID || sa.Type != sb.Type || len(sa.Variants) != len(sb.Variants) {
			return false
		}
		for j := range sa.Variants {
			if !variantEqual(sa.Variants[j], sb.Variants[j]) {
				return false
			}
		}
	}
	return true
}

func variantEqual(a, b models.Variant) bool {
	if a.ID != b.ID || a.DishName != b.DishName || a.Price != b.Price || len(a.MenuItems) != len(b.MenuItems) {
		return false
	}
	if (a.Image == nil) != (b.Image == nil) || (a.Image != nil && *a.Image != *b.Image) {
		return false
	}
	for k := range a.MenuItems {
		if a.MenuItems[k] != b.MenuItems[k] {
			return false
		}
	}
	return true
}

func dayIndex(days []models.DayMenu, id string) int {
	for i := range days {
		if days[i].ID == id {
			return i
		}
	}
	return -1
}

func shiftIndex(shifts []models.Shift, id string) int {
	for i := range shifts {
		if shifts[i].ID == id {
			return i
		}
	}
	return -1
}

func variantIndex(variants []models.Variant, id string) int {
	for i := range variants {
		if variants[i].ID == id {
			return i
		}
	}
	return -1
}

func itemIndex(items []models.MenuItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
