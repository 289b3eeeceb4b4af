package bot

import (
	"sync"

	"daily-menu/menutree"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptDate
	promptDishName
	promptPrice
	promptItemText
	promptImage
)

// prompt is the free-text answer the bot is waiting for.
type prompt struct {
	kind   promptKind
	itemID string // promptItemText only
}

// cursor is the node the admin is looking at. Empty fields mean a higher
// level view: no dayID is the overview, no shiftID the day view and so on.
type cursor struct {
	dayID     string
	shiftID   string
	variantID string
}

// resolve trims the cursor back to the deepest node that still exists in tr.
func (c cursor) resolve(tr *menutree.Tree) cursor {
	if c.dayID == "" {
		return cursor{}
	}
	if _, ok := tr.Day(c.dayID); !ok {
		return cursor{}
	}
	if c.shiftID == "" {
		return cursor{dayID: c.dayID}
	}
	if _, ok := tr.Shift(c.dayID, c.shiftID); !ok {
		return cursor{dayID: c.dayID}
	}
	if c.variantID == "" {
		return cursor{dayID: c.dayID, shiftID: c.shiftID}
	}
	if _, ok := tr.Variant(c.dayID, c.shiftID, c.variantID); !ok {
		return cursor{dayID: c.dayID, shiftID: c.shiftID}
	}
	return c
}

func (c cursor) up() cursor {
	switch {
	case c.variantID != "":
		c.variantID = ""
	case c.shiftID != "":
		c.shiftID = ""
	default:
		c.dayID = ""
	}
	return c
}

// session is one admin's editing state. mu serializes handling of that
// admin's updates.
type session struct {
	mu      sync.Mutex
	history *menutree.History
	cursor  cursor
	prompt  prompt
}

func (s *session) tree() *menutree.Tree {
	return s.history.Current()
}
