package models

// ShiftType is a meal period within a day.
type ShiftType string

const (
	ShiftLunch  ShiftType = "lunch"
	ShiftDinner ShiftType = "dinner"
)

// Valid reports whether t is one of the known shift types.
func (t ShiftType) Valid() bool {
	return t == ShiftLunch || t == ShiftDinner
}

// DayMenu is the menu for one calendar date (YYYY-MM-DD).
type DayMenu struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Shifts []Shift `json:"shifts"`
}

type Shift struct {
	ID       string    `json:"id"`
	Type     ShiftType `json:"type"`
	Variants []Variant `json:"variants"`
}

// Variant is one purchasable dish configuration within a shift.
type Variant struct {
	ID        string     `json:"id"`
	Image     *string    `json:"image"` // data URI, nil when no image
	DishName  string     `json:"dishName"`
	Price     string     `json:"price"`
	MenuItems []MenuItem `json:"menuItems"`
}

type MenuItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Clone returns a deep copy of d.
func (d DayMenu) Clone() DayMenu {
	out := d
	out.Shifts = make([]Shift, len(d.Shifts))
	for i, s := range d.Shifts {
		out.Shifts[i] = s.Clone()
	}
	return out
}

func (s Shift) Clone() Shift {
	out := s
	out.Variants = make([]Variant, len(s.Variants))
	for i, v := range s.Variants {
		out.Variants[i] = v.Clone()
	}
	return out
}

func (v Variant) Clone() Variant {
	out := v
	if v.Image != nil {
		img := *v.Image
		out.Image = &img
	}
	out.MenuItems = make([]MenuItem, len(v.MenuItems))
	copy(out.MenuItems, v.MenuItems)
	return out
}

// ShiftOf returns the shift of the given type, if present.
func (d DayMenu) ShiftOf(t ShiftType) (Shift, bool) {
	for _, s := range d.Shifts {
		if s.Type == t {
			return s, true
		}
	}
	return Shift{}, false
}
