package menutree

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"daily-menu/models"
)

type Op string

const (
	OpAddDay          Op = "add_day"
	OpRemoveDay       Op = "remove_day"
	OpAddShift        Op = "add_shift"
	OpAddVariant      Op = "add_variant"
	OpAddMenuItem     Op = "add_menu_item"
	OpRemoveMenuItem  Op = "remove_menu_item"
	OpSetVariantField Op = "set_variant_field"
	OpSetMenuItemText Op = "set_menu_item_text"
	OpAttachImage     Op = "attach_image"
)

// VariantField names a scalar field of a Variant.
type VariantField string

const (
	FieldImage    VariantField = "image"
	FieldDishName VariantField = "dishName"
	FieldPrice    VariantField = "price"
)

func (f VariantField) Valid() bool {
	return f == FieldImage || f == FieldDishName || f == FieldPrice
}

// Edit is one mutation addressed by an id path. Only the fields relevant to
// Op are read.
type Edit struct {
	Op        Op
	DayID     string
	ShiftID   string
	VariantID string
	ItemID    string
	Date      string
	Shift     models.ShiftType
	Field     VariantField
	Value     string
	Image     []byte
}

var priceRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Apply performs e and returns the resulting snapshot. On any error the
// receiver is returned unchanged together with the reason.
func (t *Tree) Apply(e Edit) (*Tree, error) {
	switch e.Op {
	case OpAddDay:
		return t.addDay(e.Date)
	case OpRemoveDay:
		return t.removeDay(e.DayID)
	case OpAddShift:
		return t.addShift(e.DayID, e.Shift)
	case OpAddVariant:
		return t.updateShift(e.DayID, e.ShiftID, func(s models.Shift) (models.Shift, error) {
			s.Variants = append(slices.Clip(s.Variants), t.newVariant())
			return s, nil
		})
	case OpAddMenuItem:
		return t.updateVariant(e.DayID, e.ShiftID, e.VariantID, func(v models.Variant) (models.Variant, error) {
			v.MenuItems = append(slices.Clip(v.MenuItems), models.MenuItem{ID: t.newID()})
			return v, nil
		})
	case OpRemoveMenuItem:
		return t.updateVariant(e.DayID, e.ShiftID, e.VariantID, func(v models.Variant) (models.Variant, error) {
			i := itemIndex(v.MenuItems, e.ItemID)
			if i < 0 {
				return v, fmt.Errorf("%w: %s", ErrMenuItemNotFound, e.ItemID)
			}
			if len(v.MenuItems) == 1 {
				return v, ErrLastMenuItem
			}
			v.MenuItems = slices.Delete(slices.Clone(v.MenuItems), i, i+1)
			return v, nil
		})
	case OpSetVariantField:
		return t.setVariantField(e.DayID, e.ShiftID, e.VariantID, e.Field, e.Value)
	case OpSetMenuItemText:
		return t.updateVariant(e.DayID, e.ShiftID, e.VariantID, func(v models.Variant) (models.Variant, error) {
			i := itemIndex(v.MenuItems, e.ItemID)
			if i < 0 {
				return v, fmt.Errorf("%w: %s", ErrMenuItemNotFound, e.ItemID)
			}
			v.MenuItems = slices.Clone(v.MenuItems)
			v.MenuItems[i].Text = e.Value
			return v, nil
		})
	case OpAttachImage:
		uri, err := EncodeImage(e.Image)
		if err != nil {
			return t, err
		}
		return t.setVariantField(e.DayID, e.ShiftID, e.VariantID, FieldImage, uri)
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
}

func (t *Tree) addDay(date string) (*Tree, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return t, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	for _, d := range t.days {
		if d.Date == date {
			return t, fmt.Errorf("%w: %s", ErrDuplicateDate, date)
		}
	}
	day := models.DayMenu{ID: t.newID(), Date: date, Shifts: []models.Shift{}}
	return t.with(append(slices.Clip(t.days), day)), nil
}

func (t *Tree) removeDay(dayID string) (*Tree, error) {
	if t.IsToday(dayID) {
		return t, ErrTodayPinned
	}
	i := dayIndex(t.days, dayID)
	if i < 0 {
		return t, fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	return t.with(slices.Delete(slices.Clone(t.days), i, i+1)), nil
}

func (t *Tree) addShift(dayID string, typ models.ShiftType) (*Tree, error) {
	if !typ.Valid() {
		return t, fmt.Errorf("%w: %q", ErrInvalidShiftType, typ)
	}
	return t.updateDay(dayID, func(d models.DayMenu) (models.DayMenu, error) {
		if _, ok := d.ShiftOf(typ); ok {
			return d, fmt.Errorf("%w: %s", ErrDuplicateShift, typ)
		}
		d.Shifts = append(slices.Clip(d.Shifts), t.newShift(typ))
		return d, nil
	})
}

func (t *Tree) setVariantField(dayID, shiftID, variantID string, field VariantField, value string) (*Tree, error) {
	if !field.Valid() {
		return t, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if field == FieldPrice && value != "" && !priceRe.MatchString(value) {
		return t, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
	}
	return t.updateVariant(dayID, shiftID, variantID, func(v models.Variant) (models.Variant, error) {
		switch field {
		case FieldImage:
			if value == "" {
				v.Image = nil
			} else {
				img := value
				v.Image = &img
			}
		case FieldDishName:
			v.DishName = value
		case FieldPrice:
			v.Price = value
		}
		return v, nil
	})
}

func (t *Tree) newShift(typ models.ShiftType) models.Shift {
	return models.Shift{
		ID:       t.newID(),
		Type:     typ,
		Variants: []models.Variant{t.newVariant()},
	}
}

func (t *Tree) newVariant() models.Variant {
	return models.Variant{
		ID:        t.newID(),
		MenuItems: []models.MenuItem{{ID: t.newID()}},
	}
}

// updateDay, updateShift and updateVariant copy the path from the root down
// to the edited node. Siblings keep sharing storage with the receiver.

func (t *Tree) updateDay(dayID string, fn func(models.DayMenu) (models.DayMenu, error)) (*Tree, error) {
	i := dayIndex(t.days, dayID)
	if i < 0 {
		return t, fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	d, err := fn(t.days[i])
	if err != nil {
		return t, err
	}
	days := slices.Clone(t.days)
	days[i] = d
	return t.with(days), nil
}

func (t *Tree) updateShift(dayID, shiftID string, fn func(models.Shift) (models.Shift, error)) (*Tree, error) {
	return t.updateDay(dayID, func(d models.DayMenu) (models.DayMenu, error) {
		i := shiftIndex(d.Shifts, shiftID)
		if i < 0 {
			return d, fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
		}
		s, err := fn(d.Shifts[i])
		if err != nil {
			return d, err
		}
		d.Shifts = slices.Clone(d.Shifts)
		d.Shifts[i] = s
		return d, nil
	})
}

func (t *Tree) updateVariant(dayID, shiftID, variantID string, fn func(models.Variant) (models.Variant, error)) (*Tree, error) {
	return t.updateShift(dayID, shiftID, func(s models.Shift) (models.Shift, error) {
		i := variantIndex(s.Variants, variantID)
		if i < 0 {
			return s, fmt.Errorf("%w: %s", ErrVariantNotFound, variantID)
		}
		v, err := fn(s.Variants[i])
		if err != nil {
			return s, err
		}
		s.Variants = slices.Clone(s.Variants)
		s.Variants[i] = v
		return s, nil
	})
}

// apply runs e for the UI methods below: constraint violations leave the
// tree as it was, misuse panics.
func (t *Tree) apply(e Edit) *Tree {
	next, err := t.Apply(e)
	if err != nil && !IsUserError(err) {
		panic(fmt.Sprintf("menutree: %v", err))
	}
	return next
}

func (t *Tree) AddDay(date string) *Tree {
	return t.apply(Edit{Op: OpAddDay, Date: date})
}

func (t *Tree) RemoveDay(dayID string) *Tree {
	return t.apply(Edit{Op: OpRemoveDay, DayID: dayID})
}

func (t *Tree) AddShift(dayID string, typ models.ShiftType) *Tree {
	return t.apply(Edit{Op: OpAddShift, DayID: dayID, Shift: typ})
}

func (t *Tree) AddVariant(dayID, shiftID string) *Tree {
	return t.apply(Edit{Op: OpAddVariant, DayID: dayID, ShiftID: shiftID})
}

func (t *Tree) AddMenuItem(dayID, shiftID, variantID string) *Tree {
	return t.apply(Edit{Op: OpAddMenuItem, DayID: dayID, ShiftID: shiftID, VariantID: variantID})
}

func (t *Tree) RemoveMenuItem(dayID, shiftID, variantID, itemID string) *Tree {
	return t.apply(Edit{Op: OpRemoveMenuItem, DayID: dayID, ShiftID: shiftID, VariantID: variantID, ItemID: itemID})
}

// SetVariantField panics when field is not one of the Field constants.
func (t *Tree) SetVariantField(dayID, shiftID, variantID string, field VariantField, value string) *Tree {
	return t.apply(Edit{Op: OpSetVariantField, DayID: dayID, ShiftID: shiftID, VariantID: variantID, Field: field, Value: value})
}

func (t *Tree) SetMenuItemText(dayID, shiftID, variantID, itemID, text string) *Tree {
	return t.apply(Edit{Op: OpSetMenuItemText, DayID: dayID, ShiftID: shiftID, VariantID: variantID, ItemID: itemID, Value: text})
}

func (t *Tree) AttachImage(dayID, shiftID, variantID string, data []byte) *Tree {
	return t.apply(Edit{Op: OpAttachImage, DayID: dayID, ShiftID: shiftID, VariantID: variantID, Image: data})
}
