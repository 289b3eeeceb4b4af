package bot

import (
	"fmt"
	"strings"

	"daily-menu/menutree"
	"daily-menu/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages over 4096 UTF-16 units and buttons are cut off
// on narrow screens. maxMessageRunes leaves room for emoji.
const (
	maxMessageRunes = 3500
	maxLineRunes    = 120
	maxButtonRunes  = 40
)

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

type view struct {
	text string
	kb   tgbotapi.InlineKeyboardMarkup
}

func button(text string, cb callback) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cb.String())
}

var shiftLabels = map[models.ShiftType]string{
	models.ShiftLunch:  "Lunch",
	models.ShiftDinner: "Dinner",
}

func dayLabel(tr *menutree.Tree, d models.DayMenu) string {
	if tr.IsToday(d.ID) {
		return "Today (" + d.Date + ")"
	}
	return d.Date
}

func variantLabel(i int, v models.Variant) string {
	name := clip(v.DishName, maxButtonRunes)
	if name == "" {
		name = "(no name)"
	}
	if v.Price != "" {
		return fmt.Sprintf("%d. %s — %s", i+1, name, clip(v.Price, 20))
	}
	return fmt.Sprintf("%d. %s", i+1, name)
}

// renderView draws the screen for the cursor, which must already be resolved
// against tr.
func renderView(tr *menutree.Tree, c cursor, canUndo, canRedo bool) view {
	switch {
	case c.variantID != "":
		return renderVariant(tr, c)
	case c.shiftID != "":
		return renderShift(tr, c)
	case c.dayID != "":
		return renderDay(tr, c)
	default:
		return renderOverview(tr, canUndo, canRedo)
	}
}

func renderOverview(tr *menutree.Tree, canUndo, canRedo bool) view {
	var sb strings.Builder
	sb.WriteString("📋 Menu details\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range tr.Days() {
		var shifts []string
		for _, s := range d.Shifts {
			shifts = append(shifts, fmt.Sprintf("%s (%d)", strings.ToLower(shiftLabels[s.Type]), len(s.Variants)))
		}
		summary := "no shifts"
		if len(shifts) > 0 {
			summary = strings.Join(shifts, ", ")
		}
		fmt.Fprintf(&sb, "\n📅 %s: %s", dayLabel(tr, d), summary)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("📅 "+dayLabel(tr, d), callback{verb: verbDay, arg: d.ID}),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("➕ Add day", callback{verb: verbAddDay})))
	var history []tgbotapi.InlineKeyboardButton
	if canUndo {
		history = append(history, button("↩️ Undo", callback{verb: verbUndo}))
	}
	if canRedo {
		history = append(history, button("↪️ Redo", callback{verb: verbRedo}))
	}
	if len(history) > 0 {
		rows = append(rows, history)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		button("💾 Publish", callback{verb: verbPublish}),
		button("🗑 Discard draft", callback{verb: verbDiscard}),
	))
	return view{text: sb.String(), kb: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

func renderDay(tr *menutree.Tree, c cursor) view {
	d, _ := tr.Day(c.dayID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s\n", dayLabel(tr, d))
	if len(d.Shifts) == 0 {
		sb.WriteString("\nNo shifts yet.")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range d.Shifts {
		fmt.Fprintf(&sb, "\n🍽 %s: %d variant(s)", shiftLabels[s.Type], len(s.Variants))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("🍽 "+shiftLabels[s.Type], callback{verb: verbOpenShift, arg: s.ID}),
		))
	}

	// only the shift types the day does not have yet are offered
	var add []tgbotapi.InlineKeyboardButton
	for _, typ := range []models.ShiftType{models.ShiftLunch, models.ShiftDinner} {
		if _, ok := d.ShiftOf(typ); !ok {
			add = append(add, button("➕ "+shiftLabels[typ], callback{verb: verbAddShift, arg: string(typ)}))
		}
	}
	if len(add) > 0 {
		rows = append(rows, add)
	}

	nav := []tgbotapi.InlineKeyboardButton{button("« Back", callback{verb: verbUp})}
	if !tr.IsToday(d.ID) {
		nav = append(nav, button("🗑 Remove day", callback{verb: verbRemoveDay}))
	}
	rows = append(rows, nav)
	return view{text: sb.String(), kb: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

func renderShift(tr *menutree.Tree, c cursor) view {
	d, _ := tr.Day(c.dayID)
	s, _ := tr.Shift(c.dayID, c.shiftID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 %s — %s\n", shiftLabels[s.Type], dayLabel(tr, d))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, v := range s.Variants {
		fmt.Fprintf(&sb, "\n%s", variantLabel(i, v))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(variantLabel(i, v), callback{verb: verbOpenVariant, arg: v.ID}),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("➕ Add variant", callback{verb: verbAddVariant})),
		tgbotapi.NewInlineKeyboardRow(button("« Back", callback{verb: verbUp})),
	)
	return view{text: sb.String(), kb: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

func renderVariant(tr *menutree.Tree, c cursor) view {
	d, _ := tr.Day(c.dayID)
	s, _ := tr.Shift(c.dayID, c.shiftID)
	v, _ := tr.Variant(c.dayID, c.shiftID, c.variantID)
	pos := 0
	for i := range s.Variants {
		if s.Variants[i].ID == v.ID {
			pos = i
		}
	}

	orDash := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}
	image := "none"
	if v.Image != nil {
		image = "attached"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 %s — %s · variant %d\n\n", shiftLabels[s.Type], dayLabel(tr, d), pos+1)
	fmt.Fprintf(&sb, "Dish: %s\nPrice: %s\nImage: %s\n\nMenu items:",
		orDash(clip(v.DishName, maxLineRunes)), orDash(clip(v.Price, maxLineRunes)), image)
	for i, it := range v.MenuItems {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, orDash(clip(it.Text, maxLineRunes)))
	}

	imageRow := []tgbotapi.InlineKeyboardButton{button("🖼 Image", callback{verb: verbImage})}
	if v.Image != nil {
		imageRow = append(imageRow, button("❌ Remove image", callback{verb: verbClearImage}))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			button("✏️ Dish name", callback{verb: verbDishName}),
			button("💰 Price", callback{verb: verbPrice}),
		},
		imageRow,
	}
	// the last item gets "Add" instead of a remove button, so a variant can
	// not be emptied from here
	for i, it := range v.MenuItems {
		edit := button(fmt.Sprintf("✏️ %d. %s", i+1, orDash(clip(it.Text, maxButtonRunes))), callback{verb: verbItem, arg: it.ID})
		if i == len(v.MenuItems)-1 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(edit, button("➕ Add", callback{verb: verbAddItem})))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(edit, button("✖", callback{verb: verbRemoveItem, arg: it.ID})))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("« Back", callback{verb: verbUp})))
	return view{text: sb.String(), kb: tgbotapi.NewInlineKeyboardMarkup(rows...)}
}

func promptText(p prompt, minDate string) string {
	switch p.kind {
	case promptDate:
		return fmt.Sprintf("📅 Send the date as YYYY-MM-DD (%s or later).\nCancel: /cancel", minDate)
	case promptDishName:
		return "✏️ Send the dish name.\nCancel: /cancel"
	case promptPrice:
		return "💰 Send the price (e.g. 15000).\nCancel: /cancel"
	case promptItemText:
		return "✏️ Send the menu item text (e.g. one ingredient).\nCancel: /cancel"
	case promptImage:
		return "🖼 Send a photo of the dish.\nCancel: /cancel"
	}
	return ""
}
