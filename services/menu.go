package services

import (
	"context"
	"errors"
	"fmt"

	"daily-menu/db"
	"daily-menu/models"

	"github.com/jackc/pgx/v5"
)

var ErrMenuNotPublished = errors.New("no menu published for this date")

// PublishMenus replaces the published menu of every given date in one
// transaction. A day without shifts clears that date.
func PublishMenus(ctx context.Context, days []models.DayMenu, publishedBy int64) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, d := range days {
			if err := publishDay(ctx, tx, d, publishedBy); err != nil {
				return fmt.Errorf("publish %s: %w", d.Date, err)
			}
		}
		return nil
	})
}

func publishDay(ctx context.Context, tx pgx.Tx, d models.DayMenu, publishedBy int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM day_menus WHERE menu_date = $1::date OR id = $2`, d.Date, d.ID); err != nil {
		return err
	}
	if len(d.Shifts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO day_menus (id, menu_date, published_by) VALUES ($1, $2::date, $3)`,
		d.ID, d.Date, publishedBy)
	for si, s := range d.Shifts {
		batch.Queue(`INSERT INTO menu_shifts (id, day_id, shift_type, position) VALUES ($1, $2, $3, $4)`,
			s.ID, d.ID, string(s.Type), si)
		for vi, v := range s.Variants {
			batch.Queue(`
				INSERT INTO menu_variants (id, shift_id, position, dish_name, price, image)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				v.ID, s.ID, vi, v.DishName, v.Price, v.Image)
			for ii, it := range v.MenuItems {
				batch.Queue(`INSERT INTO menu_variant_items (id, variant_id, position, text) VALUES ($1, $2, $3, $4)`,
					it.ID, v.ID, ii, it.Text)
			}
		}
	}
	return tx.SendBatch(ctx, batch).Close()
}

const publishedMenuQuery = `
	SELECT d.id, to_char(d.menu_date, 'YYYY-MM-DD'),
		s.id, s.shift_type,
		v.id, v.dish_name, v.price, v.image,
		i.id, i.text
	FROM day_menus d
	JOIN menu_shifts s ON s.day_id = d.id
	JOIN menu_variants v ON v.shift_id = s.id
	JOIN menu_variant_items i ON i.variant_id = v.id
	%s
	ORDER BY d.menu_date, s.position, v.position, i.position`

// ListPublishedMenus returns every published day on or after from (YYYY-MM-DD).
func ListPublishedMenus(ctx context.Context, from string) ([]models.DayMenu, error) {
	return queryPublished(ctx, fmt.Sprintf(publishedMenuQuery, "WHERE d.menu_date >= $1::date"), from)
}

// GetPublishedMenu returns the menu published for date, or ErrMenuNotPublished.
func GetPublishedMenu(ctx context.Context, date string) (*models.DayMenu, error) {
	days, err := queryPublished(ctx, fmt.Sprintf(publishedMenuQuery, "WHERE d.menu_date = $1::date"), date)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrMenuNotPublished
	}
	return &days[0], nil
}

func queryPublished(ctx context.Context, query string, args ...any) ([]models.DayMenu, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []menuRow
	for rows.Next() {
		var r menuRow
		if err := rows.Scan(&r.DayID, &r.Date, &r.ShiftID, &r.ShiftType,
			&r.VariantID, &r.DishName, &r.Price, &r.Image, &r.ItemID, &r.ItemText); err != nil {
			return nil, err
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assembleDays(flat), nil
}

// menuRow is one joined row: a menu item with its ancestors.
type menuRow struct {
	DayID, Date         string
	ShiftID, ShiftType  string
	VariantID, DishName string
	Price               string
	Image               *string
	ItemID, ItemText    string
}

// assembleDays folds rows, already ordered by day, shift, variant and item
// position, back into trees.
func assembleDays(rows []menuRow) []models.DayMenu {
	days := []models.DayMenu{}
	for _, r := range rows {
		if n := len(days); n == 0 || days[n-1].ID != r.DayID {
			days = append(days, models.DayMenu{ID: r.DayID, Date: r.Date, Shifts: []models.Shift{}})
		}
		d := &days[len(days)-1]

		if n := len(d.Shifts); n == 0 || d.Shifts[n-1].ID != r.ShiftID {
			d.Shifts = append(d.Shifts, models.Shift{ID: r.ShiftID, Type: models.ShiftType(r.ShiftType)})
		}
		s := &d.Shifts[len(d.Shifts)-1]

		if n := len(s.Variants); n == 0 || s.Variants[n-1].ID != r.VariantID {
			s.Variants = append(s.Variants, models.Variant{
				ID:       r.VariantID,
				DishName: r.DishName,
				Price:    r.Price,
				Image:    r.Image,
			})
		}
		v := &s.Variants[len(s.Variants)-1]

		v.MenuItems = append(v.MenuItems, models.MenuItem{ID: r.ItemID, Text: r.ItemText})
	}
	return days
}
