package services

import (
	"context"
	"errors"
	"testing"

	"daily-menu/db"
	"daily-menu/models"

	"github.com/google/go-cmp/cmp"
)

func TestAssembleDays(t *testing.T) {
	img := "data:image/png;base64,AAAA"
	rows := []menuRow{
		{DayID: "d1", Date: "2025-01-01", ShiftID: "s1", ShiftType: "lunch", VariantID: "v1", DishName: "Plov", Price: "120", ItemID: "i1", ItemText: "rice"},
		{DayID: "d1", Date: "2025-01-01", ShiftID: "s1", ShiftType: "lunch", VariantID: "v1", DishName: "Plov", Price: "120", ItemID: "i2", ItemText: "carrot"},
		{DayID: "d1", Date: "2025-01-01", ShiftID: "s1", ShiftType: "lunch", VariantID: "v2", DishName: "Half", Price: "70", Image: &img, ItemID: "i3", ItemText: "rice"},
		{DayID: "d1", Date: "2025-01-01", ShiftID: "s2", ShiftType: "dinner", VariantID: "v3", DishName: "Soup", Price: "50", ItemID: "i4"},
		{DayID: "d2", Date: "2025-01-02", ShiftID: "s3", ShiftType: "dinner", VariantID: "v4", ItemID: "i5"},
	}

	want := []models.DayMenu{
		{ID: "d1", Date: "2025-01-01", Shifts: []models.Shift{
			{ID: "s1", Type: models.ShiftLunch, Variants: []models.Variant{
				{ID: "v1", DishName: "Plov", Price: "120", MenuItems: []models.MenuItem{{ID: "i1", Text: "rice"}, {ID: "i2", Text: "carrot"}}},
				{ID: "v2", DishName: "Half", Price: "70", Image: &img, MenuItems: []models.MenuItem{{ID: "i3", Text: "rice"}}},
			}},
			{ID: "s2", Type: models.ShiftDinner, Variants: []models.Variant{
				{ID: "v3", DishName: "Soup", Price: "50", MenuItems: []models.MenuItem{{ID: "i4"}}},
			}},
		}},
		{ID: "d2", Date: "2025-01-02", Shifts: []models.Shift{
			{ID: "s3", Type: models.ShiftDinner, Variants: []models.Variant{
				{ID: "v4", MenuItems: []models.MenuItem{{ID: "i5"}}},
			}},
		}},
	}

	if diff := cmp.Diff(want, assembleDays(rows)); diff != "" {
		t.Errorf("assembleDays mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleDays_Empty(t *testing.T) {
	got := assembleDays(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("assembleDays(nil) = %#v, want empty non-nil slice", got)
	}
}

// Integration test (requires DB). Skip if db.Pool is nil or -short.
func TestPublishAndDraft_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping menu integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping menu integration test: no DB pool")
	}
	ctx := context.Background()
	const adminID int64 = 999999996

	day := models.DayMenu{ID: "it-day", Date: "2099-12-31", Shifts: []models.Shift{
		{ID: "it-shift", Type: models.ShiftLunch, Variants: []models.Variant{
			{ID: "it-variant", DishName: "Test dish", Price: "10", MenuItems: []models.MenuItem{{ID: "it-item", Text: "x"}}},
		}},
	}}
	defer func() {
		_ = PublishMenus(ctx, []models.DayMenu{{ID: day.ID, Date: day.Date}}, adminID)
		_ = DeleteMenuDraft(ctx, adminID)
	}()

	if err := PublishMenus(ctx, []models.DayMenu{day}, adminID); err != nil {
		t.Fatalf("PublishMenus: %v", err)
	}
	got, err := GetPublishedMenu(ctx, day.Date)
	if err != nil {
		t.Fatalf("GetPublishedMenu: %v", err)
	}
	if diff := cmp.Diff(day, *got); diff != "" {
		t.Errorf("published menu mismatch (-want +got):\n%s", diff)
	}

	// republishing an empty day clears the date
	if err := PublishMenus(ctx, []models.DayMenu{{ID: day.ID, Date: day.Date}}, adminID); err != nil {
		t.Fatalf("PublishMenus clear: %v", err)
	}
	if _, err := GetPublishedMenu(ctx, day.Date); !errors.Is(err, ErrMenuNotPublished) {
		t.Errorf("after clear: err = %v, want ErrMenuNotPublished", err)
	}

	if err := SaveMenuDraft(ctx, adminID, []byte(`{"todayId":"a","days":[]}`)); err != nil {
		t.Fatalf("SaveMenuDraft: %v", err)
	}
	snap, ok, err := LoadMenuDraft(ctx, adminID)
	if err != nil || !ok || len(snap) == 0 {
		t.Errorf("LoadMenuDraft = %q, %v, %v", snap, ok, err)
	}
	if err := DeleteMenuDraft(ctx, adminID); err != nil {
		t.Fatalf("DeleteMenuDraft: %v", err)
	}
	if _, ok, _ := LoadMenuDraft(ctx, adminID); ok {
		t.Error("draft still present after delete")
	}
}
