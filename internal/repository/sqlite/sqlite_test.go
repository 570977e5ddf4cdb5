package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives each test a fresh, isolated database that disappears when
// the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, u *UserDB, email, name string) *model.UserProfile {
	t.Helper()
	user := &model.UserProfile{
		Email:        email,
		Name:         name,
		PasswordHash: "$2a$04$not-a-real-hash",
		Age:          30,
		Weight:       80,
		Height:       180,
		Gender:       "male",
		Goal:         "bulk",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func seedFood(t *testing.T, db *DB, name string, n model.NutrientVector) {
	t.Helper()
	_, err := db.conn.Exec(
		`INSERT INTO foods (name, calories, protein, carbs, fiber) VALUES (?, ?, ?, ?, ?)`,
		name, n.Calories, n.Protein, n.Carbs, n.Fiber,
	)
	if err != nil {
		t.Fatalf("seeding food %s: %v", name, err)
	}
}

// =========================================================================
// USER TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := createTestUser(t, u, "a@example.com", "Ann")

	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}

	found, err := u.GetByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.Name != "Ann" {
		t.Errorf("Name = %q, want %q", found.Name, "Ann")
	}
	if found.Weight != 80 || found.Height != 180 || found.Age != 30 {
		t.Errorf("body metrics = %v/%v/%v, want 80/180/30", found.Weight, found.Height, found.Age)
	}
	if found.PasswordHash != "$2a$04$not-a-real-hash" {
		t.Errorf("PasswordHash = %q", found.PasswordHash)
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "dup@example.com", "First")

	err := u.Create(context.Background(), &model.UserProfile{Email: "dup@example.com", Name: "Second", PasswordHash: "x"})
	if !errors.Is(err, apperror.ErrDuplicateIdentity) {
		t.Fatalf("Create() error = %v, want ErrDuplicateIdentity", err)
	}

	found, err := u.GetByEmail(context.Background(), "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.Name != "First" {
		t.Errorf("Name after duplicate = %q, want %q", found.Name, "First")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate_DoesNotTouchPasswordHash(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "a@example.com", "Ann")

	upd := &model.UserProfile{
		Email: "a@example.com", Name: "Anne", Age: 31, Weight: 75,
		Height: 181, Gender: "female", Goal: "cut", PasswordHash: "ignored",
	}
	if err := u.Update(context.Background(), upd); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := u.GetByEmail(context.Background(), "a@example.com")
	if found.Name != "Anne" || found.Goal != "cut" || found.Age != 31 {
		t.Errorf("profile after update = %+v", found)
	}
	if found.PasswordHash != "$2a$04$not-a-real-hash" {
		t.Errorf("Update() changed PasswordHash to %q", found.PasswordHash)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	err := u.Update(context.Background(), &model.UserProfile{Email: "ghost@example.com"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_Idempotent(t *testing.T) {
	u := newTestDB(t).Users()
	ctx := context.Background()
	createTestUser(t, u, "a@example.com", "Ann")
	createTestUser(t, u, "b@example.com", "Bob")

	if err := u.Delete(ctx, "a@example.com"); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	if err := u.Delete(ctx, "a@example.com"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}

	users, err := u.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 || users[0].Email != "b@example.com" {
		t.Errorf("List() after deletes = %+v, want only b@example.com", users)
	}
}

// =========================================================================
// MEAL TESTS
// =========================================================================

func TestMealAppendList_InsertionOrder(t *testing.T) {
	m := newTestDB(t).Meals()
	ctx := context.Background()

	records := []*model.MealLogRecord{
		{User: "a@example.com", Meal: "dinner", Items: []string{"rice", "rice"}, LoggedAt: "2026-01-02 19:00:00"},
		{User: "b@example.com", Meal: "breakfast", Items: nil, LoggedAt: "2026-01-01 07:00:00"},
		{User: "a@example.com", Meal: "snack", Items: []string{"unknown"}, LoggedAt: "not a time"},
	}
	for _, r := range records {
		if err := m.Append(ctx, r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if r.ID == "" {
			t.Error("Append() did not set ID")
		}
	}

	got, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(got))
	}
	if got[0].Meal != "dinner" || got[1].Meal != "breakfast" || got[2].Meal != "snack" {
		t.Errorf("List() order = %s,%s,%s", got[0].Meal, got[1].Meal, got[2].Meal)
	}
	if len(got[0].Items) != 2 {
		t.Errorf("duplicate items = %v, want both kept", got[0].Items)
	}
	if got[1].Items == nil || len(got[1].Items) != 0 {
		t.Errorf("empty items = %#v, want empty slice", got[1].Items)
	}
	if got[2].LoggedAt != "not a time" {
		t.Errorf("LoggedAt = %q, stored text must be returned as-is", got[2].LoggedAt)
	}
}

func TestMealLog_SurvivesUserDeletion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db.Users(), "gone@example.com", "Gone")

	if err := db.Meals().Append(ctx, &model.MealLogRecord{User: "gone@example.com", Meal: "lunch", LoggedAt: "2026-01-01 12:00:00"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := db.Users().Delete(ctx, "gone@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := db.Meals().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("meal log after user deletion has %d records, want 1", len(got))
	}
}

// =========================================================================
// FOOD CATALOG TESTS
// =========================================================================

func TestFoodLoad(t *testing.T) {
	db := newTestDB(t)
	seedFood(t, db, "apple", model.NutrientVector{Calories: 95, Protein: 0.5, Carbs: 25, Fiber: 4})

	c, err := db.Foods().Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Lookup("apple"); got.Calories != 95 || got.Fiber != 4 {
		t.Errorf("Lookup(apple) = %+v", got)
	}
	if got := c.Lookup("nope"); got != (model.NutrientVector{}) {
		t.Errorf("Lookup(nope) = %+v, want zero vector", got)
	}
}

func TestFoodLoad_SeesLaterRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before, _ := db.Foods().Load(ctx)
	seedFood(t, db, "pear", model.NutrientVector{Calories: 60})
	after, _ := db.Foods().Load(ctx)

	if len(before) != 0 || len(after) != 1 {
		t.Errorf("catalog sizes before/after = %d/%d, want 0/1", len(before), len(after))
	}
}

// =========================================================================
// FILE DATABASE TEST
// =========================================================================

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrition.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	createTestUser(t, db.Users(), "a@example.com", "Ann")
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Users().GetByEmail(ctx, "a@example.com"); err != nil {
		t.Errorf("GetByEmail() after reopen error = %v", err)
	}
}
