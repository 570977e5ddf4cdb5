package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup_UnknownItemIsZero(t *testing.T) {
	c := Catalog{"apple": {Calories: 95, Protein: 0.5, Carbs: 25, Fiber: 4}}

	assert.Equal(t, NutrientVector{}, c.Lookup("unknownitem"))
	assert.Equal(t, 95.0, c.Lookup("apple").Calories)
}

func TestCatalogLookup_NilCatalog(t *testing.T) {
	var c Catalog
	assert.Equal(t, NutrientVector{}, c.Lookup("apple"))
}

func TestCatalogItems_SortedByName(t *testing.T) {
	c := Catalog{"rice": {}, "apple": {}, "egg": {}}

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "apple", items[0].Name)
	assert.Equal(t, "egg", items[1].Name)
	assert.Equal(t, "rice", items[2].Name)
}

func TestMealLogRecordEntry_SecondPrecision(t *testing.T) {
	at := time.Date(2026, 3, 14, 8, 30, 15, 999, time.Local)
	e := MealLogEntry{User: "a@example.com", Meal: "breakfast", Items: []string{"egg"}, LoggedAt: at}

	rec := e.Record()
	assert.Equal(t, "2026-03-14 08:30:15", rec.LoggedAt)

	back, err := rec.Entry()
	require.NoError(t, err)
	assert.True(t, back.LoggedAt.Equal(at.Truncate(time.Second)))
}

func TestMealLogRecordEntry_BadTimestamp(t *testing.T) {
	_, err := MealLogRecord{LoggedAt: "2026-03-14"}.Entry()
	assert.Error(t, err)
}

func TestSession_States(t *testing.T) {
	assert.False(t, Anonymous().Authenticated())
	assert.False(t, Session{}.Authenticated())

	s := AuthenticatedAs("a@example.com")
	assert.True(t, s.Authenticated())
	assert.Equal(t, "a@example.com", s.Email())
}

func TestProfileApply_KeepsCredential(t *testing.T) {
	p := &UserProfile{Email: "a@example.com", PasswordHash: "$2a$04$hash", Name: "Old"}
	p.Apply(ProfileFields{Name: "New", Age: 31, Weight: 70.5, Height: 172, Gender: "female", Goal: "maintain"})

	assert.Equal(t, "New", p.Name)
	assert.Equal(t, 31, p.Age)
	assert.Equal(t, "$2a$04$hash", p.PasswordHash)
	assert.Equal(t, "a@example.com", p.Email)
}
