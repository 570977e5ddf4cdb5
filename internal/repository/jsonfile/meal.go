package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rs/xid"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.MealLogRepository = (*MealStore)(nil)

// mealRecord is one element of meals.json.
type mealRecord struct {
	ID       string   `json:"id,omitempty"`
	User     string   `json:"user"`
	Meal     string   `json:"meal"`
	Items    []string `json:"items"`
	LoggedAt stamp    `json:"loggedAt"`
}

// stamp holds a loggedAt value exactly as it appears in the file. A
// hand-edited log may carry a number or an object there; such a value
// surfaces as text that does not parse, so the one record is skipped by
// readers instead of the whole file failing to decode. Rewrites keep the
// original bytes.
type stamp struct {
	raw json.RawMessage
}

func stampOf(s string) stamp {
	b, _ := json.Marshal(s)
	return stamp{raw: b}
}

func (s *stamp) UnmarshalJSON(b []byte) error {
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (s stamp) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte(`""`), nil
	}
	return s.raw, nil
}

// Text returns the string value, or the raw JSON text for non-strings.
func (s stamp) Text() string {
	if bytes.HasPrefix(s.raw, []byte(`"`)) {
		var v string
		if err := json.Unmarshal(s.raw, &v); err == nil {
			return v
		}
	}
	return string(s.raw)
}

type mealDoc = []mealRecord

// MealStore is the file-backed, append-only meal log.
type MealStore struct {
	doc *document[mealDoc]
}

func NewMealStore(path string) *MealStore {
	return &MealStore{doc: &document[mealDoc]{
		path:  path,
		empty: func() mealDoc { return mealDoc{} },
	}}
}

// Append adds the record to the end of the log. The item list is stored as
// given; it is never checked against the food catalog.
func (s *MealStore) Append(_ context.Context, record *model.MealLogRecord) error {
	if record.ID == "" {
		record.ID = xid.New().String()
	}
	if record.Items == nil {
		record.Items = []string{}
	}
	items := make([]string, len(record.Items))
	copy(items, record.Items)
	return s.doc.update(func(meals mealDoc) (mealDoc, bool, error) {
		return append(meals, mealRecord{
			ID:       record.ID,
			User:     record.User,
			Meal:     record.Meal,
			Items:    items,
			LoggedAt: stampOf(record.LoggedAt),
		}), true, nil
	})
}

func (s *MealStore) List(_ context.Context) ([]model.MealLogRecord, error) {
	meals, err := s.doc.read()
	if err != nil {
		return nil, err
	}

	out := make([]model.MealLogRecord, 0, len(meals))
	for _, m := range meals {
		out = append(out, model.MealLogRecord{
			ID:       m.ID,
			User:     m.User,
			Meal:     m.Meal,
			Items:    m.Items,
			LoggedAt: m.LoggedAt.Text(),
		})
	}
	return out, nil
}
