package model

import "time"

// LoggedAtLayout is the on-disk timestamp format of a meal-log record.
const LoggedAtLayout = "2006-01-02 15:04:05"

// MealLogRecord is the persisted form of a meal-log entry. LoggedAt is kept
// as text exactly as stored; it is parsed when entries are queried.
type MealLogRecord struct {
	ID       string   `json:"id,omitempty"`
	User     string   `json:"user"`
	Meal     string   `json:"meal"`
	Items    []string `json:"items"`
	LoggedAt string   `json:"loggedAt"`
}

// MealLogEntry is a meal-log record with a parsed timestamp.
//
// Items may repeat; each occurrence counts once in aggregation.
type MealLogEntry struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	Meal     string    `json:"meal"`
	Items    []string  `json:"items"`
	LoggedAt time.Time `json:"loggedAt"`
}

// Record converts the entry to its persisted form.
func (e MealLogEntry) Record() MealLogRecord {
	return MealLogRecord{
		ID:       e.ID,
		User:     e.User,
		Meal:     e.Meal,
		Items:    e.Items,
		LoggedAt: e.LoggedAt.Format(LoggedAtLayout),
	}
}

// Entry parses the stored timestamp. The returned error is the time.Parse
// error; callers decide whether to skip the record.
func (r MealLogRecord) Entry() (MealLogEntry, error) {
	at, err := time.ParseInLocation(LoggedAtLayout, r.LoggedAt, time.Local)
	if err != nil {
		return MealLogEntry{}, err
	}
	return MealLogEntry{
		ID:       r.ID,
		User:     r.User,
		Meal:     r.Meal,
		Items:    r.Items,
		LoggedAt: at,
	}, nil
}
