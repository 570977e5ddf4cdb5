package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/nutrition-tracker/internal/metrics"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// MealService reads and appends meal-log entries. It does not check the
// auth gate; TrackerService does that before calling in.
type MealService struct {
	meals  repository.MealLogRepository
	logger *slog.Logger
}

// NewMealService creates a MealService.
func NewMealService(meals repository.MealLogRepository, logger *slog.Logger) *MealService {
	return &MealService{meals: meals, logger: logger}
}

// Append logs a meal for email at the given time.
//
// Items are not checked against the food catalog and may be empty. The
// timestamp is stored with second precision in local wall-clock time.
func (s *MealService) Append(ctx context.Context, email, meal string, items []string, at time.Time) (*model.MealLogEntry, error) {
	if items == nil {
		items = []string{}
	}
	entry := model.MealLogEntry{
		User:     email,
		Meal:     meal,
		Items:    items,
		LoggedAt: at.In(time.Local).Truncate(time.Second),
	}

	record := entry.Record()
	if err := s.meals.Append(ctx, &record); err != nil {
		s.logger.Error("failed to append meal",
			slog.String("user", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("appending meal: %w", err)
	}
	entry.ID = record.ID

	metrics.RecordMealLogged()
	s.logger.Info("meal logged",
		slog.String("id", entry.ID),
		slog.String("user", email),
		slog.String("meal", meal),
		slog.Int("items", len(items)),
	)

	return &entry, nil
}

// QueryByUser returns the user's entries in insertion order.
//
// Records whose timestamp does not parse are skipped silently (see
// skipUnparsable).
func (s *MealService) QueryByUser(ctx context.Context, email string) ([]model.MealLogEntry, error) {
	return s.query(ctx, func(e model.MealLogEntry) bool {
		return e.User == email
	})
}

// QueryByUserAndDate returns the user's entries whose calendar date equals
// date's. The calendar date of date is taken in date's own location; entry
// timestamps are in local time.
func (s *MealService) QueryByUserAndDate(ctx context.Context, email string, date time.Time) ([]model.MealLogEntry, error) {
	y, m, d := date.Date()
	return s.query(ctx, func(e model.MealLogEntry) bool {
		if e.User != email {
			return false
		}
		ey, em, ed := e.LoggedAt.Date()
		return ey == y && em == m && ed == d
	})
}

func (s *MealService) query(ctx context.Context, keep func(model.MealLogEntry) bool) ([]model.MealLogEntry, error) {
	records, err := s.meals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}

	out := []model.MealLogEntry{}
	for _, entry := range skipUnparsable(records) {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// skipUnparsable converts records to entries, dropping any record whose
// stored timestamp does not match model.LoggedAtLayout. Such records are
// not an error; they simply never appear in a query result.
func skipUnparsable(records []model.MealLogRecord) []model.MealLogEntry {
	entries := make([]model.MealLogEntry, 0, len(records))
	for _, r := range records {
		e, err := r.Entry()
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// SortChronologically orders entries by timestamp, oldest first. Entries
// with equal timestamps keep their relative order.
func SortChronologically(entries []model.MealLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoggedAt.Before(entries[j].LoggedAt)
	})
}
