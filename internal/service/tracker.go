package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/nutrition"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// DateLayout is the calendar-date format accepted and returned by
// DailySummary.
const DateLayout = "2006-01-02"

// Dashboard is everything the landing page shows for a signed-in user.
type Dashboard struct {
	Profile    *model.UserProfile   `json:"profile"`
	BMR        float64              `json:"bmr"`
	BMRRounded int                  `json:"bmrRounded"`
	Meals      []model.MealLogEntry `json:"meals"`
	Totals     model.NutrientVector `json:"totals"`
}

// DailySummary is one day's meals and their nutrient totals.
type DailySummary struct {
	Date   string               `json:"date"`
	Meals  []model.MealLogEntry `json:"meals"`
	Totals model.NutrientVector `json:"totals"`
}

// TrackerService implements the user-facing tracker features. Every method
// goes through the auth gate first.
type TrackerService struct {
	auth    *AuthService
	meals   *MealService
	catalog repository.FoodCatalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewTrackerService creates a TrackerService.
func NewTrackerService(
	authSvc *AuthService,
	meals *MealService,
	catalog repository.FoodCatalog,
	logger *slog.Logger,
) *TrackerService {
	return &TrackerService{
		auth:    authSvc,
		meals:   meals,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// LogMeal appends a meal for the session's user, stamped with the current
// time. The category is stored exactly as given and item names are not
// checked against the catalog.
func (s *TrackerService) LogMeal(ctx context.Context, sess model.Session, meal string, items []string) (*model.MealLogEntry, error) {
	user, _, err := s.auth.Require(ctx, sess)
	if err != nil {
		return nil, err
	}

	return s.meals.Append(ctx, user.Email, meal, items, s.now())
}

// Dashboard returns the profile, the BMR estimate, every meal of the user
// in chronological order, and the all-time nutrient totals.
func (s *TrackerService) Dashboard(ctx context.Context, sess model.Session) (*Dashboard, error) {
	user, _, err := s.auth.Require(ctx, sess)
	if err != nil {
		return nil, err
	}

	entries, err := s.meals.QueryByUser(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	SortChronologically(entries)

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	bmr := nutrition.EstimateBMR(user.Gender, user.Weight, user.Height, user.Age)

	return &Dashboard{
		Profile:    user,
		BMR:        bmr.Value(),
		BMRRounded: bmr.Rounded(),
		Meals:      entries,
		Totals:     nutrition.AggregateEntries(entries, catalog),
	}, nil
}

// DailySummary returns the meals the user logged on date and their totals.
// A day with no meals yields an empty list and zero totals.
func (s *TrackerService) DailySummary(ctx context.Context, sess model.Session, date time.Time) (*DailySummary, error) {
	user, _, err := s.auth.Require(ctx, sess)
	if err != nil {
		return nil, err
	}

	entries, err := s.meals.QueryByUserAndDate(ctx, user.Email, date)
	if err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	return &DailySummary{
		Date:   date.Format(DateLayout),
		Meals:  entries,
		Totals: nutrition.AggregateEntries(entries, catalog),
	}, nil
}

// Today returns the current date in local time, for callers that want the
// summary of "today".
func (s *TrackerService) Today() time.Time {
	return s.now().In(time.Local)
}

// Foods returns the catalog sorted by name.
func (s *TrackerService) Foods(ctx context.Context, sess model.Session) ([]model.FoodItem, error) {
	if _, _, err := s.auth.Require(ctx, sess); err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Items(), nil
}

// loadCatalog reads the catalog fresh on every call.
func (s *TrackerService) loadCatalog(ctx context.Context) (model.Catalog, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load food catalog", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading food catalog: %w", err)
	}
	return catalog, nil
}
