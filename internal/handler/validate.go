package handler

import (
	"fmt"
	"strings"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
)

// INPUT RULES:
// The services accept any well-typed value; these checks are what the HTTP
// API adds on top. Each returns a ValidationFailed naming the offending
// field so the client can highlight it.

// MaxEmailLength bounds the identity key accepted at sign-up.
const MaxEmailLength = 254

func validateSignup(req SignupRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	return validateProfile(model.ProfileFields{Age: req.Age, Weight: req.Weight, Height: req.Height})
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if email != strings.TrimSpace(email) {
		return apperror.ValidationFailed("email", "email must not have leading or trailing spaces")
	}
	if len(email) > MaxEmailLength {
		return apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	if !strings.Contains(email, "@") {
		return apperror.ValidationFailed("email", "email must contain @")
	}
	return nil
}

// validateProfile rejects negative measurements. Zero means "not given".
func validateProfile(f model.ProfileFields) error {
	switch {
	case f.Age < 0:
		return apperror.ValidationFailed("age", "age must not be negative")
	case f.Weight < 0:
		return apperror.ValidationFailed("weight", "weight must not be negative")
	case f.Height < 0:
		return apperror.ValidationFailed("height", "height must not be negative")
	}
	return nil
}

// validateMeal requires a category. The category itself is stored as sent.
func validateMeal(req LogMealRequest) error {
	if strings.TrimSpace(req.Meal) == "" {
		return apperror.ValidationFailed("meal", "meal category is required")
	}
	return nil
}
