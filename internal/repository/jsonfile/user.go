package jsonfile

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// userRecord is the value stored under each email key. Records written by
// the earlier app keep their werkzeug hash under "password".
type userRecord struct {
	Name           string    `json:"name"`
	PasswordHash   string    `json:"passwordHash,omitempty"`
	LegacyPassword string    `json:"password,omitempty"`
	Age            years     `json:"age"`
	Weight         float64   `json:"weight"`
	Height         float64   `json:"height"`
	Gender         string    `json:"gender"`
	Goal           string    `json:"goal"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// hash returns the stored credential, whichever key it lives under.
func (r userRecord) hash() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.LegacyPassword
}

// years accepts both 30 and "30". Older users.json files hold the raw form
// value, so age may arrive as a string.
type years int

func (y *years) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var f float64
		if ferr := json.Unmarshal([]byte(s), &f); ferr != nil {
			return err
		}
		n = int(f)
	}
	*y = years(n)
	return nil
}

type userDoc = map[string]userRecord

// UserStore is the file-backed credential store.
type UserStore struct {
	doc *document[userDoc]
}

func NewUserStore(path string) *UserStore {
	return &UserStore{doc: &document[userDoc]{
		path:  path,
		empty: func() userDoc { return userDoc{} },
	}}
}

func (s *UserStore) Create(_ context.Context, user *model.UserProfile) error {
	return s.doc.update(func(users userDoc) (userDoc, bool, error) {
		if users == nil {
			users = userDoc{}
		}
		if _, ok := users[user.Email]; ok {
			return users, false, apperror.DuplicateIdentity("user", user.Email)
		}
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		users[user.Email] = toRecord(user)
		return users, true, nil
	})
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.UserProfile, error) {
	users, err := s.doc.read()
	if err != nil {
		return nil, err
	}
	rec, ok := users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return fromRecord(email, rec), nil
}

func (s *UserStore) Update(_ context.Context, user *model.UserProfile) error {
	return s.doc.update(func(users userDoc) (userDoc, bool, error) {
		rec, ok := users[user.Email]
		if !ok {
			return users, false, apperror.NotFound("user", user.Email)
		}
		user.UpdatedAt = time.Now()

		rec.Name = user.Name
		rec.Age = years(user.Age)
		rec.Weight = user.Weight
		rec.Height = user.Height
		rec.Gender = user.Gender
		rec.Goal = user.Goal
		rec.UpdatedAt = user.UpdatedAt
		users[user.Email] = rec

		user.PasswordHash = rec.hash()
		user.CreatedAt = rec.CreatedAt
		return users, true, nil
	})
}

func (s *UserStore) Delete(_ context.Context, email string) error {
	return s.doc.update(func(users userDoc) (userDoc, bool, error) {
		if _, ok := users[email]; !ok {
			return users, false, nil
		}
		delete(users, email)
		return users, true, nil
	})
}

// List returns all profiles ordered by email.
func (s *UserStore) List(_ context.Context) ([]model.UserProfile, error) {
	users, err := s.doc.read()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserProfile, 0, len(users))
	for email, rec := range users {
		out = append(out, *fromRecord(email, rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func toRecord(u *model.UserProfile) userRecord {
	return userRecord{
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Age:          years(u.Age),
		Weight:       u.Weight,
		Height:       u.Height,
		Gender:       u.Gender,
		Goal:         u.Goal,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromRecord(email string, r userRecord) *model.UserProfile {
	return &model.UserProfile{
		Email:        email,
		Name:         r.Name,
		PasswordHash: r.hash(),
		Age:          int(r.Age),
		Weight:       r.Weight,
		Height:       r.Height,
		Gender:       r.Gender,
		Goal:         r.Goal,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
