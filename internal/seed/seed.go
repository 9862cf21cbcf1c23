// Package seed creates the initial superuser and the default tags. Every step is
// idempotent.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
)

// DefaultTags are created by Run when missing, matched by slug.
var DefaultTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

type Superuser struct {
	Email    string
	Username string
	Password string
}

// Result reports what Run created.
type Result struct {
	SuperuserCreated bool
	TagsCreated      int
}

type Seeder struct {
	db       *gorm.DB
	hashCost int
}

func New(db *gorm.DB) *Seeder {
	return &Seeder{db: db, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, for tests.
func (s *Seeder) WithHashCost(cost int) *Seeder {
	s.hashCost = cost
	return s
}

// Run creates the superuser, when admin has an email, and the default tags. An
// existing user with the same email is promoted rather than duplicated.
func (s *Seeder) Run(ctx context.Context, admin Superuser) (Result, error) {
	var result Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if admin.Email != "" {
			created, err := s.ensureSuperuser(tx, admin)
			if err != nil {
				return err
			}
			result.SuperuserCreated = created
		}

		for _, tag := range DefaultTags {
			created, err := ensureTag(tx, tag)
			if err != nil {
				return fmt.Errorf("seed tag %s: %w", tag.Slug, err)
			}
			if created {
				result.TagsCreated++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *Seeder) ensureSuperuser(tx *gorm.DB, admin Superuser) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		if !user.IsSuperuser {
			logging.Info().Str("email", email).Msg("promoting existing user to superuser")
			return false, tx.Model(&user).Update("is_superuser", true).Error
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if len(admin.Password) < 8 {
		return false, fmt.Errorf("superuser password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	username := admin.Username
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	user = models.User{
		Email:        email,
		Username:     username,
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: string(hash),
		IsSuperuser:  true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create superuser: %w", err)
	}
	return true, nil
}

func ensureTag(tx *gorm.DB, tag models.Tag) (bool, error) {
	var count int64
	if err := tx.Model(&models.Tag{}).Where("slug = ? OR name = ?", tag.Slug, tag.Name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, tx.Create(&tag).Error
}
