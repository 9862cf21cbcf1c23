package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/models"
)

// FlagService resolves the requester-relative booleans of the response shapes. Each
// method runs at most one query for a whole page of ids. Anonymous requesters get
// empty sets without touching the database.
type FlagService struct {
	db *gorm.DB
}

func NewFlagService(db *gorm.DB) *FlagService {
	return &FlagService{db: db}
}

// Subscribed returns the subset of authorIDs the requester follows. The requester is
// never subscribed to themselves.
func (s *FlagService) Subscribed(ctx context.Context, r access.Requester, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set, err := s.lookup(ctx, r, &models.Follow{}, "author_id", authorIDs)
	if err != nil {
		return nil, err
	}
	for id := range set {
		if r.Is(id) {
			delete(set, id)
		}
	}
	return set, nil
}

func (s *FlagService) Favorited(ctx context.Context, r access.Requester, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.lookup(ctx, r, &models.Favorite{}, "recipe_id", recipeIDs)
}

func (s *FlagService) InCart(ctx context.Context, r access.Requester, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.lookup(ctx, r, &models.ShoppingCart{}, "recipe_id", recipeIDs)
}

func (s *FlagService) lookup(ctx context.Context, r access.Requester, model interface{}, column string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if !r.Authenticated || len(ids) == 0 {
		return set, nil
	}

	var matched []uuid.UUID
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ?", r.UserID).
		Where(column+" IN ?", ids).
		Pluck(column, &matched).Error
	if err != nil {
		return nil, err
	}
	for _, id := range matched {
		set[id] = true
	}
	return set, nil
}
