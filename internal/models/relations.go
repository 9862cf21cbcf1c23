package models

import "github.com/google/uuid"

// Follow means User follows Author. User != Author is checked by the service layer.
type Follow struct {
	Base
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

type Favorite struct {
	Base
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair;index" json:"recipe_id"`
	Recipe   Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ShoppingCart struct {
	Base
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair" json:"user_id"`
	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair;index" json:"recipe_id"`
	Recipe   Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
