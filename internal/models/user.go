package models

// User is identified by email at login; username is public.
type User struct {
	Base
	Email        string `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username     string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName    string `gorm:"size:150;not null" json:"first_name"`
	LastName     string `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsSuperuser  bool   `gorm:"not null;default:false" json:"is_superuser"`
}
