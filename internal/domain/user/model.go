package user

import "time"

type User struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"not null;uniqueIndex"`
	Name           *string   `gorm:"type:text"`
	PasswordHash   string    `gorm:"not null"`
	OnboardingDone bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}
