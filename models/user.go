package models

import (
	"context"
	"fmt"
	"time"

	"photolabel/apperror"
	"photolabel/db"
)

type User struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"-"`
	Username       string    `gorm:"type:varchar(150);not null;uniqueIndex:uniq_username" json:"username"`
	Email          string    `gorm:"type:varchar(150);not null;uniqueIndex:uniq_email" json:"email"`
	HashedPassword string    `gorm:"type:varchar(128);not null" json:"-"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	Images         []Image   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images"`
}

// CreateUser stores a new user. hashedPassword must already be hashed.
// The email/username lookups only give friendlier messages, the unique indexes are what
// actually reject a concurrent duplicate.
func (s *Store) CreateUser(ctx context.Context, username, email, hashedPassword string) (*User, error) {
	existing, err := s.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}
	if existing, err = s.UserByUsername(ctx, username); err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Username already registered")
	}
	return s.insertUser(ctx, username, email, hashedPassword)
}

func (s *Store) insertUser(ctx context.Context, username, email, hashedPassword string) (*User, error) {
	u := User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := s.conn(ctx).Create(&u).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, s.registeredConflict(ctx, username, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.Images = []Image{}
	return &u, nil
}

// registeredConflict names the column a rejected insert collided on. The translated driver
// error does not say which unique index fired, so the rows are looked up again.
func (s *Store) registeredConflict(ctx context.Context, username, email string) error {
	if existing, err := s.UserByEmail(ctx, email); err == nil && existing != nil {
		return apperror.Conflict("Email already registered")
	}
	if existing, err := s.UserByUsername(ctx, username); err == nil && existing != nil {
		return apperror.Conflict("Username already registered")
	}
	return apperror.Conflict("User already registered")
}

func (s *Store) UserByID(ctx context.Context, id uint64) (*User, error) {
	return first[User](s.conn(ctx), "id = ?", id)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	return first[User](s.conn(ctx), "username = ?", username)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return first[User](s.conn(ctx), "email = ?", email)
}

// UserWithImages loads a user together with their images and labels
func (s *Store) UserWithImages(ctx context.Context, id uint64) (*User, error) {
	return first[User](s.conn(ctx).Preload("Images", orderByID).Preload("Images.Objects", orderByID), "id = ?", id)
}

func (s *Store) ListUsers(ctx context.Context, page Page) ([]User, error) {
	users := []User{}
	err := page.apply(s.conn(ctx)).
		Preload("Images", orderByID).
		Preload("Images.Objects", orderByID).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// SetActive flips the active flag. Not reachable over HTTP.
func (s *Store) SetActive(ctx context.Context, id uint64, active bool) error {
	return s.conn(ctx).Model(&User{}).Where("id = ?", id).Update("is_active", active).Error
}
