package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleReader Role = "leitor"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"nome" gorm:"column:nome;type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:hash_senha;type:varchar(255);not null"`
	Role         Role      `json:"papel" gorm:"column:papel;type:varchar(20);not null;default:'leitor'"`
	CreatedAt    time.Time `json:"criado_em" gorm:"column:criado_em;autoCreateTime"`
}

func (User) TableName() string {
	return "usuarios"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleReader
	}
	return nil
}

// ToOutput drops the password hash
func (u *User) ToOutput() UserOutput {
	return UserOutput{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type UserCreate struct {
	Name     string `json:"nome" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"senha" validate:"required,min=6,max=72"`
	Role     Role   `json:"papel" validate:"omitempty,oneof=admin editor leitor"`
}

type UserOutput struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  Role   `json:"papel"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenClaims is what a valid access token asserts about its bearer
type TokenClaims struct {
	UserID string `json:"id"`
	Role   Role   `json:"papel"`
}
