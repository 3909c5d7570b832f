package dto

import "github.com/hongminglow/coffee-shop/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=49,nocomma"`
	Phone    string `json:"phone" validate:"required,max=14,nocomma"`
	Password string `json:"password" validate:"required,max=19,nocomma"`
	Role     string `json:"role" validate:"required"`
}

type RegisterResponse struct {
	ID int64 `json:"id"`
}

type LoginRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Password string `json:"password" validate:"required,max=19"`
	Role     string `json:"role" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type BalanceRequest struct {
	Balance *float64 `json:"balance" validate:"required,gte=0"`
}
