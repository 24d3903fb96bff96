package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Product related errors
	ErrProductNotFound = errors.New("product not found")
	ErrNoProducts      = errors.New("no products registered")
	ErrNotOwner        = errors.New("not the product owner")

	// Cart related errors
	ErrCartItemNotFound = errors.New("cart item not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
