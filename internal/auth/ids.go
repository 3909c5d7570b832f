package auth

import "github.com/hongminglow/coffee-shop/internal/models"

// NextID returns the id for a new account: 1 for an empty store, otherwise
// one past the last user's id. The collection must be in append order with
// the largest id last; ids are never reused or renumbered.
func NextID(users []models.User) int64 {
	if len(users) == 0 {
		return 1
	}
	return users[len(users)-1].ID + 1
}
