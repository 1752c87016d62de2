package queries

import (
	"github.com/google/uuid"

	"travelnest/internal/pkg/errs"
)

// Role names as stored in the users table.
const (
	RoleAdmin = "admin"
	RoleHost  = "host"
	RoleGuest = "guest"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
