// Package tenancy restricts queries on user-owned rows to the rows of the
// operating user. Administrators operate on the full tables.
package tenancy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope identifies who is operating and whether row filtering is lifted.
type Scope struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func ForUser(id uuid.UUID, isAdmin bool) Scope {
	return Scope{UserID: id, IsAdmin: isAdmin}
}

// Valid reports whether the scope names a user. The zero Scope matches
// nothing rather than everything.
func (s Scope) Valid() bool {
	return s.UserID != uuid.Nil
}

// Apply is a gorm scope: db.Scopes(scope.Apply).
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.IsAdmin && s.Valid() {
		return db
	}
	return db.Where("user_id = ?", s.UserID)
}

// Owner returns the id stamped on rows created under this scope. Admins own
// what they create just like everyone else.
func (s Scope) Owner() uuid.UUID {
	return s.UserID
}

type ctxKey struct{}

func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope stored by the session middleware, or the
// zero Scope, which matches no rows.
func FromContext(ctx context.Context) Scope {
	if s, ok := ctx.Value(ctxKey{}).(Scope); ok {
		return s
	}
	return Scope{}
}
