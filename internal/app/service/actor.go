package service

import "github.com/sellio/sellio-backend/internal/app/model"

// Actor is the request-scoped identity services authorize against. Handlers
// build it from the authenticated request; services never read identity from
// anywhere else.
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) IsSeller() bool {
	return a.Role == model.RoleSeller
}
