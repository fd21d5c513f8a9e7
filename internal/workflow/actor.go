package workflow

import (
	"github.com/google/uuid"

	"agrofrete/internal/model"
)

// Actor identifies who is invoking a workflow operation. Every operation takes
// an explicit Actor instead of reading ambient session state, which keeps the
// authorization checks pure and testable.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsCooperative() bool { return a.Role == model.RoleCooperative }
func (a Actor) IsTransporter() bool { return a.Role == model.RoleTransporter }
func (a Actor) IsAdmin() bool       { return a.Role == model.RoleAdmin }
