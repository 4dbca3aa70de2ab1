package model

import "time"

const (
	RoleFaculty = "faculty"
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// PriorityClass is an ordinal rank governing preemption precedence.
// Lower value = higher precedence. Fixed per role, immutable once assigned.
type PriorityClass int

const (
	ClassFaculty PriorityClass = 0
	ClassStaff   PriorityClass = 1
	ClassStudent PriorityClass = 2
)

// ClassForRole maps a registry role to its priority class. The second return
// is false for roles the system does not recognize.
func ClassForRole(role string) (PriorityClass, bool) {
	switch role {
	case RoleFaculty:
		return ClassFaculty, true
	case RoleStaff:
		return ClassStaff, true
	case RoleStudent:
		return ClassStudent, true
	default:
		return 0, false
	}
}

type User struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Role      string        `json:"role" bson:"role" validate:"required,oneof=faculty staff student"`
	Class     PriorityClass `json:"priority_class" bson:"priority_class" validate:"min=0"`
	Email     string        `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}
