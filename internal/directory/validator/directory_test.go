package validator

import (
	"io"
	"testing"

	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

func newTestValidator() *DirectoryValidator {
	return NewDirectoryValidator(logger.New(logger.Config{Output: io.Discard}))
}

func validUser() *model.User {
	return &model.User{
		ID:    "u-100",
		Name:  "Dana Levi",
		Role:  model.RoleFaculty,
		Class: model.ClassFaculty,
		Email: "dana@example.edu",
	}
}

func TestValidateUser(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUser(validUser()); err != nil {
		t.Errorf("ValidateUser() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.User)
	}{
		{"missing name", func(u *model.User) { u.Name = "" }},
		{"name too short", func(u *model.User) { u.Name = "D" }},
		{"unknown role", func(u *model.User) { u.Role = "janitor" }},
		{"class role mismatch", func(u *model.User) { u.Class = model.ClassStudent }},
		{"bad email", func(u *model.User) { u.Email = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			tt.mutate(user)
			if err := v.ValidateUser(user); err == nil {
				t.Error("ValidateUser() = nil, want error")
			}
		})
	}
}

func TestValidateResource(t *testing.T) {
	v := newTestValidator()

	resource := &model.Resource{
		ID:       "lab-1",
		Name:     "Chemistry Lab",
		Capacity: 24,
		Location: "Science Building, Floor 2",
	}
	if err := v.ValidateResource(resource); err != nil {
		t.Errorf("ValidateResource() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Resource)
	}{
		{"missing name", func(r *model.Resource) { r.Name = "" }},
		{"negative capacity", func(r *model.Resource) { r.Capacity = -1 }},
		{"capacity over limit", func(r *model.Resource) { r.Capacity = 2000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := *resource
			tt.mutate(&res)
			if err := v.ValidateResource(&res); err == nil {
				t.Error("ValidateResource() = nil, want error")
			}
		})
	}
}
