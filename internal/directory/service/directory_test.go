package service

import (
	"context"
	"io"
	"testing"

	direrrors "campusalloc/internal/directory/errors"
	"campusalloc/internal/directory/validator"
	"campusalloc/pkg/config"
	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

type mockUserRepo struct {
	CreateFunc   func(ctx context.Context, user *model.User) error
	FindByIDFunc func(ctx context.Context, id string) (*model.User, error)
	FindAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	CountFunc    func(ctx context.Context) (int64, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return m.FindAllFunc(ctx, limit, offset)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return m.CountFunc(ctx)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockResourceRepo struct {
	CreateFunc   func(ctx context.Context, resource *model.Resource) error
	FindByIDFunc func(ctx context.Context, id string) (*model.Resource, error)
	FindAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	CountFunc    func(ctx context.Context) (int64, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockResourceRepo) Create(ctx context.Context, resource *model.Resource) error {
	return m.CreateFunc(ctx, resource)
}

func (m *mockResourceRepo) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockResourceRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	return m.FindAllFunc(ctx, limit, offset)
}

func (m *mockResourceRepo) Count(ctx context.Context) (int64, error) {
	return m.CountFunc(ctx)
}

func (m *mockResourceRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func newTestService(users *mockUserRepo, resources *mockResourceRepo) DirectoryService {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewDirectoryService(users, resources, validator.NewDirectoryValidator(cfg.Log), cfg)
}

func TestCreateUserDerivesClassFromRole(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		CreateFunc: func(_ context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users, &mockResourceRepo{})

	user := &model.User{ID: "u-1", Name: "Dana Levi", Role: "Faculty", Class: model.ClassStudent}
	if err := svc.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if created == nil {
		t.Fatal("repository never called")
	}
	if created.Role != model.RoleFaculty {
		t.Errorf("role not normalized: %s", created.Role)
	}
	if created.Class != model.ClassFaculty {
		t.Errorf("class = %d, want %d", created.Class, model.ClassFaculty)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newTestService(&mockUserRepo{
		CreateFunc: func(_ context.Context, _ *model.User) error {
			t.Fatal("repository called for invalid user")
			return nil
		},
	}, &mockResourceRepo{})

	err := svc.CreateUser(context.Background(), &model.User{ID: "u-1", Name: "Dana Levi", Role: "janitor"})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestCreateUserMapsDuplicate(t *testing.T) {
	svc := newTestService(&mockUserRepo{
		CreateFunc: func(_ context.Context, _ *model.User) error {
			return direrrors.ErrDuplicateID
		},
	}, &mockResourceRepo{})

	err := svc.CreateUser(context.Background(), &model.User{ID: "u-1", Name: "Dana Levi", Role: model.RoleStaff})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("err = %v, want CONFLICT", err)
	}
}

func TestGetUserMapsNotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{
		FindByIDFunc: func(_ context.Context, _ string) (*model.User, error) {
			return nil, direrrors.ErrNotFound
		},
	}, &mockResourceRepo{})

	_, err := svc.GetUser(context.Background(), "ghost")
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}

	if _, err := svc.GetUser(context.Background(), ""); err == nil {
		t.Error("empty id accepted")
	}
}

func TestListUsersReturnsCountAndPage(t *testing.T) {
	users := &mockUserRepo{
		FindAllFunc: func(_ context.Context, limit int, offset int64) ([]*model.User, error) {
			return []*model.User{{ID: "u-1"}, {ID: "u-2"}}, nil
		},
		CountFunc: func(_ context.Context) (int64, error) {
			return 17, nil
		},
	}
	svc := newTestService(users, &mockResourceRepo{})

	page, total, err := svc.ListUsers(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page) != 2 || total != 17 {
		t.Errorf("page = %d items, total = %d", len(page), total)
	}
}

func TestCreateResourceSanitizesAndValidates(t *testing.T) {
	var created *model.Resource
	resources := &mockResourceRepo{
		CreateFunc: func(_ context.Context, resource *model.Resource) error {
			created = resource
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, resources)

	resource := &model.Resource{ID: "Lab 1", Name: "  Chemistry   Lab  ", Capacity: 24}
	if err := svc.CreateResource(context.Background(), resource); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if created.Name != "Chemistry Lab" {
		t.Errorf("name not normalized: %q", created.Name)
	}

	// A missing id is derived from the name as a stable slug.
	slugged := &model.Resource{Name: "Physics Lab B"}
	if err := svc.CreateResource(context.Background(), slugged); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if created.ID != "physics_lab_b" {
		t.Errorf("derived id = %q, want physics_lab_b", created.ID)
	}

	err := svc.CreateResource(context.Background(), &model.Resource{ID: "lab-2", Name: ""})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestDeleteResourceMapsNotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockResourceRepo{
		DeleteFunc: func(_ context.Context, _ string) error {
			return direrrors.ErrNotFound
		},
	})

	err := svc.DeleteResource(context.Background(), "ghost")
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
