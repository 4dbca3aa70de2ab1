package service

import (
	"context"
	"errors"
	"sync"

	direrrors "campusalloc/internal/directory/errors"
	"campusalloc/internal/directory/repository"
	"campusalloc/internal/directory/validator"
	"campusalloc/pkg/config"
	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/model"
	"campusalloc/pkg/sanitizer"
)

type DirectoryService interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	DeleteUser(ctx context.Context, id string) error
	CreateResource(ctx context.Context, resource *model.Resource) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	ListResources(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
	DeleteResource(ctx context.Context, id string) error
}

type directoryService struct {
	users     repository.UserRepository
	resources repository.ResourceRepository
	validator *validator.DirectoryValidator
	cfg       *config.Config
}

func NewDirectoryService(
	users repository.UserRepository,
	resources repository.ResourceRepository,
	validator *validator.DirectoryValidator,
	cfg *config.Config,
) DirectoryService {
	return &directoryService{
		users:     users,
		resources: resources,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *directoryService) CreateUser(ctx context.Context, user *model.User) error {
	s.sanitizeUser(user)
	if class, ok := model.ClassForRole(user.Role); ok {
		user.Class = class
	}
	if err := s.validator.ValidateUser(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, direrrors.ErrDuplicateID) {
			return apperrors.Conflict("A user with this ID already exists")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "role", user.Role)
	return nil
}

func (s *directoryService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, direrrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *directoryService) ListUsers(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.users.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.users.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *directoryService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, direrrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

func (s *directoryService) CreateResource(ctx context.Context, resource *model.Resource) error {
	s.sanitizeResource(resource)
	if resource.ID == "" {
		resource.ID = sanitizer.SanitizeKey(resource.Name)
	}
	if err := s.validator.ValidateResource(resource); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.resources.Create(ctx, resource); err != nil {
		if errors.Is(err, direrrors.ErrDuplicateID) {
			return apperrors.Conflict("A resource with this ID already exists")
		}
		s.cfg.Log.Error("Failed to create resource", "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created successfully", "id", resource.ID, "name", resource.Name)
	return nil
}

func (s *directoryService) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.resources.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, direrrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}

	return resource, nil
}

func (s *directoryService) ListResources(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.resources.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.resources.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}

func (s *directoryService) DeleteResource(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.resources.Delete(ctx, id); err != nil {
		if errors.Is(err, direrrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		return apperrors.Internal("Failed to delete resource", err)
	}

	s.cfg.Log.Info("Resource deleted successfully", "id", id)
	return nil
}

func (s *directoryService) sanitizeUser(user *model.User) {
	user.ID = sanitizer.TrimAndNormalize(user.ID)
	user.Name = sanitizer.NormalizeDisplayName(user.Name)
	user.Role = sanitizer.NormalizeRole(user.Role)
	user.Email = sanitizer.TrimAndNormalize(user.Email)
}

func (s *directoryService) sanitizeResource(resource *model.Resource) {
	resource.ID = sanitizer.TrimAndNormalize(resource.ID)
	resource.Name = sanitizer.NormalizeDisplayName(resource.Name)
	resource.Location = sanitizer.NormalizeLocation(resource.Location)
	resource.Description = sanitizer.TrimAndNormalize(resource.Description)
}
