package service

import (
	"context"

	"dealership_crm_backend/internal/catalog/repository"
	"dealership_crm_backend/internal/catalog/transport"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/sanitize"
)

// Service provides business logic for the vehicle catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) ListBrands(ctx context.Context) ([]transport.BrandResponse, error) {
	nodes, err := s.repo.List(ctx, repository.Brands, nil)
	if err != nil {
		return nil, err
	}
	out := make([]transport.BrandResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toBrand(n)
	}
	return out, nil
}

func (s *Service) CreateBrand(ctx context.Context, name string) (transport.BrandResponse, error) {
	n, err := s.create(ctx, repository.Brands, nil, name)
	if err != nil {
		return transport.BrandResponse{}, err
	}
	return toBrand(n), nil
}

func (s *Service) RenameBrand(ctx context.Context, id int64, name string) (transport.BrandResponse, error) {
	n, err := s.rename(ctx, repository.Brands, id, name)
	if err != nil {
		return transport.BrandResponse{}, err
	}
	return toBrand(n), nil
}

// DeleteBrand fails with a conflict while the brand still has models.
func (s *Service) DeleteBrand(ctx context.Context, id int64) error {
	return s.delete(ctx, repository.Brands, id)
}

// ListModels returns the models of one brand.
func (s *Service) ListModels(ctx context.Context, brandID int64) ([]transport.ModelResponse, error) {
	if _, err := s.repo.Get(ctx, repository.Brands, brandID); err != nil {
		return nil, err
	}
	nodes, err := s.repo.List(ctx, repository.Models, &brandID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ModelResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toModel(n)
	}
	return out, nil
}

func (s *Service) CreateModel(ctx context.Context, brandID int64, name string) (transport.ModelResponse, error) {
	if _, err := s.repo.Get(ctx, repository.Brands, brandID); err != nil {
		return transport.ModelResponse{}, err
	}
	n, err := s.create(ctx, repository.Models, &brandID, name)
	if err != nil {
		return transport.ModelResponse{}, err
	}
	return toModel(n), nil
}

func (s *Service) RenameModel(ctx context.Context, id int64, name string) (transport.ModelResponse, error) {
	n, err := s.rename(ctx, repository.Models, id, name)
	if err != nil {
		return transport.ModelResponse{}, err
	}
	return toModel(n), nil
}

func (s *Service) DeleteModel(ctx context.Context, id int64) error {
	return s.delete(ctx, repository.Models, id)
}

func (s *Service) ListTrims(ctx context.Context, modelID int64) ([]transport.TrimResponse, error) {
	if _, err := s.repo.Get(ctx, repository.Models, modelID); err != nil {
		return nil, err
	}
	nodes, err := s.repo.List(ctx, repository.Trims, &modelID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TrimResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toTrim(n)
	}
	return out, nil
}

func (s *Service) CreateTrim(ctx context.Context, modelID int64, name string) (transport.TrimResponse, error) {
	if _, err := s.repo.Get(ctx, repository.Models, modelID); err != nil {
		return transport.TrimResponse{}, err
	}
	n, err := s.create(ctx, repository.Trims, &modelID, name)
	if err != nil {
		return transport.TrimResponse{}, err
	}
	return toTrim(n), nil
}

func (s *Service) RenameTrim(ctx context.Context, id int64, name string) (transport.TrimResponse, error) {
	n, err := s.rename(ctx, repository.Trims, id, name)
	if err != nil {
		return transport.TrimResponse{}, err
	}
	return toTrim(n), nil
}

func (s *Service) DeleteTrim(ctx context.Context, id int64) error {
	return s.delete(ctx, repository.Trims, id)
}

func (s *Service) create(ctx context.Context, level repository.Level, parentID *int64, name string) (repository.Node, error) {
	clean, err := cleanName(level, name)
	if err != nil {
		return repository.Node{}, err
	}
	n, err := s.repo.Create(ctx, level, parentID, clean)
	if err != nil {
		return repository.Node{}, err
	}
	s.log.Info("catalog entry created", "level", level.Label(), "id", n.ID, "name", n.Name)
	return n, nil
}

func (s *Service) rename(ctx context.Context, level repository.Level, id int64, name string) (repository.Node, error) {
	clean, err := cleanName(level, name)
	if err != nil {
		return repository.Node{}, err
	}
	return s.repo.Rename(ctx, level, id, clean)
}

func (s *Service) delete(ctx context.Context, level repository.Level, id int64) error {
	if err := s.repo.Delete(ctx, level, id); err != nil {
		return err
	}
	s.log.Info("catalog entry deleted", "level", level.Label(), "id", id)
	return nil
}

func cleanName(level repository.Level, name string) (string, error) {
	clean := sanitize.Line(name)
	if clean == "" {
		return "", apperr.Validation(level.Label() + " name is required")
	}
	return clean, nil
}

func toBrand(n repository.Node) transport.BrandResponse {
	return transport.BrandResponse{ID: n.ID, Name: n.Name, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func toModel(n repository.Node) transport.ModelResponse {
	return transport.ModelResponse{ID: n.ID, BrandID: parentOf(n), Name: n.Name, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func toTrim(n repository.Node) transport.TrimResponse {
	return transport.TrimResponse{ID: n.ID, ModelID: parentOf(n), Name: n.Name, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func parentOf(n repository.Node) int64 {
	if n.ParentID == nil {
		return 0
	}
	return *n.ParentID
}
