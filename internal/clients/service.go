package clients

import (
	"context"
	"strings"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store"

	"go.uber.org/zap"
)

type CreateClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate trims the form and blocks submission without a name.
func (r *CreateClientRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return apperr.Validation("Nome é obrigatório")
	}
	return nil
}

type Service struct {
	store *store.Store
	log   *zap.SugaredLogger
}

func NewService(s *store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	return store.List[models.Client](ctx, s.store, store.Query{})
}

func (s *Service) Create(ctx context.Context, req CreateClientRequest) error {
	c := models.Client{Name: req.Name, Description: req.Description}
	return store.Insert(ctx, s.store, &c)
}

// Page returns a fresh clients page bound to this service.
func (s *Service) Page() *page.Page[models.Client] {
	return page.New("clients", s.List, s.log)
}
