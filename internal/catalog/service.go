// Package catalog serves the products and services pages. Both share the same
// form: a mandatory name, a description and a price.
package catalog

import (
	"context"
	"strings"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ItemRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       page.Field `json:"price"`
}

func (r *ItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return apperr.Validation("Nome é obrigatório")
	}
	if r.Price.Decimal().IsNegative() {
		return apperr.Validation("Preço não pode ser negativo")
	}
	return nil
}

func (r ItemRequest) price() decimal.Decimal { return r.Price.Decimal().Round(2) }

type Service struct {
	store *store.Store
	log   *zap.SugaredLogger
}

func NewService(s *store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log}
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return store.List[models.Product](ctx, s.store, store.Query{})
}

func (s *Service) CreateProduct(ctx context.Context, req ItemRequest) error {
	p := models.Product{Name: req.Name, Description: req.Description, Price: req.price()}
	return store.Insert(ctx, s.store, &p)
}

func (s *Service) ListServices(ctx context.Context) ([]models.Service, error) {
	return store.List[models.Service](ctx, s.store, store.Query{})
}

func (s *Service) CreateService(ctx context.Context, req ItemRequest) error {
	sv := models.Service{Name: req.Name, Description: req.Description, Price: req.price()}
	return store.Insert(ctx, s.store, &sv)
}

func (s *Service) ProductsPage() *page.Page[models.Product] {
	return page.New("products", s.ListProducts, s.log)
}

func (s *Service) ServicesPage() *page.Page[models.Service] {
	return page.New("services", s.ListServices, s.log)
}
