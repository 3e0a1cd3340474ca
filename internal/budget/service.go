// Package budget serves the quotes (orçamentos) page: line items picked from
// products and services, filters by client and month, closing, PDF export.
package budget

import (
	"context"
	"fmt"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/budget/export"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store"

	"go.uber.org/zap"
)

type ItemRequest struct {
	Type  models.LineItemType `json:"type"`
	RefID uint                `json:"ref_id"`
}

// CreateBudgetRequest carries the items accumulated on the page before submit.
type CreateBudgetRequest struct {
	ClientID uint          `json:"client_id"`
	Items    []ItemRequest `json:"items"`
}

func (r CreateBudgetRequest) Validate() error {
	if r.ClientID == 0 {
		return apperr.Validation("Cliente é obrigatório")
	}
	if len(r.Items) == 0 {
		return apperr.Validation("Adicione ao menos um item")
	}
	for _, it := range r.Items {
		if it.Type != models.LineItemProduct && it.Type != models.LineItemService {
			return apperr.Validation(fmt.Sprintf("Tipo de item inválido: %q", it.Type))
		}
		if it.RefID == 0 {
			return apperr.Validation("Item sem referência")
		}
	}
	return nil
}

// Filter mirrors the page controls. Month without Year is ignored.
type Filter struct {
	ClientID uint
	Year     int
	Month    int
}

func (f Filter) Validate() error {
	if f.Month < 0 || f.Month > 12 {
		return apperr.Validation("Mês inválido")
	}
	if f.Year != 0 && (f.Year < 2000 || f.Year > 9999) {
		return apperr.Validation("Ano inválido")
	}
	return nil
}

// Range returns the half-open created_at interval selected by Year/Month.
func (f Filter) Range(loc *time.Location) (time.Time, time.Time, bool) {
	if f.Year == 0 {
		return time.Time{}, time.Time{}, false
	}
	if f.Month == 0 {
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), true
	}
	start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), true
}

func (f Filter) query(loc *time.Location) store.Query {
	q := store.Query{}
	if f.ClientID != 0 {
		q = q.Where("client_id", f.ClientID)
	}
	if start, end, ok := f.Range(loc); ok {
		q = q.Between("created_at", start, end)
	}
	return q
}

type Service struct {
	store *store.Store
	log   *zap.SugaredLogger
	loc   *time.Location
}

func NewService(s *store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log, loc: time.Local}
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Budget, error) {
	return store.List[models.Budget](ctx, s.store, f.query(s.loc))
}

// Create resolves every item against its product or service, snapshotting
// name and price, and stores a pending budget.
func (s *Service) Create(ctx context.Context, req CreateBudgetRequest) error {
	if _, err := store.Get[models.Client](ctx, s.store, req.ClientID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Validation("Cliente não encontrado")
		}
		return err
	}

	items := make(models.LineItems, 0, len(req.Items))
	for _, it := range req.Items {
		li, err := s.resolve(ctx, it)
		if err != nil {
			return err
		}
		items = append(items, li)
	}

	b := models.Budget{
		ClientID:  req.ClientID,
		LineItems: items,
		Status:    models.BudgetStatusPending,
		Total:     items.Total(),
	}
	return store.Insert(ctx, s.store, &b)
}

func (s *Service) resolve(ctx context.Context, it ItemRequest) (models.LineItem, error) {
	switch it.Type {
	case models.LineItemProduct:
		p, err := store.Get[models.Product](ctx, s.store, it.RefID)
		if err != nil {
			return models.LineItem{}, err
		}
		return models.LineItem{Type: it.Type, RefID: p.ID, Name: p.Name, Price: p.Price}, nil
	case models.LineItemService:
		sv, err := store.Get[models.Service](ctx, s.store, it.RefID)
		if err != nil {
			return models.LineItem{}, err
		}
		return models.LineItem{Type: it.Type, RefID: sv.ID, Name: sv.Name, Price: sv.Price}, nil
	default:
		return models.LineItem{}, apperr.Validation(fmt.Sprintf("Tipo de item inválido: %q", it.Type))
	}
}

// Close moves a pending budget to closed. There is no way back.
func (s *Service) Close(ctx context.Context, id uint) error {
	b, err := store.Get[models.Budget](ctx, s.store, id)
	if err != nil {
		return err
	}
	if b.Status == models.BudgetStatusClosed {
		return apperr.Conflict("Orçamento já está fechado")
	}
	return store.Update[models.Budget](ctx, s.store, id, map[string]any{"status": models.BudgetStatusClosed})
}

// Quote resolves the client name and item texts needed by the PDF.
func (s *Service) Quote(ctx context.Context, id uint) (export.Quote, error) {
	b, err := store.Get[models.Budget](ctx, s.store, id)
	if err != nil {
		return export.Quote{}, err
	}

	clientName := fmt.Sprintf("Cliente #%d", b.ClientID)
	if c, err := store.Get[models.Client](ctx, s.store, b.ClientID); err == nil {
		clientName = c.Name
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return export.Quote{}, err
	}

	lines := make([]export.QuoteLine, 0, len(b.LineItems))
	for _, it := range b.LineItems {
		kind := "Produto"
		if it.Type == models.LineItemService {
			kind = "Serviço"
		}
		lines = append(lines, export.QuoteLine{
			Description: fmt.Sprintf("%s: %s", kind, it.Name),
			Price:       it.Price,
		})
	}

	return export.Quote{
		ID:         b.ID,
		ClientName: clientName,
		Items:      lines,
		Total:      b.LineItems.Total(),
		CreatedAt:  b.CreatedAt,
	}, nil
}

func (s *Service) Page(f Filter) *page.Page[models.Budget] {
	return page.New("budgets", func(ctx context.Context) ([]models.Budget, error) {
		return s.List(ctx, f)
	}, s.log)
}
