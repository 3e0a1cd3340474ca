package expense

import (
	"context"
	"strings"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateInvestmentRequest struct {
	Description string     `json:"description"`
	Amount      page.Field `json:"amount"`
}

func (r *CreateInvestmentRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return apperr.Validation("Descrição é obrigatória")
	}
	if !r.Amount.Decimal().IsPositive() {
		return apperr.Validation("Valor deve ser maior que zero")
	}
	return nil
}

// Period narrows the list to [From, To] by day; zero values leave that side open.
type Period struct {
	From time.Time
	To   time.Time
}

// ParsePeriod reads "YYYY-MM-DD" bounds as local midnights in loc; empty
// strings are allowed.
func ParsePeriod(from, to string, loc *time.Location) (Period, error) {
	var p Period
	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return p, apperr.Validation("from inválido, use AAAA-MM-DD")
		}
		p.From = d
	}
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return p, apperr.Validation("to inválido, use AAAA-MM-DD")
		}
		p.To = d
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return p, apperr.Validation("to deve ser posterior a from")
	}
	return p, nil
}

func (p Period) query() store.Query {
	q := store.Query{}
	if p.From.IsZero() && p.To.IsZero() {
		return q
	}
	q.RangeColumn = "created_at"
	if !p.From.IsZero() {
		from := p.From
		q.RangeStart = &from
	}
	if !p.To.IsZero() {
		// inclusive day: stop at the next midnight
		end := p.To.AddDate(0, 0, 1)
		q.RangeEnd = &end
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

// ParsePeriod reads the page's from/to in the shop's location.
func (s *Service) ParsePeriod(from, to string) (Period, error) {
	return ParsePeriod(from, to, s.loc)
}

func (s *Service) List(ctx context.Context, period Period) ([]models.Investment, error) {
	return store.List[models.Investment](ctx, s.store, period.query())
}

func (s *Service) Create(ctx context.Context, req CreateInvestmentRequest) error {
	inv := models.Investment{
		Description: req.Description,
		Amount:      req.Amount.Decimal().Round(2),
	}
	return store.Insert(ctx, s.store, &inv)
}

// Total sums the amounts of a listed page.
func Total(items []models.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

func (s *Service) Page(period Period) *page.Page[models.Investment] {
	return page.New("investments", func(ctx context.Context) ([]models.Investment, error) {
		return s.List(ctx, period)
	}, s.log)
}
