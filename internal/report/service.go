package report

import (
	"context"
	"time"

	"oficina-backend/internal/models"
	"oficina-backend/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	store *store.Store
	log   *zap.SugaredLogger
	now   func() time.Time
	loc   *time.Location
}

func NewService(s *store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: s, log: log, now: time.Now, loc: time.Local}
}

func (s *Service) load(ctx context.Context, budgetQ, investmentQ store.Query) ([]models.Budget, []models.Investment, error) {
	budgets, err := store.List[models.Budget](ctx, s.store, budgetQ.Where("status", models.BudgetStatusClosed))
	if err != nil {
		return nil, nil, err
	}
	investments, err := store.List[models.Investment](ctx, s.store, investmentQ)
	if err != nil {
		return nil, nil, err
	}
	return budgets, investments, nil
}

// Trailing returns the fixed 12-month window used by the home chart.
func (s *Service) Trailing(ctx context.Context) (Report, error) {
	now := s.now().In(s.loc)
	start := WindowStart(now)
	end := start.AddDate(0, WindowMonths, 0)

	q := store.Query{}.Between("created_at", start, end)
	budgets, investments, err := s.load(ctx, q, q)
	if err != nil {
		return Report{}, err
	}
	return FixedWindow(now, budgets, investments), nil
}

// All returns every month present in the data.
func (s *Service) All(ctx context.Context) (Report, error) {
	budgets, investments, err := s.load(ctx, store.Query{}, store.Query{})
	if err != nil {
		return Report{}, err
	}
	r := DynamicWindow(s.loc, budgets, investments)
	s.log.Debugw("report built", "buckets", len(r.Buckets), "budgets", len(budgets), "investments", len(investments))
	return r, nil
}
