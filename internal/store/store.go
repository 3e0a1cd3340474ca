// Package store is the record store client: a thin typed wrapper issuing
// list/insert/update calls against the named collections. No caching, no
// retries; failures come back as *apperr.Error.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oficina-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultOrderColumn is used when a query names no ordering.
const DefaultOrderColumn = "created_at"

// Record is any model mapped to a collection.
type Record interface {
	TableName() string
}

// Filter is an equality condition on one column.
type Filter struct {
	Column string
	Value  any
}

// Query describes a list call. The range is half-open: RangeStart <= col < RangeEnd.
type Query struct {
	Filters     []Filter
	OrderBy     string
	Ascending   bool
	Limit       int
	RangeColumn string
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

// Where appends an equality filter.
func (q Query) Where(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Between restricts column to [start, end).
func (q Query) Between(column string, start, end time.Time) Query {
	q.RangeColumn = column
	q.RangeStart = &start
	q.RangeEnd = &end
	return q
}

type Store struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	validate *validator.Validate
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log, validate: validator.New()}
}

// Transaction runs fn against a store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log, validate: s.validate})
	})
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Store("Transação não pôde ser concluída", err)
}

// List returns the records of T's collection matching q.
func List[T Record](ctx context.Context, s *Store, q Query) ([]T, error) {
	var zero T
	collection := zero.TableName()

	dbq := s.db.WithContext(ctx).Model(new(T))

	conds := make([]clause.Expression, 0, len(q.Filters)+2)
	for _, f := range q.Filters {
		conds = append(conds, clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	if q.RangeColumn != "" {
		col := clause.Column{Name: q.RangeColumn}
		if q.RangeStart != nil {
			conds = append(conds, clause.Gte{Column: col, Value: *q.RangeStart})
		}
		if q.RangeEnd != nil {
			conds = append(conds, clause.Lt{Column: col, Value: *q.RangeEnd})
		}
	}
	if len(conds) > 0 {
		dbq = dbq.Clauses(clause.Where{Exprs: conds})
	}

	orderBy, asc := q.OrderBy, q.Ascending
	if orderBy == "" {
		orderBy, asc = DefaultOrderColumn, false
	}
	dbq = dbq.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: !asc})
	if orderBy != "id" {
		// same-instant rows keep insertion order
		dbq = dbq.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: !asc})
	}
	if q.Limit > 0 {
		dbq = dbq.Limit(q.Limit)
	}

	out := make([]T, 0)
	if err := dbq.Find(&out).Error; err != nil {
		return nil, s.fail("list", collection, err)
	}
	return out, nil
}

// Get loads one record by id.
func Get[T Record](ctx context.Context, s *Store, id uint) (T, error) {
	var rec T
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, apperr.NotFound(fmt.Sprintf("Registro %d não encontrado em %s", id, rec.TableName()))
	}
	if err != nil {
		return rec, s.fail("get", rec.TableName(), err)
	}
	return rec, nil
}

// Insert validates rec against its schema and creates it; id and created_at
// are filled in on success.
func Insert[T Record](ctx context.Context, s *Store, rec *T) error {
	collection := (*rec).TableName()
	if err := s.validate.StructCtx(ctx, rec); err != nil {
		return validationError(collection, err)
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return s.fail("insert", collection, err)
	}
	return nil
}

// Update applies a partial update to the record with the given id.
func Update[T Record](ctx context.Context, s *Store, id uint, fields map[string]any) error {
	var zero T
	collection := zero.TableName()
	if len(fields) == 0 {
		return apperr.Validation("Nenhum campo para atualizar")
	}
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return s.fail("update", collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("Registro %d não encontrado em %s", id, collection))
	}
	return nil
}

func (s *Store) fail(op, collection string, err error) error {
	s.log.Errorw("store call failed", "op", op, "collection", collection, "error", err)
	return apperr.Store(fmt.Sprintf("Falha ao acessar %s", collection), err)
}

func validationError(collection string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(fmt.Sprintf("Registro inválido para %s", collection))
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperr.Validation(fmt.Sprintf("Campos inválidos em %s: %s", collection, strings.Join(fields, ", ")))
}
