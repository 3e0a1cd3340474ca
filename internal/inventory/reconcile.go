package inventory

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewItemTarget is the sentinel selecting "register a new item".
const NewItemTarget = "new"

// Target is either an existing stock item or a new one.
type Target struct {
	ItemID uint
	New    bool
}

// ParseTarget requires either the "new" sentinel or an item id; a missing
// target is an error, never an implicit new item.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, apperr.Validation("Selecione um item de estoque ou \"new\"")
	}
	if s == NewItemTarget {
		return Target{New: true}, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return Target{}, apperr.Validation("Item de estoque inválido")
	}
	return Target{ItemID: uint(id)}, nil
}

// Photo is an optional image sent with a delivery.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Incoming is one delivery of stock. Name, Description and Margin only
// matter when registering a new item.
type Incoming struct {
	CostPrice   decimal.Decimal
	Quantity    int
	Margin      decimal.Decimal
	Name        string
	Description string
	Photo       *Photo
}

func (in Incoming) validate(t Target) error {
	if t.New && strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("Nome é obrigatório")
	}
	if in.Quantity < 0 {
		return apperr.Validation("Quantidade não pode ser negativa")
	}
	if in.CostPrice.IsNegative() {
		return apperr.Validation("Preço de custo não pode ser negativo")
	}
	return nil
}

// Merge folds a delivery into an existing item: quantities add up, the cost
// keeps the higher of the two.
func Merge(existingQty int, existingCost decimal.Decimal, incomingQty int, incomingCost decimal.Decimal) (int, decimal.Decimal) {
	return existingQty + incomingQty, decimal.Max(existingCost, incomingCost)
}

type Service struct {
	store  *store.Store
	bucket store.Bucket
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewService(s *store.Store, bucket store.Bucket, log *zap.SugaredLogger) *Service {
	return &Service{store: s, bucket: bucket, log: log, now: time.Now}
}

// Reconcile applies a delivery to the target and appends a history entry.
// A supplied photo is uploaded first; if that fails nothing is written.
func (s *Service) Reconcile(ctx context.Context, target Target, in Incoming) (models.StockItem, error) {
	if err := in.validate(target); err != nil {
		return models.StockItem{}, err
	}

	// unknown items fail before anything reaches the bucket
	if !target.New {
		if _, err := store.Get[models.StockItem](ctx, s.store, target.ItemID); err != nil {
			return models.StockItem{}, err
		}
	}

	photoURL := ""
	if in.Photo != nil {
		url, err := s.uploadPhoto(ctx, in.Photo)
		if err != nil {
			return models.StockItem{}, err
		}
		photoURL = url
	}

	var result models.StockItem
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if target.New {
			result, err = s.registerNew(ctx, tx, in, photoURL)
		} else {
			result, err = s.restock(ctx, tx, target.ItemID, in, photoURL)
		}
		return err
	})
	if err != nil {
		return models.StockItem{}, err
	}

	s.log.Infow("stock reconciled", "item_id", result.ID, "new", target.New,
		"quantity", result.Quantity, "cost_price", result.CostPrice.String())
	return result, nil
}

func (s *Service) registerNew(ctx context.Context, tx *store.Store, in Incoming, photoURL string) (models.StockItem, error) {
	item := models.StockItem{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		CostPrice:       in.CostPrice.Round(2),
		ProfitMarginPct: in.Margin.Round(2),
		Quantity:        in.Quantity,
		PhotoURL:        photoURL,
	}
	if err := store.Insert(ctx, tx, &item); err != nil {
		return models.StockItem{}, err
	}

	entry := models.StockHistoryEntry{
		StockItemID: item.ID,
		Name:        item.Name,
		Description: item.Description,
		CostPrice:   item.CostPrice,
		Quantity:    item.Quantity,
		EntryDate:   s.now(),
	}
	if err := store.Insert(ctx, tx, &entry); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

func (s *Service) restock(ctx context.Context, tx *store.Store, id uint, in Incoming, photoURL string) (models.StockItem, error) {
	item, err := store.Get[models.StockItem](ctx, tx, id)
	if err != nil {
		return models.StockItem{}, err
	}

	incomingCost := in.CostPrice.Round(2)
	qty, cost := Merge(item.Quantity, item.CostPrice, in.Quantity, incomingCost)

	fields := map[string]any{"quantity": qty, "cost_price": cost}
	if photoURL != "" {
		fields["photo_url"] = photoURL
	}
	if err := store.Update[models.StockItem](ctx, tx, id, fields); err != nil {
		return models.StockItem{}, err
	}

	// history keeps what arrived, not the merged state
	entry := models.StockHistoryEntry{
		StockItemID: item.ID,
		Name:        item.Name,
		Description: item.Description,
		CostPrice:   incomingCost,
		Quantity:    in.Quantity,
		EntryDate:   s.now(),
	}
	if err := store.Insert(ctx, tx, &entry); err != nil {
		return models.StockItem{}, err
	}

	item.Quantity = qty
	item.CostPrice = cost
	if photoURL != "" {
		item.PhotoURL = photoURL
	}
	return item, nil
}

func (s *Service) uploadPhoto(ctx context.Context, p *Photo) (string, error) {
	ext := strings.ToLower(filepath.Ext(p.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("stock/%s%s", uuid.NewString(), ext)
	url, err := s.bucket.Upload(ctx, key, p.ContentType, p.Body)
	if err != nil {
		s.log.Warnw("stock photo upload failed", "key", key, "error", err)
		if apperr.Is(err, apperr.KindUpload) {
			return "", err
		}
		return "", apperr.Upload("Foto não pôde ser enviada", err)
	}
	return url, nil
}

// UpdateMargin edits only the profit margin of an item.
func (s *Service) UpdateMargin(ctx context.Context, id uint, margin decimal.Decimal) error {
	if margin.IsNegative() {
		return apperr.Validation("Margem não pode ser negativa")
	}
	return store.Update[models.StockItem](ctx, s.store, id, map[string]any{"profit_margin_pct": margin.Round(2)})
}

// StockItemView is a stock row with its computed sale price.
type StockItemView struct {
	models.StockItem
	SalePrice decimal.Decimal `json:"sale_price"`
}

func (s *Service) List(ctx context.Context) ([]StockItemView, error) {
	items, err := store.List[models.StockItem](ctx, s.store, store.Query{})
	if err != nil {
		return nil, err
	}
	out := make([]StockItemView, 0, len(items))
	for _, it := range items {
		out = append(out, StockItemView{StockItem: it, SalePrice: it.SalePrice()})
	}
	return out, nil
}

// History returns the deliveries of one item, newest first.
func (s *Service) History(ctx context.Context, id uint) ([]models.StockHistoryEntry, error) {
	q := store.Query{OrderBy: "entry_date"}.Where("stock_item_id", id)
	return store.List[models.StockHistoryEntry](ctx, s.store, q)
}

func (s *Service) Page() *page.Page[StockItemView] {
	return page.New("stock_items", s.List, s.log)
}
