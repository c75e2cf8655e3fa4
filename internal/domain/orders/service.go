package orders

import (
	"context"
	"strings"
	"time"

	"storefront/internal/params"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const notifyTimeout = 30 * time.Second

// Service places orders priced from the catalog. Client supplied prices and
// names are never trusted.
type Service struct {
	store    Store
	products ProductLookup
	notifier Notifier
	logger   *zap.SugaredLogger
}

// NewService wires order placement. notifier may be nil.
func NewService(store Store, products ProductLookup, notifier Notifier, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:    store,
		products: products,
		notifier: notifier,
		logger:   logger,
	}
}

// Place re-prices every line from the catalog and persists a pending,
// cash-on-delivery order. An unknown product or a quantity below one fails
// the whole order and nothing is persisted.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrItemsRequired
	}

	ids := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		if id := strings.TrimSpace(line.ProductID); id != "" {
			ids = append(ids, id)
		}
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]int, len(found))
	for i, p := range found {
		catalog[p.ID] = i
	}

	items := make([]Item, 0, len(in.Items))
	total := decimal.Zero
	for _, line := range in.Items {
		idx, ok := catalog[strings.TrimSpace(line.ProductID)]
		if !ok || line.Quantity < 1 {
			return nil, ErrInvalidItem
		}
		p := found[idx]
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	o := &Order{
		UserID:          in.UserID,
		Items:           items,
		TotalAmount:     total,
		Status:          StatusPending,
		PaymentMethod:   PaymentCashOnDelivery,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		ContactPhone:    strings.TrimSpace(in.ContactPhone),
		Notes:           strings.TrimSpace(in.Notes),
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infow("order placed", "order_id", o.ID, "order_number", o.OrderNumber, "user_id", o.UserID, "total", o.TotalAmount.String())
	s.notify(ctx, in.CustomerName, in.CustomerEmail, o)
	return o, nil
}

// notify sends the confirmation in the background. Failures are logged only.
func (s *Service) notify(ctx context.Context, name, email string, o *Order) {
	if s.notifier == nil || email == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := s.notifier.OrderPlaced(ctx, name, email, o); err != nil {
			s.logger.Warnw("order confirmation not sent", "order_id", o.ID, "email", email, "err", err)
		}
	}()
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// List pages through every order, newest first.
func (s *Service) List(ctx context.Context, status Status, pg params.Pagination) ([]Order, params.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, pg, ErrInvalidStatus
	}
	list, total, err := s.store.List(ctx, status, pg.Limit, pg.Offset)
	if err != nil {
		return nil, pg, err
	}
	pg.ComputeMeta(total)
	return list, pg, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus sets any valid status. Transitions are not restricted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.store.UpdateStatus(ctx, id, status)
}
