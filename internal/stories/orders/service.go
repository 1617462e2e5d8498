package orders

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/kafka"
	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/metrics"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/catalog"
)

// MaxMassOrderLines caps one mass order submission.
const MaxMassOrderLines = 100

type Service struct {
	panel   Panel
	catalog Catalog
	users   Users
	cache   *querycache.Cache
	events  Events
	logger  *slog.Logger
}

func NewService(panel Panel, catalog Catalog, users Users, cache *querycache.Cache, events Events, logger *slog.Logger) *Service {
	return &Service{
		panel:   panel,
		catalog: catalog,
		users:   users,
		cache:   cache,
		events:  events,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, sess session.Session) ([]Order, error) {
	list, err := querycache.Fetch(ctx, s.cache, querycache.ResourceOrders, sess.Token,
		func(ctx context.Context) ([]Order, error) {
			raw, err := s.panel.ListOrders(ctx, sess.Token)
			if err != nil {
				return nil, err
			}
			return lo.Map(raw, func(o panelapi.Order, _ int) Order { return orderFromDTO(o) }), nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return list, nil
}

func (s *Service) Table(ctx context.Context, sess session.Session, f Filter) (*TableView, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	list, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	view := Table(list, f)
	return &view, nil
}

// PlaceOrder validates and checks the balance before the create call. No
// request reaches the panel when either fails.
func (s *Service) PlaceOrder(ctx context.Context, sess session.Session, req PlaceRequest) (*Placed, error) {
	req.Link = strings.TrimSpace(req.Link)

	cost, err := s.validate(ctx, sess, req, 0)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	balance, err := s.checkBalance(ctx, sess, cost)
	if err != nil {
		return nil, err
	}

	resp, err := s.panel.CreateOrder(ctx, sess.Token, panelapi.CreateOrderRequest{
		ServiceID: req.ServiceID,
		Link:      req.Link,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	charge := resp.Charge
	if charge.IsZero() {
		charge = cost
	}

	s.afterWrite(ctx, sess)
	metrics.OrdersPlaced.WithLabelValues("single").Inc()
	s.events.Publish(ctx, kafka.EventOrderPlaced, strconv.FormatInt(resp.OrderID, 10), OrderEvent{
		OrderIDs:  []int64{resp.OrderID},
		ServiceID: req.ServiceID,
		Quantity:  req.Quantity,
		Charge:    charge,
	})
	s.logger.Info("Order placed", "order_id", resp.OrderID, "service_id", req.ServiceID, "quantity", req.Quantity)

	return &Placed{
		OrderID: resp.OrderID,
		Charge:  charge,
		Balance: balance.Sub(charge),
	}, nil
}

// PlaceMassOrder parses one order per line as "service_id|link|quantity" and
// submits them in one batch when every line is valid and the total fits the
// balance.
func (s *Service) PlaceMassOrder(ctx context.Context, sess session.Session, text string) (*MassPlaced, error) {
	reqs, err := ParseMassOrder(text)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	total := decimal.Zero
	for i, req := range reqs {
		cost, err := s.validate(ctx, sess, req, i+1)
		if err != nil {
			metrics.OrdersRejected.WithLabelValues("validation").Inc()
			return nil, err
		}
		total = total.Add(cost)
	}

	if _, err := s.checkBalance(ctx, sess, total); err != nil {
		return nil, err
	}

	resp, err := s.panel.MassOrder(ctx, sess.Token, panelapi.MassOrderRequest{
		Orders: lo.Map(reqs, func(r PlaceRequest, _ int) panelapi.CreateOrderRequest {
			return panelapi.CreateOrderRequest{ServiceID: r.ServiceID, Link: r.Link, Quantity: r.Quantity}
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "mass order")
	}

	s.afterWrite(ctx, sess)
	metrics.OrdersPlaced.WithLabelValues("mass").Add(float64(len(resp.OrderIDs)))
	s.events.Publish(ctx, kafka.EventMassOrderPlaced, joinIDs(resp.OrderIDs), OrderEvent{
		OrderIDs: resp.OrderIDs,
		Charge:   total,
	})
	s.logger.Info("Mass order placed", "orders", len(resp.OrderIDs), "total", total.String())

	return &MassPlaced{OrderIDs: resp.OrderIDs, Total: total}, nil
}

// Refill sends every selected id in one request. The caller's selection is
// left as is.
func (s *Service) Refill(ctx context.Context, sess session.Session, orderIDs []int64) (*RefillResult, error) {
	ids := lo.Uniq(lo.Filter(orderIDs, func(id int64, _ int) bool { return id > 0 }))
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "order_ids", Reason: "select at least one order"}
	}

	resp, err := s.panel.CreateRefill(ctx, sess.Token, panelapi.RefillRequest{OrderIDs: ids})
	if err != nil {
		return nil, errors.Wrap(err, "create refill")
	}

	s.afterWrite(ctx, sess)
	metrics.RefillsRequested.Add(float64(len(ids)))
	s.events.Publish(ctx, kafka.EventRefillRequested, joinIDs(ids), RefillEvent{
		OrderIDs:  ids,
		RefillIDs: resp.RefillIDs,
	})
	s.logger.Info("Refill requested", "orders", len(ids))

	return &RefillResult{RefillIDs: resp.RefillIDs, OrderIDs: ids}, nil
}

func (s *Service) validate(ctx context.Context, sess session.Session, req PlaceRequest, line int) (decimal.Decimal, error) {
	if req.ServiceID <= 0 {
		return decimal.Zero, &ValidationError{Field: "service_id", Reason: "choose a service", Line: line}
	}
	if strings.TrimSpace(req.Link) == "" {
		return decimal.Zero, &ValidationError{Field: "link", Reason: "link is required", Line: line}
	}
	if req.Quantity <= 0 {
		return decimal.Zero, &ValidationError{Field: "quantity", Reason: "quantity is required", Line: line}
	}

	product, err := s.catalog.ProductByID(ctx, sess, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return decimal.Zero, &ValidationError{Field: "service_id", Reason: "unknown service", Line: line}
		}
		return decimal.Zero, err
	}
	if req.Quantity < product.Min || (product.Max > 0 && req.Quantity > product.Max) {
		return decimal.Zero, &ValidationError{
			Field:  "quantity",
			Reason: "must be between " + strconv.FormatInt(product.Min, 10) + " and " + strconv.FormatInt(product.Max, 10),
			Line:   line,
		}
	}
	return product.Cost(req.Quantity), nil
}

func (s *Service) checkBalance(ctx context.Context, sess session.Session, cost decimal.Decimal) (decimal.Decimal, error) {
	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return decimal.Zero, err
	}
	if cost.GreaterThan(user.Balance) {
		metrics.OrdersRejected.WithLabelValues("balance").Inc()
		return user.Balance, &BalanceError{Balance: user.Balance, Required: cost}
	}
	return user.Balance, nil
}

func (s *Service) afterWrite(ctx context.Context, sess session.Session) {
	if err := sess.Invalidate(ctx, querycache.ResourceUserDetail, querycache.ResourceOrders); err != nil {
		s.logger.Warn("Failed to invalidate caches after write", "error", err)
	}
}

// ParseMassOrder reads "service_id|link|quantity" lines. Blank lines are
// skipped.
func ParseMassOrder(text string) ([]PlaceRequest, error) {
	var out []PlaceRequest
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			return nil, &ValidationError{Field: "line", Reason: "expected service_id|link|quantity", Line: i + 1}
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: "service_id", Reason: "not a number", Line: i + 1}
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: "quantity", Reason: "not a number", Line: i + 1}
		}
		out = append(out, PlaceRequest{ServiceID: id, Link: strings.TrimSpace(parts[1]), Quantity: qty})
	}
	if len(out) == 0 {
		return nil, &ValidationError{Field: "orders", Reason: "no orders given"}
	}
	if len(out) > MaxMassOrderLines {
		return nil, &ValidationError{Field: "orders", Reason: "too many lines, max " + strconv.Itoa(MaxMassOrderLines)}
	}
	return out, nil
}

func orderFromDTO(o panelapi.Order) Order {
	return Order{
		ID:          o.ID,
		ServiceID:   o.ServiceID,
		ServiceName: o.ServiceName,
		Link:        o.Link,
		Quantity:    o.Quantity,
		Charge:      o.Charge,
		Status:      Status(o.Status),
		StartCount:  o.StartCount,
		Remains:     o.Remains,
		Refill:      o.Refill,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func joinIDs(ids []int64) string {
	return strings.Join(lo.Map(ids, func(id int64, _ int) string { return strconv.FormatInt(id, 10) }), ",")
}
