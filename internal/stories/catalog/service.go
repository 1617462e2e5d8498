package catalog

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
)

var ErrServiceNotFound = errors.New("service not found")

// Service reads the catalog through the query cache.
type Service struct {
	panel  Panel
	cache  *querycache.Cache
	logger *slog.Logger
}

func NewService(panel Panel, cache *querycache.Cache, logger *slog.Logger) *Service {
	return &Service{
		panel:  panel,
		cache:  cache,
		logger: logger,
	}
}

// Catalog returns the category groups visible to sess. Anonymous sessions
// share one cache entry.
func (s *Service) Catalog(ctx context.Context, sess session.Session) ([]Category, error) {
	groups, err := querycache.Fetch(ctx, s.cache, querycache.ResourceCatalog, sess.Token,
		func(ctx context.Context) ([]Category, error) {
			raw, err := s.panel.ListProducts(ctx, sess.Token)
			if err != nil {
				return nil, err
			}
			return categoriesFromGroups(raw), nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return groups, nil
}

// ProductByID finds a service in the cached catalog, asking the panel only when
// it is not there.
func (s *Service) ProductByID(ctx context.Context, sess session.Session, id int64) (*Product, error) {
	groups, err := s.Catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	if svc, ok := FindService(groups, id); ok {
		return &svc, nil
	}

	p, err := s.panel.ProductDetail(ctx, sess.Token, id)
	if err != nil {
		return nil, errors.Wrapf(err, "product %d", id)
	}
	if p == nil {
		return nil, ErrServiceNotFound
	}
	svc := productFromDTO(*p, p.Category)
	return &svc, nil
}

// Cascade builds the selection for a session. detailID deep-links a service.
func (s *Service) Cascade(ctx context.Context, sess session.Session, detailID int64) (*Cascade, error) {
	groups, err := s.Catalog(ctx, sess)
	if err != nil {
		return nil, err
	}

	var detail *Product
	if detailID > 0 {
		svc, ok := FindService(groups, detailID)
		if !ok {
			s.logger.Warn("Deep-linked service not in catalog", "service_id", detailID)
		} else {
			detail = &svc
		}
	}
	return NewCascade(groups, detail), nil
}

func (s *Service) Tree(ctx context.Context, sess session.Session) ([]Tree, error) {
	groups, err := s.Catalog(ctx, sess)
	if err != nil {
		return nil, err
	}
	return BuildTree(groups), nil
}
