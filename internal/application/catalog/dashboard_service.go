package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultOverviewConcurrency = 4

// DashboardService serves the employee dashboard over every backend collection
type DashboardService struct {
	repo                catalog.ResourceRepository
	pageSize            int
	overviewConcurrency int
	now                 func() time.Time
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithPageSize overrides the list page size
func WithPageSize(n int) DashboardOption {
	return func(s *DashboardService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithOverviewConcurrency bounds how many collections Overview fetches at once
func WithOverviewConcurrency(n int) DashboardOption {
	return func(s *DashboardService) {
		if n > 0 {
			s.overviewConcurrency = n
		}
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo catalog.ResourceRepository, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		repo:                repo,
		pageSize:            shared.DefaultPageSize,
		overviewConcurrency: defaultOverviewConcurrency,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActive returns one page of live resources
func (s *DashboardService) ListActive(ctx context.Context, p identity.Principal, req ListRequest) (*ListResponse, error) {
	return s.list(ctx, p, req, catalog.FilterActive)
}

// ListTrash returns one page of the trashbin
func (s *DashboardService) ListTrash(ctx context.Context, p identity.Principal, req ListRequest) (*ListResponse, error) {
	return s.list(ctx, p, req, catalog.FilterTrash)
}

func (s *DashboardService) list(ctx context.Context, p identity.Principal, req ListRequest, filter catalog.StatusFilter) (*ListResponse, error) {
	kind, err := s.authorize(p, req.Kind, identity.PolicyDashboard)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "list",
		telemetry.WithAttribute(telemetry.SpanAttrResourceKind, string(kind.Kind)),
		telemetry.WithAttribute("filter", string(filter)),
	)
	defer span.End()

	items, err := s.repo.List(ctx, kind, p.AccessToken())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	page := catalog.BuildView(kind, items, catalog.ViewParams{
		Filter:   filter,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: s.pageSize,
	})
	return toListResponse(kind, filter, req.Search, page), nil
}

// Get returns one resource
func (s *DashboardService) Get(ctx context.Context, p identity.Principal, kindName string, id int64) (*catalog.Resource, error) {
	kind, err := s.authorize(p, kindName, identity.PolicyDashboard)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, kind, id, p.AccessToken())
}

// Create forwards a new resource to the backend
func (s *DashboardService) Create(ctx context.Context, p identity.Principal, req WriteRequest) (*catalog.Resource, error) {
	kind, err := s.authorize(p, req.Kind, identity.PolicyDashboard)
	if err != nil {
		return nil, err
	}
	if len(req.Body) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "request body is required")
	}
	res, err := s.repo.Create(ctx, kind, req.Body, p.AccessToken())
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("resource created", zap.String("kind", string(kind.Kind)))
	return res, nil
}

// Update replaces a resource's attributes
func (s *DashboardService) Update(ctx context.Context, p identity.Principal, req WriteRequest) (*catalog.Resource, error) {
	kind, err := s.authorize(p, req.Kind, identity.PolicyDashboard)
	if err != nil {
		return nil, err
	}
	if len(req.Body) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "request body is required")
	}
	return s.repo.Update(ctx, kind, req.ID, req.Body, p.AccessToken())
}

// SetActive toggles the status flag
func (s *DashboardService) SetActive(ctx context.Context, p identity.Principal, kindName string, id int64, active bool) error {
	kind, err := s.authorize(p, kindName, identity.PolicyDashboard)
	if err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, kind, id, active, p.AccessToken())
}

// SoftDelete moves a resource to the trashbin
func (s *DashboardService) SoftDelete(ctx context.Context, p identity.Principal, kindName string, id int64) error {
	kind, err := s.authorize(p, kindName, identity.PolicyDashboard)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, kind, id, p.AccessToken()); err != nil {
		return err
	}
	logger.L(ctx).Info("resource moved to trash", zap.String("kind", string(kind.Kind)), zap.Int64("id", id))
	return nil
}

// HardDelete removes a resource permanently. Managers only; the backend is
// never called when the check fails.
func (s *DashboardService) HardDelete(ctx context.Context, p identity.Principal, kindName string, id int64) error {
	kind, err := s.authorize(p, kindName, identity.PolicyDestructive)
	if err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, kind, id, p.AccessToken()); err != nil {
		return err
	}
	logger.L(ctx).Warn("resource permanently deleted", zap.String("kind", string(kind.Kind)), zap.Int64("id", id))
	return nil
}

// Restore brings a resource back from the trashbin. Managers only.
func (s *DashboardService) Restore(ctx context.Context, p identity.Principal, kindName string, id int64) error {
	kind, err := s.authorize(p, kindName, identity.PolicyDestructive)
	if err != nil {
		return err
	}
	if err := s.repo.Restore(ctx, kind, id, p.AccessToken()); err != nil {
		return err
	}
	logger.L(ctx).Info("resource restored", zap.String("kind", string(kind.Kind)), zap.Int64("id", id))
	return nil
}

// Overview counts active and trashed items of every collection concurrently.
// A failing collection is reported in its own row; the call only fails when
// the principal may not see the dashboard or the context ends.
func (s *DashboardService) Overview(ctx context.Context, p identity.Principal) (*OverviewResponse, error) {
	if err := identity.RequireRole(p.Session, identity.PolicyDashboard); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "overview")
	defer span.End()

	kinds := catalog.Kinds()
	counts := make([]KindCount, len(kinds))
	token := p.AccessToken()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.overviewConcurrency)
	for i, kind := range kinds {
		g.Go(func() error {
			counts[i] = KindCount{Kind: kind.Kind}
			items, err := s.repo.List(gctx, kind, token)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.L(gctx).Warn("overview count failed", zap.String("kind", string(kind.Kind)), zap.Error(err))
				counts[i].Error = shared.CodeOf(err)
				return nil
			}
			for _, r := range items {
				if r.InTrash {
					counts[i].Trash++
				} else {
					counts[i].Active++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("overview: %w", err)
	}
	return &OverviewResponse{Counts: counts, GeneratedAt: s.now().UTC()}, nil
}

// authorize resolves the kind only after the role check so an unauthorized
// caller learns nothing about which kinds exist
func (s *DashboardService) authorize(p identity.Principal, kindName string, policy identity.Policy) (catalog.KindSpec, error) {
	if err := identity.RequireRole(p.Session, policy); err != nil {
		return catalog.KindSpec{}, err
	}
	return catalog.ParseKind(kindName)
}
