package api

import (
	"context"
	"net/url"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// ProviderService wraps the /providers endpoints.
type ProviderService struct {
	c *Client
}

func (s *ProviderService) List(ctx context.Context, p *Pagination) ([]domain.Provider, error) {
	return listJSON[domain.Provider](ctx, s.c, "/providers", p, nil)
}

func (s *ProviderService) Get(ctx context.Context, id string) (*domain.Provider, error) {
	return getJSON[*domain.Provider](ctx, s.c, "/providers/"+url.PathEscape(id), nil)
}

func (s *ProviderService) Create(ctx context.Context, req domain.CreateProviderRequest) (*domain.Provider, error) {
	return postJSON[*domain.Provider](ctx, s.c, "/providers", req)
}

func (s *ProviderService) Update(ctx context.Context, id string, req domain.UpdateProviderRequest) (*domain.Provider, error) {
	return putJSON[*domain.Provider](ctx, s.c, "/providers/"+url.PathEscape(id), req)
}

func (s *ProviderService) Delete(ctx context.Context, id string) error {
	return deleteJSON(ctx, s.c, "/providers/"+url.PathEscape(id))
}

func (s *ProviderService) Search(ctx context.Context, query string, p *Pagination) ([]domain.Provider, error) {
	extra := url.Values{}
	extra.Set("query", query)
	return listJSON[domain.Provider](ctx, s.c, "/providers/search", p, extra)
}
