package api

import (
	"context"
	"net/url"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// UserService wraps the /users endpoints.
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context, p *Pagination) ([]domain.User, error) {
	return listJSON[domain.User](ctx, s.c, "/users", p, nil)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return getJSON[*domain.User](ctx, s.c, "/users/"+url.PathEscape(id), nil)
}

func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	return postJSON[*domain.User](ctx, s.c, "/users", req)
}

func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	return putJSON[*domain.User](ctx, s.c, "/users/"+url.PathEscape(id), req)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return deleteJSON(ctx, s.c, "/users/"+url.PathEscape(id))
}

// Profile returns the server-side view of the calling user.
func (s *UserService) Profile(ctx context.Context) (*domain.User, error) {
	return getJSON[*domain.User](ctx, s.c, "/users/profile", nil)
}
