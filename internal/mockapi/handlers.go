package mockapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// resourceHandler serves the bearer-protected ERP resources.
type resourceHandler struct {
	store *Store
}

func ok[T any](c echo.Context, status int, data T) error {
	return c.JSON(status, domain.Envelope[T]{Success: true, Data: data, StatusCode: status})
}

// okPaged wraps a full result set in the paginated envelope. The mock serves
// everything on one page; the pagination block keeps the wire contract.
func okPaged[T any](c echo.Context, items []T) error {
	return c.JSON(http.StatusOK, domain.PagedEnvelope[T]{
		Envelope: domain.Envelope[[]T]{Success: true, Data: items, StatusCode: http.StatusOK},
		Pagination: domain.PageInfo{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   len(items),
			ItemsPerPage: len(items),
		},
	})
}

func (h *resourceHandler) ListProducts(c echo.Context) error {
	return okPaged(c, h.store.Products())
}

func (h *resourceHandler) GetProduct(c echo.Context) error {
	p, err := h.store.Product(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *resourceHandler) SearchProducts(c echo.Context) error {
	query := strings.ToLower(c.QueryParam("query"))
	var matched []domain.Product
	for _, p := range h.store.Products() {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.SKU), query) {
			matched = append(matched, p)
		}
	}
	return ok(c, http.StatusOK, matched)
}

func (h *resourceHandler) LowStockProducts(c echo.Context) error {
	var low []domain.Product
	for _, p := range h.store.Products() {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return ok(c, http.StatusOK, low)
}

func (h *resourceHandler) CreateProduct(c echo.Context) error {
	var req domain.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ok(c, http.StatusCreated, h.store.CreateProduct(req))
}

func (h *resourceHandler) DeleteProduct(c echo.Context) error {
	if err := h.store.DeleteProduct(c.Param("id")); err != nil {
		return err
	}
	return ok[any](c, http.StatusOK, nil)
}

func (h *resourceHandler) GetProductBySKU(c echo.Context) error {
	p, err := h.store.ProductBySKU(c.Param("sku"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *resourceHandler) ListProductsByCategory(c echo.Context) error {
	return ok(c, http.StatusOK, h.store.ProductsByCategory(c.Param("id")))
}

func (h *resourceHandler) UpdateProduct(c echo.Context) error {
	var req domain.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.store.UpdateProduct(c.Param("id"), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *resourceHandler) ListCategories(c echo.Context) error {
	return ok(c, http.StatusOK, h.store.Categories())
}

func (h *resourceHandler) CreateCategory(c echo.Context) error {
	var req domain.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ok(c, http.StatusCreated, h.store.CreateCategory(req))
}

func (h *resourceHandler) UpdateProductStock(c echo.Context) error {
	var req struct {
		Stock int `json:"stock" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.store.UpdateStock(c.Param("id"), req.Stock)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *resourceHandler) ListProviders(c echo.Context) error {
	return okPaged(c, h.store.Providers())
}

func (h *resourceHandler) CreateProvider(c echo.Context) error {
	var req domain.CreateProviderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ok(c, http.StatusCreated, h.store.CreateProvider(req))
}

func (h *resourceHandler) GetProvider(c echo.Context) error {
	p, err := h.store.Provider(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

func (h *resourceHandler) SearchProviders(c echo.Context) error {
	query := strings.ToLower(c.QueryParam("query"))
	var matched []domain.Provider
	for _, p := range h.store.Providers() {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.TaxID), query) {
			matched = append(matched, p)
		}
	}
	return ok(c, http.StatusOK, matched)
}

func (h *resourceHandler) DeleteProvider(c echo.Context) error {
	if err := h.store.DeleteProvider(c.Param("id")); err != nil {
		return err
	}
	return ok[any](c, http.StatusOK, nil)
}

func (h *resourceHandler) ListUsers(c echo.Context) error {
	return okPaged(c, h.store.Users())
}

func (h *resourceHandler) CreateUser(c echo.Context) error {
	var req domain.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.store.CreateUser(domain.RegisterRequest{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, user)
}

func (h *resourceHandler) DeleteUser(c echo.Context) error {
	if err := h.store.DeleteUser(c.Param("id")); err != nil {
		return err
	}
	return ok[any](c, http.StatusOK, nil)
}

func (h *resourceHandler) GetUser(c echo.Context) error {
	user, err := h.store.UserByID(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

func (h *resourceHandler) Profile(c echo.Context) error {
	username, _ := c.Get("username").(string)
	user, err := h.store.UserByName(username)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}
