package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// account pairs a user with its password hash.
type account struct {
	user domain.User
	hash string
}

// refreshRecord tracks an issued refresh token until it is rotated or expires.
type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

// Store is the in-memory backing state of the mock API.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*account // keyed by username
	refresh   map[string]refreshRecord
	products   map[string]*domain.Product
	categories map[string]*domain.ProductCategory
	providers  map[string]*domain.Provider
	accounts   map[string]*domain.Account
	entries    map[string]*domain.AccountingEntry
	nextID     int
}

// NewStore returns a Store seeded with one user per role and a small
// product catalogue.
func NewStore() *Store {
	s := &Store{
		users:     make(map[string]*account),
		refresh:   make(map[string]refreshRecord),
		products:   make(map[string]*domain.Product),
		categories: make(map[string]*domain.ProductCategory),
		providers:  make(map[string]*domain.Provider),
		accounts:   make(map[string]*domain.Account),
		entries:    make(map[string]*domain.AccountingEntry),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	seedUsers := []struct {
		username string
		password string
		role     domain.Role
	}{
		{"admin", "123456", domain.RoleAdmin},
		{"manager", "123456", domain.RoleManager},
		{"employee", "123456", domain.RoleEmployee},
		{"viewer", "123456", domain.RoleViewer},
	}
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			panic(fmt.Sprintf("mockapi: seed hash: %v", err))
		}
		now := time.Now().UTC()
		s.users[u.username] = &account{
			user: domain.User{
				ID:        s.id("usr"),
				Username:  u.username,
				Email:     u.username + "@xerpia.local",
				Role:      u.role,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			hash: string(hash),
		}
	}

	category := domain.ProductCategory{ID: s.id("cat"), Name: "General", IsActive: true}
	s.categories[category.ID] = &category
	for i, name := range []string{"Steel Bolt M8", "Copper Wire 2mm", "Hex Nut M8"} {
		p := &domain.Product{
			ID:       s.id("prd"),
			Name:     name,
			SKU:      fmt.Sprintf("SKU-%03d", i+1),
			Price:    float64(10 * (i + 1)),
			Cost:     float64(5 * (i + 1)),
			Stock:    100,
			MinStock: 10,
			Category: category,
			IsActive: true,
		}
		s.products[p.ID] = p
	}

	chart := []struct {
		code string
		name string
		typ  domain.AccountType
	}{
		{"1000", "Cash", domain.AccountAsset},
		{"1200", "Inventory", domain.AccountAsset},
		{"2000", "Accounts Payable", domain.AccountLiability},
		{"3000", "Capital", domain.AccountEquity},
		{"4000", "Sales Revenue", domain.AccountRevenue},
		{"5000", "Cost of Goods Sold", domain.AccountExpense},
	}
	for _, a := range chart {
		acc := &domain.Account{
			ID:       s.id("acc"),
			Code:     a.code,
			Name:     a.name,
			Type:     a.typ,
			IsActive: true,
		}
		s.accounts[acc.ID] = acc
	}
}

// Authenticate checks username/password and returns the matching user.
func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	s.mu.RLock()
	acc, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.hash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	u := acc.user
	return &u, nil
}

// CreateUser registers a new account.
func (s *Store) CreateUser(req domain.RegisterRequest) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		return nil, domain.ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:        s.id("usr"),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[req.Username] = &account{user: user, hash: string(hash)}
	return &user, nil
}

// Users lists all accounts.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, acc := range s.users {
		out = append(out, acc.user)
	}
	return out
}

// UserByName looks a user up by username.
func (s *Store) UserByName(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := acc.user
	return &u, nil
}

// IssueRefreshToken mints an opaque refresh token for the user.
func (s *Store) IssueRefreshToken(userID string, ttl time.Duration) string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.refresh[token] = refreshRecord{userID: userID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token
}

// RedeemRefreshToken validates and consumes a refresh token, returning the
// owning user. Tokens are single-use; redemption removes them.
func (s *Store) RedeemRefreshToken(token string) (*domain.User, error) {
	s.mu.Lock()
	rec, ok := s.refresh[token]
	if ok {
		delete(s.refresh, token)
	}
	s.mu.Unlock()

	if !ok || time.Now().After(rec.expiresAt) {
		return nil, domain.ErrBadCredentials
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.users {
		if acc.user.ID == rec.userID {
			u := acc.user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Products lists the catalogue.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out
}

// Product fetches one product by id.
func (s *Store) Product(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

// CreateProduct adds a product to the catalogue.
func (s *Store) CreateProduct(req domain.CreateProductRequest) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.id("prd"),
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		Category:    s.category(req.CategoryID),
		Brand:       req.Brand,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products[p.ID] = p
	clone := *p
	return &clone
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// ProductBySKU fetches one product by stock keeping unit.
func (s *Store) ProductBySKU(sku string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// ProductsByCategory lists products belonging to a category.
func (s *Store) ProductsByCategory(categoryID string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Category.ID == categoryID {
			out = append(out, *p)
		}
	}
	return out
}

// UpdateProduct applies a partial update; nil fields are left unchanged.
func (s *Store) UpdateProduct(id string, req domain.UpdateProductRequest) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Barcode != nil {
		p.Barcode = *req.Barcode
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		p.MaxStock = *req.MaxStock
	}
	if req.CategoryID != nil {
		p.Category = s.category(*req.CategoryID)
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	return &clone, nil
}

// Categories lists the product categories.
func (s *Store) Categories() []domain.ProductCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProductCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out
}

// CreateCategory adds a product category.
func (s *Store) CreateCategory(req domain.CreateCategoryRequest) *domain.ProductCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c := &domain.ProductCategory{
		ID:          s.id("cat"),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories[c.ID] = c
	clone := *c
	return &clone
}

// UpdateStock sets the absolute stock level of a product.
func (s *Store) UpdateStock(id string, stock int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	return &clone, nil
}

// Providers lists all suppliers.
func (s *Store) Providers() []domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, *p)
	}
	return out
}

// CreateProvider adds a supplier.
func (s *Store) CreateProvider(req domain.CreateProviderRequest) *domain.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p := &domain.Provider{
		ID:            s.id("prv"),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		TaxID:         req.TaxID,
		ContactPerson: req.ContactPerson,
		Website:       req.Website,
		Notes:         req.Notes,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.providers[p.ID] = p
	clone := *p
	return &clone
}

// Provider fetches one supplier by id.
func (s *Store) Provider(id string) (*domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	clone := *p
	return &clone, nil
}

// DeleteProvider removes a supplier.
func (s *Store) DeleteProvider(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return domain.ErrProviderNotFound
	}
	delete(s.providers, id)
	return nil
}

// DeleteUser removes an account by id.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for username, acc := range s.users {
		if acc.user.ID == id {
			delete(s.users, username)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// UserByID looks a user up by id.
func (s *Store) UserByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.users {
		if acc.user.ID == id {
			u := acc.user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// category resolves a category reference, falling back to a bare id when the
// category is unknown. Caller must hold s.mu.
func (s *Store) category(id string) domain.ProductCategory {
	if c, ok := s.categories[id]; ok {
		return *c
	}
	return domain.ProductCategory{ID: id}
}

// id mints a readable sequential identifier. Caller may hold s.mu.
func (s *Store) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s_%d", prefix, s.nextID)
}
