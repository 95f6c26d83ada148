package service

import (
	"context"
	"errors"
	"sync"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/models"
)

var errStubNotConfigured = errors.New("stub not configured")

type stubAPI struct {
	mu sync.Mutex

	products map[models.ID]*models.Product
	listHits int
	getHits  int

	authResult *apiclient.AuthResult
	authErr    error

	profile       *models.User
	updateErr     error
	lastPatch     models.ProfilePatch
	addresses     []models.Address
	deletedIDs    []models.ID
	lastToken     string
	placed        []apiclient.OrderRequest
	placedKeys    []string
	placeErr      error
	placeResponse *models.Order
	onPlace       func()
	orders        []models.Order
}

func newStubAPI() *stubAPI {
	return &stubAPI{products: map[models.ID]*models.Product{}}
}

func (s *stubAPI) Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.AuthResult, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	if s.authResult == nil {
		return nil, errStubNotConfigured
	}
	return s.authResult, nil
}

func (s *stubAPI) Register(ctx context.Context, reg apiclient.Registration) (*apiclient.AuthResult, error) {
	return s.Login(ctx, apiclient.Credentials{Email: reg.Email, Password: reg.Password})
}

func (s *stubAPI) GetProfile(ctx context.Context, token string) (*models.User, error) {
	s.lastToken = token
	if s.profile == nil {
		return nil, errStubNotConfigured
	}
	copied := *s.profile
	return &copied, nil
}

func (s *stubAPI) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.User, error) {
	s.lastToken = token
	s.lastPatch = patch
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.User{}, nil
}

func (s *stubAPI) ListAddresses(ctx context.Context, token string) ([]models.Address, error) {
	s.lastToken = token
	return s.addresses, nil
}

func (s *stubAPI) AddAddress(ctx context.Context, token string, input apiclient.AddressInput) (*models.Address, error) {
	s.lastToken = token
	address := models.Address{ID: "addr-new", Label: input.Label, Line1: input.Line1, City: input.City, Postcode: input.Postcode}
	s.addresses = append(s.addresses, address)
	return &address, nil
}

func (s *stubAPI) DeleteAddress(ctx context.Context, token string, id models.ID) error {
	s.lastToken = token
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubAPI) ListProducts(ctx context.Context, query apiclient.ProductQuery) (*apiclient.ProductPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listHits++
	page := &apiclient.ProductPage{}
	for _, p := range s.products {
		if query.Category == "" || p.Category == query.Category {
			page.Items = append(page.Items, *p)
		}
	}
	page.Total = len(page.Items)
	return page, nil
}

func (s *stubAPI) GetProduct(ctx context.Context, id models.ID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getHits++
	p, ok := s.products[id]
	if !ok {
		return nil, &apiclient.ServerError{Status: 404, Message: "not found"}
	}
	copied := *p
	return &copied, nil
}

func (s *stubAPI) PlaceOrder(ctx context.Context, token, idempotencyKey string, req apiclient.OrderRequest) (*models.Order, error) {
	s.lastToken = token
	if s.onPlace != nil {
		s.onPlace()
	}
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	s.placed = append(s.placed, req)
	s.placedKeys = append(s.placedKeys, idempotencyKey)
	if s.placeResponse != nil {
		return s.placeResponse, nil
	}
	return &models.Order{ID: "order-1", Status: "placed", Total: req.Total}, nil
}

func (s *stubAPI) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	s.lastToken = token
	return s.orders, nil
}

func moneyPtr(raw string) *models.Money {
	m := models.MustParseMoney(raw)
	return &m
}
