// Package store is the purchase collaborator. It sells the products that
// unlock zoom tiers and reports the resulting entitlement, which the host
// merges into the viewport in a single call.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// Purchase failures.
var (
	ErrProductNotFound    = errors.New("store: product not found")
	ErrUserCancelled      = errors.New("store: purchase cancelled")
	ErrPending            = errors.New("store: purchase pending approval")
	ErrVerificationFailed = errors.New("store: transaction verification failed")
)

// ProductID names a purchasable unit.
type ProductID string

const (
	ProductPro         ProductID = "pro"
	ProductExtremeZoom ProductID = "extreme_zoom"
)

// Product is a purchasable unit.
type Product struct {
	ID          ProductID
	DisplayName string
	Price       string
}

// Store is the purchase interface the host talks to. Purchase and Restore
// return the complete entitlement after the operation; on error the
// entitlement is unchanged.
type Store interface {
	Products(ctx context.Context) ([]Product, error)
	Purchase(ctx context.Context, id ProductID) (tier.Entitlement, error)
	Restore(ctx context.Context) (tier.Entitlement, error)
	Entitlement() tier.Entitlement
}

// Simulated is an in-memory Store used by the terminal viewer and tests.
// Outcomes can be scripted per product with Fail.
type Simulated struct {
	mu       sync.Mutex
	products []Product
	owned    map[ProductID]bool
	failures map[ProductID]error
	logger   *slog.Logger
}

// NewSimulated returns a store offering both products with nothing owned.
func NewSimulated(logger *slog.Logger) *Simulated {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulated{
		products: []Product{
			{ID: ProductPro, DisplayName: "Pro", Price: "$2.99"},
			{ID: ProductExtremeZoom, DisplayName: "Extreme Zoom", Price: "$1.99"},
		},
		owned:    make(map[ProductID]bool),
		failures: make(map[ProductID]error),
		logger:   logger,
	}
}

// Fail makes the next purchase of id return err. A nil err clears it.
func (s *Simulated) Fail(id ProductID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, id)
		return
	}
	s.failures[id] = err
}

// Products lists the catalog.
func (s *Simulated) Products(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Purchase buys id.
func (s *Simulated) Purchase(ctx context.Context, id ProductID) (tier.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return s.entitlementLocked(), err
	}
	if !s.knownLocked(id) {
		return s.entitlementLocked(), fmt.Errorf("purchase %q: %w", id, ErrProductNotFound)
	}
	if err, ok := s.failures[id]; ok {
		delete(s.failures, id)
		s.logger.Warn("purchase failed", "product", string(id), "error", err)
		return s.entitlementLocked(), fmt.Errorf("purchase %q: %w", id, err)
	}
	s.owned[id] = true
	ent := s.entitlementLocked()
	s.logger.Info("purchase completed", "product", string(id), "pro", ent.IsPro, "extreme", ent.HasExtremeZoom)
	return ent, nil
}

// Restore grants every product, mirroring a restore of prior purchases.
func (s *Simulated) Restore(ctx context.Context) (tier.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return s.entitlementLocked(), err
	}
	for _, p := range s.products {
		s.owned[p.ID] = true
	}
	s.logger.Info("purchases restored")
	return s.entitlementLocked(), nil
}

// Entitlement returns the current entitlement.
func (s *Simulated) Entitlement() tier.Entitlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entitlementLocked()
}

// ProductFor returns the product that resolves an upsell.
func ProductFor(k tier.UpsellKind) ProductID {
	if k == tier.UpsellExtreme {
		return ProductExtremeZoom
	}
	return ProductPro
}

func (s *Simulated) knownLocked(id ProductID) bool {
	for _, p := range s.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Simulated) entitlementLocked() tier.Entitlement {
	return tier.Entitlement{
		IsPro:          s.owned[ProductPro],
		HasExtremeZoom: s.owned[ProductExtremeZoom],
	}
}
