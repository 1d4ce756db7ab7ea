package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

func newStore() *Simulated {
	return NewSimulated(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPurchasePro(t *testing.T) {
	s := newStore()
	ent, err := s.Purchase(context.Background(), ProductPro)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if ent != (tier.Entitlement{IsPro: true}) {
		t.Errorf("expected pro only, got %+v", ent)
	}
	if s.Entitlement() != ent {
		t.Errorf("expected stored entitlement %+v, got %+v", ent, s.Entitlement())
	}
}

func TestPurchaseExtremeDoesNotImplyPro(t *testing.T) {
	s := newStore()
	ent, _ := s.Purchase(context.Background(), ProductExtremeZoom)
	if ent.IsPro || !ent.HasExtremeZoom {
		t.Errorf("expected extreme only, got %+v", ent)
	}
}

func TestPurchaseUnknownProduct(t *testing.T) {
	s := newStore()
	_, err := s.Purchase(context.Background(), "lifetime")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPurchaseFailureLeavesEntitlement(t *testing.T) {
	s := newStore()
	s.Fail(ProductPro, ErrUserCancelled)
	ent, err := s.Purchase(context.Background(), ProductPro)
	if !errors.Is(err, ErrUserCancelled) {
		t.Errorf("expected ErrUserCancelled, got %v", err)
	}
	if ent != (tier.Entitlement{}) {
		t.Errorf("expected unchanged entitlement, got %+v", ent)
	}

	// Scripted failures apply once.
	if _, err := s.Purchase(context.Background(), ProductPro); err != nil {
		t.Errorf("expected second attempt to succeed, got %v", err)
	}
}

func TestFailCleared(t *testing.T) {
	s := newStore()
	s.Fail(ProductPro, ErrPending)
	s.Fail(ProductPro, nil)
	if _, err := s.Purchase(context.Background(), ProductPro); err != nil {
		t.Errorf("expected success after clearing, got %v", err)
	}
}

func TestRestoreGrantsBoth(t *testing.T) {
	s := newStore()
	ent, err := s.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !ent.IsPro || !ent.HasExtremeZoom {
		t.Errorf("expected both entitlements, got %+v", ent)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Purchase(ctx, ProductPro); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := s.Products(ctx); err == nil {
		t.Error("expected error from Products")
	}
	if s.Entitlement().IsPro {
		t.Error("cancelled purchase must not grant pro")
	}
}

func TestProducts(t *testing.T) {
	s := newStore()
	ps, err := s.Products(context.Background())
	if err != nil || len(ps) != 2 {
		t.Fatalf("expected 2 products, got %v, %v", ps, err)
	}
}

func TestProductFor(t *testing.T) {
	if ProductFor(tier.UpsellPro) != ProductPro || ProductFor(tier.UpsellExtreme) != ProductExtremeZoom {
		t.Error("unexpected product mapping")
	}
}

func TestSimulatedImplementsStore(t *testing.T) {
	var _ Store = newStore()
}
