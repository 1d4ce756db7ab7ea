package app

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/store"
)

// TickCmd returns a bubbletea Cmd that sends a TickEvent after the given
// duration. Re-issuing it from Update keeps the frame clock running.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// IngestCmd prepares img on the worker pool and delivers the result as an
// IngestDoneEvent.
func IngestCmd(pool *ingest.Pool, gen uint64, index int, img image.Image, budget ingest.Budget) tea.Cmd {
	return func() tea.Msg {
		asset, err := pool.Ingest(context.Background(), img, budget)
		return IngestDoneEvent{Generation: gen, Index: index, Asset: asset, Err: err}
	}
}

// PurchaseCmd buys id from s in the background.
func PurchaseCmd(s store.Store, id store.ProductID) tea.Cmd {
	return func() tea.Msg {
		ent, err := s.Purchase(context.Background(), id)
		return PurchaseDoneEvent{Product: id, Entitlement: ent, Err: err}
	}
}

// RestoreCmd restores previous purchases from s in the background.
func RestoreCmd(s store.Store) tea.Cmd {
	return func() tea.Msg {
		ent, err := s.Restore(context.Background())
		return PurchaseDoneEvent{Entitlement: ent, Err: err}
	}
}

// MemoryCheckCmd samples host memory after d and delivers a
// MemoryStatusEvent.
func MemoryCheckCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		st, err := ingest.ReadMemory(context.Background())
		return MemoryStatusEvent{Status: st, Err: err}
	})
}
