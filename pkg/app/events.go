// Package app is the interactive terminal host for the viewport engine. It
// owns the bubbletea event loop: the 60 Hz tick that drives ramps and
// motion sampling, keyboard and mouse input routed through the gesture
// recognizer, off-loop ingest and purchase commands, and the rendered
// preview with its status line and control bar.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/store"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// TickEvent is sent by the frame ticker and advances every time-driven
// input of the viewport.
type TickEvent struct {
	Time time.Time
}

// IngestDoneEvent carries a prepared working image back into the update
// loop. Generation identifies the selection it was started for.
type IngestDoneEvent struct {
	Generation uint64
	Index      int
	Asset      *ingest.Asset
	Err        error
}

// PurchaseDoneEvent carries the outcome of a purchase or restore. Product
// is empty for a restore.
type PurchaseDoneEvent struct {
	Product     store.ProductID
	Entitlement tier.Entitlement
	Err         error
}

// MemoryStatusEvent carries a periodic host memory reading.
type MemoryStatusEvent struct {
	Status ingest.MemoryStatus
	Err    error
}
