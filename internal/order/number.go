// AngelaMos | 2026
// number.go

package order

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewOrderNumber mints a sortable human-readable order number.
// Monotonic entropy keeps numbers strictly increasing within one
// millisecond.
func NewOrderNumber() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return "ORD-" + id.String()
}
