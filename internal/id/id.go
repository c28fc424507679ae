package id

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

// UUID generates a UUID v4 (random).
// Returns a string in the format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func UUID() string {
	return uuid.NewString()
}

// Default is the generator importers use when none is supplied.
var Default Generator = UUID

// Sequence returns a generator yielding prefix-1, prefix-2, ... It is safe
// for concurrent use.
func Sequence(prefix string) Generator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// OrDefault returns g, or Default when g is nil.
func (g Generator) OrDefault() Generator {
	if g == nil {
		return Default
	}
	return g
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
