package production

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────
// Locks por orden de producción
// ─────────────────────────────────────────────────────────────────

func TestJobLocks_SerializaPorOrden(t *testing.T) {
	l := NewJobLocks()

	var n int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("job-1")
			defer unlock()
			n++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, n)
}

func TestJobLocks_EliminaEntradasSinUso(t *testing.T) {
	l := NewJobLocks()

	unlock := l.Lock("job-1")
	l.mu.Lock()
	assert.Len(t, l.locks, 1)
	l.mu.Unlock()

	unlock()

	l.mu.Lock()
	assert.Empty(t, l.locks, "sin holders la entrada debe eliminarse")
	l.mu.Unlock()
}

func TestJobLocks_ConservaEntradaMientrasHayEsperas(t *testing.T) {
	l := NewJobLocks()
	unlock := l.Lock("job-1")

	done := make(chan struct{})
	go func() {
		u := l.Lock("job-1")
		u()
		close(done)
	}()

	// Esperar a que el segundo caller quede registrado como referencia viva.
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		e, ok := l.locks["job-1"]
		return ok && e.refs == 2
	}, time.Second, time.Millisecond)

	unlock()
	<-done

	l.mu.Lock()
	assert.Empty(t, l.locks)
	l.mu.Unlock()
}
