package production

import "sync"

// JobLocks serializa las operaciones de escritura por orden de producción.
// Dos moveTo concurrentes sobre la misma orden compiten por el chequeo de
// completitud y la lectura de runs sin trasladar; un doble traslado del mismo
// lote es un bug de corrección, así que se serializa por orden en proceso.
// Los locks de fila de PostgreSQL siguen protegiendo el libro de stock.
//
// Las entradas llevan conteo de referencias: al soltar el último holder de
// una orden su entrada se elimina del mapa, así el registro no crece con
// cada orden histórica.
type JobLocks struct {
	mu    sync.Mutex
	locks map[string]*jobLock
}

type jobLock struct {
	mu   sync.Mutex
	refs int
}

// NewJobLocks construye el registro de locks por orden.
func NewJobLocks() *JobLocks {
	return &JobLocks{locks: make(map[string]*jobLock)}
}

// Lock adquiere el lock de la orden y devuelve la función para liberarlo.
func (l *JobLocks) Lock(jobID string) func() {
	l.mu.Lock()
	e, ok := l.locks[jobID]
	if !ok {
		e = &jobLock{}
		l.locks[jobID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, jobID)
		}
		l.mu.Unlock()
	}
}
