package membresias

import "sync"

// locksPorUsuario serializa las operaciones de escritura de membresías
// POR SOCIO: dos renovaciones del mismo socio corren una después de la
// otra, mientras que socios distintos no se bloquean entre sí.
//
// Los mutex se crean bajo demanda y no se liberan; la cantidad de socios
// acota el mapa.
type locksPorUsuario struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newLocksPorUsuario() *locksPorUsuario {
	return &locksPorUsuario{locks: make(map[int]*sync.Mutex)}
}

func (l *locksPorUsuario) para(usuarioID int) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[usuarioID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[usuarioID] = m
	}
	return m
}
