package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterPermiteHastaElLimite(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "petición %d dentro del límite", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterClavesIndependientes(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Otra IP no comparte el presupuesto
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterVentanaDeslizante(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow("k"))
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	// Pasada la ventana las peticiones viejas dejan de contar
	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}
