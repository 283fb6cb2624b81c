// Package config carga la configuración de la aplicación desde variables
// de entorno. Se usa envconfig para mapear las variables a los campos de
// la estructura Config.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contiene TODOS los ajustes de la aplicación.
type Config struct {
	// --- MongoDB ---
	MongoURI     string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"gimnasio_db"`

	// --- HTTP ---
	HTTPHost string `envconfig:"HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"PORT" default:"5000"`
	// Tamaño máximo del cuerpo de una petición (las plantillas biométricas
	// viajan en base64 y pueden ser grandes).
	MaxBodyBytes int `envconfig:"MAX_BODY_BYTES" default:"16777216"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"America/Bogota"`

	// --- Paginación ---
	ItemsPerPage int `envconfig:"ITEMS_PER_PAGE" default:"20"`

	// --- Membresías ---
	// Ventana de aviso: una membresía que vence dentro de estos días
	// se reporta como "próxima a vencer".
	EstadoDiasAviso int `envconfig:"ESTADO_DIAS_AVISO" default:"7"`

	// --- Fotos ---
	FotosDir string `envconfig:"FOTOS_DIR" default:"./fotos"`

	// --- Rate limiting (endpoints de dispositivos: check-in y biometría) ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Addr devuelve la dirección de escucha del servidor HTTP.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("PORT fuera de rango: %d", c.HTTPPort)
	}
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("ITEMS_PER_PAGE debe ser > 0")
	}
	if c.EstadoDiasAviso < 0 {
		return fmt.Errorf("ESTADO_DIAS_AVISO no puede ser negativo")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES debe ser > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("parámetros de rate limit inválidos")
	}
	return nil
}

// Load lee las variables de entorno y llena la estructura Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("no se pudo cargar la configuración: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location devuelve la zona horaria configurada del gimnasio.
// Si no se puede cargar, se usa la hora local del sistema.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}
