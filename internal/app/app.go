// Package app arma la aplicación: abre la conexión a la base, construye
// repositorios, servicios y handlers, y registra todas las rutas HTTP.
// Acá también viven los endpoints compuestos que cruzan varios módulos
// (el tablero y el detalle completo del socio).
package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"gymcontrol/internal/config"
	"gymcontrol/internal/db/mongodb"
	"gymcontrol/internal/features/asistencias"
	"gymcontrol/internal/features/biometria"
	"gymcontrol/internal/features/departamentos"
	"gymcontrol/internal/features/membresias"
	"gymcontrol/internal/features/planes"
	"gymcontrol/internal/features/usuarios"
	"gymcontrol/internal/fotos"
	"gymcontrol/internal/jobs"
	"gymcontrol/internal/web"
)

type App struct {
	Cfg       *config.Config
	Fiber     *fiber.App
	Scheduler *jobs.Scheduler

	client      *mongo.Client
	rateLimiter *web.RateLimiter

	usuarios    *usuarios.Service
	membresias  *membresias.Service
	asistencias *asistencias.Service
	biometria   *biometria.Service
}

// New conecta a la base, cablea todas las capas y deja el servidor listo
// para escuchar.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client, db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	// Repositorios
	usuariosRepo := usuarios.NewRepository(db)
	departamentosRepo := departamentos.NewRepository(db)
	planesRepo := planes.NewRepository(db)
	membresiasRepo := membresias.NewRepository(db)
	asistenciasRepo := asistencias.NewRepository(db)
	biometriaRepo := biometria.NewRepository(db)

	// Servicios
	departamentosService := departamentos.NewService(departamentosRepo)
	usuariosService := usuarios.NewService(usuariosRepo, departamentosService, cfg)
	planesService := planes.NewService(planesRepo)
	membresiasService := membresias.NewService(membresiasRepo, usuariosRepo, planesRepo, cfg)
	asistenciasService := asistencias.NewService(asistenciasRepo, usuariosRepo, cfg)
	biometriaService := biometria.NewService(biometriaRepo, usuariosRepo, cfg)

	scheduler, err := jobs.NewScheduler(cfg.Location(), membresiasService)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	a := &App{
		Cfg:         cfg,
		Scheduler:   scheduler,
		client:      client,
		rateLimiter: web.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		usuarios:    usuariosService,
		membresias:  membresiasService,
		asistencias: asistenciasService,
		biometria:   biometriaService,
	}

	f := fiber.New(fiber.Config{
		AppName:   "gymcontrol",
		BodyLimit: cfg.MaxBodyBytes,
	})
	f.Use(web.Recovery())
	f.Use(web.Logger())

	f.Get("/", a.Resumen)

	api := f.Group("/api")
	api.Get("/stats", a.Tablero)

	limiter := a.rateLimiter.Middleware()
	usuarios.NewHandler(usuariosService).RegisterRoutes(api)
	departamentos.NewHandler(departamentosService).RegisterRoutes(api)
	planes.NewHandler(planesService).RegisterRoutes(api)
	membresias.NewHandler(membresiasService).RegisterRoutes(api)
	asistencias.NewHandler(asistenciasService).RegisterRoutes(api, limiter)
	biometria.NewHandler(biometriaService).RegisterRoutes(api, limiter)
	fotos.NewHandler(fotos.NewStore(cfg.FotosDir), usuariosRepo).RegisterRoutes(api)

	// Endpoint compuesto: va después de las rutas del módulo para que
	// /usuarios/search y /usuarios/stats no caigan en el parámetro :id.
	api.Get("/usuarios/:id", a.DetalleUsuario)

	a.Fiber = f
	return a, nil
}

// Run levanta el scheduler y se queda escuchando HTTP hasta que el
// listener se cierre.
func (a *App) Run() error {
	a.Scheduler.Start()
	log.WithField("addr", a.Cfg.Addr()).Info("Servidor HTTP escuchando")
	return a.Fiber.Listen(a.Cfg.Addr())
}

// Shutdown apaga ordenadamente: primero deja de aceptar peticiones,
// después detiene el scheduler y al final suelta la base.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("El servidor HTTP no cerró limpio")
	}
	a.Scheduler.Stop()
	a.rateLimiter.Close()
	if err := a.client.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("La conexión a MongoDB no cerró limpia")
	}
	log.Info("Aplicación detenida")
}
