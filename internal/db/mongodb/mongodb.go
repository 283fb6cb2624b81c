// Package mongodb administra la conexión a la base de datos MongoDB.
//
// La conexión se abre UNA sola vez al arranque y el handle se inyecta en
// cada repositorio: la lógica de negocio nunca toca un estado global.
// El driver mantiene su propio pool interno de conexiones y se encarga de
// reconectar ante cortes.
package mongodb

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymcontrol/internal/config"
)

// Nombres de las colecciones del sistema.
const (
	ColUsuarios      = "usuarios"
	ColMembresias    = "membresias"
	ColPlanes        = "planes"
	ColAsistencias   = "asistencias"
	ColPlantillas    = "plantillas_biometricas"
	ColDepartamentos = "departamentos"
)

// Connect abre la conexión a MongoDB y verifica que el servidor responda.
//
// El timeout de selección de servidor es de 5 segundos: si la base no
// está disponible el arranque falla rápido en lugar de colgarse.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error creando el cliente de MongoDB: %w", err)
	}

	// Verificamos que la base esté accesible
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("base de datos no disponible: %w", err)
	}

	log.WithField("database", cfg.DatabaseName).Info("Conexión a MongoDB establecida")
	return client, client.Database(cfg.DatabaseName), nil
}

// EnsureIndexes crea los índices que usan las consultas del sistema.
// Es idempotente: MongoDB ignora los índices que ya existen.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ColUsuarios: {
			{Keys: bson.D{{Key: "activo", Value: 1}}},
			{Keys: bson.D{{Key: "numero_documento", Value: 1}}},
		},
		ColMembresias: {
			{Keys: bson.D{{Key: "usuario_id", Value: 1}, {Key: "vigente", Value: 1}}},
			{Keys: bson.D{{Key: "fecha_inicio", Value: -1}}},
		},
		ColAsistencias: {
			{Keys: bson.D{{Key: "fecha", Value: -1}}},
			{Keys: bson.D{{Key: "usuario_id", Value: 1}, {Key: "fecha", Value: -1}}},
		},
		ColPlantillas: {
			{Keys: bson.D{{Key: "usuario_id", Value: 1}}},
			{Keys: bson.D{{Key: "tipo_plantilla", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creando índices de %s: %w", col, err)
		}
		log.WithField("coleccion", col).Debug("Índices verificados")
	}
	return nil
}
