package biometria

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymcontrol/internal/common"
	"gymcontrol/internal/db/mongodb"
)

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(mongodb.ColPlantillas)}
}

func (r *Repository) Registrar(ctx context.Context, p *Plantilla) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("%w: insertando plantilla: %v", common.ErrAlmacenamiento, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// PorUsuario devuelve las plantillas activas del socio.
func (r *Repository) PorUsuario(ctx context.Context, usuarioID int) ([]*Plantilla, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"usuario_id": usuarioID, "activo": true},
		options.Find().SetSort(bson.D{{Key: "fecha_registro", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando plantillas del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return decodificar(ctx, cursor)
}

// PorUsuarioYTipo devuelve las plantillas activas de un tipo concreto.
func (r *Repository) PorUsuarioYTipo(ctx context.Context, usuarioID int, tipo string) ([]*Plantilla, error) {
	cursor, err := r.col.Find(ctx, bson.M{
		"usuario_id":     usuarioID,
		"tipo_plantilla": tipo,
		"activo":         true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listando plantillas %s del usuario %d: %v", common.ErrAlmacenamiento, tipo, usuarioID, err)
	}
	return decodificar(ctx, cursor)
}

// ContarPorUsuario cuenta las plantillas activas del socio. Alimenta los
// flags derivados en usuarios.
func (r *Repository) ContarPorUsuario(ctx context.Context, usuarioID int) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"usuario_id": usuarioID, "activo": true})
	if err != nil {
		return 0, fmt.Errorf("%w: contando plantillas del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return n, nil
}

// Listar devuelve las plantillas activas para el panel de administración
// de dispositivos, con el nombre del socio unido en la consulta. Con tipo
// no vacío filtra por tipo de plantilla.
func (r *Repository) Listar(ctx context.Context, tipo string) ([]*Plantilla, error) {
	filtro := bson.M{"activo": true}
	if tipo != "" {
		filtro["tipo_plantilla"] = tipo
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filtro}},
		{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.ColUsuarios,
			"localField":   "usuario_id",
			"foreignField": "_id",
			"as":           "socio",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$socio", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{
			"usuario_nombre": bson.M{"$concat": bson.A{
				bson.M{"$ifNull": bson.A{"$socio.nombre", ""}},
				" ",
				bson.M{"$ifNull": bson.A{"$socio.apellido", ""}},
			}},
		}}},
		{{Key: "$project", Value: bson.M{"socio": 0}}},
		{{Key: "$sort", Value: bson.M{"usuario_id": 1}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: listando plantillas: %v", common.ErrAlmacenamiento, err)
	}
	return decodificar(ctx, cursor)
}

func (r *Repository) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	stats := &Estadisticas{}

	total, err := r.col.CountDocuments(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, fmt.Errorf("%w: contando plantillas: %v", common.ErrAlmacenamiento, err)
	}
	stats.Total = total

	usuarios, err := r.col.Distinct(ctx, "usuario_id", bson.M{"activo": true})
	if err != nil {
		return nil, fmt.Errorf("%w: contando usuarios con biometría: %v", common.ErrAlmacenamiento, err)
	}
	stats.Usuarios = int64(len(usuarios))

	grupos := []struct {
		campo   string
		destino *[]GrupoConteo
	}{
		{"$tipo_plantilla", &stats.PorTipo},
		{"$dispositivo", &stats.Dispositivo},
	}
	for _, g := range grupos {
		cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"activo": true}}},
			{{Key: "$group", Value: bson.M{
				"_id":   g.campo,
				"total": bson.M{"$sum": 1},
			}}},
			{{Key: "$sort", Value: bson.M{"total": -1}}},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: agrupando plantillas: %v", common.ErrAlmacenamiento, err)
		}
		if err := cursor.All(ctx, g.destino); err != nil {
			return nil, fmt.Errorf("%w: decodificando grupos de plantillas: %v", common.ErrAlmacenamiento, err)
		}
	}

	return stats, nil
}

func decodificar(ctx context.Context, cursor *mongo.Cursor) ([]*Plantilla, error) {
	var out []*Plantilla
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando plantillas: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}
