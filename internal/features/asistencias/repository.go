package asistencias

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymcontrol/internal/common"
	"gymcontrol/internal/db/mongodb"
)

// limiteHistorial acota el historial por socio.
const limiteHistorial = 100

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(mongodb.ColAsistencias)}
}

func (r *Repository) Registrar(ctx context.Context, a *Asistencia) error {
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("%w: registrando asistencia: %v", common.ErrAlmacenamiento, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

// PorFecha lista los ingresos de un día calendario, los más recientes
// primero. El rango [inicio, fin) sale de common.RangoDia.
func (r *Repository) PorFecha(ctx context.Context, dia time.Time) ([]*Asistencia, error) {
	inicio, fin := common.RangoDia(dia)
	cursor, err := r.col.Find(ctx,
		bson.M{"fecha": bson.M{"$gte": inicio, "$lt": fin}},
		options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando asistencias del día: %v", common.ErrAlmacenamiento, err)
	}
	return decodificar(ctx, cursor)
}

// PorUsuario devuelve el historial del socio, el más reciente primero.
func (r *Repository) PorUsuario(ctx context.Context, usuarioID int) ([]*Asistencia, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"usuario_id": usuarioID},
		options.Find().
			SetSort(bson.D{{Key: "fecha", Value: -1}}).
			SetLimit(limiteHistorial),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando asistencias del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return decodificar(ctx, cursor)
}

// YaRegistroHoy responde si el socio ya tiene un ingreso en el día dado.
func (r *Repository) YaRegistroHoy(ctx context.Context, usuarioID int, dia time.Time) (bool, error) {
	inicio, fin := common.RangoDia(dia)
	n, err := r.col.CountDocuments(ctx, bson.M{
		"usuario_id": usuarioID,
		"fecha":      bson.M{"$gte": inicio, "$lt": fin},
	})
	if err != nil {
		return false, fmt.Errorf("%w: verificando asistencia de hoy: %v", common.ErrAlmacenamiento, err)
	}
	return n > 0, nil
}

// Eliminar borra un registro (corrección de un check-in erróneo). Acá el
// borrado es físico: la asistencia no tiene baja lógica.
func (r *Repository) Eliminar(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id de asistencia inválido: %v", common.ErrValidacion, err)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: eliminando asistencia %s: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("asistencia %s: %w", id, common.ErrNoEncontrado)
	}
	return nil
}

// ContarHoy cuenta los ingresos del día dado.
func (r *Repository) ContarHoy(ctx context.Context, dia time.Time) (int64, error) {
	inicio, fin := common.RangoDia(dia)
	n, err := r.col.CountDocuments(ctx, bson.M{"fecha": bson.M{"$gte": inicio, "$lt": fin}})
	if err != nil {
		return 0, fmt.Errorf("%w: contando asistencias de hoy: %v", common.ErrAlmacenamiento, err)
	}
	return n, nil
}

// Estadisticas arma los números del tablero de asistencias.
func (r *Repository) Estadisticas(ctx context.Context, ahora time.Time) (*Estadisticas, error) {
	stats := &Estadisticas{}

	inicioHoy, finHoy := common.RangoDia(ahora)
	inicioSemana := inicioHoy.AddDate(0, 0, -int(inicioHoy.Weekday()))
	inicioMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())

	conteos := []struct {
		destino *int64
		filtro  bson.M
	}{
		{&stats.Hoy, bson.M{"fecha": bson.M{"$gte": inicioHoy, "$lt": finHoy}}},
		{&stats.Semana, bson.M{"fecha": bson.M{"$gte": inicioSemana}}},
		{&stats.Mes, bson.M{"fecha": bson.M{"$gte": inicioMes}}},
		{&stats.Total, bson.M{}},
	}
	for _, c := range conteos {
		n, err := r.col.CountDocuments(ctx, c.filtro)
		if err != nil {
			return nil, fmt.Errorf("%w: contando asistencias: %v", common.ErrAlmacenamiento, err)
		}
		*c.destino = n
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    "$usuario_id",
			"nombre": bson.M{"$first": "$usuario_nombre"},
			"total":  bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
		{{Key: "$limit", Value: 10}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: agrupando top de usuarios: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.TopUsuarios); err != nil {
		return nil, fmt.Errorf("%w: decodificando top de usuarios: %v", common.ErrAlmacenamiento, err)
	}

	cursor, err = r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$departamento_nombre",
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: agrupando por departamento: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.PorDepartamento); err != nil {
		return nil, fmt.Errorf("%w: decodificando grupos por departamento: %v", common.ErrAlmacenamiento, err)
	}

	// Últimos siete días, un punto por fecha. Las fechas del grupo se
	// formatean en la zona local, igual que los límites del $match.
	desde := inicioHoy.AddDate(0, 0, -6)
	cursor, err = r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fecha": bson.M{"$gte": desde}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$fecha",
				"timezone": common.ZonaHoraria(ahora),
			}},
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: armando serie semanal: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.SerieSemanal); err != nil {
		return nil, fmt.Errorf("%w: decodificando serie semanal: %v", common.ErrAlmacenamiento, err)
	}

	return stats, nil
}

// PorHora arma la distribución horaria de los ingresos de un día
// calendario. La hora se extrae en la zona del día pedido, la misma con
// la que se calculan las medianoches del rango.
func (r *Repository) PorHora(ctx context.Context, dia time.Time) ([]GrupoConteoHora, error) {
	inicio, fin := common.RangoDia(dia)
	cursor, err := r.col.Aggregate(ctx, pipelinePorHora(inicio, fin, common.ZonaHoraria(dia)))
	if err != nil {
		return nil, fmt.Errorf("%w: agrupando por hora: %v", common.ErrAlmacenamiento, err)
	}
	var grupos []GrupoConteoHora
	if err := cursor.All(ctx, &grupos); err != nil {
		return nil, fmt.Errorf("%w: decodificando grupos por hora: %v", common.ErrAlmacenamiento, err)
	}
	return grupos, nil
}

func pipelinePorHora(inicio, fin time.Time, zona string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fecha": bson.M{"$gte": inicio, "$lt": fin}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$hour": bson.M{"date": "$fecha", "timezone": zona}},
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func decodificar(ctx context.Context, cursor *mongo.Cursor) ([]*Asistencia, error) {
	var out []*Asistencia
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando asistencias: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}
