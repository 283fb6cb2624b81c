package membresias

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	return &Repository{col: db.Collection(mongodb.ColMembresias)}
}

func (r *Repository) Crear(ctx context.Context, m *Membresia) error {
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("%w: insertando membresía: %v", common.ErrAlmacenamiento, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func (r *Repository) PorID(ctx context.Context, id string) (*Membresia, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id de membresía inválido: %v", common.ErrValidacion, err)
	}

	var m Membresia
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("membresía %s: %w", id, common.ErrNoEncontrado)
		}
		return nil, fmt.Errorf("%w: leyendo membresía %s: %v", common.ErrAlmacenamiento, id, err)
	}
	return &m, nil
}

// PorUsuario devuelve el historial del socio, la más reciente primero.
func (r *Repository) PorUsuario(ctx context.Context, usuarioID int) ([]*Membresia, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"usuario_id": usuarioID},
		options.Find().SetSort(bson.D{{Key: "fecha_inicio", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando membresías del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return decodificar(ctx, cursor)
}

// VigenteDeUsuario devuelve la membresía vigente del socio, si tiene.
func (r *Repository) VigenteDeUsuario(ctx context.Context, usuarioID int) (*Membresia, error) {
	var m Membresia
	err := r.col.FindOne(ctx,
		bson.M{"usuario_id": usuarioID, "vigente": true},
		options.FindOne().SetSort(bson.D{{Key: "fecha_inicio", Value: -1}}),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("membresía vigente del usuario %d: %w", usuarioID, common.ErrNoEncontrado)
		}
		return nil, fmt.Errorf("%w: buscando membresía vigente del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return &m, nil
}

// Listar devuelve una página de membresías según el filtro, las más
// recientes primero. skip/limit en cero trae todo.
func (r *Repository) Listar(ctx context.Context, filtro bson.M, skip, limite int64) ([]*Membresia, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_inicio", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limite > 0 {
		opts.SetLimit(limite)
	}
	cursor, err := r.col.Find(ctx, filtro, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: listando membresías: %v", common.ErrAlmacenamiento, err)
	}
	return decodificar(ctx, cursor)
}

// Contar cuenta las membresías que cumplen el filtro, para paginar.
func (r *Repository) Contar(ctx context.Context, filtro bson.M) (int64, error) {
	n, err := r.col.CountDocuments(ctx, filtro)
	if err != nil {
		return 0, fmt.Errorf("%w: contando membresías: %v", common.ErrAlmacenamiento, err)
	}
	return n, nil
}

// MarcarNoVigente apaga la membresía SOLO si todavía figura vigente. El
// filtro condicional es lo que detecta la carrera: si otra renovación ya
// la apagó, MatchedCount viene en cero y el llamador aborta con
// ErrRenovacionConcurrente.
func (r *Repository) MarcarNoVigente(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "vigente": true},
		bson.M{"$set": bson.M{"vigente": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: apagando membresía %s: %v", common.ErrAlmacenamiento, id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("membresía %s ya no está vigente: %w", id.Hex(), common.ErrRenovacionConcurrente)
	}
	return nil
}

// RestaurarVigente es la compensación de MarcarNoVigente: si el alta de
// la membresía sucesora falla, la anterior vuelve a quedar vigente.
func (r *Repository) RestaurarVigente(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"vigente": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: restaurando membresía %s: %v", common.ErrAlmacenamiento, id.Hex(), err)
	}
	return nil
}

// Cancelar marca la membresía como cancelada: no vigente y dada de baja.
func (r *Repository) Cancelar(ctx context.Context, id primitive.ObjectID, motivo string) error {
	set := bson.M{
		"vigente":    false,
		"activo":     false,
		"updated_at": time.Now(),
	}
	if motivo != "" {
		set["notas"] = motivo
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%w: cancelando membresía %s: %v", common.ErrAlmacenamiento, id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("membresía %s: %w", id.Hex(), common.ErrNoEncontrado)
	}
	return nil
}

// RefrescarVigencia apaga en bloque las membresías vigentes cuya fecha
// fin quedó antes del día dado. La corre el job nocturno.
func (r *Repository) RefrescarVigencia(ctx context.Context, hoy time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"vigente": true, "fecha_fin": bson.M{"$lt": common.TruncarDia(hoy)}},
		bson.M{"$set": bson.M{"vigente": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: refrescando vigencias: %v", common.ErrAlmacenamiento, err)
	}
	return res.ModifiedCount, nil
}

// ContarVigentes cuenta las membresías vigentes.
func (r *Repository) ContarVigentes(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"vigente": true})
	if err != nil {
		return 0, fmt.Errorf("%w: contando membresías vigentes: %v", common.ErrAlmacenamiento, err)
	}
	return n, nil
}

// Estadisticas arma los números de los reportes: totales, ingresos del
// mes en curso, serie de los últimos seis meses y reparto por plan.
func (r *Repository) Estadisticas(ctx context.Context, ahora time.Time) (*Estadisticas, error) {
	stats := &Estadisticas{}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: contando membresías: %v", common.ErrAlmacenamiento, err)
	}
	stats.Total = total

	vigentes, err := r.col.CountDocuments(ctx, bson.M{"vigente": true})
	if err != nil {
		return nil, fmt.Errorf("%w: contando vigentes: %v", common.ErrAlmacenamiento, err)
	}
	stats.Vigentes = vigentes

	// Los ingresos se atribuyen al mes en que la membresía empieza a
	// correr, no al del alta del registro.
	inicioMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fecha_inicio": bson.M{"$gte": inicioMes}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$precio_pagado"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sumando ingresos del mes: %v", common.ErrAlmacenamiento, err)
	}
	var mes []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &mes); err != nil {
		return nil, fmt.Errorf("%w: decodificando ingresos del mes: %v", common.ErrAlmacenamiento, err)
	}
	if len(mes) > 0 {
		stats.IngresosMes = mes[0].Total
	}

	// Serie mensual: seis meses hacia atrás, agrupados por YYYY-MM.
	cursor, err = r.col.Aggregate(ctx, pipelineIngresosSerie(inicioMes.AddDate(0, -5, 0), common.ZonaHoraria(ahora)))
	if err != nil {
		return nil, fmt.Errorf("%w: armando serie de ingresos: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.IngresosSerie); err != nil {
		return nil, fmt.Errorf("%w: decodificando serie de ingresos: %v", common.ErrAlmacenamiento, err)
	}

	cursor, err = r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$plan_nombre",
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: agrupando por plan: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.PorPlan); err != nil {
		return nil, fmt.Errorf("%w: decodificando grupos por plan: %v", common.ErrAlmacenamiento, err)
	}

	return stats, nil
}

// pipelineIngresosSerie agrupa los ingresos por mes de fecha_inicio. El
// mes se formatea en la zona dada, la misma de los límites del $match.
func pipelineIngresosSerie(desde time.Time, zona string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fecha_inicio": bson.M{"$gte": desde}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m",
				"date":     "$fecha_inicio",
				"timezone": zona,
			}},
			"total": bson.M{"$sum": "$precio_pagado"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func decodificar(ctx context.Context, cursor *mongo.Cursor) ([]*Membresia, error) {
	var out []*Membresia
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando membresías: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}
