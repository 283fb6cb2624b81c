// Package usuarios: repository.go concentra todas las operaciones contra
// la colección usuarios. Cada función arma un filtro, ejecuta una consulta
// y traduce los errores del driver a la taxonomía del sistema.
package usuarios

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

// limiteBusqueda acota los resultados de la búsqueda por texto.
const limiteBusqueda = 50

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(mongodb.ColUsuarios)}
}

// Crear inserta un usuario nuevo. El _id lo trae el documento (número de
// carnet); si ya existe devuelve ErrIDDuplicado.
func (r *Repository) Crear(ctx context.Context, u *Usuario) error {
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("usuario %d: %w", u.ID, common.ErrIDDuplicado)
		}
		return fmt.Errorf("%w: insertando usuario: %v", common.ErrAlmacenamiento, err)
	}
	return nil
}

// PorID busca un usuario por su número de socio, esté activo o no.
func (r *Repository) PorID(ctx context.Context, id int) (*Usuario, error) {
	var u Usuario
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("usuario %d: %w", id, common.ErrNoEncontrado)
		}
		return nil, fmt.Errorf("%w: leyendo usuario %d: %v", common.ErrAlmacenamiento, id, err)
	}
	return &u, nil
}

// Actualizar aplica el parche $set sobre un usuario ACTIVO y refresca
// updated_at. Si no hay un registro activo con ese id devuelve
// ErrNoEncontrado.
func (r *Repository) Actualizar(ctx context.Context, id int, set bson.M) error {
	set["updated_at"] = time.Now()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "activo": true},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("%w: actualizando usuario %d: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("usuario activo %d: %w", id, common.ErrNoEncontrado)
	}
	return nil
}

// Eliminar hace la baja lógica: activo = false. Filtra SOLO por _id para
// que borrar dos veces sea idempotente (la segunda llamada encuentra el
// registro ya inactivo y también tiene éxito).
func (r *Repository) Eliminar(ctx context.Context, id int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"activo": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: eliminando usuario %d: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("usuario %d: %w", id, common.ErrNoEncontrado)
	}
	return nil
}

// filtroBusqueda arma el $or de la búsqueda por texto: subcadena sin
// distinguir mayúsculas sobre nombre, apellido, código, documento y email.
func filtroBusqueda(q string) bson.M {
	regex := primitive.Regex{Pattern: regexQuoteMeta(q), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"nombre": regex},
			bson.M{"apellido": regex},
			bson.M{"codigo": regex},
			bson.M{"numero_documento": regex},
			bson.M{"email": regex},
		},
	}
}

// regexQuoteMeta escapa los metacaracteres de la consulta: el texto del
// usuario se busca literal, no como expresión regular.
func regexQuoteMeta(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, m := range meta {
			if r == m {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// Buscar devuelve hasta 50 coincidencias en el orden natural de la
// colección.
func (r *Repository) Buscar(ctx context.Context, q string) ([]*Usuario, error) {
	cursor, err := r.col.Find(ctx, filtroBusqueda(q), options.Find().SetLimit(limiteBusqueda))
	if err != nil {
		return nil, fmt.Errorf("%w: buscando usuarios: %v", common.ErrAlmacenamiento, err)
	}
	return decodificarUsuarios(ctx, cursor)
}

// Activos devuelve TODOS los usuarios activos. Es la entrada del listado
// por estado: la clasificación se hace en la aplicación, así que hay que
// traer el conjunto completo antes de filtrar.
func (r *Repository) Activos(ctx context.Context) ([]*Usuario, error) {
	cursor, err := r.col.Find(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, fmt.Errorf("%w: listando usuarios activos: %v", common.ErrAlmacenamiento, err)
	}
	return decodificarUsuarios(ctx, cursor)
}

// ActualizarFlagsBiometria refresca los campos derivados de biometría del
// usuario. Lo invoca el módulo de biometría después de cada alta.
func (r *Repository) ActualizarFlagsBiometria(ctx context.Context, id int, total int) error {
	return r.Actualizar(ctx, id, bson.M{
		"tiene_biometria":  total > 0,
		"total_plantillas": total,
	})
}

// Contar devuelve el total de socios y cuántos están activos. Es la
// versión liviana para el resumen de la raíz.
func (r *Repository) Contar(ctx context.Context) (total, activos int64, err error) {
	total, err = r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: contando usuarios: %v", common.ErrAlmacenamiento, err)
	}
	activos, err = r.col.CountDocuments(ctx, bson.M{"activo": true})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: contando usuarios activos: %v", common.ErrAlmacenamiento, err)
	}
	return total, activos, nil
}

// Estadisticas cuenta totales y agrupa por departamento.
func (r *Repository) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	stats := &Estadisticas{}

	conteos := []struct {
		destino *int64
		filtro  bson.M
	}{
		{&stats.Total, bson.M{}},
		{&stats.Activos, bson.M{"activo": true}},
		{&stats.Inactivos, bson.M{"activo": false}},
		{&stats.ConFoto, bson.M{"tiene_foto": true}},
		{&stats.ConBiometria, bson.M{"tiene_biometria": true}},
		{&stats.ConEmail, bson.M{"email": bson.M{"$nin": bson.A{"", nil}}}},
	}
	for _, c := range conteos {
		n, err := r.col.CountDocuments(ctx, c.filtro)
		if err != nil {
			return nil, fmt.Errorf("%w: contando usuarios: %v", common.ErrAlmacenamiento, err)
		}
		*c.destino = n
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$departamento_nombre",
			"total": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: agrupando por departamento: %v", common.ErrAlmacenamiento, err)
	}
	if err := cursor.All(ctx, &stats.PorDepartamento); err != nil {
		return nil, fmt.Errorf("%w: decodificando grupos: %v", common.ErrAlmacenamiento, err)
	}

	return stats, nil
}

func decodificarUsuarios(ctx context.Context, cursor *mongo.Cursor) ([]*Usuario, error) {
	var out []*Usuario
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando usuarios: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}
