package departamentos

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
	return &Repository{col: db.Collection(mongodb.ColDepartamentos)}
}

func (r *Repository) Crear(ctx context.Context, d *Departamento) error {
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("%w: insertando departamento: %v", common.ErrAlmacenamiento, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

// PorID busca por el ObjectID en hexadecimal. Un hex malformado es un
// error de validación, no de almacenamiento.
func (r *Repository) PorID(ctx context.Context, id string) (*Departamento, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id de departamento inválido: %v", common.ErrValidacion, err)
	}

	var d Departamento
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("departamento %s: %w", id, common.ErrNoEncontrado)
		}
		return nil, fmt.Errorf("%w: leyendo departamento %s: %v", common.ErrAlmacenamiento, id, err)
	}
	return &d, nil
}

// Activos lista los departamentos vigentes ordenados por nombre.
func (r *Repository) Activos(ctx context.Context) ([]*Departamento, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"activo": true},
		options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando departamentos: %v", common.ErrAlmacenamiento, err)
	}
	var out []*Departamento
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando departamentos: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}

func (r *Repository) Actualizar(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id de departamento inválido: %v", common.ErrValidacion, err)
	}
	set["updated_at"] = time.Now()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "activo": true},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("%w: actualizando departamento %s: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("departamento activo %s: %w", id, common.ErrNoEncontrado)
	}
	return nil
}

// Eliminar hace la baja lógica. Filtra solo por _id, igual que usuarios,
// para que la operación sea idempotente.
func (r *Repository) Eliminar(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id de departamento inválido: %v", common.ErrValidacion, err)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"activo": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: eliminando departamento %s: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("departamento %s: %w", id, common.ErrNoEncontrado)
	}
	return nil
}
