package planes

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
	return &Repository{col: db.Collection(mongodb.ColPlanes)}
}

func (r *Repository) Crear(ctx context.Context, p *Plan) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("%w: insertando plan: %v", common.ErrAlmacenamiento, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *Repository) PorID(ctx context.Context, id string) (*Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id de plan inválido: %v", common.ErrValidacion, err)
	}

	var p Plan
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("plan %s: %w", id, common.ErrNoEncontrado)
		}
		return nil, fmt.Errorf("%w: leyendo plan %s: %v", common.ErrAlmacenamiento, id, err)
	}
	return &p, nil
}

// Activos lista los planes disponibles ordenados por precio ascendente,
// que es el orden en que se muestran al vender.
func (r *Repository) Activos(ctx context.Context) ([]*Plan, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"activo": true},
		options.Find().SetSort(bson.D{{Key: "precio", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listando planes: %v", common.ErrAlmacenamiento, err)
	}
	var out []*Plan
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decodificando planes: %v", common.ErrAlmacenamiento, err)
	}
	return out, nil
}

func (r *Repository) Actualizar(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id de plan inválido: %v", common.ErrValidacion, err)
	}
	set["updated_at"] = time.Now()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "activo": true},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("%w: actualizando plan %s: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("plan activo %s: %w", id, common.ErrNoEncontrado)
	}
	return nil
}

func (r *Repository) Eliminar(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id de plan inválido: %v", common.ErrValidacion, err)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"activo": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: eliminando plan %s: %v", common.ErrAlmacenamiento, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("plan %s: %w", id, common.ErrNoEncontrado)
	}
	return nil
}
