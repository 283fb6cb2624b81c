package membresias

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"gymcontrol/internal/common"
	"gymcontrol/internal/config"
	"gymcontrol/internal/features/planes"
	"gymcontrol/internal/features/usuarios"
)

func configPrueba() *config.Config {
	return &config.Config{AppTimezone: "UTC", EstadoDiasAviso: 7, ItemsPerPage: 20}
}

func servicioPrueba(mt *mtest.T) *Service {
	return NewService(
		NewRepository(mt.DB),
		usuarios.NewRepository(mt.DB),
		planes.NewRepository(mt.DB),
		configPrueba(),
	)
}

// docMembresiaVigente arma el documento de una membresía de 30 días que
// vence el 2024-01-10, como la devolvería la colección.
func docMembresiaVigente(id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "usuario_id", Value: 7},
		{Key: "usuario_nombre", Value: "Ana García"},
		{Key: "plan_id", Value: primitive.NewObjectID().Hex()},
		{Key: "plan_nombre", Value: "Mensual"},
		{Key: "duracion_dias", Value: 30},
		{Key: "fecha_inicio", Value: primitive.NewDateTimeFromTime(fecha(2023, 12, 11))},
		{Key: "fecha_fin", Value: primitive.NewDateTimeFromTime(fecha(2024, 1, 10))},
		{Key: "vigente", Value: true},
		{Key: "activo", Value: true},
		{Key: "precio_pagado", Value: 50.0},
		{Key: "metodo_pago", Value: "Efectivo"},
	}
}

func TestRenovarCorreDesdeLaFechaPedida(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("renovacion anticipada", func(mt *mtest.T) {
		anteriorID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "gimnasio_db.membresias", mtest.FirstBatch, docMembresiaVigente(anteriorID)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		svc := servicioPrueba(mt)
		sucesora, err := svc.Renovar(context.Background(), anteriorID.Hex(), RenovarRequest{
			FechaInicio: "2024-01-05",
		})
		require.NoError(mt, err)

		// La anterior vencía el 2024-01-10. Renovada desde el 2024-01-05
		// con 30 días termina el 2024-02-04: los cinco días que le
		// quedaban a la anterior no corren la fecha fin al 2024-02-09.
		assert.Equal(mt, fecha(2024, 1, 5), sucesora.FechaInicio)
		assert.Equal(mt, fecha(2024, 2, 4), sucesora.FechaFin)
		assert.Equal(mt, 7, sucesora.UsuarioID)
		assert.Equal(mt, 30, sucesora.DuracionDias)
		assert.Equal(mt, 50.0, sucesora.PrecioPagado)
	})
}

func TestRenovarConcurrentePierdeLaCarrera(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("el update condicional no encuentra la vigente", func(mt *mtest.T) {
		anteriorID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "gimnasio_db.membresias", mtest.FirstBatch, docMembresiaVigente(anteriorID)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		svc := servicioPrueba(mt)
		_, err := svc.Renovar(context.Background(), anteriorID.Hex(), RenovarRequest{})
		assert.True(mt, errors.Is(err, common.ErrRenovacionConcurrente))
	})
}
