package biometria

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"gymcontrol/internal/config"
	"gymcontrol/internal/db/mongodb"
	"gymcontrol/internal/features/usuarios"
)

func TestRegistrarConservaPlantillasAnteriores(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("segunda huella del mismo socio", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "gimnasio_db.usuarios", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: 7},
				{Key: "nombre", Value: "Ana"},
				{Key: "apellido", Value: "García"},
				{Key: "activo", Value: true},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "gimnasio_db.plantillas_biometricas", mtest.FirstBatch, bson.D{
				{Key: "n", Value: 2},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		cfg := &config.Config{AppTimezone: "UTC"}
		svc := NewService(NewRepository(mt.DB), usuarios.NewRepository(mt.DB), cfg)

		p, err := svc.Registrar(context.Background(), RegistrarRequest{
			UsuarioID:     7,
			TipoPlantilla: TipoHuella,
			Template:      "aG9sYQ==",
			Calidad:       80,
		})
		require.NoError(mt, err)
		assert.Equal(mt, TipoHuella, p.TipoPlantilla)
		assert.True(mt, p.Activo)

		// El alta no apaga las capturas anteriores del mismo tipo: el
		// único update que sale es el refresco de flags del socio, nada
		// toca la colección de plantillas.
		updates := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName != "update" {
				continue
			}
			updates++
			assert.Equal(mt, mongodb.ColUsuarios, evt.Command.Lookup("update").StringValue())
		}
		assert.Equal(mt, 1, updates)
	})
}
