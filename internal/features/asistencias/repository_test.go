package asistencias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
)

func TestPipelinePorHora(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	dia := time.Date(2026, 8, 29, 15, 30, 0, 0, loc)
	inicio, fin := common.RangoDia(dia)

	p := pipelinePorHora(inicio, fin, common.ZonaHoraria(dia))
	require.Len(t, p, 3)

	// Acota un solo día calendario, no el mes en curso
	require.Equal(t, "$match", p[0][0].Key)
	rango := p[0][0].Value.(bson.M)["fecha"].(bson.M)
	assert.Equal(t, inicio, rango["$gte"])
	assert.Equal(t, fin, rango["$lt"])
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, loc), inicio)
	assert.Equal(t, inicio.AddDate(0, 0, 1), fin)

	// La hora se extrae en la misma zona con la que se armó el rango
	require.Equal(t, "$group", p[1][0].Key)
	grupo := p[1][0].Value.(bson.M)
	hora := grupo["_id"].(bson.M)["$hour"].(bson.M)
	assert.Equal(t, "$fecha", hora["date"])
	assert.Equal(t, "America/Bogota", hora["timezone"])

	require.Equal(t, "$sort", p[2][0].Key)
}
