package membresias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
)

func TestPipelineIngresosSerie(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	desde := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)

	p := pipelineIngresosSerie(desde, common.ZonaHoraria(desde))
	require.Len(t, p, 3)

	// Los ingresos cuentan por el inicio de la membresía, no por la
	// fecha de alta del registro
	require.Equal(t, "$match", p[0][0].Key)
	rango := p[0][0].Value.(bson.M)["fecha_inicio"].(bson.M)
	assert.Equal(t, desde, rango["$gte"])

	require.Equal(t, "$group", p[1][0].Key)
	grupo := p[1][0].Value.(bson.M)
	mes := grupo["_id"].(bson.M)["$dateToString"].(bson.M)
	assert.Equal(t, "%Y-%m", mes["format"])
	assert.Equal(t, "$fecha_inicio", mes["date"])
	assert.Equal(t, "America/Bogota", mes["timezone"])
	assert.Equal(t, bson.M{"$sum": "$precio_pagado"}, grupo["total"])

	require.Equal(t, "$sort", p[2][0].Key)
}
