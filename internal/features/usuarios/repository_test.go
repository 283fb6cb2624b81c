package usuarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegexQuoteMeta(t *testing.T) {
	casos := []struct {
		entrada string
		quiere  string
	}{
		{"ana", "ana"},
		{"j.perez", `j\.perez`},
		{"a+b", `a\+b`},
		{"(test)", `\(test\)`},
		{"", ""},
		{"ñoño", "ñoño"},
	}
	for _, c := range casos {
		assert.Equal(t, c.quiere, regexQuoteMeta(c.entrada))
	}
}

func TestFiltroBusqueda(t *testing.T) {
	filtro := filtroBusqueda("pérez")

	or, ok := filtro["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 5)

	campos := make([]string, 0, len(or))
	for _, cond := range or {
		m, ok := cond.(bson.M)
		require.True(t, ok)
		require.Len(t, m, 1)
		for campo, valor := range m {
			campos = append(campos, campo)
			regex, ok := valor.(primitive.Regex)
			require.True(t, ok)
			assert.Equal(t, "pérez", regex.Pattern)
			assert.Equal(t, "i", regex.Options)
		}
	}
	assert.ElementsMatch(t,
		[]string{"nombre", "apellido", "codigo", "numero_documento", "email"},
		campos,
	)
}

func TestFiltroBusquedaEscapaMetacaracteres(t *testing.T) {
	filtro := filtroBusqueda("a.b*c")

	or := filtro["$or"].(bson.A)
	regex := or[0].(bson.M)["nombre"].(primitive.Regex)
	assert.Equal(t, `a\.b\*c`, regex.Pattern)
}
