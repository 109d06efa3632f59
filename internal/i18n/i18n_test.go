package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mendizabala/dual/internal/model"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[Basque] {
		_, ok := catalogs[Spanish][key]
		assert.True(t, ok, "missing es translation for %s", key)
	}
	assert.Len(t, catalogs[Spanish], len(catalogs[Basque]))
}

func TestLookupAndFallback(t *testing.T) {
	es := For(Spanish)
	assert.Equal(t, "Sin asignar", es.T("kanban.unassigned"))
	assert.Equal(t, "Naranja", es.Status(model.StatusOrange))
	assert.Equal(t, "no.such.key", es.T("no.such.key"))

	unknown := For("fr")
	assert.Equal(t, Basque, unknown.Lang())
	assert.Equal(t, "Esleitu gabe", unknown.T("kanban.unassigned"))
	assert.Equal(t, "purple", unknown.Status(model.Status("purple")))

	assert.True(t, Supported("eu"))
	assert.False(t, Supported("en"))
}
