package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restock/internal/core/entity"
)

type sampleEntity struct {
	entity.BaseCatalog

	Code   string `db:"code"`
	Name   string `db:"name"`
	Hidden string `db:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sampleEntity]()

	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "name")
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap(t *testing.T) {
	e := sampleEntity{
		BaseCatalog: entity.NewBaseCatalog(),
		Code:        "C-1",
		Name:        "Sample",
		Hidden:      "secret",
		NoTag:       "ignored",
	}

	m := StructToMap(&e)

	assert.Equal(t, "C-1", m["code"])
	assert.Equal(t, "Sample", m["name"])
	assert.Equal(t, e.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.NotContains(t, m, "Hidden")
	assert.NotContains(t, m, "NoTag")

	// Cached second pass returns the same mapping.
	again := StructToMap(&e)
	assert.Equal(t, m, again)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
