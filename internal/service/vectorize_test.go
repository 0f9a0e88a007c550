package service

import (
	"strings"
	"testing"

	"nlsql/internal/models"
	"nlsql/internal/vectorstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colCfg(name string, weight float64) *models.ColumnConfig {
	return &models.ColumnConfig{ColumnName: name, ShouldVectorize: true, EmbeddingWeight: weight}
}

func TestBuildContentSingleColumn(t *testing.T) {
	cols := []*models.ColumnConfig{colCfg("title", 1), colCfg("body", 1)}
	record := map[string]any{"title": "Widget", "body": "ignored"}

	got := buildContent(models.StrategySingleColumn, cols, record, 1000)
	assert.Equal(t, "Widget", got)

	t.Run("missing value yields empty", func(t *testing.T) {
		assert.Empty(t, buildContent(models.StrategySingleColumn, cols, map[string]any{"body": "x"}, 1000))
	})
	t.Run("null value yields empty", func(t *testing.T) {
		assert.Empty(t, buildContent(models.StrategySingleColumn, cols, map[string]any{"title": nil}, 1000))
	})
	t.Run("no columns yields empty", func(t *testing.T) {
		assert.Empty(t, buildContent(models.StrategySingleColumn, nil, record, 1000))
	})
}

func TestBuildContentConcatenated(t *testing.T) {
	cols := []*models.ColumnConfig{colCfg("name", 1), colCfg("description", 1)}
	record := map[string]any{"name": "Widget", "description": "A small thing"}

	got := buildContent(models.StrategyConcatenated, cols, record, 1000)
	assert.Equal(t, "name: Widget | description: A small thing", got)

	t.Run("null columns are skipped", func(t *testing.T) {
		got := buildContent(models.StrategyConcatenated, cols, map[string]any{"name": "Widget", "description": nil}, 1000)
		assert.Equal(t, "name: Widget", got)
	})
	t.Run("all null yields empty", func(t *testing.T) {
		got := buildContent(models.StrategyConcatenated, cols, map[string]any{"name": nil, "description": nil}, 1000)
		assert.Empty(t, got)
	})
}

func TestBuildContentWeighted(t *testing.T) {
	cols := []*models.ColumnConfig{colCfg("title", 1.0), colCfg("tag", 0.4), colCfg("junk", 0)}
	record := map[string]any{"title": "Widget", "tag": "tools", "junk": "skip me"}

	got := buildContent(models.StrategyWeighted, cols, record, 1000)
	// weight 1.0 repeats three times, 0.4 floors to one, 0 is dropped
	assert.Equal(t, "title: Widget Widget Widget | tag: tools", got)
}

func TestBuildContentUnknownStrategyFallsBack(t *testing.T) {
	cols := []*models.ColumnConfig{colCfg("name", 1)}
	record := map[string]any{"name": "Widget"}

	got := buildContent(models.Strategy("mystery"), cols, record, 1000)
	assert.Equal(t, "name: Widget", got)
}

func TestBuildContentTruncatesOnRuneBoundary(t *testing.T) {
	cols := []*models.ColumnConfig{colCfg("name", 1)}
	record := map[string]any{"name": strings.Repeat("я", 50)}

	got := buildContent(models.StrategySingleColumn, cols, record, 10)
	assert.Equal(t, strings.Repeat("я", 10), got)
}

func TestRecordID(t *testing.T) {
	t.Run("primary key value wins", func(t *testing.T) {
		id := recordID("products", "id", map[string]any{"id": int64(42), "name": "Widget"})
		assert.Equal(t, "products_42", id)
	})

	t.Run("hash fallback is deterministic", func(t *testing.T) {
		record := map[string]any{"name": "Widget", "price": 9.99}
		first := recordID("products", "", record)
		second := recordID("products", "", record)
		assert.Equal(t, first, second)
		assert.True(t, strings.HasPrefix(first, "products_"))

		other := recordID("products", "", map[string]any{"name": "Gadget", "price": 9.99})
		assert.NotEqual(t, first, other)
	})

	t.Run("missing key value falls back to hash", func(t *testing.T) {
		id := recordID("products", "id", map[string]any{"name": "Widget"})
		assert.True(t, strings.HasPrefix(id, "products_"))
		assert.NotEqual(t, "products_Widget", id)
	})
}

func TestRecordMetadata(t *testing.T) {
	cfg := &models.TableConfig{
		ID:                    uuid.New(),
		TableName:             "products",
		PrimaryKeyColumn:      "id",
		VectorizationStrategy: models.StrategyConcatenated,
	}
	connID := uuid.New()
	record := map[string]any{"id": int64(7), "category": "tools", "stock": int64(3), "note": nil}

	md := recordMetadata(cfg, connID, []string{"category", "stock", "note"}, record)

	assert.Equal(t, "products", md["table_name"].AsString())
	assert.Equal(t, connID.String(), md["database_id"].AsString())
	assert.Equal(t, "concatenated", md["vectorization_strategy"].AsString())
	assert.NotEmpty(t, md["vectorized_at"].AsString())
	assert.Equal(t, "7", md["primary_key"].AsString())

	require.Contains(t, md, "meta_category")
	assert.Equal(t, vectorstore.String("tools"), md["meta_category"])
	assert.Equal(t, vectorstore.Int(3), md["meta_stock"])
	assert.NotContains(t, md, "meta_note")
}

func TestFetchColumns(t *testing.T) {
	cfg := &models.TableConfig{PrimaryKeyColumn: "id"}
	vectorizable := []*models.ColumnConfig{colCfg("name", 1), colCfg("description", 1)}

	t.Run("order and dedup", func(t *testing.T) {
		got := fetchColumns(cfg, vectorizable, []string{"category", "name"})
		assert.Equal(t, []string{"name", "description", "id", "category"}, got)
	})

	t.Run("empty primary key is dropped", func(t *testing.T) {
		got := fetchColumns(&models.TableConfig{}, vectorizable, nil)
		assert.Equal(t, []string{"name", "description"}, got)
	})
}
