package service

import (
	"testing"

	"nlsql/internal/models"
	"nlsql/internal/sourcedb"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeColumn(t *testing.T) {
	tests := []struct {
		name         string
		column       sourcedb.ColumnInfo
		isText       bool
		isNumeric    bool
		vectorizable bool
		score        float64
		recommended  bool
	}{
		{
			name:         "text column",
			column:       sourcedb.ColumnInfo{Name: "body", Type: "TEXT"},
			isText:       true,
			vectorizable: true,
			score:        0.9,
			recommended:  true,
		},
		{
			name:         "longtext scores like text",
			column:       sourcedb.ColumnInfo{Name: "notes", Type: "longtext"},
			isText:       true,
			vectorizable: true,
			score:        0.9,
			recommended:  true,
		},
		{
			name:         "varchar with prose name",
			column:       sourcedb.ColumnInfo{Name: "description", Type: "varchar(255)"},
			isText:       true,
			vectorizable: true,
			score:        0.8,
			recommended:  true,
		},
		{
			name:         "varchar with plain name",
			column:       sourcedb.ColumnInfo{Name: "email", Type: "VARCHAR(100)"},
			isText:       true,
			vectorizable: true,
			score:        0.5,
			recommended:  false,
		},
		{
			name:         "nvarchar counts as varchar",
			column:       sourcedb.ColumnInfo{Name: "content", Type: "NVARCHAR(MAX)"},
			isText:       true,
			vectorizable: true,
			score:        0.8,
			recommended:  true,
		},
		{
			name:        "jsonb is text but not vectorizable",
			column:      sourcedb.ColumnInfo{Name: "payload", Type: "jsonb"},
			isText:      true,
			score:       0.7,
			recommended: true,
		},
		{
			name:      "integer",
			column:    sourcedb.ColumnInfo{Name: "id", Type: "INTEGER"},
			isNumeric: true,
		},
		{
			name:      "decimal",
			column:    sourcedb.ColumnInfo{Name: "price", Type: "decimal(10,2)"},
			isNumeric: true,
		},
		{
			name:   "timestamp is neither",
			column: sourcedb.ColumnInfo{Name: "created_at", Type: "timestamp"},
		},
		{
			name:   "blob is text-like but scores zero",
			column: sourcedb.ColumnInfo{Name: "avatar", Type: "BLOB"},
			isText: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AnalyzeColumn(tt.column)
			assert.Equal(t, tt.column.Name, p.Name)
			assert.Equal(t, tt.isText, p.IsText, "IsText")
			assert.Equal(t, tt.isNumeric, p.IsNumeric, "IsNumeric")
			assert.Equal(t, tt.vectorizable, p.Vectorizable, "Vectorizable")
			assert.InDelta(t, tt.score, p.PotentialScore, 1e-9)
			assert.Equal(t, tt.recommended, p.Recommended, "Recommended")
		})
	}
}

func TestVectorizationPotential(t *testing.T) {
	t.Run("no columns means no potential", func(t *testing.T) {
		p := &models.TableProfile{}
		assert.Zero(t, vectorizationPotential(p, 0))
	})

	t.Run("blends ratios and high scorers", func(t *testing.T) {
		p := &models.TableProfile{
			Columns:             make([]models.ColumnProfile, 4),
			TextColumns:         2,
			VectorizableColumns: 2,
			RowEstimate:         1000,
		}
		// 0.5*0.4 + 0.5*0.6 + 0.2*1
		assert.InDelta(t, 0.7, vectorizationPotential(p, 1), 1e-9)
	})

	t.Run("tiny tables are discounted", func(t *testing.T) {
		p := &models.TableProfile{
			Columns:             make([]models.ColumnProfile, 4),
			TextColumns:         2,
			VectorizableColumns: 2,
			RowEstimate:         50,
		}
		assert.InDelta(t, 0.35, vectorizationPotential(p, 1), 1e-9)
	})

	t.Run("unknown row count is not discounted", func(t *testing.T) {
		p := &models.TableProfile{
			Columns:             make([]models.ColumnProfile, 4),
			TextColumns:         2,
			VectorizableColumns: 2,
			RowEstimate:         0,
		}
		assert.InDelta(t, 0.7, vectorizationPotential(p, 1), 1e-9)
	})

	t.Run("clamped to one", func(t *testing.T) {
		p := &models.TableProfile{
			Columns:             make([]models.ColumnProfile, 3),
			TextColumns:         3,
			VectorizableColumns: 3,
			RowEstimate:         1000,
		}
		assert.Equal(t, 1.0, vectorizationPotential(p, 3))
	})
}

func TestRecommendStrategy(t *testing.T) {
	assert.Equal(t, models.StrategyNone, recommendStrategy(0))
	assert.Equal(t, models.StrategySingleColumn, recommendStrategy(1))
	assert.Equal(t, models.StrategyConcatenated, recommendStrategy(2))
	assert.Equal(t, models.StrategyConcatenated, recommendStrategy(3))
	assert.Equal(t, models.StrategyWeighted, recommendStrategy(4))
	assert.Equal(t, models.StrategyWeighted, recommendStrategy(9))
}
