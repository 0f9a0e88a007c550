package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nlsql/internal/models"
	"nlsql/internal/repository"
	"nlsql/internal/sourcedb"
	"nlsql/pkg/config"
	"nlsql/pkg/secrets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type vocabularies driving column classification. Matching is by substring
// against the lowercased declared type, so dialect spellings like
// "varchar(100)" or "int4" still classify.
var (
	textTypes = []string{
		"varchar", "char", "text", "nvarchar", "nchar", "ntext",
		"longtext", "mediumtext", "tinytext", "string",
		"json", "jsonb", "xml", "clob", "blob",
	}
	numericTypes = []string{
		"int", "integer", "bigint", "smallint", "tinyint",
		"decimal", "numeric", "float", "double", "real",
		"money", "smallmoney",
	}

	// Column names that usually hold prose; they upgrade a plain varchar.
	proseNameHints = []string{"description", "comment", "content"}
)

// Tables need potential above these marks to be recommended for
// vectorization and to start enabled after auto-configuration.
const (
	recommendPotential = 0.5
	enablePotential    = 0.3
)

type DiscoveryService struct {
	connections *repository.ConnectionRepository
	tables      *repository.TableConfigRepository
	cipher      *secrets.Cipher
	vcfg        *config.VectorizationConfig
	// embeddingModel is stamped onto auto-configured tables so the pipeline
	// records which model produced a collection.
	embeddingModel string
	logger         *zap.Logger
}

func NewDiscoveryService(
	connections *repository.ConnectionRepository,
	tables *repository.TableConfigRepository,
	cipher *secrets.Cipher,
	vcfg *config.VectorizationConfig,
	embeddingModel string,
	logger *zap.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		connections:    connections,
		tables:         tables,
		cipher:         cipher,
		vcfg:           vcfg,
		embeddingModel: embeddingModel,
		logger:         logger,
	}
}

// CreateConnection probes and persists a source database registration. The
// plaintext password is encrypted at rest; a connection that does not answer
// is never stored.
func (s *DiscoveryService) CreateConnection(ctx context.Context, conn *models.DatabaseConnection, password string) error {
	if !conn.DBType.Valid() {
		return fmt.Errorf("unsupported database type: %s", conn.DBType)
	}
	if conn.Name == "" {
		return fmt.Errorf("connection name is required")
	}

	if err := s.probe(ctx, conn, password); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	encrypted, err := s.cipher.Encrypt(password)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	now := time.Now()
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	conn.EncryptedPassword = encrypted
	conn.IsActive = true
	conn.LastTested = &now
	conn.TestStatus = models.TestStatusSuccess
	conn.CreatedAt = now
	conn.UpdatedAt = now

	if err := s.connections.Create(ctx, conn); err != nil {
		return fmt.Errorf("failed to persist connection: %w", err)
	}

	s.logger.Info("Database connection registered",
		zap.String("name", conn.Name),
		zap.String("db_type", string(conn.DBType)),
	)
	return nil
}

// TestResult reports one connectivity probe.
type TestResult struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	TestedAt time.Time `json:"tested_at"`
}

// TestConnection probes a stored connection and records the outcome on the
// connection row.
func (s *DiscoveryService) TestConnection(ctx context.Context, id uuid.UUID) (*TestResult, error) {
	conn, err := s.connections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &TestResult{Success: true, TestedAt: time.Now()}
	status := models.TestStatusSuccess

	db, err := openSource(s.cipher, conn)
	if err == nil {
		defer db.Close()
		err = pingWithTimeout(ctx, db)
	}
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		status = models.TestStatusFailed
	}

	if err := s.connections.UpdateTestStatus(ctx, id, status, result.TestedAt); err != nil {
		s.logger.Warn("Failed to record test status",
			zap.String("connection_id", id.String()), zap.Error(err))
	}
	return result, nil
}

// ListConnections returns registered connections, active ones by default.
func (s *DiscoveryService) ListConnections(ctx context.Context, includeInactive bool) ([]*models.DatabaseConnection, error) {
	return s.connections.List(ctx, includeInactive)
}

// DeactivateConnection soft-deletes a connection; its configs and job
// history stay resolvable.
func (s *DiscoveryService) DeactivateConnection(ctx context.Context, id uuid.UUID) error {
	if err := s.connections.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Database connection deactivated", zap.String("connection_id", id.String()))
	return nil
}

// DiscoverSchema profiles every table in the source database and reports
// which ones are worth vectorizing. The source database is only read.
func (s *DiscoveryService) DiscoverSchema(ctx context.Context, connectionID uuid.UUID) (*models.SchemaReport, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	db, err := openSource(s.cipher, conn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	intro, err := sourcedb.NewIntrospector(db, conn.DBType, "")
	if err != nil {
		return nil, err
	}

	tables, err := intro.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	report := &models.SchemaReport{
		ConnectionID: connectionID,
		DatabaseName: conn.DatabaseName,
		GeneratedAt:  time.Now(),
	}
	for _, table := range tables {
		profile, err := s.AnalyzeTable(ctx, intro, table)
		if err != nil {
			s.logger.Warn("Skipping table after analysis failure",
				zap.String("table", table.Name), zap.Error(err))
			continue
		}
		report.Tables = append(report.Tables, *profile)
	}

	s.logger.Info("Schema discovery completed",
		zap.String("database", conn.DatabaseName),
		zap.Int("tables", len(report.Tables)),
	)
	return report, nil
}

// AnalyzeTable profiles each column and derives the table's vectorization
// potential and recommended content strategy.
func (s *DiscoveryService) AnalyzeTable(ctx context.Context, intro sourcedb.Introspector, table sourcedb.TableInfo) (*models.TableProfile, error) {
	columns, err := intro.Columns(ctx, table.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table.Name, err)
	}

	profile := &models.TableProfile{
		Name:   table.Name,
		Schema: table.Schema,
	}

	highScore := 0
	for _, col := range columns {
		cp := AnalyzeColumn(col)
		profile.Columns = append(profile.Columns, cp)
		if cp.IsText {
			profile.TextColumns++
		}
		if cp.Vectorizable {
			profile.VectorizableColumns++
		}
		if cp.PotentialScore > 0.7 {
			highScore++
		}
	}

	pk, err := intro.PrimaryKey(ctx, table.Name)
	if err != nil {
		s.logger.Warn("Failed to resolve primary key",
			zap.String("table", table.Name), zap.Error(err))
	}
	profile.PrimaryKey = pk
	profile.RowEstimate = intro.RowEstimate(ctx, table.Name)
	profile.Potential = vectorizationPotential(profile, highScore)
	profile.Recommended = profile.Potential > recommendPotential
	profile.RecommendedStrategy = recommendStrategy(profile.VectorizableColumns)
	return profile, nil
}

// AnalyzeColumn classifies one column's fitness for embedding from its
// declared type and name alone; no data is sampled.
func AnalyzeColumn(col sourcedb.ColumnInfo) models.ColumnProfile {
	typeLower := strings.ToLower(col.Type)
	nameLower := strings.ToLower(col.Name)

	isText := containsAny(typeLower, textTypes)
	isNumeric := containsAny(typeLower, numericTypes)
	vectorizable := isText &&
		(strings.Contains(typeLower, "text") || strings.Contains(typeLower, "varchar"))

	// First match wins. "text" also covers longtext/mediumtext/tinytext.
	var score float64
	switch {
	case strings.Contains(typeLower, "text"):
		score = 0.9
	case strings.Contains(typeLower, "varchar") && containsAny(nameLower, proseNameHints):
		score = 0.8
	case strings.Contains(typeLower, "varchar"):
		score = 0.5
	case strings.Contains(typeLower, "json"):
		score = 0.7
	}

	return models.ColumnProfile{
		Name:           col.Name,
		Type:           col.Type,
		IsText:         isText,
		IsNumeric:      isNumeric,
		Vectorizable:   vectorizable,
		PotentialScore: score,
		Recommended:    score > 0.6,
	}
}

// vectorizationPotential blends column ratios with a bonus per high-scoring
// column, discounted for tiny tables whose content rarely justifies a
// collection. Result is clamped to [0,1].
func vectorizationPotential(p *models.TableProfile, highScore int) float64 {
	if len(p.Columns) == 0 {
		return 0
	}

	textRatio := float64(p.TextColumns) / float64(len(p.Columns))
	vectorizableRatio := float64(p.VectorizableColumns) / float64(len(p.Columns))
	potential := textRatio*0.4 + vectorizableRatio*0.6 + 0.2*float64(highScore)

	if p.RowEstimate > 0 && p.RowEstimate < 100 {
		potential *= 0.5
	}
	if potential > 1 {
		potential = 1
	}
	return potential
}

// recommendStrategy picks the content strategy from how many columns are
// worth embedding.
func recommendStrategy(vectorizable int) models.Strategy {
	switch {
	case vectorizable == 0:
		return models.StrategyNone
	case vectorizable == 1:
		return models.StrategySingleColumn
	case vectorizable <= 3:
		return models.StrategyConcatenated
	default:
		return models.StrategyWeighted
	}
}

// AutoConfigureTable persists discovery's recommendation for one table: a
// TableConfig plus per-column settings. The config starts enabled only when
// the table shows real potential; re-running refreshes the existing config
// without changing its identity.
func (s *DiscoveryService) AutoConfigureTable(ctx context.Context, connectionID uuid.UUID, tableName string) (*models.TableConfig, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	db, err := openSource(s.cipher, conn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	intro, err := sourcedb.NewIntrospector(db, conn.DBType, "")
	if err != nil {
		return nil, err
	}

	profile, err := s.AnalyzeTable(ctx, intro, sourcedb.TableInfo{Name: tableName})
	if err != nil {
		return nil, err
	}
	if len(profile.Columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", tableName, models.ErrNotFound)
	}

	schemaName := ""
	if conn.DBType == models.DBTypePostgres {
		schemaName = "public"
	}

	now := time.Now()
	cfg := &models.TableConfig{
		ID:                    uuid.New(),
		DatabaseConnectionID:  connectionID,
		TableName:             tableName,
		SchemaName:            schemaName,
		VectorizationStrategy: profile.RecommendedStrategy,
		PrimaryKeyColumn:      profile.PrimaryKey,
		BatchSize:             s.vcfg.BatchSize,
		EmbeddingModel:        s.embeddingModel,
		IsEnabled:             profile.Potential > enablePotential,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.tables.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to persist table config: %w", err)
	}

	columns := make([]*models.ColumnConfig, 0, len(profile.Columns))
	for _, col := range profile.Columns {
		switch {
		case col.Vectorizable:
			columns = append(columns, &models.ColumnConfig{
				ID:              uuid.New(),
				TableConfigID:   cfg.ID,
				ColumnName:      col.Name,
				ColumnType:      col.Type,
				ShouldVectorize: col.Recommended,
				EmbeddingWeight: col.PotentialScore,
				CreatedAt:       now,
			})
		case col.Name == profile.PrimaryKey:
			// The key rides along as metadata so search hits can be traced
			// back to their source rows.
			columns = append(columns, &models.ColumnConfig{
				ID:            uuid.New(),
				TableConfigID: cfg.ID,
				ColumnName:    col.Name,
				ColumnType:    col.Type,
				IsMetadata:    true,
				CreatedAt:     now,
			})
		}
	}
	if err := s.tables.ReplaceColumns(ctx, cfg.ID, columns); err != nil {
		return nil, fmt.Errorf("failed to persist column configs: %w", err)
	}

	s.logger.Info("Table auto-configured",
		zap.String("table", tableName),
		zap.String("strategy", string(cfg.VectorizationStrategy)),
		zap.Bool("enabled", cfg.IsEnabled),
		zap.Float64("potential", profile.Potential),
	)
	return cfg, nil
}

// probe opens a transient handle and pings it.
func (s *DiscoveryService) probe(ctx context.Context, conn *models.DatabaseConnection, password string) error {
	db, err := sourcedb.Open(conn, password)
	if err != nil {
		return err
	}
	defer db.Close()
	return pingWithTimeout(ctx, db)
}
