// Command seed provisions a local demo environment: a SQLite product catalog,
// a registered connection pointing at it, and an auto-configured table ready
// for vectorization. Safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"nlsql/internal/models"
	"nlsql/internal/repository"
	"nlsql/internal/service"
	"nlsql/internal/sourcedb"
	"nlsql/pkg/config"
	"nlsql/pkg/logger"
	"nlsql/pkg/postgres"
	"nlsql/pkg/secrets"

	"go.uber.org/zap"
)

const (
	demoConnectionName = "Demo Products (SQLite)"
	demoDatabasePath   = "data/demo_products.db"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to the metadata database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to metadata database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	cipher, err := secrets.NewCipher(cfg.Security.CredentialsKey)
	if err != nil {
		appLogger.Fatal("Failed to initialize credentials cipher", zap.Error(err))
	}

	connectionRepo := repository.NewConnectionRepository(db, appLogger)
	tableRepo := repository.NewTableConfigRepository(db, appLogger)
	discovery := service.NewDiscoveryService(
		connectionRepo, tableRepo, cipher, &cfg.Vectorization, embeddingModelName(cfg), appLogger)

	appLogger.Info("Seeding demo environment...")

	if err := createDemoDatabase(appLogger); err != nil {
		appLogger.Fatal("Failed to create demo database", zap.Error(err))
	}

	conn, err := registerDemoConnection(ctx, connectionRepo, discovery, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to register demo connection", zap.Error(err))
	}

	tableCfg, err := discovery.AutoConfigureTable(ctx, conn.ID, "products")
	if err != nil {
		appLogger.Fatal("Failed to auto-configure demo table", zap.Error(err))
	}

	appLogger.Info("Demo environment ready",
		zap.String("connection_id", conn.ID.String()),
		zap.String("table_config_id", tableCfg.ID.String()),
		zap.String("strategy", string(tableCfg.VectorizationStrategy)),
		zap.Bool("enabled", tableCfg.IsEnabled),
	)
}

// embeddingModelName reads the configured embedding model without
// constructing an LLM client; seeding must work offline.
func embeddingModelName(cfg *config.Config) string {
	if cfg.LLM.Provider == "openai" {
		return cfg.LLM.OpenAI.EmbeddingModel
	}
	return cfg.LLM.GigaChat.EmbeddingModel
}

// createDemoDatabase builds the SQLite catalog the demo connection points
// at. Existing data is left alone.
func createDemoDatabase(logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(demoDatabasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sourcedb.Open(&models.DatabaseConnection{
		DBType:       models.DBTypeSQLite,
		DatabaseName: demoDatabasePath,
	}, "")
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		description TEXT,
		category VARCHAR(60),
		price REAL,
		stock INTEGER,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Info("Demo database already populated", zap.Int("products", count))
		return nil
	}

	products := []struct {
		name        string
		description string
		category    string
		price       float64
		stock       int
	}{
		{"Trailblazer Hiking Boots", "Waterproof leather boots with reinforced ankle support and a deep-lug rubber sole for rocky terrain.", "footwear", 149.90, 34},
		{"Summit 40L Backpack", "Lightweight trekking backpack with an adjustable torso, rain cover and hydration sleeve.", "gear", 89.00, 21},
		{"Glacier Insulated Bottle", "Double-wall stainless steel bottle that keeps drinks cold for 24 hours or hot for 12.", "accessories", 27.50, 120},
		{"Basecamp 2P Tent", "Freestanding two-person tent with aluminum poles and a full-coverage fly, packs down to 42 cm.", "gear", 219.00, 12},
		{"Ridgeline Rain Jacket", "Breathable 2.5-layer shell with taped seams, pit zips and an adjustable storm hood.", "apparel", 129.00, 47},
		{"Ember Titanium Stove", "Folding canister stove weighing 45 grams with a piezo igniter and simmer control.", "gear", 64.90, 58},
		{"Northstar Headlamp", "400-lumen rechargeable headlamp with red night mode and IPX5 water resistance.", "accessories", 39.90, 95},
		{"Drift Merino Base Layer", "Midweight merino wool crew that regulates temperature and resists odor on multi-day trips.", "apparel", 74.00, 63},
		{"Cascade Trekking Poles", "Collapsible carbon poles with cork grips and tungsten tips, 210 grams per pair.", "gear", 109.00, 28},
		{"Lakeside Camp Chair", "Compact folding chair rated to 120 kg, sets up in seconds and stows into a side pocket.", "furniture", 49.90, 40},
		{"Aurora Down Quilt", "850-fill down quilt rated to -5 C with a draft collar and pad attachment straps.", "gear", 289.00, 9},
		{"Pathfinder GPS Watch", "Multi-band GPS watch with topo maps, 16-day battery life and barometric altimeter.", "electronics", 449.00, 15},
	}

	stmt, err := db.Prepare(`INSERT INTO products (name, description, category, price, stock) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.Exec(p.name, p.description, p.category, p.price, p.stock); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.name, err)
		}
	}

	logger.Info("Demo database created",
		zap.String("path", demoDatabasePath),
		zap.Int("products", len(products)),
	)
	return nil
}

// registerDemoConnection creates the demo connection once; later runs reuse
// the stored row.
func registerDemoConnection(
	ctx context.Context,
	repo *repository.ConnectionRepository,
	discovery *service.DiscoveryService,
	logger *zap.Logger,
) (*models.DatabaseConnection, error) {
	existing, err := repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, conn := range existing {
		if conn.Name == demoConnectionName {
			logger.Info("Demo connection already registered", zap.String("id", conn.ID.String()))
			return conn, nil
		}
	}

	conn := &models.DatabaseConnection{
		Name:         demoConnectionName,
		DBType:       models.DBTypeSQLite,
		DatabaseName: demoDatabasePath,
	}
	if err := discovery.CreateConnection(ctx, conn, ""); err != nil {
		return nil, err
	}
	return conn, nil
}
