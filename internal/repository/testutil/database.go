package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/payform/acceptance/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

// TestDatabase represents an isolated schema inside a shared postgres container
type TestDatabase struct {
	DB         *sql.DB
	URL        string
	SchemaName string
	masterDB   *sql.DB
}

// sharedContainer starts one postgres container per test binary.
// The testcontainers reaper removes it when the process exits.
func sharedContainer(ctx context.Context) (string, error) {
	containerOnce.Do(func() {
		pgC, err := postgres.Run(ctx,
			postgresImage,
			postgres.WithDatabase("app"),
			postgres.WithUsername("app"),
			postgres.WithPassword("pass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			containerErr = fmt.Errorf("failed to start postgres container: %w", err)
			return
		}

		containerURL, containerErr = pgC.ConnectionString(ctx, "sslmode=disable")
	})
	return containerURL, containerErr
}

// SetupTestDatabase creates an isolated schema holding the payment tables
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	masterURL, err := sharedContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start test database: %v", err)
	}

	masterDB, err := sql.Open("postgres", masterURL)
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}

	// Generate unique schema name for this test
	schemaName := fmt.Sprintf("test_schema_%d_%d", time.Now().UnixNano(), rand.Intn(10000))

	if _, err := masterDB.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", schemaName)); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	testURL, err := withSearchPath(masterURL, schemaName)
	if err != nil {
		masterDB.Close()
		t.Fatalf("Failed to build test connection string: %v", err)
	}

	testDB, err := sql.Open("postgres", testURL)
	if err != nil {
		masterDB.ExecContext(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schemaName))
		masterDB.Close()
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	td := &TestDatabase{
		DB:         testDB,
		URL:        testURL,
		SchemaName: schemaName,
		masterDB:   masterDB,
	}

	if err := database.ApplySchema(ctx, testDB); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return td
}

// Pool opens a pgx pool on the same schema; it is closed with the test
func (td *TestDatabase) Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), td.URL)
	if err != nil {
		t.Fatalf("Failed to open pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// Teardown drops the test schema
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.masterDB != nil {
		_, err := td.masterDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName))
		if err != nil {
			t.Logf("Warning: Failed to drop test schema %s: %v", td.SchemaName, err)
		}
		td.masterDB.Close()
	}
}

func withSearchPath(rawURL, schema string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
