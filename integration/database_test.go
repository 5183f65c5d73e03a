//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseSQLSource migrates, imports and queries one SQL backend through the CLI.
func exerciseSQLSource(t *testing.T, backend, connStr string) {
	t.Helper()
	env := []string{"RELWATCH_SOURCE=" + backend, "RELWATCH_SOURCE_DB_CONNECT=" + connStr}

	_, err := runRelwatch(t, env, "source", "migrate")
	require.NoError(t, err)

	_, err = runRelwatch(t, env, "source", "import", "--dataset", datasetPath)
	require.NoError(t, err)

	// A second import replaces the releases instead of failing on duplicates
	_, err = runRelwatch(t, env, "source", "import", "--dataset", datasetPath)
	require.NoError(t, err)

	out, err := runRelwatch(t, env, "releases", "--output", "json")
	require.NoError(t, err)
	var releases []string
	require.NoError(t, json.Unmarshal([]byte(out), &releases))
	assert.Equal(t, []string{"2.3.0", "2.4.0"}, releases)

	out, err = runRelwatch(t, env, "compare", "--now", fixedNow,
		"--base-release", "2.3.0", "--target-release", "2.4.0", "--output", "json")
	require.NoError(t, err)
	var snapshot schema.ComparisonSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Len(t, snapshot.ChartPoints, 24)
	assert.Equal(t, -4, snapshot.Delta[schema.KnownIssuesTotal].Value)
	assert.Equal(t, 14, snapshot.Delta["crash_free_sessions_lost"].Value)

	out, err = runRelwatch(t, env, "source", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.SourceStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, backend, status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalReleases)
	assert.Equal(t, "relwatch", status.Database)

	_, err = runRelwatch(t, env, "source", "migrate", "--target-version", "0")
	require.NoError(t, err)
}

// TestRelwatchWithMySQL tests the relwatch CLI with a MySQL source.
func TestRelwatchWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "relwatch",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/relwatch", host, port.Port())
	exerciseSQLSource(t, string(schema.MySQLSource), connStr)
}

// TestRelwatchWithPostgres tests the relwatch CLI with a PostgreSQL source.
func TestRelwatchWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
			"POSTGRES_DB":               "relwatch",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=relwatch sslmode=disable", host, port.Port())
	exerciseSQLSource(t, string(schema.PostgreSQLSource), connStr)
}
