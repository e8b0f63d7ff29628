//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackend migrates the store, records one onset run, then checks
// status, export and clear against a database backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	in := writeScene(t, home)
	db := []string{"--run-backend", backend, "--run-db-connect", connStr}

	_, err := runCommand(t, home, append([]string{"runs", "clear"}, db...)...)
	require.NoError(t, err)

	_, err = runCommand(t, home, append([]string{"runs", "migrate"}, db...)...)
	require.NoError(t, err)

	args := append([]string{"onset", "--output", "csv"}, in.onsetArgs()...)
	_, err = runCommand(t, home, append(args, db...)...)
	require.NoError(t, err)

	stdout, err := runCommand(t, home, append([]string{"runs", "status"}, db...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Connected: true")
	assert.Contains(t, stdout, "Total Runs: 1")
	assert.Contains(t, stdout, "Total Cells Kept: 4")

	_, err = runCommand(t, home, append([]string{"runs", "export", "--output-file", home + "/history"}, db...)...)
	require.NoError(t, err)
	assert.FileExists(t, home+"/history.cells.parquet")

	_, err = runCommand(t, home, append([]string{"runs", "migrate", "--target-version", "0"}, db...)...)
	require.NoError(t, err)
}

// TestRunsWithMySQL tests run tracking with a MySQL backend.
func TestRunsWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "s1snow",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/s1snow?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestRunsWithPostgres tests run tracking with a PostgreSQL backend.
func TestRunsWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
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

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}
