//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

const (
	testDatabase = "notifycenter_test"
	testUser     = "center"
	testPassword = "center"
)

func setupMySQLContainer(t require.TestingT, ctx context.Context) (string, func()) {
	container, err := tcmysql.RunContainer(
		ctx,
		tcmysql.WithDatabase(testDatabase),
		tcmysql.WithUsername(testUser),
		tcmysql.WithPassword(testPassword),
	)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("3306/tcp"))
	require.NoError(t, err)

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&multiStatements=true",
		testUser, testPassword, host, port.Port(), testDatabase)

	dbConn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()

	applySchema(t, dbConn)

	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

// applySchema loads db/schema.sql from the module root.
func applySchema(t require.TestingT, dbConn *sql.DB) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	schema, err := os.ReadFile(filepath.Join(wd, "..", "..", "..", "db", "schema.sql"))
	require.NoError(t, err)

	_, err = dbConn.Exec(string(schema))
	require.NoError(t, err)
}
