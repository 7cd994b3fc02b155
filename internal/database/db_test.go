package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN("app", "s3cret", "db", "3306", "colmena")
	assert.Equal(t, "app:s3cret@tcp(db:3306)/colmena?charset=utf8mb4&parseTime=true&loc=UTC", dsn)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.True(t, cfg.ParseTime)

	assert.Equal(t, "app@tcp(db:3306)/colmena?charset=utf8mb4&parseTime=true&loc=UTC",
		MySQLDSN("app", "", "db", "3306", "colmena"))
}

func TestPostgresDSN(t *testing.T) {
	assert.Equal(t, "host=pg port=5432 user=app dbname=colmena sslmode=disable",
		PostgresDSN("app", "", "pg", "5432", "colmena", "disable"))
	assert.Equal(t, "host=pg port=5432 user=app dbname=colmena sslmode=require password=pw",
		PostgresDSN("app", "pw", "pg", "5432", "colmena", "require"))
}
