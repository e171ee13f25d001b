package postgres

import (
	"testing"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestConnStringEscapesCredentials(t *testing.T) {
	cfg := &config.Postgres{
		Host:     "db.internal",
		Port:     "5432",
		Name:     "liwamenu",
		User:     "payment",
		Password: "p@ss:w/rd?",
		SSLMode:  "require",
	}

	poolConfig, err := pgxpool.ParseConfig(connString(cfg))
	require.NoError(t, err)

	conn := poolConfig.ConnConfig
	require.Equal(t, "db.internal", conn.Host)
	require.EqualValues(t, 5432, conn.Port)
	require.Equal(t, "liwamenu", conn.Database)
	require.Equal(t, "payment", conn.User)
	require.Equal(t, "p@ss:w/rd?", conn.Password)
}
