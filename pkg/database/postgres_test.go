package database

import (
	"github.com/Geniuskaa/race_results/internal/config"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestConnString(t *testing.T) {
	conf := config.Database{
		Hostname: "db.local",
		Name:     "races",
		User:     "timer",
		Pass:     "p@ss:word",
		Port:     5432,
	}

	parsed, err := pgxpool.ParseConfig(ConnString(conf))
	require.NoError(t, err)
	assert.Equal(t, "p@ss:word", parsed.ConnConfig.Password)
	assert.Equal(t, "db.local", parsed.ConnConfig.Host)
	assert.Equal(t, uint16(5432), parsed.ConnConfig.Port)
	assert.Equal(t, "timer", parsed.ConnConfig.User)
	assert.Equal(t, "races", parsed.ConnConfig.Database)
}

func TestConnString_NoUser(t *testing.T) {
	s := ConnString(config.Database{Hostname: "localhost", Name: "races", Port: 5432})
	assert.Equal(t, "postgres://localhost:5432/races", s)
}
