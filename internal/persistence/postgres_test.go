package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/config"
)

func TestParsePoolConfig(t *testing.T) {
	poolCfg, err := parsePoolConfig(config.PostgresConfig{
		DSN:            "postgres://tutor:pw@localhost:5432/marketplace",
		MaxConns:       8,
		MinConns:       20,
		ConnMaxIdleSec: 30,
		ConnMaxLifeSec: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolCfg.MaxConns)
	assert.Zero(t, poolCfg.MinConns)
	assert.Equal(t, 30*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, 5*time.Minute, poolCfg.MaxConnLifetime)
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNilHandlesAreSafe(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))
	assert.Nil(t, pg.PoolHandle())
	pg.Close()

	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	assert.Error(t, r.PublishJSON(context.Background(), "notifications:1", map[string]string{}))
	r.Close()
}
