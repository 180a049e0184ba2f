package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/config"
)

func TestNewPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, pg)

	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))

	// Close must tolerate the nil pool.
	pg.Close()
}

func TestPostgresPingNilReceiver(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))
	assert.Nil(t, pg.PoolHandle())
}
