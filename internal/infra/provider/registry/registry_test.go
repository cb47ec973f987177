package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/config"
	"course-search-service/internal/domain"
)

type stubCatalog struct{}

func (stubCatalog) Name() string { return "postgres" }

func (stubCatalog) Fetch(context.Context) ([]*domain.Course, error) { return nil, nil }

func TestNewSeedSource(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SeedConfig
		catalog  domain.SeedSource
		wantName string
		wantErr  bool
	}{
		{name: "default is embedded", cfg: config.SeedConfig{}, wantName: "embedded"},
		{name: "embedded", cfg: config.SeedConfig{Source: config.SeedEmbedded}, wantName: "embedded"},
		{name: "file", cfg: config.SeedConfig{Source: config.SeedFile, File: "courses.yaml"}, wantName: "file"},
		{name: "file with bad extension", cfg: config.SeedConfig{Source: config.SeedFile, File: "courses.txt"}, wantErr: true},
		{name: "remote", cfg: config.SeedConfig{Source: config.SeedRemote, Remote: config.RemoteEndpoint{BaseURL: "http://localhost:8081", Timeout: time.Second}}, wantName: "remote"},
		{name: "postgres", cfg: config.SeedConfig{Source: config.SeedPostgres}, catalog: stubCatalog{}, wantName: "postgres"},
		{name: "postgres without catalog", cfg: config.SeedConfig{Source: config.SeedPostgres}, wantErr: true},
		{name: "unknown", cfg: config.SeedConfig{Source: "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSeedSource(tt.cfg, tt.catalog, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}

func TestBreakerConfig(t *testing.T) {
	got := BreakerConfig(config.CBConfig{MaxRequests: 3, Interval: time.Minute, Timeout: 30 * time.Second, FailureRatio: 0.5})

	assert.Equal(t, uint32(3), got.MaxRequests)
	assert.Equal(t, time.Minute, got.Interval)
	assert.Equal(t, 30*time.Second, got.Timeout)
	assert.Equal(t, 0.5, got.FailureRatio)
	assert.Nil(t, got.IsSuccessful)
}
