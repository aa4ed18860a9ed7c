package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cacheType string
		redisURL  string
		wantErr   bool
	}{
		{name: "memory", cacheType: "memory"},
		{name: "redis", cacheType: "redis", redisURL: "redis://localhost:6379"},
		{name: "redis with bad URL", cacheType: "redis", redisURL: "::bad::", wantErr: true},
		{name: "unknown type", cacheType: "memcached", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cacheType, tt.redisURL)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}
