package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomOrderNumberGenerator(t *testing.T) {
	gen := NewRandomOrderNumberGenerator()
	tenantID := uuid.New()

	t.Run("produces date-prefixed numbers", func(t *testing.T) {
		no, err := gen.Next(context.Background(), tenantID)
		require.NoError(t, err)

		assert.Len(t, no, 3+8+8)
		assert.Equal(t, "ORD"+time.Now().Format("20060102"), no[:11])
	})

	t.Run("consecutive numbers differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			no, err := gen.Next(context.Background(), tenantID)
			require.NoError(t, err)
			assert.False(t, seen[no], "number repeated: %s", no)
			seen[no] = true
		}
	})
}
