package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_Resolve_Localhost(t *testing.T) {
	t.Parallel()

	var s System
	ipv4, ipv6, err := s.Resolve(context.Background(), "localhost")
	require.NoError(t, err)
	assert.True(t, ipv4 != nil || ipv6 != nil)
}
