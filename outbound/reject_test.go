package outbound_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apernet/aclengine/outbound"
)

func TestReject_DialTCP_AlwaysFails(t *testing.T) {
	t.Parallel()

	var r outbound.Reject
	conn, err := r.DialTCP(context.Background(), &outbound.Addr{Host: "example.com", Port: 443})
	require.Error(t, err)
	assert.Nil(t, conn)
}

func TestReject_DialUDP_AlwaysFails(t *testing.T) {
	t.Parallel()

	var r outbound.Reject
	conn, err := r.DialUDP(context.Background(), &outbound.Addr{Host: "example.com", Port: 53})
	require.Error(t, err)
	assert.Nil(t, conn)
}
