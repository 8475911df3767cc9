package outbound

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirect_SelectIP(t *testing.T) {
	t.Parallel()

	v4 := net.ParseIP("1.2.3.4")
	v6 := net.ParseIP("::1")
	addr := &Addr{IPv4: v4, IPv6: v6}

	assert.Equal(t, v4, (&Direct{Mode: DirectIPv4Only}).selectIP(addr))
	assert.Equal(t, v6, (&Direct{Mode: DirectIPv6Only}).selectIP(addr))
	assert.Equal(t, v4, (&Direct{Mode: DirectPreferIPv4}).selectIP(addr))
	assert.Equal(t, v6, (&Direct{Mode: DirectPreferIPv6}).selectIP(addr))
	assert.Nil(t, (&Direct{Mode: DirectAuto}).selectIP(addr))
}

func TestDirect_PreferIPv4_FallsBackWhenAbsent(t *testing.T) {
	t.Parallel()

	v6 := net.ParseIP("::1")
	addr := &Addr{IPv6: v6}
	assert.Equal(t, v6, (&Direct{Mode: DirectPreferIPv4}).selectIP(addr))
}

func TestDirect_Target_UsesSelectedIP(t *testing.T) {
	t.Parallel()

	d := &Direct{Mode: DirectIPv4Only}
	addr := &Addr{Host: "example.com", Port: 443, IPv4: net.ParseIP("1.2.3.4")}
	assert.Equal(t, "1.2.3.4:443", d.target(addr))
}

func TestDirect_Target_FallsBackToAddrString(t *testing.T) {
	t.Parallel()

	d := &Direct{Mode: DirectAuto}
	addr := &Addr{Host: "example.com", Port: 443}
	assert.Equal(t, "example.com:443", d.target(addr))
}

func TestDirect_DialTCP_ConnectsToLocalListener(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	host := tcpAddr.IP.String()
	port := uint16(tcpAddr.Port)

	d := NewDirect(DirectAuto, false)
	conn, err := d.DialTCP(context.Background(), &Addr{Host: host, Port: port})
	require.NoError(t, err)
	defer conn.Close()

	ln.Close()
	<-done
}

func TestDirect_DialUDP_ReturnsUsableConn(t *testing.T) {
	t.Parallel()

	d := NewDirect(DirectAuto, false)
	conn, err := d.DialUDP(context.Background(), &Addr{Host: "127.0.0.1", Port: 9999})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.WriteTo([]byte("hi"), nil)
	assert.NoError(t, err)
}
