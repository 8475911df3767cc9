package cmd

import (
	"context"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	socks5server "github.com/txthinking/socks5"
	"go.uber.org/zap"

	"github.com/apernet/aclengine/acl"
	"github.com/apernet/aclengine/outbound"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load a rule file and serve as a local SOCKS5 forwarder",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	logger.Info("serve mode")
	acl.SetLogger(logger)

	if err := viper.ReadInConfig(); err != nil {
		logger.Fatal("failed to read config", zap.Error(err))
	}
	var config appConfig
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("failed to parse config", zap.Error(err))
	}

	router, err := config.buildRouter()
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	listenAddr, err := config.listenAddr()
	if err != nil {
		logger.Fatal("invalid listen address", zap.Error(err))
	}

	srv, err := socks5server.NewClassicServer(listenAddr.String(), "0.0.0.0", "", "", 0, 0)
	if err != nil {
		logger.Fatal("failed to initialize SOCKS5 server", zap.Error(err))
	}

	logger.Info("aclengine up and running", zap.String("listen", listenAddr.String()))
	if err := srv.ListenAndServe(&routedHandler{router: router}); err != nil {
		logger.Fatal("failed to serve", zap.Error(err))
	}
}

// routedHandler implements socks5.Handler by dialing every accepted
// SOCKS5 request through a single acl.Router, so the engine's compiled
// rules decide which outbound transport actually carries the traffic.
type routedHandler struct {
	router *acl.Router
}

func (h *routedHandler) TCPHandle(s *socks5server.Server, conn *net.TCPConn, req *socks5server.Request) error {
	ctx := context.Background()
	addr, err := parseSocks5Addr(req.Address())
	if err != nil {
		return replyFailure(s, conn, req, err)
	}

	upstream, err := h.router.DialTCP(ctx, addr)
	if err != nil {
		logger.Debug("tcp dial failed", zap.String("addr", addr.String()), zap.Error(err))
		return replyFailure(s, conn, req, err)
	}
	defer upstream.Close()

	replyHeader, err := socks5server.NewReply(socks5server.RepSuccess, socks5server.ATIPv4, net.IPv4zero, []byte{0, 0})
	if err != nil {
		return err
	}
	if _, err := replyHeader.WriteTo(conn); err != nil {
		return err
	}

	return pipe(conn, upstream)
}

func (h *routedHandler) UDPHandle(s *socks5server.Server, addr *net.UDPAddr, d *socks5server.Datagram) error {
	ctx := context.Background()
	target, err := parseSocks5Addr(d.Address())
	if err != nil {
		return err
	}

	upstream, err := h.router.DialUDP(ctx, target)
	if err != nil {
		logger.Debug("udp dial failed", zap.String("addr", target.String()), zap.Error(err))
		return err
	}
	defer upstream.Close()

	if _, err := upstream.WriteTo(d.Data, nil); err != nil {
		return err
	}

	buf := make([]byte, 64*1024)
	n, _, err := upstream.ReadFrom(buf)
	if err != nil {
		return err
	}

	reply := socks5server.NewDatagram(d.Atyp, d.DstAddr, d.DstPort, buf[:n])
	_, err = s.UDPConn.WriteToUDP(reply.Bytes(), addr)
	return err
}

func replyFailure(s *socks5server.Server, conn *net.TCPConn, req *socks5server.Request, cause error) error {
	reply, err := socks5server.NewReply(socks5server.RepHostUnreachable, socks5server.ATIPv4, net.IPv4zero, []byte{0, 0})
	if err != nil {
		return err
	}
	if _, werr := reply.WriteTo(conn); werr != nil {
		return werr
	}
	return cause
}

func parseSocks5Addr(hostport string) (*outbound.Addr, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, err
	}
	return &outbound.Addr{Host: host, Port: uint16(port)}, nil
}

// pipe copies bytes in both directions between a client connection and
// an upstream connection until either side closes or errors.
func pipe(client net.Conn, upstream outbound.TCPConn) error {
	errCh := make(chan error, 2)
	go func() {
		_, err := copyConn(upstream, client)
		errCh <- err
	}()
	go func() {
		_, err := copyConn(client, upstream)
		errCh <- err
	}()
	return <-errCh
}

func copyConn(dst net.Conn, src net.Conn) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}
		if err != nil {
			return total, err
		}
	}
}
