package outbound

import (
	"context"
	"fmt"
)

// Reject is an outbound that fails every dial immediately, used for
// rules that should actively drop a connection rather than route it.
type Reject struct{}

func (Reject) DialTCP(context.Context, *Addr) (TCPConn, error) {
	return nil, &connectError{err: fmt.Errorf("connection rejected by ACL rule")}
}

func (Reject) DialUDP(context.Context, *Addr) (UDPConn, error) {
	return nil, &connectError{err: fmt.Errorf("connection rejected by ACL rule")}
}

// connectError wraps a dial failure. It stays a plain error type in this
// package (rather than acl.OutboundError) because acl.Router itself
// implements Outbound, so outbound cannot import acl without a cycle;
// callers that want the richer acl taxonomy wrap this at the acl layer.
type connectError struct {
	err error
}

func (e *connectError) Error() string { return fmt.Sprintf("outbound dial failed: %v", e.err) }
func (e *connectError) Unwrap() error { return e.err }
