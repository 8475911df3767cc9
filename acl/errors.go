package acl

import "fmt"

// ParseError reports a failure while parsing rule text. Line is nil when
// the error is not tied to a specific source line (e.g. a file read
// failure).
type ParseError struct {
	Line    *int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line != nil {
		return fmt.Sprintf("parse error at line %d: %s", *e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func newParseError(line int, format string, args ...any) *ParseError {
	l := line
	return &ParseError{Line: &l, Message: fmt.Sprintf(format, args...)}
}

func newParseErrorNoLine(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// InvalidRuleFormatError reports a structurally malformed rule line.
type InvalidRuleFormatError struct{ Detail string }

func (e *InvalidRuleFormatError) Error() string {
	return fmt.Sprintf("invalid rule format: %s", e.Detail)
}

// InvalidAddressError reports an address pattern the compiler could not
// turn into a matcher.
type InvalidAddressError struct{ Detail string }

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address: %s", e.Detail)
}

// InvalidProtoPortError reports a malformed protocol/port specification.
type InvalidProtoPortError struct{ Detail string }

func (e *InvalidProtoPortError) Error() string {
	return fmt.Sprintf("invalid protocol/port: %s", e.Detail)
}

// UnknownOutboundError reports a rule referencing an outbound name that
// was not supplied to Compile.
type UnknownOutboundError struct{ Name string }

func (e *UnknownOutboundError) Error() string {
	return fmt.Sprintf("unknown outbound: %s", e.Name)
}

// InvalidCidrError reports a malformed CIDR literal.
type InvalidCidrError struct{ Detail string }

func (e *InvalidCidrError) Error() string {
	return fmt.Sprintf("invalid CIDR: %s", e.Detail)
}

// InvalidIPError reports a malformed IP literal (address or hijack target).
type InvalidIPError struct{ Detail string }

func (e *InvalidIPError) Error() string {
	return fmt.Sprintf("invalid IP address: %s", e.Detail)
}

// ConfigError reports a configuration-level failure.
type ConfigError struct{ Detail string }

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Detail)
}

// ResolveError reports a DNS resolution failure.
type ResolveError struct{ Detail string }

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve error: %s", e.Detail)
}

// OutboundErrorKind classifies dialer failures so callers can decide
// whether to retry.
type OutboundErrorKind int

const (
	ConnectionFailed OutboundErrorKind = iota
	Timeout
	DNSFailed
	AuthFailed
	Protocol
	IO
	InvalidInput
	Unsupported
)

func (k OutboundErrorKind) String() string {
	switch k {
	case ConnectionFailed:
		return "connection_failed"
	case Timeout:
		return "timeout"
	case DNSFailed:
		return "dns_failed"
	case AuthFailed:
		return "auth_failed"
	case Protocol:
		return "protocol"
	case IO:
		return "io"
	case InvalidInput:
		return "invalid_input"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// OutboundError reports a failure to dial through an outbound transport.
type OutboundError struct {
	Kind    OutboundErrorKind
	Message string
}

func (e *OutboundError) Error() string {
	return fmt.Sprintf("outbound error (%s): %s", e.Kind, e.Message)
}

// CompilationError reports a failure to compile a parsed TextRule.
type CompilationError struct {
	LineNum int
	Err     error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("error at line %d: %s", e.LineNum, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }
