package cmd

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/apernet/aclengine/acl"
	"github.com/apernet/aclengine/geo"
	"github.com/apernet/aclengine/outbound"
	"github.com/apernet/aclengine/resolver"
)

// configError wraps a configuration failure with the dotted field path
// that caused it, mirroring the teacher's field-tagged config errors.
type configError struct {
	Field string
	Err   error
}

func (e configError) Error() string {
	return "config: " + e.Field + ": " + e.Err.Error()
}

func (e configError) Unwrap() error { return e.Err }

type appConfig struct {
	Listen    string                 `mapstructure:"listen"`
	ACL       appConfigACL           `mapstructure:"acl"`
	Resolver  appConfigResolver      `mapstructure:"resolver"`
	Outbounds []appConfigOutbound    `mapstructure:"outbounds"`
	Log       appConfigLog           `mapstructure:"log"`
	CacheSize int                    `mapstructure:"cacheSize"`
}

type appConfigLog struct {
	Level string `mapstructure:"level"`
}

type appConfigACL struct {
	File    string   `mapstructure:"file"`
	Inline  []string `mapstructure:"inline"`
	GeoIP   string   `mapstructure:"geoip"`
	GeoSite string   `mapstructure:"geosite"`
}

type appConfigResolverTCP struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type appConfigResolverUDP struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type appConfigResolverTLS struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type appConfigResolverHTTPS struct {
	Addr string `mapstructure:"addr"`
}

type appConfigResolver struct {
	Type  string                 `mapstructure:"type"`
	TCP   appConfigResolverTCP   `mapstructure:"tcp"`
	UDP   appConfigResolverUDP   `mapstructure:"udp"`
	TLS   appConfigResolverTLS   `mapstructure:"tls"`
	HTTPS appConfigResolverHTTPS `mapstructure:"https"`
}

type appConfigOutboundDirect struct {
	Mode     string `mapstructure:"mode"`
	FastOpen bool   `mapstructure:"fastOpen"`
	BindAddr string `mapstructure:"bindAddr"`
}

type appConfigOutboundSOCKS5 struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type appConfigOutbound struct {
	Name   string                  `mapstructure:"name"`
	Type   string                  `mapstructure:"type"`
	Direct appConfigOutboundDirect `mapstructure:"direct"`
	SOCKS5 appConfigOutboundSOCKS5 `mapstructure:"socks5"`
}

// buildOutbounds converts the configured outbound entries into an
// outbound.Outbound table keyed by name. An empty config yields a
// single "direct" entry, matching the teacher's "guarantee at least
// one outbound" fallback.
func (c *appConfig) buildOutbounds() (map[string]outbound.Outbound, error) {
	table := make(map[string]outbound.Outbound, len(c.Outbounds)+2)
	if len(c.Outbounds) == 0 {
		table["direct"] = outbound.NewDirect(outbound.DirectAuto, false)
		return table, nil
	}

	for _, entry := range c.Outbounds {
		if entry.Name == "" {
			return nil, configError{Field: "outbounds.name", Err: errors.New("empty outbound name")}
		}
		var ob outbound.Outbound
		switch strings.ToLower(entry.Type) {
		case "direct":
			mode, err := parseDirectMode(entry.Direct.Mode)
			if err != nil {
				return nil, configError{Field: "outbounds.direct.mode", Err: err}
			}
			d := outbound.NewDirect(mode, entry.Direct.FastOpen)
			d.BindAddress = entry.Direct.BindAddr
			ob = d
		case "socks5":
			if entry.SOCKS5.Addr == "" {
				return nil, configError{Field: "outbounds.socks5.addr", Err: errors.New("empty socks5 address")}
			}
			ob = outbound.NewSOCKS5(entry.SOCKS5.Addr, entry.SOCKS5.Username, entry.SOCKS5.Password)
		default:
			return nil, configError{Field: "outbounds.type", Err: errors.New("unsupported outbound type: " + entry.Type)}
		}
		table[strings.ToLower(entry.Name)] = ob
	}
	return table, nil
}

func parseDirectMode(s string) (outbound.DirectMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return outbound.DirectAuto, nil
	case "4":
		return outbound.DirectIPv4Only, nil
	case "6":
		return outbound.DirectIPv6Only, nil
	case "46", "preferipv4":
		return outbound.DirectPreferIPv4, nil
	case "64", "preferipv6":
		return outbound.DirectPreferIPv6, nil
	default:
		return 0, errors.New("unsupported mode: " + s)
	}
}

// buildRules loads the ACL rule text, rejecting a config that sets both
// acl.file and acl.inline.
func (c *appConfig) buildRules() ([]acl.TextRule, error) {
	if c.ACL.File != "" && len(c.ACL.Inline) > 0 {
		return nil, configError{Field: "acl", Err: errors.New("cannot set both acl.file and acl.inline")}
	}
	if c.ACL.File != "" {
		rules, err := acl.ParseFile(c.ACL.File)
		if err != nil {
			return nil, configError{Field: "acl.file", Err: err}
		}
		return rules, nil
	}
	if len(c.ACL.Inline) > 0 {
		rules, err := acl.Parse(strings.Join(c.ACL.Inline, "\n"))
		if err != nil {
			return nil, configError{Field: "acl.inline", Err: err}
		}
		return rules, nil
	}
	return nil, configError{Field: "acl", Err: errors.New("must set either acl.file or acl.inline")}
}

// buildGeoLoader builds the geo.Loader implied by acl.geoip/acl.geosite,
// auto-detecting file format by extension. geo.NilLoader is used when
// neither is configured, so geoip:/geosite: rules fail at compile time
// with a clear error instead of silently matching nothing.
func (c *appConfig) buildGeoLoader() geo.Loader {
	if c.ACL.GeoIP == "" && c.ACL.GeoSite == "" {
		return geo.NilLoader{}
	}
	return geo.NewFileLoader(c.ACL.GeoIP, c.ACL.GeoSite)
}

// buildResolver builds the resolver implied by resolver.type. A "system"
// (or empty) type returns resolver.System, which resolves through the
// operating system's resolver.
func (c *appConfig) buildResolver() (acl.Resolver, error) {
	switch strings.ToLower(c.Resolver.Type) {
	case "", "system":
		return resolver.System{}, nil
	case "tcp":
		if c.Resolver.TCP.Addr == "" {
			return nil, configError{Field: "resolver.tcp.addr", Err: errors.New("empty resolver address")}
		}
		return resolver.NewStandard(resolver.NetworkTCP, c.Resolver.TCP.Addr, c.Resolver.TCP.Timeout), nil
	case "udp":
		if c.Resolver.UDP.Addr == "" {
			return nil, configError{Field: "resolver.udp.addr", Err: errors.New("empty resolver address")}
		}
		return resolver.NewStandard(resolver.NetworkUDP, c.Resolver.UDP.Addr, c.Resolver.UDP.Timeout), nil
	case "tls", "tcp-tls":
		if c.Resolver.TLS.Addr == "" {
			return nil, configError{Field: "resolver.tls.addr", Err: errors.New("empty resolver address")}
		}
		return resolver.NewStandard(resolver.NetworkTCPTLS, c.Resolver.TLS.Addr, c.Resolver.TLS.Timeout), nil
	case "https", "doh":
		if c.Resolver.HTTPS.Addr == "" {
			return nil, configError{Field: "resolver.https.addr", Err: errors.New("empty resolver address")}
		}
		return resolver.NewDoH(c.Resolver.HTTPS.Addr), nil
	default:
		return nil, configError{Field: "resolver.type", Err: errors.New("unsupported resolver type: " + c.Resolver.Type)}
	}
}

// buildRouter assembles the full pipeline: outbound table, rules, geo
// loader, resolver, compiled into a single *acl.Router.
func (c *appConfig) buildRouter() (*acl.Router, error) {
	outbounds, err := c.buildOutbounds()
	if err != nil {
		return nil, err
	}
	rules, err := c.buildRules()
	if err != nil {
		return nil, err
	}
	res, err := c.buildResolver()
	if err != nil {
		return nil, err
	}
	loader := c.buildGeoLoader()

	router, err := acl.NewRouter(rules, outbounds, res, loader, acl.RouterOptions{CacheSize: c.CacheSize})
	if err != nil {
		return nil, configError{Field: "acl", Err: err}
	}
	return router, nil
}

func (c *appConfig) listenAddr() (*net.TCPAddr, error) {
	listen := c.Listen
	if listen == "" {
		listen = "127.0.0.1:1080"
	}
	addr, err := net.ResolveTCPAddr("tcp", listen)
	if err != nil {
		return nil, configError{Field: "listen", Err: err}
	}
	return addr, nil
}
