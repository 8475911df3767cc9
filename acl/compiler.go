package acl

import (
	"net"
	"strings"

	"github.com/apernet/aclengine/geo"
)

// Outbound is the generic constraint on the handle type a RuleSet is
// compiled for: any cloneable value the caller associates with an
// outbound name (a plain string in tests, a live dialer handle in
// production).
type Outbound interface {
	any
}

// compiledRule is one compiled, ready-to-evaluate rule.
type compiledRule[O Outbound] struct {
	outbound      O
	matcher       Matcher
	protocol      Protocol
	startPort     uint16
	endPort       uint16
	hijackAddress net.IP
}

func (r *compiledRule[O]) match(host HostInfo, proto Protocol, port uint16) bool {
	if !r.protocol.Matches(proto) {
		return false
	}
	if port < r.startPort || port > r.endPort {
		return false
	}
	return r.matcher.Match(host)
}

// Compile compiles parsed TextRules into a RuleSet. Outbound names in
// the outbounds map must be supplied in lower case; rule outbound names
// are lowercased before lookup. loader supplies the raw CIDR/domain data
// behind any geoip:/geosite: rule; it is only invoked for rules that
// actually need it. cacheSize is the bounded LRU capacity for match
// results; 0 is treated as 1.
func Compile[O Outbound](rules []TextRule, outbounds map[string]O, cacheSize int, loader geo.Loader) (*RuleSet[O], error) {
	if loader == nil {
		loader = geo.NilLoader{}
	}

	compiled := make([]compiledRule[O], 0, len(rules))
	for _, rule := range rules {
		outbound, ok := outbounds[strings.ToLower(rule.Outbound)]
		if !ok {
			return nil, &CompilationError{LineNum: rule.LineNum, Err: &UnknownOutboundError{Name: rule.Outbound}}
		}

		matcher, err := compileMatcher(rule.Address, loader)
		if err != nil {
			return nil, &CompilationError{LineNum: rule.LineNum, Err: err}
		}

		proto, startPort, endPort, err := parseProtoPort(rule.ProtoPort)
		if err != nil {
			return nil, &CompilationError{LineNum: rule.LineNum, Err: &InvalidProtoPortError{Detail: err.Error()}}
		}

		var hijack net.IP
		if rule.HijackAddress != "" {
			hijack = net.ParseIP(rule.HijackAddress)
			if hijack == nil {
				return nil, &CompilationError{LineNum: rule.LineNum, Err: &InvalidIPError{Detail: rule.HijackAddress}}
			}
		}

		compiled = append(compiled, compiledRule[O]{
			outbound:      outbound,
			matcher:       matcher,
			protocol:      proto,
			startPort:     startPort,
			endPort:       endPort,
			hijackAddress: hijack,
		})
	}

	return newRuleSet(compiled, cacheSize)
}

// compileMatcher dispatches an address pattern to the appropriate
// Matcher constructor, per the prefix rules in spec §4.5.
func compileMatcher(addr string, loader geo.Loader) (Matcher, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))

	if addr == "all" || addr == "*" {
		return AllMatcher{}, nil
	}

	if rest, ok := stripPrefixFold(addr, "geoip:"); ok {
		return compileGeoIPMatcher(rest, loader)
	}

	if rest, ok := stripPrefixFold(addr, "geosite:"); ok {
		return compileGeoSiteMatcher(rest, loader)
	}

	if ip := net.ParseIP(addr); ip != nil {
		return NewIPMatcher(ip), nil
	}

	if strings.Contains(addr, "/") {
		_, network, err := net.ParseCIDR(addr)
		if err != nil {
			return nil, &InvalidCidrError{Detail: addr}
		}
		return NewCIDRMatcher(network), nil
	}

	if suffix, ok := stripPrefixFold(addr, "suffix:"); ok {
		return NewDomainMatcher(suffix, DomainSuffix), nil
	}
	if strings.Contains(addr, "*") {
		return NewDomainMatcher(addr, DomainWildcard), nil
	}
	return NewDomainMatcher(addr, DomainExact), nil
}

func compileGeoIPMatcher(spec string, loader geo.Loader) (Matcher, error) {
	inverse := false
	if strings.HasPrefix(spec, "!") {
		inverse = true
		spec = spec[1:]
	}
	code := strings.ToUpper(spec)
	if len(code) != 2 {
		return nil, &InvalidAddressError{Detail: "geoip country code must be exactly 2 letters: " + spec}
	}
	src, err := loader.LoadGeoIP(code)
	if err != nil {
		return nil, err
	}
	return NewGeoIPMatcherFromSource(code, src, inverse), nil
}

func compileGeoSiteMatcher(spec string, loader geo.Loader) (Matcher, error) {
	pattern := ParseGeoSitePattern(spec)
	entries, err := loader.LoadGeoSite(pattern.Name)
	if err != nil {
		return nil, err
	}
	return NewGeoSiteMatcher(entries, pattern.Attrs), nil
}
