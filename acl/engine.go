package acl

import (
	"net"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// matchResult is what a cache entry stores: either a matched outbound plus
// an optional hijack target, or a recorded miss.
type matchResult[O Outbound] struct {
	outbound O
	hijack   net.IP
	ok       bool
}

// RuleSet is a compiled, ready-to-evaluate rule list with a bounded LRU
// cache of recent match results in front of the linear scan.
type RuleSet[O Outbound] struct {
	rules []compiledRule[O]
	cache *lru.Cache[CacheKey, matchResult[O]]
	mu    sync.Mutex
}

func newRuleSet[O Outbound](rules []compiledRule[O], cacheSize int) (*RuleSet[O], error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[CacheKey, matchResult[O]](cacheSize)
	if err != nil {
		return nil, &ConfigError{Detail: "failed to create match cache: " + err.Error()}
	}
	return &RuleSet[O]{rules: rules, cache: cache}, nil
}

// MatchHost evaluates host/proto/port against the rule set in order,
// returning the first matching rule's outbound and its optional hijack
// address. Results are cached by CacheKey; the cache lock is held across
// a miss's full linear scan so concurrent callers asking about the same
// key block on the first evaluation instead of each repeating the scan
// (cache stampede avoidance), at the cost of serializing misses against
// each other.
func (rs *RuleSet[O]) MatchHost(host HostInfo, proto Protocol, port uint16) (O, net.IP, bool) {
	host.Name = toLowerASCII(host.Name)
	key := ComputeCacheKey(host, proto, port)

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if res, ok := rs.cache.Get(key); ok {
		return res.outbound, res.hijack, res.ok
	}

	res := rs.evaluate(host, proto, port)
	rs.cache.Add(key, res)
	return res.outbound, res.hijack, res.ok
}

func (rs *RuleSet[O]) evaluate(host HostInfo, proto Protocol, port uint16) matchResult[O] {
	for i := range rs.rules {
		r := &rs.rules[i]
		if r.match(host, proto, port) {
			return matchResult[O]{outbound: r.outbound, hijack: r.hijackAddress, ok: true}
		}
	}
	var zero O
	return matchResult[O]{outbound: zero, ok: false}
}

// Len reports the number of compiled rules.
func (rs *RuleSet[O]) Len() int { return len(rs.rules) }
