package acl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxIncludeDepth bounds file: inclusion so that A -> B -> A cycles and
// deep inclusion chains fail with a ParseError instead of recursing
// without limit.
const maxIncludeDepth = 10

// ruleLineRe captures OUTBOUND "(" ADDRESS [ "," PROTO_PORT [ "," HIJACK ] ] ")".
// Outbound names may contain letters, digits, dots, underscores and
// hyphens — a plain \w+ rejects both dotted ("us.west") and hyphenated
// ("my-proxy") names, which real rule files use.
var ruleLineRe = regexp.MustCompile(`^([A-Za-z0-9._-]+)\s*\(([^,]+)(?:,\s*([^,]+))?(?:,\s*([^,]+))?\)\s*$`)

// Parse parses ACL rule text into an ordered list of TextRules. Comments
// (from the first '#' to end of line) and blank lines are ignored.
// A line of the form "file: <path>" inlines another file's rules in
// place, subject to maxIncludeDepth.
func Parse(text string) ([]TextRule, error) {
	return parseRules(text, "", 0)
}

// ParseFile reads path and parses its contents, resolving any file:
// directives relative to path's directory.
func ParseFile(path string) ([]TextRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newParseErrorNoLine("failed to read rules file %q: %v", path, err)
	}
	return parseRules(string(data), path, 0)
}

func parseRules(text string, sourcePath string, depth int) ([]TextRule, error) {
	if depth > maxIncludeDepth {
		return nil, newParseErrorNoLine("maximum include depth (%d) exceeded; check for a recursive file: chain", maxIncludeDepth)
	}

	var rules []TextRule
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if directive, ok := stripPrefixFold(line, "file:"); ok {
			includePath := strings.TrimSpace(directive)
			if includePath == "" {
				return nil, newParseError(lineNum, "file: directive requires a path")
			}
			if sourcePath != "" && !filepath.IsAbs(includePath) {
				includePath = filepath.Join(filepath.Dir(sourcePath), includePath)
			}
			data, err := os.ReadFile(includePath)
			if err != nil {
				return nil, newParseError(lineNum, "failed to read included file %q: %v", includePath, err)
			}
			included, err := parseRules(string(data), includePath, depth+1)
			if err != nil {
				return nil, err
			}
			rules = append(rules, included...)
			continue
		}

		rule, err := parseRuleLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRuleLine(line string, lineNum int) (TextRule, error) {
	m := ruleLineRe.FindStringSubmatch(line)
	if m == nil {
		return TextRule{}, newParseError(lineNum, "invalid rule format: %q", line)
	}

	outbound := m[1]
	address := strings.TrimSpace(m[2])
	if address == "" {
		return TextRule{}, newParseError(lineNum, "address must not be empty")
	}

	protoPort := strings.TrimSpace(m[3])
	hijack := strings.TrimSpace(m[4])

	// A present-but-whitespace-only field must fail rather than being
	// silently treated as absent.
	if m[3] != "" && protoPort == "" {
		return TextRule{}, newParseError(lineNum, "protocol/port field must not be blank")
	}
	if m[4] != "" && hijack == "" {
		return TextRule{}, newParseError(lineNum, "hijack address field must not be blank")
	}

	return TextRule{
		Outbound:      outbound,
		Address:       address,
		ProtoPort:     protoPort,
		HijackAddress: hijack,
		LineNum:       lineNum,
	}, nil
}

// stripComment removes a trailing "#..." comment. The rule grammar has no
// quoting or escaping, so the first '#' always starts a comment.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func stripPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// parseProtoPort parses a protocol/port specification such as "tcp/443",
// "udp/53-80", "tcp", "*/80", or "" (meaning Both, any port).
func parseProtoPort(protoPort string) (proto Protocol, startPort, endPort uint16, err error) {
	protoPort = strings.ToLower(strings.TrimSpace(protoPort))
	if protoPort == "" || protoPort == "*" || protoPort == "*/*" {
		return ProtocolBoth, 0, 65535, nil
	}

	parts := strings.SplitN(protoPort, "/", 2)
	protoStr := parts[0]
	var p Protocol
	switch protoStr {
	case "tcp":
		p = ProtocolTCP
	case "udp":
		p = ProtocolUDP
	case "*":
		p = ProtocolBoth
	default:
		return 0, 0, 0, fmt.Errorf("unknown protocol %q", protoStr)
	}

	if len(parts) == 1 {
		return p, 0, 65535, nil
	}

	portSpec := parts[1]
	if portSpec == "*" || portSpec == "" {
		return p, 0, 65535, nil
	}

	if lo, hi, ok := strings.Cut(portSpec, "-"); ok {
		loN, err := parsePort(lo)
		if err != nil {
			return 0, 0, 0, err
		}
		hiN, err := parsePort(hi)
		if err != nil {
			return 0, 0, 0, err
		}
		if loN > hiN {
			return 0, 0, 0, fmt.Errorf("port range %s has lo > hi", portSpec)
		}
		return p, loN, hiN, nil
	}

	port, err := parsePort(portSpec)
	if err != nil {
		return 0, 0, 0, err
	}
	return p, port, port, nil
}

func parsePort(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty port")
	}
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid port %q", s)
		}
		n = n*10 + int(c-'0')
		if n > 65535 {
			return 0, fmt.Errorf("port %q out of range", s)
		}
	}
	return uint16(n), nil
}
