package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeRe  = regexp.MustCompile(`^([A-Z]+)[\s\-_#]*(\d+)$`)
	spaceRe = regexp.MustCompile(`[\s_]+`)
)

// ParsedCode is the structured form of a machine code such as "GEN-001".
type ParsedCode struct {
	Prefix string
	Seq    int
}

// String renders the canonical form: upper-case prefix, dash, sequence padded to three digits.
func (p ParsedCode) String() string {
	return fmt.Sprintf("%s-%03d", p.Prefix, p.Seq)
}

// ParseCode extracts the letter prefix and numeric sequence from a machine code.
// "gen-001", "GEN 1" and "gen#01" all parse to {GEN 1}.
func ParseCode(raw string) (ParsedCode, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	m := codeRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedCode{}, fmt.Errorf("unable to parse machine code: %q", raw)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return ParsedCode{}, fmt.Errorf("unable to parse machine code sequence %q: %w", raw, err)
	}
	return ParsedCode{Prefix: m[1], Seq: seq}, nil
}

// NormalizeCode returns the key under which machine codes are compared for uniqueness.
// Codes that do not follow the prefix-number pattern are upper-cased with runs of
// whitespace or underscores collapsed to a single dash.
func NormalizeCode(raw string) string {
	if p, err := ParseCode(raw); err == nil {
		return p.String()
	}
	s := strings.ToUpper(strings.TrimSpace(raw))
	return spaceRe.ReplaceAllString(s, "-")
}
