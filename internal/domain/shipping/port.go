package shipping

import "strings"

// PortCodeLength is the length of a UN/LOCODE location code
const PortCodeLength = 5

// NormalizePort trims surrounding whitespace and upper-cases a port code
func NormalizePort(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
