package address

import (
	"regexp"
	"strconv"
	"strings"
)

// houseNumRE matches a trailing house number: digits with an optional letter
// suffix ("43", "43a", "36 b").
var houseNumRE = regexp.MustCompile(`^(.+?)\s+(\d+\s*[a-zA-Z]?)\s*$`)

// Parse splits a free-text address like "Landsberger Allee 36" into street
// and house number. When no trailing number is found, the whole input is
// returned as the street and the number is empty.
func Parse(addr string) (street, number string) {
	s := strings.TrimSpace(addr)
	if s == "" {
		return "", ""
	}
	if m := houseNumRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return s, ""
}

// HouseNumberLess orders house numbers by their leading numeric value, with
// the raw string as tie-breaker so "12a" sorts after "12".
func HouseNumberLess(a, b string) bool {
	na, nb := leadingInt(a), leadingInt(b)
	if na != nb {
		return na < nb
	}
	return a < b
}

var leadingIntRE = regexp.MustCompile(`^\d+`)

func leadingInt(s string) int {
	m := leadingIntRE.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}
