// Package lane models the origin/destination pair a freight search is run for.
package lane

import (
	"fmt"
	"regexp"
	"strings"
)

// usZip matches a US 5-digit zip with an optional +4 extension.
var usZip = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Location is a postal code or a "city, postal-code" composite.
type Location string

// PostalCode returns the text after the last comma, trimmed.
// A location without a comma is its own postal code.
func (l Location) PostalCode() string {
	s := string(l)
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// IsUSZip reports whether the postal code is a US zip.
func (l Location) IsUSZip() bool {
	return usZip.MatchString(l.PostalCode())
}

// Empty reports whether the location is blank.
func (l Location) Empty() bool {
	return strings.TrimSpace(string(l)) == ""
}

// Route is an ordered origin/destination pair.
type Route struct {
	Origin      Location
	Destination Location
}

// New builds a route from raw strings.
func New(origin, destination string) Route {
	return Route{Origin: Location(origin), Destination: Location(destination)}
}

// IsInternational reports whether either end is outside the US zip system.
func (r Route) IsInternational() bool {
	return !r.Origin.IsUSZip() || !r.Destination.IsUSZip()
}

func (r Route) String() string {
	return fmt.Sprintf("%s -> %s", r.Origin, r.Destination)
}
