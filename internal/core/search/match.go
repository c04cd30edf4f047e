package search

import (
	"math"
	"reflect"
	"regexp"
	"strings"
)

// TextFields are the listing fields covered by full-text search. The store's
// text index is built over the same fields.
var TextFields = []string{
	"description",
	"features",
	"address.streetAddress",
	"address.city",
}

const earthRadiusMeters = 6378100.0

// Document exposes dotted-path field lookup for in-memory evaluation.
type Document interface {
	Lookup(path string) (any, bool)
}

// MapDocument is a Document over nested map[string]any values.
type MapDocument map[string]any

// Lookup resolves a dotted path such as "building.type".
func (d MapDocument) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case MapDocument:
		return m, true
	}
	return nil, false
}

// Match evaluates n against doc with MongoDB-like semantics: a missing field
// never satisfies eq/in/range comparisons but always satisfies nin.
func (n Node) Match(doc Document) bool {
	switch n.Kind {
	case KindAnd:
		for _, c := range n.Children {
			if !c.Match(doc) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range n.Children {
			if c.Match(doc) {
				return true
			}
		}
		return false
	case KindCompare:
		return n.matchCompare(doc)
	case KindText:
		return n.matchText(doc)
	case KindNear:
		return n.matchNear(doc)
	}
	return false
}

func (n Node) matchCompare(doc Document) bool {
	v, ok := doc.Lookup(n.Field)
	switch n.Cmp {
	case CmpNin:
		if !ok {
			return true
		}
		return !containsValue(n.Values, v)
	case CmpIn:
		return ok && containsValue(n.Values, v)
	case CmpEq:
		return ok && equalValues(v, n.Value)
	case CmpGt:
		c, ordered := compareValues(v, n.Value)
		return ok && ordered && c > 0
	case CmpGte:
		c, ordered := compareValues(v, n.Value)
		return ok && ordered && c >= 0
	case CmpLte:
		c, ordered := compareValues(v, n.Value)
		return ok && ordered && c <= 0
	case CmpPattern:
		return ok && matchPattern(v, n.Value)
	}
	return false
}

func matchPattern(v, expr any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	pattern, ok := expr.(string)
	if !ok {
		return false
	}
	matched, err := regexp.MatchString(pattern, s)
	return err == nil && matched
}

func (n Node) matchText(doc Document) bool {
	for _, field := range TextFields {
		v, ok := doc.Lookup(field)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.ToLower(s)
		for _, term := range n.Terms {
			for _, word := range strings.Fields(strings.ToLower(term)) {
				if strings.Contains(s, word) {
					return true
				}
			}
		}
	}
	return false
}

func (n Node) matchNear(doc Document) bool {
	if n.Near == nil {
		return false
	}
	v, ok := doc.Lookup(n.Field + ".coordinates")
	if !ok {
		return false
	}
	lon, lat, ok := coordinates(v)
	if !ok {
		return false
	}
	return haversine(n.Near.Longitude, n.Near.Latitude, lon, lat) <= n.Near.MaxDistanceMeters
}

func coordinates(v any) (lon, lat float64, ok bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, 0, false
	}
	if rv.Len() != 2 {
		return 0, 0, false
	}
	lon, okLon := toFloat(rv.Index(0).Interface())
	lat, okLat := toFloat(rv.Index(1).Interface())
	return lon, lat, okLon && okLat
}

// haversine returns the great-circle distance in meters between two points.
func haversine(lon1, lat1, lon2, lat2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if equalValues(v, candidate) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two numbers or two strings; other pairs are not comparable.
func compareValues(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if !okA || !okB {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
