// Package search turns saved filters into store-agnostic property predicates.
//
// A predicate is a tree of tagged Nodes. The tree carries no store syntax; the
// MongoDB repository renders it into a filter document, and Match evaluates it
// in memory against any Document.
package search

// Kind tags a Node.
type Kind uint8

const (
	KindAnd Kind = iota + 1
	KindOr
	KindCompare
	KindText
	KindNear
)

// Comparator is the operator of a KindCompare node.
type Comparator string

const (
	CmpEq  Comparator = "eq"
	CmpIn  Comparator = "in"
	CmpNin Comparator = "nin"
	CmpGt  Comparator = "gt"
	CmpGte Comparator = "gte"
	CmpLte Comparator = "lte"
	// CmpPattern matches string values against the regular expression in
	// Value. Non-string values never match.
	CmpPattern Comparator = "pattern"
)

// Near is a nearest-neighbour constraint centered on a GeoJSON point.
type Near struct {
	Longitude         float64
	Latitude          float64
	MaxDistanceMeters float64
}

// Node is one element of a predicate tree. Only the fields relevant to Kind
// are set.
type Node struct {
	Kind Kind

	// KindAnd, KindOr
	Children []Node

	// KindCompare, KindNear
	Field string

	// KindCompare
	Cmp    Comparator
	Value  any   // eq, gt, gte, lte, pattern
	Values []any // in, nin

	// KindText
	Terms []string

	// KindNear
	Near *Near
}

// And joins children with logical AND.
func And(children ...Node) Node { return Node{Kind: KindAnd, Children: children} }

// Or joins children with logical OR.
func Or(children ...Node) Node { return Node{Kind: KindOr, Children: children} }

func Eq(field string, v any) Node  { return compare(field, CmpEq, v) }
func Gt(field string, v any) Node  { return compare(field, CmpGt, v) }
func Gte(field string, v any) Node { return compare(field, CmpGte, v) }
func Lte(field string, v any) Node { return compare(field, CmpLte, v) }

func Pattern(field, expr string) Node { return compare(field, CmpPattern, expr) }

func In(field string, vs ...any) Node {
	return Node{Kind: KindCompare, Field: field, Cmp: CmpIn, Values: vs}
}

func Nin(field string, vs ...any) Node {
	return Node{Kind: KindCompare, Field: field, Cmp: CmpNin, Values: vs}
}

// Text is a full-text clause; a document matches when any term matches.
func Text(terms ...string) Node { return Node{Kind: KindText, Terms: terms} }

// NearPoint constrains field to lie within maxMeters of (longitude, latitude).
func NearPoint(field string, longitude, latitude, maxMeters float64) Node {
	return Node{Kind: KindNear, Field: field, Near: &Near{
		Longitude:         longitude,
		Latitude:          latitude,
		MaxDistanceMeters: maxMeters,
	}}
}

func compare(field string, cmp Comparator, v any) Node {
	return Node{Kind: KindCompare, Field: field, Cmp: cmp, Value: v}
}

// Walk calls fn for n and every descendant, depth first.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in the tree for which pred is true.
func (n Node) Find(pred func(Node) bool) (Node, bool) {
	if pred(n) {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(pred); ok {
			return found, true
		}
	}
	return Node{}, false
}

// HasText reports whether the tree contains a full-text clause.
func (n Node) HasText() bool {
	_, ok := n.Find(func(x Node) bool { return x.Kind == KindText })
	return ok
}
