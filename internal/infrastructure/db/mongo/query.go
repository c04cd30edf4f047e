package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sould/property-match/internal/core/search"
)

// earthRadiusMeters converts distances to the radians $centerSphere expects.
const earthRadiusMeters = 6378100.0

// RenderMode selects how distance clauses are rendered.
type RenderMode uint8

const (
	// RenderFind renders distance clauses as $near, which also sorts by
	// distance.
	RenderFind RenderMode = iota
	// RenderCount renders distance clauses as $geoWithin/$centerSphere.
	// CountDocuments rejects $near.
	RenderCount
)

var comparatorOps = map[search.Comparator]string{
	search.CmpEq:      "$eq",
	search.CmpIn:      "$in",
	search.CmpNin:     "$nin",
	search.CmpGt:      "$gt",
	search.CmpGte:     "$gte",
	search.CmpLte:     "$lte",
	search.CmpPattern: "$regex",
}

// RenderQuery turns a predicate into a MongoDB filter document. A root AND is
// flattened into a single document with comparisons on the same field merged;
// extra disjunctions and nested conjunctions go to $and. $near is replaced by
// $geoWithin whenever the predicate contains a $text clause, since MongoDB does
// not allow both in one query.
func RenderQuery(n search.Node, mode RenderMode) bson.M {
	r := renderer{geoWithin: mode == RenderCount || n.HasText()}
	if n.Kind != search.KindAnd {
		return r.node(n)
	}

	doc := bson.M{}
	fields := map[string]bson.M{}
	var and bson.A

	for _, c := range n.Children {
		switch c.Kind {
		case search.KindCompare, search.KindNear:
			op, v := r.operator(c)
			ops, ok := fields[c.Field]
			if !ok {
				ops = bson.M{}
				fields[c.Field] = ops
			}
			if _, clash := ops[op]; clash {
				and = append(and, r.node(c))
				continue
			}
			ops[op] = v
		case search.KindText:
			if _, dup := doc["$text"]; dup {
				and = append(and, r.node(c))
				continue
			}
			doc["$text"] = textSearch(c)
		case search.KindOr:
			if _, dup := doc["$or"]; dup {
				and = append(and, r.node(c))
				continue
			}
			doc["$or"] = r.children(c.Children)
		case search.KindAnd:
			for _, gc := range c.Children {
				and = append(and, r.node(gc))
			}
		}
	}

	for field, ops := range fields {
		doc[field] = collapseEq(ops)
	}
	if len(and) > 0 {
		doc["$and"] = and
	}
	return doc
}

type renderer struct {
	geoWithin bool
}

func (r renderer) node(n search.Node) bson.M {
	switch n.Kind {
	case search.KindAnd:
		return bson.M{"$and": r.children(n.Children)}
	case search.KindOr:
		return bson.M{"$or": r.children(n.Children)}
	case search.KindText:
		return bson.M{"$text": textSearch(n)}
	case search.KindCompare, search.KindNear:
		op, v := r.operator(n)
		return bson.M{n.Field: collapseEq(bson.M{op: v})}
	}
	return bson.M{}
}

func (r renderer) children(nodes []search.Node) bson.A {
	out := make(bson.A, len(nodes))
	for i, c := range nodes {
		out[i] = r.node(c)
	}
	return out
}

// operator returns the field-level operator and argument for a comparison or
// distance node.
func (r renderer) operator(n search.Node) (string, any) {
	if n.Kind == search.KindNear {
		return r.near(n.Near)
	}
	switch n.Cmp {
	case search.CmpIn, search.CmpNin:
		vals := n.Values
		if vals == nil {
			vals = []any{}
		}
		return comparatorOps[n.Cmp], bson.A(vals)
	default:
		return comparatorOps[n.Cmp], n.Value
	}
}

func (r renderer) near(n *search.Near) (string, any) {
	point := bson.A{n.Longitude, n.Latitude}
	if r.geoWithin {
		return "$geoWithin", bson.M{
			"$centerSphere": bson.A{point, n.MaxDistanceMeters / earthRadiusMeters},
		}
	}
	return "$near", bson.M{
		"$geometry":    bson.M{"type": "Point", "coordinates": point},
		"$maxDistance": n.MaxDistanceMeters,
	}
}

func textSearch(n search.Node) bson.M {
	return bson.M{"$search": strings.Join(n.Terms, " ")}
}

// collapseEq renders a lone equality as the plain value.
func collapseEq(ops bson.M) any {
	if v, ok := ops["$eq"]; ok && len(ops) == 1 {
		return v
	}
	return ops
}

// usesNear reports whether the rendered filter relies on $near ordering.
func usesNear(doc bson.M) bool {
	for _, v := range doc {
		if ops, ok := v.(bson.M); ok {
			if _, ok := ops["$near"]; ok {
				return true
			}
		}
	}
	return false
}
