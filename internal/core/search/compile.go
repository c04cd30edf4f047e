package search

import (
	"strconv"
	"strings"

	"github.com/sould/property-match/internal/core/domain"
)

// Property field paths referenced by compiled predicates.
const (
	FieldID              = "id"
	FieldTransactionType = "transactionType"
	FieldProvince        = "address.province"
	FieldIsDeleted       = "isDeleted"
	FieldBathrooms       = "building.bathroomTotal"
	FieldBedrooms        = "building.bedroomsTotal"
	FieldPropertyType    = "propertyType"
	FieldBuildingType    = "building.type"
	FieldAttachment      = "building.constructionStyleAttachment"
	FieldPrice           = "price"
	FieldLocation        = "location"
)

// Options are the per-request inputs that are not part of the saved filter.
type Options struct {
	// Excluded property ids, typically those the user already selected.
	Excluded []string
	// Location, when set, replaces the saved filter's geo term.
	Location *domain.Location
}

// Compile builds the property predicate for a saved filter. A nil filter
// yields only the fixed base constraints. The result is always a root AND.
func Compile(f *domain.Filter, opts Options) Node {
	if f == nil {
		f = &domain.Filter{}
	}

	clauses := []Node{
		Nin(FieldID, stringsToAny(opts.Excluded)...),
		Eq(FieldTransactionType, domain.TransactionForSale),
	}

	province, near := geoClauses(f, opts.Location)
	clauses = append(clauses, province)

	var rooms []Node
	if len(f.Bathroom) > 0 {
		rooms = append(rooms, roomsClause(FieldBathrooms, f.Bathroom))
	}
	if len(f.Bedroom) > 0 {
		rooms = append(rooms, roomsClause(FieldBedrooms, f.Bedroom))
	}
	if len(rooms) > 0 {
		clauses = append(clauses, And(rooms...))
	}

	if terms := nonEmpty(f.Keywords); len(terms) > 0 {
		clauses = append(clauses, Text(strings.Join(terms, " ")))
	}

	var houses []Node
	for _, t := range f.HouseType {
		if n, ok := houseTypeClause(t); ok {
			houses = append(houses, n)
		}
	}
	if len(houses) > 0 {
		clauses = append(clauses, Or(houses...))
	}

	if f.PriceRange != nil {
		if f.PriceRange.Min != nil {
			clauses = append(clauses, Gte(FieldPrice, *f.PriceRange.Min))
		}
		if f.PriceRange.Max != nil {
			clauses = append(clauses, Lte(FieldPrice, *f.PriceRange.Max))
		}
	}

	if near != nil {
		clauses = append(clauses, *near)
	}

	clauses = append(clauses, Eq(FieldIsDeleted, false))
	return And(clauses...)
}

// geoClauses returns the province clause and the optional near clause.
//
// An override location is always a distance query. A saved location with
// radius >= 50 km collapses to equality on the filter's province; the
// allow-list is kept when the filter has no province. Radius 0 disables geo.
func geoClauses(f *domain.Filter, override *domain.Location) (Node, *Node) {
	allowList := In(FieldProvince, stringsToAny(domain.SearchableProvinces)...)

	if override != nil {
		n := nearClause(*override)
		return allowList, &n
	}

	loc := f.Location
	if loc == nil || loc.Radius == 0 {
		return allowList, nil
	}
	if loc.Radius >= domain.GeoProvinceRadiusKm {
		if f.Province == "" {
			return allowList, nil
		}
		return Eq(FieldProvince, f.Province), nil
	}
	n := nearClause(*loc)
	return allowList, &n
}

func nearClause(loc domain.Location) Node {
	return NearPoint(FieldLocation, loc.Longitude, loc.Latitude, loc.Radius*1000)
}

// aboveRoomsOrMore matches decimal strings denoting a whole number above 6.
const aboveRoomsOrMore = `^\s*0*([7-9]|[1-9][0-9]+)\s*$`

// roomsClause matches any listed count; the sentinel 6 also admits any count
// above it. Counts may be stored as integers or as decimal strings, so every
// listed count is matched in both forms and the open-ended test runs once
// numerically and once as a string pattern.
func roomsClause(field string, counts []int) Node {
	in := In(field, roomValues(counts)...)
	for _, c := range counts {
		if c == domain.RoomsOrMore {
			return Or(in, Gt(field, domain.RoomsOrMore), Pattern(field, aboveRoomsOrMore))
		}
	}
	return in
}

func roomValues(counts []int) []any {
	out := make([]any, 0, 2*len(counts))
	for _, c := range counts {
		out = append(out, c, strconv.Itoa(c))
	}
	return out
}

var (
	houseBuildingTypes = []any{"House", "Manufactured Home", "Manufactured Home/Mobile"}
	townhouseStyles    = []any{"Detached", "Front and back", "Link", "Side by side", "Stacked", "Up and down"}
)

func houseTypeClause(t domain.HouseType) (Node, bool) {
	const singleFamily = "Single Family"
	switch t {
	case domain.HouseDetached:
		return And(
			Eq(FieldPropertyType, singleFamily),
			In(FieldBuildingType, houseBuildingTypes...),
			Eq(FieldAttachment, "Detached"),
		), true
	case domain.HouseSemiDetached:
		return And(
			Eq(FieldPropertyType, singleFamily),
			In(FieldBuildingType, houseBuildingTypes...),
			Eq(FieldAttachment, "Semi-detached"),
		), true
	case domain.HouseTownhouse:
		return And(
			Eq(FieldPropertyType, singleFamily),
			Eq(FieldBuildingType, "Row / Townhouse"),
			In(FieldAttachment, townhouseStyles...),
		), true
	case domain.HouseCondo:
		return And(
			Eq(FieldPropertyType, singleFamily),
			Eq(FieldBuildingType, "Apartment"),
		), true
	case domain.HouseMultiplex:
		return And(Eq(FieldPropertyType, "Multi-family")), true
	case domain.HouseOther:
		return And(Eq(FieldPropertyType, "Other")), true
	}
	return Node{}, false
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
