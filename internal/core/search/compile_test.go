package search

import (
	"testing"

	"github.com/sould/property-match/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func floatPtr(v float64) *float64 { return &v }

// listing returns a property document that satisfies every base constraint.
func listing(overrides map[string]any) MapDocument {
	doc := MapDocument{
		"id":              "P-1",
		"transactionType": "For sale",
		"isDeleted":       false,
		"propertyType":    "Single Family",
		"price":           500000.0,
		"description":     "Bright corner unit close to transit",
		"address": map[string]any{
			"province": "Ontario",
			"city":     "Toronto",
		},
		"building": map[string]any{
			"bathroomTotal":               2,
			"bedroomsTotal":               3,
			"type":                        "House",
			"constructionStyleAttachment": "Detached",
		},
		"location": map[string]any{
			"type":        "Point",
			"coordinates": []float64{-79.3832, 43.6532},
		},
	}
	for path, v := range overrides {
		setPath(doc, path, v)
	}
	return doc
}

func setPath(doc MapDocument, path string, v any) {
	parts := splitPath(path)
	cur := map[string]any(doc)
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	return append(parts, path[start:])
}

func findNear(n Node) (Node, bool) {
	return n.Find(func(x Node) bool { return x.Kind == KindNear })
}

func findCompare(n Node, field string, cmp Comparator) (Node, bool) {
	return n.Find(func(x Node) bool {
		return x.Kind == KindCompare && x.Field == field && x.Cmp == cmp
	})
}

func assertNoEmptyLogical(t *testing.T, n Node) {
	t.Helper()
	n.Walk(func(x Node) {
		if (x.Kind == KindAnd || x.Kind == KindOr) && len(x.Children) == 0 {
			t.Fatalf("empty logical node emitted: %+v", x)
		}
	})
}

// ---------------------------------------------------------------------------
// Base constraints
// ---------------------------------------------------------------------------

func TestCompile_NilFilterYieldsBaseConstraints(t *testing.T) {
	q := Compile(nil, Options{})

	if q.Kind != KindAnd {
		t.Fatalf("expected root AND, got %v", q.Kind)
	}
	if len(q.Children) != 4 {
		t.Fatalf("expected 4 base clauses, got %d", len(q.Children))
	}
	if _, ok := findCompare(q, FieldTransactionType, CmpEq); !ok {
		t.Error("missing transactionType clause")
	}
	if n, ok := findCompare(q, FieldProvince, CmpIn); !ok || len(n.Values) != 2 {
		t.Errorf("missing province allow-list, got %+v", n)
	}
	if _, ok := findCompare(q, FieldIsDeleted, CmpEq); !ok {
		t.Error("missing isDeleted clause")
	}
	assertNoEmptyLogical(t, q)

	if !q.Match(listing(nil)) {
		t.Error("base listing should match")
	}
	if q.Match(listing(map[string]any{"isDeleted": true})) {
		t.Error("deleted listing must not match")
	}
	if q.Match(listing(map[string]any{"transactionType": "For rent"})) {
		t.Error("rental must not match")
	}
	if q.Match(listing(map[string]any{"address.province": "Quebec"})) {
		t.Error("province outside allow-list must not match")
	}
}

func TestCompile_ExcludesSelectedProperties(t *testing.T) {
	q := Compile(&domain.Filter{}, Options{Excluded: []string{"P-1", "P-2"}})

	if q.Match(listing(nil)) {
		t.Error("excluded property P-1 must not match")
	}
	if !q.Match(listing(map[string]any{"id": "P-3"})) {
		t.Error("non-excluded property should match")
	}
}

// ---------------------------------------------------------------------------
// Room cardinalities
// ---------------------------------------------------------------------------

func TestCompile_BedroomSentinelAdmitsAnyCountAboveSix(t *testing.T) {
	q := Compile(&domain.Filter{Bedroom: []int{2, 6}}, Options{})

	cases := map[int]bool{1: false, 2: true, 3: false, 6: true, 7: true, 9: true, 12: true}
	for beds, want := range cases {
		got := q.Match(listing(map[string]any{"building.bedroomsTotal": beds}))
		if got != want {
			t.Errorf("bedrooms=%d: expected match=%v, got %v", beds, want, got)
		}
	}
}

func TestCompile_BedroomWithoutSentinelIsStrict(t *testing.T) {
	q := Compile(&domain.Filter{Bedroom: []int{2, 3}}, Options{})

	if _, ok := findCompare(q, FieldBedrooms, CmpGt); ok {
		t.Fatal("no > clause expected without the sentinel")
	}
	if q.Match(listing(map[string]any{"building.bedroomsTotal": 7})) {
		t.Error("7 bedrooms must not match {2,3}")
	}
	if !q.Match(listing(map[string]any{"building.bedroomsTotal": 3})) {
		t.Error("3 bedrooms should match {2,3}")
	}
}

func TestCompile_BathAndBedCombinedInOneConjunction(t *testing.T) {
	q := Compile(&domain.Filter{Bathroom: []int{6}, Bedroom: []int{3}}, Options{})

	var rooms []Node
	for _, c := range q.Children {
		if c.Kind == KindAnd {
			rooms = append(rooms, c)
		}
	}
	if len(rooms) != 1 || len(rooms[0].Children) != 2 {
		t.Fatalf("expected a single AND with 2 room clauses, got %+v", rooms)
	}
	if rooms[0].Children[0].Kind != KindOr {
		t.Errorf("bathroom clause with sentinel should be an OR, got %v", rooms[0].Children[0].Kind)
	}

	if !q.Match(listing(map[string]any{"building.bathroomTotal": 8, "building.bedroomsTotal": 3})) {
		t.Error("8 baths and 3 beds should match")
	}
	if q.Match(listing(map[string]any{"building.bathroomTotal": 8, "building.bedroomsTotal": 4})) {
		t.Error("4 beds must not match")
	}
}

// ---------------------------------------------------------------------------
// Keywords
// ---------------------------------------------------------------------------

func TestCompile_KeywordsJoinedIntoTextClause(t *testing.T) {
	q := Compile(&domain.Filter{Keywords: []string{"pool", " ", "garage"}}, Options{})

	n, ok := q.Find(func(x Node) bool { return x.Kind == KindText })
	if !ok {
		t.Fatal("expected a text clause")
	}
	if len(n.Terms) != 1 || n.Terms[0] != "pool garage" {
		t.Fatalf("expected terms [\"pool garage\"], got %q", n.Terms)
	}
	if !q.Match(listing(map[string]any{"description": "Heated POOL in the yard"})) {
		t.Error("description containing a keyword should match")
	}
	if q.Match(listing(nil)) {
		t.Error("description without keywords must not match")
	}
}

func TestCompile_NoTextClauseWithoutKeywords(t *testing.T) {
	q := Compile(&domain.Filter{Keywords: []string{}}, Options{})
	if q.HasText() {
		t.Fatal("unexpected text clause")
	}
}

// ---------------------------------------------------------------------------
// House types
// ---------------------------------------------------------------------------

func TestCompile_CondoHouseType(t *testing.T) {
	q := Compile(&domain.Filter{HouseType: []domain.HouseType{domain.HouseCondo}}, Options{})

	condo := listing(map[string]any{"propertyType": "Single Family", "building.type": "Apartment"})
	if !q.Match(condo) {
		t.Error("single family apartment should match condo")
	}
	multi := listing(map[string]any{"propertyType": "Multi-family", "building.type": "Apartment"})
	if q.Match(multi) {
		t.Error("multi-family must not match condo")
	}
}

func TestCompile_HouseTypesAreDisjunctive(t *testing.T) {
	q := Compile(&domain.Filter{HouseType: []domain.HouseType{
		domain.HouseTownhouse, domain.HouseMultiplex,
	}}, Options{})

	or, ok := q.Find(func(x Node) bool { return x.Kind == KindOr })
	if !ok || len(or.Children) != 2 {
		t.Fatalf("expected an OR with 2 disjuncts, got %+v", or)
	}

	town := listing(map[string]any{"building.type": "Row / Townhouse", "building.constructionStyleAttachment": "Stacked"})
	if !q.Match(town) {
		t.Error("stacked townhouse should match")
	}
	if !q.Match(listing(map[string]any{"propertyType": "Multi-family"})) {
		t.Error("multi-family should match multiplex")
	}
	if q.Match(listing(nil)) {
		t.Error("detached house must not match townhouse|multiplex")
	}
}

func TestCompile_DetachedAndSemiDetached(t *testing.T) {
	detached := Compile(&domain.Filter{HouseType: []domain.HouseType{domain.HouseDetached}}, Options{})
	semi := Compile(&domain.Filter{HouseType: []domain.HouseType{domain.HouseSemiDetached}}, Options{})

	house := listing(map[string]any{"building.type": "Manufactured Home"})
	if !detached.Match(house) {
		t.Error("detached manufactured home should match detached")
	}
	if semi.Match(house) {
		t.Error("detached home must not match semi-detached")
	}
	semiHouse := listing(map[string]any{"building.constructionStyleAttachment": "Semi-detached"})
	if !semi.Match(semiHouse) {
		t.Error("semi-detached house should match semi-detached")
	}
}

func TestCompile_OtherAndUnknownHouseTypes(t *testing.T) {
	q := Compile(&domain.Filter{HouseType: []domain.HouseType{"castle"}}, Options{})
	if _, ok := q.Find(func(x Node) bool { return x.Kind == KindOr }); ok {
		t.Fatal("unknown house types must not produce an OR clause")
	}
	assertNoEmptyLogical(t, q)

	other := Compile(&domain.Filter{HouseType: []domain.HouseType{domain.HouseOther}}, Options{})
	if !other.Match(listing(map[string]any{"propertyType": "Other"})) {
		t.Error("propertyType Other should match")
	}
}

// ---------------------------------------------------------------------------
// Price
// ---------------------------------------------------------------------------

func TestCompile_PriceBounds(t *testing.T) {
	tests := []struct {
		name  string
		rng   *domain.PriceRange
		price float64
		want  bool
	}{
		{"min only, above", &domain.PriceRange{Min: floatPtr(400000)}, 450000, true},
		{"min only, below", &domain.PriceRange{Min: floatPtr(400000)}, 350000, false},
		{"max only, below", &domain.PriceRange{Max: floatPtr(400000)}, 350000, true},
		{"max only, above", &domain.PriceRange{Max: floatPtr(400000)}, 450000, false},
		{"both, inside", &domain.PriceRange{Min: floatPtr(100), Max: floatPtr(200)}, 200, true},
		{"both, outside", &domain.PriceRange{Min: floatPtr(100), Max: floatPtr(200)}, 201, false},
		{"empty range", &domain.PriceRange{}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compile(&domain.Filter{PriceRange: tt.rng}, Options{})
			got := q.Match(listing(map[string]any{"price": tt.price}))
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Geo
// ---------------------------------------------------------------------------

func TestCompile_SmallRadiusIsNearQuery(t *testing.T) {
	f := &domain.Filter{
		Province: "Ontario",
		Location: &domain.Location{Longitude: -79.38, Latitude: 43.65, Radius: 10},
	}
	q := Compile(f, Options{})

	n, ok := findNear(q)
	if !ok {
		t.Fatal("expected a near clause")
	}
	if n.Near.MaxDistanceMeters != 10000 {
		t.Errorf("expected maxDistance 10000, got %v", n.Near.MaxDistanceMeters)
	}
	if n.Near.Longitude != -79.38 || n.Near.Latitude != 43.65 {
		t.Errorf("unexpected center: %+v", n.Near)
	}
	if _, ok := findCompare(q, FieldProvince, CmpIn); !ok {
		t.Error("province allow-list should be kept for distance queries")
	}

	if !q.Match(listing(nil)) {
		t.Error("listing ~1km away should match")
	}
	ottawa := listing(map[string]any{"location.coordinates": []float64{-75.6972, 45.4215}})
	if q.Match(ottawa) {
		t.Error("listing ~350km away must not match")
	}
}

func TestCompile_LargeRadiusCollapsesToProvince(t *testing.T) {
	f := &domain.Filter{
		Province: "British Columbia",
		Location: &domain.Location{Longitude: -79.38, Latitude: 43.65, Radius: 60},
	}
	q := Compile(f, Options{})

	if _, ok := findNear(q); ok {
		t.Fatal("radius >= 50 must not produce a near clause")
	}
	n, ok := findCompare(q, FieldProvince, CmpEq)
	if !ok || n.Value != "British Columbia" {
		t.Fatalf("expected province equality, got %+v", n)
	}
	if _, ok := findCompare(q, FieldProvince, CmpIn); ok {
		t.Error("allow-list must be replaced by equality")
	}

	vancouver := listing(map[string]any{
		"address.province":     "British Columbia",
		"location.coordinates": []float64{-123.12, 49.28},
	})
	if !q.Match(vancouver) {
		t.Error("listing in the filter province should match regardless of distance")
	}
}

func TestCompile_RadiusBoundaryIsFifty(t *testing.T) {
	at := Compile(&domain.Filter{Province: "Ontario", Location: &domain.Location{Radius: 50}}, Options{})
	if _, ok := findNear(at); ok {
		t.Error("radius 50 should collapse to province")
	}
	below := Compile(&domain.Filter{Province: "Ontario", Location: &domain.Location{Radius: 49.9}}, Options{})
	if _, ok := findNear(below); !ok {
		t.Error("radius 49.9 should be a near query")
	}
}

func TestCompile_LargeRadiusWithoutProvinceKeepsAllowList(t *testing.T) {
	q := Compile(&domain.Filter{Location: &domain.Location{Radius: 80}}, Options{})
	if _, ok := findCompare(q, FieldProvince, CmpIn); !ok {
		t.Fatal("allow-list expected when the filter has no province")
	}
}

func TestCompile_ZeroRadiusDisablesGeo(t *testing.T) {
	q := Compile(&domain.Filter{
		Province: "Ontario",
		Location: &domain.Location{Longitude: 1, Latitude: 2, Radius: 0},
	}, Options{})

	if _, ok := findNear(q); ok {
		t.Fatal("radius 0 must not produce a near clause")
	}
	if _, ok := findCompare(q, FieldProvince, CmpEq); ok {
		t.Fatal("radius 0 must not produce a province equality")
	}
}

func TestCompile_LocationOverrideReplacesSavedGeo(t *testing.T) {
	f := &domain.Filter{
		Province: "Ontario",
		Bedroom:  []int{3},
		Location: &domain.Location{Longitude: 1, Latitude: 1, Radius: 75},
	}
	override := &domain.Location{Longitude: -79.38, Latitude: 43.65, Radius: 5}
	q := Compile(f, Options{Location: override})

	n, ok := findNear(q)
	if !ok {
		t.Fatal("override must produce a near clause")
	}
	if n.Near.MaxDistanceMeters != 5000 || n.Near.Longitude != -79.38 {
		t.Errorf("near clause should use the override, got %+v", n.Near)
	}
	if _, ok := findCompare(q, FieldProvince, CmpEq); ok {
		t.Error("saved radius >= 50 must be ignored under an override")
	}
	if _, ok := findCompare(q, FieldBedrooms, CmpIn); !ok {
		t.Error("non-geo clauses must be reused under an override")
	}
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

func TestCompile_Deterministic(t *testing.T) {
	f := &domain.Filter{
		Bedroom:    []int{1, 6},
		Bathroom:   []int{2},
		Keywords:   []string{"view"},
		HouseType:  []domain.HouseType{domain.HouseCondo, domain.HouseDetached},
		PriceRange: &domain.PriceRange{Min: floatPtr(1), Max: floatPtr(2)},
		Location:   &domain.Location{Radius: 10},
	}
	a := Compile(f, Options{Excluded: []string{"x"}})
	b := Compile(f, Options{Excluded: []string{"x"}})

	var ka, kb []Kind
	a.Walk(func(n Node) { ka = append(ka, n.Kind) })
	b.Walk(func(n Node) { kb = append(kb, n.Kind) })
	if len(ka) != len(kb) {
		t.Fatalf("trees differ in size: %d vs %d", len(ka), len(kb))
	}
	for i := range ka {
		if ka[i] != kb[i] {
			t.Fatalf("trees differ at node %d", i)
		}
	}
	assertNoEmptyLogical(t, a)
}

func TestCompile_RoomCountsMatchStringEncodedValues(t *testing.T) {
	q := Compile(&domain.Filter{Bedroom: []int{2, 6}}, Options{})

	cases := map[string]bool{"1": false, "2": true, "3": false, "6": true, "7": true, "12": true, " 9 ": true, "abc": false, "": false}
	for beds, want := range cases {
		got := q.Match(listing(map[string]any{"building.bedroomsTotal": beds}))
		if got != want {
			t.Errorf("bedrooms=%q: expected match=%v, got %v", beds, want, got)
		}
	}

	strict := Compile(&domain.Filter{Bathroom: []int{3}}, Options{})
	if !strict.Match(listing(map[string]any{"building.bathroomTotal": "3"})) {
		t.Error("\"3\" baths should match {3}")
	}
	if strict.Match(listing(map[string]any{"building.bathroomTotal": "13"})) {
		t.Error("\"13\" baths must not match {3}")
	}
}
