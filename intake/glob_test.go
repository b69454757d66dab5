package intake

import "testing"

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		match   bool
	}{
		{"addcharge_mapping.csv", "addcharge_mapping.csv", true},
		{"addcharge_mapping.csv", "addcharge_mappingXcsv", false},
		{"*.csv", "in/sub/orders.csv", true}, // '*' crosses directories
		{"in/*.csv", "in/orders.csv", true},
		{"in/*.csv", "out/orders.csv", false},
		{"orders_????.csv", "orders_2024.csv", true},
		{"orders_????.csv", "orders_24.csv", false},
		{"orders_[0-9].csv", "orders_7.csv", true},
		{"orders_[!0-9].csv", "orders_7.csv", false},
		{"orders_[!0-9].csv", "orders_x.csv", true},
		{"[]]x", "]x", true},
		{"a[b", "a[b", true},
		{"Orders.csv", "orders.csv", false},
		{"a+b(c).csv", "a+b(c).csv", true},
		{"*", "line\nbreak", true},
		{"orders.csv", "orders.csv.bak", false},
	}
	for _, tc := range cases {
		got, err := MatchPattern(tc.pattern, tc.name)
		if err != nil {
			t.Fatalf("MatchPattern(%q, %q): unexpected error: %v", tc.pattern, tc.name, err)
		}
		if got != tc.match {
			t.Fatalf("MatchPattern(%q, %q): expected %v; got %v", tc.pattern, tc.name, tc.match, got)
		}
	}
}

func TestMatchPatternInvalidRange(t *testing.T) {
	_, err := MatchPattern("[z-a]", "b")
	if _, ok := err.(*PatternError); !ok {
		t.Fatalf("expected *PatternError; got %v", err)
	}
}
