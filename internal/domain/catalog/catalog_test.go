package catalog

import (
	"math"
	"testing"
)

func TestValidUnit(t *testing.T) {
	for _, u := range Units() {
		if !ValidUnit(string(u)) {
			t.Fatalf("unit %q should be valid", u)
		}
	}
	for _, bad := range []string{"", "KG", "pound"} {
		if ValidUnit(bad) {
			t.Fatalf("unit %q should be invalid", bad)
		}
	}
}

func TestValidRatingAndPrice(t *testing.T) {
	ok, low, high := 4.6, -0.1, 5.1
	if !ValidRating(nil) || !ValidRating(&ok) {
		t.Fatal("expected valid rating")
	}
	if ValidRating(&low) || ValidRating(&high) {
		t.Fatal("expected invalid rating")
	}
	if !ValidPrice(0) || !ValidPrice(150) {
		t.Fatal("expected valid price")
	}
	if ValidPrice(-1) || ValidPrice(math.NaN()) || ValidPrice(math.Inf(1)) {
		t.Fatal("expected invalid price")
	}
}
