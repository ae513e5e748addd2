package rules

import "testing"

func TestPairIDIsOrderIndependent(t *testing.T) {
	cases := []struct {
		name string
		a, b int64
	}{
		{name: "small_pair", a: 1, b: 2},
		{name: "large_ids", a: 987654321, b: 123456789},
		{name: "adjacent", a: 42, b: 43},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := PairID(tc.a, tc.b)
			ba := PairID(tc.b, tc.a)
			if ab != ba {
				t.Fatalf("pair id depends on order: %s != %s", ab, ba)
			}
			if ab == "" {
				t.Fatalf("empty pair id")
			}
		})
	}
}

func TestPairIDDistinguishesPairs(t *testing.T) {
	if PairID(1, 2) == PairID(1, 3) {
		t.Fatalf("different pairs produced the same id")
	}
}

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair(9, 4)
	if a != 4 || b != 9 {
		t.Fatalf("unexpected normalized pair: got (%d,%d) want (4,9)", a, b)
	}
	a, b = NormalizePair(4, 9)
	if a != 4 || b != 9 {
		t.Fatalf("unexpected normalized pair: got (%d,%d) want (4,9)", a, b)
	}
}
