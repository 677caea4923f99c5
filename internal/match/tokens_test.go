package match

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsStopwords(t *testing.T) {
	got := Tokenize("the sensor module on a board")
	want := []string{"sensor", "on"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokensMatchEmpty(t *testing.T) {
	if TokensMatch(nil, []string{"sensor"}) {
		t.Error("empty token list must not match")
	}
	if TokensMatch([]string{"sensor"}, nil) {
		t.Error("empty token list must not match")
	}
}

func TestTokensMatchExactIntersection(t *testing.T) {
	if !TokensMatch([]string{"temperature", "sensor"}, []string{"sensor"}) {
		t.Error("shared token must match")
	}
	if TokensMatch([]string{"actuator"}, []string{"sensor"}) {
		t.Error("disjoint unrelated tokens must not match")
	}
}

func TestTokensMatchSynonyms(t *testing.T) {
	cases := [][2][]string{
		{{"mcu"}, {"microcontroller"}},
		{{"motor"}, {"actuator"}},
		{{"cloud"}, {"cloudstorage"}},
		{{"comm"}, {"communication"}},
	}
	for _, c := range cases {
		if !TokensMatch(c[0], c[1]) {
			t.Errorf("expected synonym match between %v and %v", c[0], c[1])
		}
	}
}

func TestTokensMatchSubstringContainment(t *testing.T) {
	// No shared token and no synonym group; only the joined-substring test fires.
	if !TokensMatch([]string{"signalscaling"}, []string{"signal"}) {
		t.Error("joined substring containment must match")
	}
	if TokensMatch([]string{"signals"}, []string{"power"}) {
		t.Error("unrelated tokens must not match")
	}
}
