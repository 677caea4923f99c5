package match

import "strings"

// stopwords are filler words dropped before token comparison.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "module": {}, "unit": {},
	"device": {}, "board": {}, "system": {}, "node": {},
}

// synonymGroups maps a canonical concept to the normalized aliases accepted
// for it. Loaded once at init; never mutated at request time.
var synonymGroups = map[string][]string{
	"sensor": {
		"sensor", "sensors", "sensormodule", "sensor module",
		"multisensor", "multi sensor", "multi sensor module",
	},
	"signal scaling": {
		"signal scaling", "signal scale", "signal scaling module",
		"signal scaling unit", "signal scaling stage", "signal scaling circuit",
	},
	"microcontroller": {"microcontroller", "mcu", "controller"},
	"communication module": {
		"communication module", "comm module", "comm", "communication",
	},
	"cloud storage": {"cloud storage", "cloud", "cloudstorage"},
	"actuator":      {"actuator", "actuators", "motor", "relay"},
	"resistor":      {"resistor", "resistors"},
	"capacitor":     {"capacitor", "capacitors"},
	"diode":         {"diode", "diodes"},
	"inductor":      {"inductor", "inductors"},
	"mouse":         {"mouse", "computer mouse"},
	"keyboard":      {"keyboard", "key board"},
}

// synonymLookup maps each normalized alias to its concept key.
var synonymLookup = buildSynonymLookup()

func buildSynonymLookup() map[string]string {
	lookup := make(map[string]string)
	for concept, aliases := range synonymGroups {
		for _, alias := range aliases {
			lookup[Normalize(alias)] = concept
		}
	}
	return lookup
}

// Tokenize splits a normalized string into words, dropping stopwords.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := fields[:0]
	for _, f := range fields {
		if _, skip := stopwords[f]; !skip {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokensMatch decides relaxed equivalence between two token lists. It is
// deliberately permissive, an OR of three increasingly loose tests:
// shared exact token, shared synonym concept, or space-joined substring
// containment. Empty token lists never match.
func TokensMatch(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	for _, t := range a {
		if _, ok := setB[t]; ok {
			return true
		}
	}

	for _, concept := range conceptsOf(a) {
		for _, other := range conceptsOf(b) {
			if concept == other {
				return true
			}
		}
	}

	joinedA := strings.Join(a, " ")
	joinedB := strings.Join(b, " ")
	return strings.Contains(joinedA, joinedB) || strings.Contains(joinedB, joinedA)
}

func conceptsOf(tokens []string) []string {
	var concepts []string
	for _, t := range tokens {
		if concept, ok := synonymLookup[t]; ok {
			concepts = append(concepts, concept)
		}
	}
	return concepts
}
