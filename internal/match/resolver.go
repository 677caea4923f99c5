package match

import (
	"fmt"
	"strconv"
	"strings"

	"circuitquest-service/internal/domain"
)

// Result is the verdict for one submitted answer plus a diagnostic reason
// naming the matcher that accepted (or the reason for rejection).
type Result struct {
	Correct bool
	Reason  string
}

// textMatcher is one strategy in the free-text chain, tried in order with
// short-circuit on first acceptance.
type textMatcher struct {
	name  string
	match func(raw, correct string) (bool, string)
}

// freeTextChain orders the free-text strategies from strict to loose. The
// token and fuzzy stages are intentionally permissive graders; near-miss
// answers are accepted by contract.
var freeTextChain = []textMatcher{
	{name: "exact", match: matchExact},
	{name: "variation", match: matchVariation},
	{name: "tokens", match: matchTokens},
	{name: "fuzzy", match: matchFuzzy},
}

// Resolve scores rawAnswer against the question. Multiple-choice and free-text
// resolution are mutually exclusive, keyed on whether the question has options.
func Resolve(q domain.Question, rawAnswer string) Result {
	if Normalize(rawAnswer) == "" {
		return Result{Correct: false, Reason: "empty answer"}
	}

	if q.IsChoice() {
		res := resolveChoice(q, rawAnswer)
		if res.Correct {
			return res
		}
		// Fuzzy fallback against the correct option's text catches typo'd
		// option answers the strict comparison missed.
		if correctIdx, err := strconv.Atoi(strings.TrimSpace(q.Answer)); err == nil && correctIdx >= 0 && correctIdx < len(q.Options) {
			if ok, detail := matchFuzzy(rawAnswer, q.Options[correctIdx]); ok {
				return Result{Correct: true, Reason: detail}
			}
		}
		return res
	}

	for _, m := range freeTextChain {
		if ok, detail := m.match(rawAnswer, q.Answer); ok {
			reason := m.name
			if detail != "" {
				reason = detail
			}
			return Result{Correct: true, Reason: reason}
		}
	}
	return Result{Correct: false, Reason: "no match"}
}

// resolveChoice compares a numeric answer as an option index, otherwise the
// answer text against the correct option. Only lowercase+trim is applied so
// option punctuation stays significant.
func resolveChoice(q domain.Question, rawAnswer string) Result {
	correctIdx, err := strconv.Atoi(strings.TrimSpace(q.Answer))
	if err != nil || correctIdx < 0 || correctIdx >= len(q.Options) {
		return Result{Correct: false, Reason: "question has no valid correct index"}
	}

	input := cleanText(rawAnswer)
	if isNumeric(input) {
		idx, err := strconv.Atoi(input)
		if err == nil && idx == correctIdx {
			return Result{Correct: true, Reason: "option index"}
		}
		return Result{Correct: false, Reason: "wrong option index"}
	}

	if input == cleanText(q.Options[correctIdx]) {
		return Result{Correct: true, Reason: "option text"}
	}
	return Result{Correct: false, Reason: "wrong option text"}
}

func matchExact(raw, correct string) (bool, string) {
	return cleanText(raw) == cleanText(correct), ""
}

// matchVariation cross-compares whitespace-stripped and
// whitespace/hyphen/underscore-stripped forms of both sides.
func matchVariation(raw, correct string) (bool, string) {
	variants := func(s string) []string {
		clean := cleanText(s)
		return []string{
			clean,
			stripChars(clean, " \t\n\r"),
			stripChars(clean, " \t\n\r-_"),
		}
	}
	for _, u := range variants(raw) {
		for _, c := range variants(correct) {
			if u == c {
				return true, ""
			}
		}
	}
	return false, ""
}

func matchTokens(raw, correct string) (bool, string) {
	return TokensMatch(Tokenize(Normalize(raw)), Tokenize(Normalize(correct))), ""
}

// matchFuzzy accepts small typos on the normalized forms: distance at most 2,
// or similarity above a length-dependent threshold (longer answers tolerate
// proportionally more edits).
func matchFuzzy(raw, correct string) (bool, string) {
	normAnswer := Normalize(raw)
	normCorrect := Normalize(correct)
	if normAnswer == "" || normCorrect == "" {
		return false, ""
	}

	dist := Distance(normAnswer, normCorrect)
	sim := Similarity(normAnswer, normCorrect)

	maxLen := len(normAnswer)
	if len(normCorrect) > maxLen {
		maxLen = len(normCorrect)
	}
	threshold := 0.75
	if maxLen > 10 {
		threshold = 0.6
	}

	if dist <= 2 || sim >= threshold {
		return true, fmt.Sprintf("fuzzy(dist=%d,sim=%.2f)", dist, sim)
	}
	return false, ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
