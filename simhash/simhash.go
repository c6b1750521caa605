package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// DefaultThreshold is the Hamming distance at or below which two lines are
// treated as the same line.
const DefaultThreshold = 3

// minFuzzyTokens is the token count below which lines are only compared for
// exact (normalized) equality. Fingerprints of very short lines are too
// coarse: "1 cup sugar" and "2 cups sugar" are different ingredients.
const minFuzzyTokens = 6

// Tokens lowercases text and splits it into words, dropping punctuation.
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Fingerprint computes a 64-bit SimHash of the given text.
// Uses FNV-64a hash on normalized word tokens with bit vector accumulation.
func Fingerprint(text string) uint64 {
	return fingerprintTokens(Tokens(text))
}

func fingerprintTokens(words []string) uint64 {
	if len(words) == 0 {
		return 0
	}

	var vector [64]int
	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}
	return fingerprint
}

// Distance returns the Hamming distance between two SimHash fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar returns true if the Hamming distance between two fingerprints
// is less than or equal to the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Dedupe drops lines that repeat an earlier line, keeping the first
// occurrence and the original order. Lines of at least minFuzzyTokens words
// are compared by fingerprint within threshold; shorter lines must match
// exactly after normalization. Lines with no words are dropped.
func Dedupe(lines []string, threshold int) []string {
	type seenLine struct {
		key   string
		fp    uint64
		fuzzy bool
	}

	out := make([]string, 0, len(lines))
	seen := make([]seenLine, 0, len(lines))

next:
	for _, line := range lines {
		tokens := Tokens(line)
		if len(tokens) == 0 {
			continue
		}
		cur := seenLine{key: strings.Join(tokens, " ")}
		if len(tokens) >= minFuzzyTokens {
			cur.fuzzy = true
			cur.fp = fingerprintTokens(tokens)
		}

		for _, s := range seen {
			if s.key == cur.key {
				continue next
			}
			if s.fuzzy && cur.fuzzy && Similar(s.fp, cur.fp, threshold) {
				continue next
			}
		}
		seen = append(seen, cur)
		out = append(out, line)
	}
	return out
}
