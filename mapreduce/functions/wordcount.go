package functions

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r belongs to a word run.
// Letters, marks and numbers of any script count, plus the underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

// Tokens splits line into normalized tokens.
// A token is either a maximal run of word runes or a single rune that is
// neither a word rune nor whitespace. Whitespace only separates tokens.
// Every token is lower-cased before it is yielded.
//
// The returned sequence is lazy and can be ranged over any number of times.
func Tokens(line string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(line); {
			start, end := nextToken(line, i)
			if start < 0 {
				return
			}
			i = end
			// Normalize: convert to lower case
			token := strings.ToLower(line[start:end])
			if token == "" {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

// Count returns the number of tokens Tokens would yield for line.
func Count(line string) int {
	n := 0
	for i := 0; i < len(line); {
		start, end := nextToken(line, i)
		if start < 0 {
			break
		}
		n++
		i = end
	}
	return n
}

// nextToken returns the byte range of the first token at or after i,
// or start == -1 if the rest of the line is whitespace.
func nextToken(line string, i int) (start, end int) {
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if !IsWordRune(r) {
			// punctuation and symbols are one token each
			return i, i + size
		}
		j := i + size
		for j < len(line) {
			r, size = utf8.DecodeRuneInString(line[j:])
			if !IsWordRune(r) {
				break
			}
			j += size
		}
		return i, j
	}
	return -1, -1
}
