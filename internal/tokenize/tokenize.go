// Package tokenize splits raw document text into sentences and words.
//
// Sentences are the non-empty segments between literal '.' characters and
// words are the non-empty runs of non-whitespace inside a sentence. Nothing is
// trimmed, lowercased, or stemmed: "Cat" and "cat" are different words and a
// sentence keeps its surrounding spaces. All sequences are lazy and can be
// ranged over any number of times.
package tokenize

import (
	"iter"
	"strings"
	"unicode"
)

const sentenceDelimiter = "."

// Sentences yields every non-empty segment of text between '.' characters.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for segment := range strings.SplitSeq(text, sentenceDelimiter) {
			if segment == "" {
				continue
			}
			if !yield(segment) {
				return
			}
		}
	}
}

// Words yields the whitespace-separated words of a sentence.
func Words(sentence string) iter.Seq[string] {
	return strings.FieldsFuncSeq(sentence, unicode.IsSpace)
}

// CorpusWords yields every word of every sentence in text, in document order.
func CorpusWords(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sentence := range Sentences(text) {
			for word := range Words(sentence) {
				if !yield(word) {
					return
				}
			}
		}
	}
}

// CountWords returns the number of words CorpusWords would yield.
func CountWords(text string) int {
	n := 0
	for range CorpusWords(text) {
		n++
	}
	return n
}
