package utils

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text into lines of at most maxChars runes using greedy word wrap.
// A word longer than the budget gets a line of its own; it is never split.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var current strings.Builder
	currentLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > maxChars {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Truncate caps text at maxRunes runes
func Truncate(text string, maxRunes int) string {
	text = strings.TrimSpace(text)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes]))
}

// Shorten keeps the first maxLines lines and appends placeholder to the last kept
// line when anything was dropped. maxLines <= 0 keeps everything.
func Shorten(lines []string, maxLines int, placeholder string) []string {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	out := make([]string, maxLines)
	copy(out, lines[:maxLines])
	out[maxLines-1] = strings.TrimRight(out[maxLines-1], " .,;:") + placeholder
	return out
}

// IsMissing reports whether a cell value stands for "no value" (blank, nan, null...)
func IsMissing(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "nan", "none", "null", "nil", "-", "n/a":
		return true
	}
	return false
}
