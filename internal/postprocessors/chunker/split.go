package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// blankLine matches a paragraph boundary: a line break, optional
// whitespace-only lines, and another line break.
var blankLine = regexp.MustCompile(`\n[ \t\f\v]*\n\s*`)

// Split segments content into paragraphs, then splits any paragraph longer
// than maxLen at sentence boundaries and greedily packs the sentences.
// maxLen is a soft target: a single sentence longer than maxLen is emitted
// whole. Lengths are measured in runes. Empty input yields nil.
func Split(content string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var chunks []string
	for _, paragraph := range blankLine.Split(content, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		if utf8.RuneCountInString(paragraph) <= maxLen {
			chunks = append(chunks, paragraph)
			continue
		}
		chunks = append(chunks, packSentences(Sentences(paragraph), maxLen)...)
	}
	return chunks
}

// packSentences fills a buffer with sentences until the next one would
// overflow maxLen, then emits the buffer.
func packSentences(sentences []string, maxLen int) []string {
	var (
		chunks []string
		buf    strings.Builder
		bufLen int
	)

	for _, sentence := range sentences {
		sentenceLen := utf8.RuneCountInString(sentence)
		if bufLen+sentenceLen > maxLen && bufLen > 0 {
			chunks = append(chunks, strings.TrimSpace(buf.String()))
			buf.Reset()
			bufLen = 0
		}
		buf.WriteString(sentence)
		buf.WriteByte(' ')
		bufLen += sentenceLen + 1
	}

	if bufLen > 0 {
		if last := strings.TrimSpace(buf.String()); last != "" {
			chunks = append(chunks, last)
		}
	}
	return chunks
}

// Sentences splits text after '.', '!' or '?' when followed by whitespace.
// The terminator stays with its sentence and the whitespace is dropped.
func Sentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
