package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/wrungel/sweep/internal/haystack"
)

// nthSpec is a parsed --nth field selector: a set of 1-based field indices,
// or nil meaning "every field is searchable" (no --nth given).
type nthSpec map[int]bool

// parseNth parses a comma-separated list of 1-based field indices or
// ranges ("2" or "1,3" or "2-4") into an nthSpec.
func parseNth(spec string) (nthSpec, error) {
	if spec == "" {
		return nil, nil
	}
	set := make(nthSpec)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			loN, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("--nth: bad range %q", part)
			}
			hiN, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("--nth: bad range %q", part)
			}
			for i := loN; i <= hiN; i++ {
				set[i] = true
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("--nth: bad field index %q", part)
		}
		set[n] = true
	}
	return set, nil
}

// readCandidates reads one candidate per line from r, converting each into
// a haystack.Item. delim and nth subdivide the line into fields;
// delim == "" splits on runs of whitespace.
func readCandidates(r io.Reader, delim string, nth nthSpec) ([]haystack.Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var items []haystack.Item
	for scanner.Scan() {
		items = append(items, lineToItem(scanner.Text(), delim, nth))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sweep: reading stdin: %w", err)
	}
	return items, nil
}

// readJSONCandidates reads one haystack.Item JSON value per line, the
// --json stdin format.
func readJSONCandidates(r io.Reader) ([]haystack.Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	var items []haystack.Item
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var item haystack.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("sweep: parsing --json candidate: %w", err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sweep: reading stdin: %w", err)
	}
	return items, nil
}

// lineToItem splits line into alternating field/separator tokens so that
// fieldsText's concatenation reproduces line exactly, while marking only
// the nth-selected fields Active (so only they participate in scoring).
func lineToItem(line, delim string, nth nthSpec) haystack.Item {
	if nth == nil {
		return haystack.Item{Target: []haystack.Field{{Text: line, Active: true}}}
	}

	var fields []haystack.Field
	fieldIndex := 0
	for _, tok := range tokenize(line, delim) {
		if tok.isSep {
			fields = append(fields, haystack.Field{Text: tok.text})
			continue
		}
		fieldIndex++
		fields = append(fields, haystack.Field{Text: tok.text, Active: nth[fieldIndex]})
	}
	return haystack.Item{Target: fields}
}

type token struct {
	text  string
	isSep bool
}

// tokenize splits s into alternating field/separator tokens. delim == ""
// splits on runs of whitespace (awk-style); otherwise delim is a literal
// substring separator.
func tokenize(s, delim string) []token {
	if delim == "" {
		return tokenizeWhitespace(s)
	}
	var toks []token
	for {
		idx := strings.Index(s, delim)
		if idx < 0 {
			if s != "" {
				toks = append(toks, token{text: s})
			}
			return toks
		}
		toks = append(toks, token{text: s[:idx]}, token{text: delim, isSep: true})
		s = s[idx+len(delim):]
	}
}

func tokenizeWhitespace(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		start := i
		isSpace := unicode.IsSpace(rune(s[i]))
		for i < len(s) && unicode.IsSpace(rune(s[i])) == isSpace {
			i++
		}
		toks = append(toks, token{text: s[start:i], isSep: isSpace})
	}
	return toks
}
