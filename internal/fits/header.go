package fits

import (
	"io"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// card is one parsed 80-byte header card.
type card struct {
	key     string
	value   any
	comment string
	raw     string
}

// header is the ordered card list of a single HDU, up to (excluding) END.
type header struct {
	cards []card
}

// get returns the value of the first card with the given keyword.
func (h *header) get(key string) (any, bool) {
	for _, c := range h.cards {
		if c.key == key {
			return c.value, true
		}
	}
	return nil, false
}

// getString returns a string-valued card, "" when absent or non-string.
func (h *header) getString(key string) string {
	if v, ok := h.get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getInt returns an integer-valued card with a default for absent keys.
func (h *header) getInt(key string, fallback int64) int64 {
	if v, ok := h.get(key); ok {
		if n, ok := v.(int); ok {
			return int64(n)
		}
	}
	return fallback
}

// readHeader reads complete 2880-byte blocks from r until the END card.
//
// An io.EOF on the very first block returns io.EOF so callers can detect a
// clean end of file at an HDU boundary; any later truncation is a structure
// error.
func readHeader(r io.Reader) (*header, error) {
	h := &header{}
	block := make([]byte, blockSize)
	first := true

	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if first && err == io.EOF {
				return nil, io.EOF
			}
			return nil, errors.WrapError(err, errors.CategoryStructure, "truncated FITS header block").Build()
		}
		first = false

		for i := 0; i < blockSize; i += cardSize {
			raw := string(block[i : i+cardSize])
			key := strings.TrimRight(raw[:8], " ")
			if key == "END" {
				return h, nil
			}
			h.cards = append(h.cards, parseCard(key, raw))
		}
	}
}

// parseCard splits one raw card into keyword, typed value, and comment.
func parseCard(key, raw string) card {
	c := card{key: key, raw: raw}

	// Commentary and blank cards carry free text instead of a value.
	if key == "COMMENT" || key == "HISTORY" || key == "" || raw[8:10] != "= " {
		c.value = strings.TrimRight(raw[8:], " ")
		return c
	}

	rest := raw[10:]
	trimmed := strings.TrimLeft(rest, " ")

	if strings.HasPrefix(trimmed, "'") {
		value, after := parseQuoted(trimmed)
		c.value = value
		if idx := strings.Index(after, "/"); idx >= 0 {
			c.comment = strings.TrimSpace(after[idx+1:])
		}
		return c
	}

	valueText := trimmed
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		valueText = trimmed[:idx]
		c.comment = strings.TrimSpace(trimmed[idx+1:])
	}
	c.value = parseScalar(strings.TrimSpace(valueText))
	return c
}

// parseQuoted consumes a FITS quoted string ('' escapes a quote) and returns
// the unescaped value plus the remainder of the card.
func parseQuoted(s string) (string, string) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		if s[i] == '\'' {
			if i+1 < len(s) && s[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			i++
			break
		}
		b.WriteByte(s[i])
		i++
	}
	// FITS pads string values with trailing spaces inside the quotes.
	return strings.TrimRight(b.String(), " "), s[i:]
}

// parseScalar converts a card value token into bool, int, float64, or string.
// Integers come back as int so values survive a YAML round trip unchanged.
func parseScalar(token string) any {
	switch token {
	case "T":
		return true
	case "F":
		return false
	case "":
		return ""
	}
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}
	return token
}
