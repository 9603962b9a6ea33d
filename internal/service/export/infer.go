package export

import (
	"strconv"
	"strings"
)

// cellKind is the inferred spreadsheet type of a text cell.
type cellKind int

const (
	kindText cellKind = iota
	kindNumber
	kindCurrency
	kindPercent
)

// inferredCell is the typed interpretation of a table cell's text content.
type inferredCell struct {
	Kind   cellKind
	Number float64
	// NumFmt is the spreadsheet number format matching the source text's
	// decimal places.
	NumFmt string
	Text   string
}

// inferCell types a cell from its text: a %-suffixed number becomes a
// percentage cell (value divided by 100, decimals matching the text), a
// £-prefixed number a currency cell (two decimals, or none when the value
// is exactly zero), any other numeric-looking text a plain number. Anything
// else stays text.
func inferCell(text string) inferredCell {
	trimmed := strings.TrimSpace(text)

	if strings.HasSuffix(trimmed, "%") {
		body := strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			places := decimalPlaces(body)
			return inferredCell{
				Kind:   kindPercent,
				Number: f / 100,
				NumFmt: percentFormat(places),
			}
		}
	}

	if strings.HasPrefix(trimmed, "£") {
		body := stripNonNumeric(strings.TrimPrefix(trimmed, "£"))
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			numFmt := "£#,##0.00"
			if f == 0 {
				numFmt = "£#,##0"
			}
			return inferredCell{Kind: kindCurrency, Number: f, NumFmt: numFmt}
		}
	}

	plain := strings.ReplaceAll(trimmed, ",", "")
	if plain != "" {
		if f, err := strconv.ParseFloat(plain, 64); err == nil {
			return inferredCell{
				Kind:   kindNumber,
				Number: f,
				NumFmt: numberFormat(decimalPlaces(plain)),
			}
		}
	}

	return inferredCell{Kind: kindText, Text: text}
}

func decimalPlaces(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func numberFormat(places int) string {
	if places == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", places)
}

func percentFormat(places int) string {
	return numberFormat(places) + "%"
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
