package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"splitbill/models"
)

// priceRE matches a decimal price token such as 3.50 or 12.99.
var priceRE = regexp.MustCompile(`\d+\.\d{2}`)

// nameJunk reports runes trimmed from both ends of a recovered item name.
// Besides whitespace it drops currency markers and separators left dangling
// once the price token is cut out ("Coffee $ 3.50" -> "Coffee").
func nameJunk(r rune) bool {
	return unicode.IsSpace(r) || r == '$' || r == ','
}

// ExtractItem parses one sanitized line into an item. The rightmost price
// token is the line total; every price token is removed from the name.
// Lines without a price token yield false.
func ExtractItem(line string) (models.LineItem, bool) {
	matches := priceRE.FindAllString(line, -1)
	if len(matches) == 0 {
		return models.LineItem{}, false
	}
	cost, err := decimal.NewFromString(matches[len(matches)-1])
	if err != nil {
		return models.LineItem{}, false
	}
	name := priceRE.ReplaceAllString(line, "")
	name = strings.TrimFunc(name, nameJunk)
	return models.LineItem{Name: name, Cost: cost}, true
}

// ExtractItems returns the items found across lines, in line order.
// An empty result is ErrNoItemsFound.
func ExtractItems(lines []string) ([]models.LineItem, error) {
	var items []models.LineItem
	for _, l := range lines {
		if it, ok := ExtractItem(l); ok {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil, ErrNoItemsFound
	}
	return items, nil
}
