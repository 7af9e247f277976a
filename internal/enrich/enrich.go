// Package enrich fills in derived shop fields using keyword inference over
// the shop name. All inference is deterministic: fixed keyword tables, no
// randomness, no I/O. The tables are part of the output contract.
package enrich

import (
	"strings"
)

// organicKeywords mark a shop as organic when any is a case-insensitive
// substring of its name.
var organicKeywords = []string{"bio", "organic", "öko", "naturkost", "demeter", "knospe"}

// productCategory pairs a canonical category tag with the multilingual
// keywords that select it. Output order follows declaration order.
type productCategory struct {
	tag      string
	keywords []string
}

var productCategories = []productCategory{
	{"vegetables", []string{"gemüse", "gemuese", "vegetable", "légume", "legume", "verdura"}},
	{"fruits", []string{"obst", "frücht", "fruecht", "fruit", "beeren", "frutta"}},
	{"dairy", []string{"milch", "käse", "kaese", "molkerei", "dairy", "fromage", "joghurt"}},
	{"meat", []string{"fleisch", "metzg", "wurst", "meat", "viande", "carne"}},
	{"eggs", []string{"eier", "egg", "oeuf", "uova"}},
	{"honey", []string{"honig", "honey", "imkerei", "miel", "miele"}},
	{"herbs", []string{"kräuter", "kraeuter", "herb", "tee", "herbes"}},
	{"wines", []string{"wein", "wine", "weingut", "rebberg", "vin", "vino"}},
	{"flowers", []string{"blumen", "flower", "blüte", "fleur", "fiori"}},
	{"bakery", []string{"brot", "bäckerei", "baeckerei", "bakery", "beck", "pain", "panetteria"}},
}

// defaultProducts is used when no category keyword matches the name.
var defaultProducts = []string{"vegetables", "fruits", "dairy"}

// imagePunctuation is stripped from derived image filenames.
const imagePunctuation = ",.;:!?()[]{}'\"/\\"

// LooksOrganic reports whether the shop name suggests organic
// certification.
func LooksOrganic(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range organicKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Products returns the shop's product tags. An explicit non-empty list
// passes through unchanged; otherwise categories are inferred from the
// name, in declaration order, with a fixed default when nothing matches.
func Products(name string, existing []string) []string {
	if len(existing) > 0 {
		out := make([]string, len(existing))
		copy(out, existing)
		return out
	}

	lower := strings.ToLower(name)
	var tags []string
	for _, category := range productCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				tags = append(tags, category.tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		out := make([]string, len(defaultProducts))
		copy(out, defaultProducts)
		return out
	}
	return tags
}

// Description synthesizes the standard shop description.
func Description(name, canton string, organic bool, products []string) string {
	offering := "fresh local products"
	if organic {
		offering = "certified organic products"
	}

	return name + " is a farm shop located in " + canton +
		", Switzerland, offering " + offering +
		". They specialize in " + joinWithAnd(products) + "."
}

// ImageFilename derives a stable image filename from the shop name:
// lower-cased, spaces and hyphens become underscores, punctuation is
// stripped, ".jpg" appended.
func ImageFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('_')
		case strings.ContainsRune(imagePunctuation, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String() + ".jpg"
}

// joinWithAnd joins items with commas and "and" before the last one:
// [a b c] → "a, b and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
