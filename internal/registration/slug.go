package registration

import (
	"github.com/gosimple/slug"
)

// Slugify derives the public storefront path segment from a store name.
// Store names are Spanish, so the Spanish substitution table applies:
// accents fold to ASCII and "&" becomes "y". "La Esquina De Pepe" becomes
// "la-esquina-de-pepe".
func Slugify(name string) string {
	return slug.MakeLang(name, "es")
}
