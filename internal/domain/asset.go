package domain

import (
	"fmt"
	"strings"
)

// AssetKey identifies a (category, product) pair. Category and Product keep
// the verbatim display values; comparisons go through Normalized().
type AssetKey struct {
	Category string `json:"category"`
	Product  string `json:"product"`
}

func NewAssetKey(category, product string) AssetKey {
	return AssetKey{
		Category: strings.TrimSpace(category),
		Product:  strings.TrimSpace(product),
	}
}

func (k AssetKey) Normalized() string {
	return NormalizeKey(k.Category, k.Product)
}

func (k AssetKey) Equal(other AssetKey) bool {
	return k.Normalized() == other.Normalized()
}

func (k AssetKey) String() string {
	return k.Category + ":" + k.Product
}

func NormalizeKey(category, product string) string {
	return strings.ToLower(strings.TrimSpace(category)) + "|" + strings.ToLower(strings.TrimSpace(product))
}

// ParseAssetKey reads the "Category:Product" form used by the cli
func ParseAssetKey(s string) (AssetKey, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return AssetKey{}, fmt.Errorf("invalid asset key %q, expected Category:Product", s)
	}
	key := NewAssetKey(parts[0], parts[1])
	if key.Category == "" || key.Product == "" {
		return AssetKey{}, fmt.Errorf("invalid asset key %q, category and product are required", s)
	}
	return key, nil
}
