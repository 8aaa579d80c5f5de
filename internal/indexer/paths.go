package indexer

import "fmt"

// Route builders. Identifiers are inserted raw; the fetch client encodes
// each path segment on the way out.

func StatusPath() string { return "/api/v1/status" }

func TokensPath(page, limit int) string {
	return fmt.Sprintf("/api/v1/tokens?page=%d&limit=%d", page, limit)
}

func TokenPath(tick string) string { return "/api/v1/zrc20/token/" + tick }

// TokenLegacyPath is the top-level token route the validator consults.
func TokenLegacyPath(tick string) string { return "/token/" + tick }

func HoldersPath(tick string, page, limit int) string {
	return fmt.Sprintf("/api/v1/zrc20/token/%s/balances?page=%d&limit=%d", tick, page, limit)
}

func IntegrityPath(tick string) string { return "/api/v1/zrc20/token/" + tick + "/integrity" }

func BalancePath(tick, address string) string {
	return "/token/" + tick + "/balance/" + address
}

func NamesPath(page, limit int) string {
	return fmt.Sprintf("/api/v1/names?page=%d&limit=%d", page, limit)
}

func InscriptionsPath() string { return "/api/v1/inscriptions" }

func BlockHeightPath() string { return "/block/height" }

func ZRC721StatusPath() string { return "/api/v1/zrc721/status" }

func CollectionsPath(page, limit int) string {
	return fmt.Sprintf("/api/v1/zrc721/collections?page=%d&limit=%d", page, limit)
}

func CollectionTokensPath(collection string, page, limit int) string {
	return fmt.Sprintf("/api/v1/zrc721/collection/%s/tokens?page=%d&limit=%d", collection, page, limit)
}

func TransferPath(id string) string { return "/api/v1/zrc20/transfer/" + id }
