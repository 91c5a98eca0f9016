package model

import "strings"

// Keyword tables for the availability heuristic. Order encodes precedence:
// an explicit negative signal must override a stale purchase affordance that
// can linger in cached markup.
var (
	soldOutKeywords = []string{
		"sold out", "agotado", "esgotado", "out of stock", "inventory 0", "no stock",
	}
	waitlistKeywords = []string{
		"coming soon", "notify me", "notification", "wait", "preparing", "restock",
	}
	purchaseKeywords = []string{
		"add to cart", "checkout", "buy now", "comprar",
		"adicionar ao carrinho", "finalizar compra", "장바구니",
	}
)

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Available classifies already-lowercased page text. The purchase affordance
// is the only positive signal; a page matching none of the keyword classes
// is treated as not available rather than unknown.
func Available(pageText string) bool {
	if containsAny(pageText, soldOutKeywords) {
		return false
	}
	if containsAny(pageText, waitlistKeywords) {
		return false
	}
	return containsAny(pageText, purchaseKeywords)
}
