package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	cases := []struct {
		name string
		page string
		want bool
	}{
		{"sold out beats buy button", "great album — sold out — add to cart", false},
		{"spanish sold out", "producto agotado, vuelve pronto", false},
		{"portuguese sold out", "item esgotado", false},
		{"inventory zero", "inventory 0 remaining — checkout", false},
		{"waitlist beats buy button", "notify me when ready. add to cart", false},
		{"coming soon", "coming soon!", false},
		{"restock teaser", "restock expected next week", false},
		{"plain add to cart", "click here: add to cart", true},
		{"buy now", "buy now while supplies last", true},
		{"portuguese cart", "adicionar ao carrinho", true},
		{"korean cart", "지금 장바구니 담기", true},
		{"no signals at all", "welcome to our store, browse the catalog", false},
		{"empty page", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Available(c.page))
		})
	}
}

func TestAvailableNegativePrecedence(t *testing.T) {
	// every purchase affordance loses to every negative keyword
	for _, buy := range purchaseKeywords {
		for _, neg := range append(append([]string{}, soldOutKeywords...), waitlistKeywords...) {
			assert.False(t, Available(neg+" ... "+buy), "%q + %q", neg, buy)
		}
	}
}
