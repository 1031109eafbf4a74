package senders

import (
	"fmt"
	"strings"

	"github.com/fiffu/stockwatch/lib/models"
)

// AvailableMessage announces a product coming into stock. Wording is Swedish
// to match the storefronts being monitored.
func AvailableMessage(productURL string, verdict *models.Verdict) *Message {
	var b strings.Builder
	fmt.Fprintf(&b, "@here 📢 **%s** är nu *tillgänglig!*", productURL)
	if stock, ok := verdict.Counter(models.ExtraStock); ok {
		fmt.Fprintf(&b, "\n📦 Lager: **%d**", stock)
	}
	if preorder, ok := verdict.Counter(models.ExtraPreorder); ok && preorder > 0 {
		fmt.Fprintf(&b, "\n🛒 Förhandsbokningar kvar: **%d**", preorder)
	}
	return &Message{
		Subject: fmt.Sprintf("Stockwatch: %s är tillgänglig", productURL),
		Text:    b.String(),
	}
}

func DiscoveryMessage(categoryURL, productURL string) *Message {
	return &Message{
		Subject: fmt.Sprintf("Stockwatch: ny produkt i %s", categoryURL),
		Text:    fmt.Sprintf("🆕 Ny produkt hittad i %s\n%s", categoryURL, productURL),
	}
}
