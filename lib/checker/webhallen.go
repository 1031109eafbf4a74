package checker

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/stockwatch/lib/models"
)

var webhallenProductID = regexp.MustCompile(`product/(\d+)`)

// Alternate spellings the vendor API has used for the same counters.
// The first key present wins.
var (
	stockKeys    = [][]string{{"stock", "web"}, {"stockWeb"}, {"stock_web"}}
	preorderKeys = [][]string{{"price", "amountLeft"}, {"price", "amount_left"}}
)

type WebhallenAdapter struct {
	transport http.RoundTripper
	apiBase   string
	timeout   time.Duration
}

func NewWebhallenAdapter(transport http.RoundTripper, apiBase string, timeout time.Duration) *WebhallenAdapter {
	return &WebhallenAdapter{transport, strings.TrimRight(apiBase, "/"), timeout}
}

func (a *WebhallenAdapter) Name() string { return "webhallen" }

func ExtractWebhallenID(productURL string) (string, bool) {
	m := webhallenProductID.FindStringSubmatch(productURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (a *WebhallenAdapter) Check(ctx context.Context, productURL string) (*models.Verdict, error) {
	id, ok := ExtractWebhallenID(productURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProductID, productURL)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var body map[string]any
	err := requests.URL(fmt.Sprintf("%s/api/product/%s", a.apiBase, id)).
		Transport(a.transport).
		Header("X-Requested-With", "XMLHttpRequest").
		ToJSON(&body).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("webhallen product %s: %w", id, err)
	}

	return webhallenVerdict(body), nil
}

func webhallenVerdict(body map[string]any) *models.Verdict {
	prod := body
	if nested, ok := body["product"].(map[string]any); ok {
		prod = nested
	}

	stock := firstNumber(prod, stockKeys)
	preorder := firstNumber(prod, preorderKeys)
	return &models.Verdict{
		Available: stock > 0 || preorder > 0,
		Extra: map[string]int{
			models.ExtraStock:    stock,
			models.ExtraPreorder: preorder,
		},
	}
}

func firstNumber(m map[string]any, paths [][]string) int {
	for _, path := range paths {
		if n, ok := lookupNumber(m, path); ok {
			return n
		}
	}
	return 0
}

func lookupNumber(m map[string]any, path []string) (int, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		if cur, ok = obj[key]; !ok || cur == nil {
			return 0, false
		}
	}
	n, ok := cur.(float64)
	return int(n), ok
}
