package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendorServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractWebhallenID(t *testing.T) {
	id, ok := ExtractWebhallenID("https://www.webhallen.com/se/product/358201-Some-Console")
	assert.True(t, ok)
	assert.Equal(t, "358201", id)

	_, ok = ExtractWebhallenID("https://www.webhallen.com/se/category/3-Gaming")
	assert.False(t, ok)
}

func TestWebhallenAdapter_FieldSpellings(t *testing.T) {
	srv := vendorServer(t, map[string]string{
		"/api/product/1": `{"product": {"stock": {"web": 3}}}`,
		"/api/product/2": `{"product": {"stockWeb": 3}}`,
		"/api/product/3": `{"product": {"stock_web": 3}}`,
		"/api/product/4": `{"stock_web": 3}`,
		"/api/product/5": `{"product": {"stock_web": 0, "price": {"amount_left": 7}}}`,
		"/api/product/6": `{"product": {"stockWeb": 0, "price": {"amountLeft": 7}}}`,
		"/api/product/7": `{"product": {"stockWeb": 0, "price": {"amountLeft": 0}}}`,
		"/api/product/8": `{"product": {"stock": {"web": 0}, "stockWeb": 9}}`,
	})
	a := NewWebhallenAdapter(http.DefaultTransport, srv.URL, 5*time.Second)

	cases := []struct {
		id        string
		available bool
		stock     int
		preorder  int
	}{
		{"1", true, 3, 0},
		{"2", true, 3, 0},
		{"3", true, 3, 0},
		{"4", true, 3, 0},
		{"5", true, 0, 7},
		{"6", true, 0, 7},
		{"7", false, 0, 0},
		{"8", false, 0, 0}, // first present spelling wins, even when zero
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			v, err := a.Check(context.Background(), "https://www.webhallen.com/se/product/"+tc.id+"-x")
			require.NoError(t, err)
			assert.Equal(t, tc.available, v.Available)
			assert.Equal(t, tc.stock, v.Extra[models.ExtraStock])
			assert.Equal(t, tc.preorder, v.Extra[models.ExtraPreorder])
		})
	}
}

func TestWebhallenAdapter_SnakeAndCamelAgree(t *testing.T) {
	srv := vendorServer(t, map[string]string{
		"/api/product/10": `{"product": {"stock_web": 2}}`,
		"/api/product/11": `{"product": {"stockWeb": 2}}`,
	})
	a := NewWebhallenAdapter(http.DefaultTransport, srv.URL, 5*time.Second)

	snake, err := a.Check(context.Background(), "https://www.webhallen.com/se/product/10")
	require.NoError(t, err)
	camel, err := a.Check(context.Background(), "https://www.webhallen.com/se/product/11")
	require.NoError(t, err)
	assert.Equal(t, camel, snake)
}

func TestWebhallenAdapter_Errors(t *testing.T) {
	srv := vendorServer(t, map[string]string{
		"/api/product/20": `not json`,
	})
	a := NewWebhallenAdapter(http.DefaultTransport, srv.URL, 5*time.Second)
	ctx := context.Background()

	_, err := a.Check(ctx, "https://www.webhallen.com/se/campaign/summer")
	assert.ErrorIs(t, err, ErrNoProductID)

	_, err = a.Check(ctx, "https://www.webhallen.com/se/product/20")
	assert.Error(t, err)

	_, err = a.Check(ctx, "https://www.webhallen.com/se/product/404")
	assert.Error(t, err)
}
