package checker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	pages map[string]string
	err   error
	calls []string
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

type stubAdapter struct {
	name    string
	verdict *models.Verdict
	err     error
}

func (s *stubAdapter) Name() string { return s.name }
func (s *stubAdapter) Check(context.Context, string) (*models.Verdict, error) {
	return s.verdict, s.err
}

func TestMarkupIndicatesAvailable(t *testing.T) {
	assert.True(t, MarkupIndicatesAvailable(`<link itemprop="availability" href="https://schema.org/InStock">`))
	assert.True(t, MarkupIndicatesAvailable(`{"availability":"http:\/\/schema.org\/PreOrder"}`))
	assert.True(t, MarkupIndicatesAvailable(`"availability": "HTTPS://SCHEMA.ORG/instock"`))
	assert.False(t, MarkupIndicatesAvailable(`<link itemprop="availability" href="https://schema.org/OutOfStock">`))
	assert.False(t, MarkupIndicatesAvailable(`In stock now!`))
}

func TestGenericAdapter(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		"https://shop.example/p/1": `<script type="application/ld+json">{"offers":{"availability":"https://schema.org/InStock"}}</script>`,
		"https://shop.example/p/2": `<script type="application/ld+json">{"offers":{"availability":"https://schema.org/SoldOut"}}</script>`,
	}}
	a := NewGenericAdapter(r)

	v, err := a.Check(context.Background(), "https://shop.example/p/1")
	require.NoError(t, err)
	assert.True(t, v.Available)

	v, err = a.Check(context.Background(), "https://shop.example/p/2")
	require.NoError(t, err)
	assert.False(t, v.Available)
}

func TestChecker_Dispatch(t *testing.T) {
	vendor := &stubAdapter{name: "vendor", verdict: &models.Verdict{Available: true}}
	generic := &stubAdapter{name: "generic", verdict: &models.Verdict{Available: false}}

	c := NewChecker(zap.NewNop())
	c.Register(HostContains("webhallen.com"), vendor)
	c.Register(Any, generic)

	a, ok := c.AdapterFor("www.webhallen.com")
	require.True(t, ok)
	assert.Equal(t, "vendor", a.Name())

	a, ok = c.AdapterFor("WWW.WEBHALLEN.COM")
	require.True(t, ok)
	assert.Equal(t, "vendor", a.Name())

	a, ok = c.AdapterFor("shop.example")
	require.True(t, ok)
	assert.Equal(t, "generic", a.Name())

	v, err := c.Check(context.Background(), "https://www.webhallen.com/se/product/1")
	require.NoError(t, err)
	assert.True(t, v.Available)
}

func TestChecker_FailsClosed(t *testing.T) {
	c := NewChecker(zap.NewNop())
	c.Register(Any, NewGenericAdapter(&fakeRenderer{err: errors.New("navigation timeout")}))

	v, err := c.Check(context.Background(), "https://shop.example/p/1")
	require.NoError(t, err)
	assert.False(t, v.Available)
}

func TestChecker_SkipsWithoutProductID(t *testing.T) {
	c := NewChecker(zap.NewNop())
	c.Register(HostContains("webhallen.com"), NewWebhallenAdapter(http.DefaultTransport, "http://unused.invalid", time.Second))

	v, err := c.Check(context.Background(), "https://www.webhallen.com/se/category/3")
	assert.ErrorIs(t, err, ErrNoProductID)
	assert.Nil(t, v)
}

func TestChecker_NoAdapter(t *testing.T) {
	c := NewChecker(zap.NewNop())
	_, err := c.Check(context.Background(), "https://shop.example/p/1")
	assert.Error(t, err)
}

func TestChecker_VendorTimeoutFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewChecker(zap.NewNop())
	c.Register(HostContains("webhallen.com"), NewWebhallenAdapter(http.DefaultTransport, srv.URL, 50*time.Millisecond))

	v, err := c.Check(context.Background(), "https://www.webhallen.com/se/product/99")
	require.NoError(t, err)
	assert.False(t, v.Available)
}
