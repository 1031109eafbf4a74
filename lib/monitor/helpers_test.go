package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/senders"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRenderer struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls int

	entered chan struct{} // Signalled on each call when set
	release chan struct{} // Render blocks on it when set
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pages: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls += 1
	markup, err := f.pages[url], f.errs[url]
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return "", err
	}
	return markup, nil
}

func (f *fakeRenderer) setListing(url string, links ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, l := range links {
		fmt.Fprintf(&b, `<li><a href="%s">item</a></li>`, l)
	}
	b.WriteString("</ul></body></html>")
	f.pages[url] = b.String()
}

type fakeChecker struct {
	mu       sync.Mutex
	verdicts map[string]*models.Verdict
	errs     map[string]error
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{verdicts: map[string]*models.Verdict{}, errs: map[string]error{}}
}

func (f *fakeChecker) Check(ctx context.Context, productURL string) (*models.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[productURL]; err != nil {
		return nil, err
	}
	if v, ok := f.verdicts[productURL]; ok {
		return v, nil
	}
	return &models.Verdict{Available: false}, nil
}

type sent struct {
	target string
	msg    *senders.Message
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, target string, msg *senders.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if target == "" {
		return errors.New("no target")
	}
	r.sent = append(r.sent, sent{target, msg})
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fakeTrigger struct {
	started bool
	tick    func()
}

func (f *fakeTrigger) Start(tick func()) error {
	f.started = true
	f.tick = tick
	return nil
}

func (f *fakeTrigger) Stop() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db       *gorm.DB
	monitor  *Monitor
	renderer *fakeRenderer
	checker  *fakeChecker
	notifier *recordingNotifier
	trigger  *fakeTrigger
	clock    *clock
	user     *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := models.Open(filepath.Join(t.TempDir(), "test.sqlite"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		renderer: newFakeRenderer(),
		checker:  newFakeChecker(),
		notifier: &recordingNotifier{},
		trigger:  &fakeTrigger{},
		clock:    &clock{time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		user:     &models.User{WebhookURL: "https://hooks.example/user"},
	}
	f.monitor = New(db, zap.NewNop(), f.checker, f.renderer, f.notifier, f.trigger, 0)
	f.monitor.now = f.clock.now

	require.NoError(t, db.Create(f.user).Error)
	return f
}

func (f *fixture) addCategory(t *testing.T, url, webhook string) *models.Category {
	t.Helper()
	cat := &models.Category{UserID: f.user.ID, URL: url, WebhookURL: webhook}
	require.NoError(t, f.db.Create(cat).Error)
	require.NoError(t, f.db.Preload("User").First(cat, cat.ID).Error)
	return cat
}

func (f *fixture) addProduct(t *testing.T, url string, status models.ProductStatus) *models.Product {
	t.Helper()
	p := &models.Product{UserID: f.user.ID, URL: url, LastStatus: status}
	require.NoError(t, f.db.Create(p).Error)
	require.NoError(t, f.db.Preload("User").First(p, p.ID).Error)
	return p
}

func (f *fixture) snapshot(t *testing.T, categoryID uint) map[string]models.CategoryProduct {
	t.Helper()
	var rows models.CategoryProducts
	require.NoError(t, f.db.Where("category_id = ?", categoryID).Find(&rows).Error)
	out := make(map[string]models.CategoryProduct, len(rows))
	for _, r := range rows {
		out[r.URL] = r
	}
	return out
}
