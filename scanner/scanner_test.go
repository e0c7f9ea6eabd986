package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/integrations/gemini"
	"github.com/aqlanhadi/slipscan/integrations/slipok"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ktbText = "กรุงไทย\nโอนเงินสำเร็จ\n12 ธ.ค. 68 - 14:30\nรหัสอ้างอิง: ABC123\n"

type fakeVerifier struct {
	quota    int
	quotaErr error
	err      error
	calls    int32
}

func (f *fakeVerifier) Verify(ctx context.Context, qr string) (common.Fields, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return common.Fields{}, f.err
	}
	return common.Fields{Bank: "KBank", Date: "2025-12-07 14:30:00", Sender: "นาย ก", Receiver: "ร้าน", Amount: "10.00", RefID: qr}, nil
}

func (f *fakeVerifier) Quota(ctx context.Context) (int, error) {
	return f.quota, f.quotaErr
}

type fakeVision struct {
	mu       sync.Mutex
	failures map[string]int
	inFlight int32
	maxSeen  int32
	delay    time.Duration
}

func (f *fakeVision) ExtractImage(ctx context.Context, img []byte, mimeType string) (common.Fields, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		old := atomic.LoadInt32(&f.maxSeen)
		if n <= old || atomic.CompareAndSwapInt32(&f.maxSeen, old, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures[string(img)] > 0 {
		f.failures[string(img)]--
		return common.Fields{}, gemini.ErrQuotaExceeded
	}
	return common.Fields{Bank: "SCB", Amount: "20", RefID: string(img)}, nil
}

func testConfig() Config {
	return Config{Concurrency: 2, MaxRetries: 3}
}

func TestBatch_VerifiesWhileQuotaLasts(t *testing.T) {
	verifier := &fakeVerifier{quota: 1}
	vision := &fakeVision{}
	s := New(nil, verifier, vision, nil, Config{Concurrency: 1, MaxRetries: 3})

	quota := s.CheckQuota(context.Background())
	report, err := s.Batch(context.Background(), []Item{
		{ID: "a", QRPayload: "QR-A", Image: []byte("img-a")},
		{ID: "b", QRPayload: "QR-B", Image: []byte("img-b")},
	}, quota)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, slipok.Dialect, report.Results[0].Dialect)
	assert.Equal(t, "QR-A", report.Results[0].Fields.RefID)
	assert.Equal(t, gemini.Dialect, report.Results[1].Dialect)
	assert.Equal(t, "img-b", report.Results[1].Fields.RefID)
	assert.Equal(t, 0, quota.Remaining())
	assert.Equal(t, int32(1), atomic.LoadInt32(&verifier.calls))
}

func TestBatch_FallsBackToText(t *testing.T) {
	verifier := &fakeVerifier{err: slipok.ErrVerification}
	s := New(nil, verifier, nil, nil, testConfig())

	report, err := s.Batch(context.Background(), []Item{{ID: "a", QRPayload: "QR", Text: ktbText}}, NewQuota(5))
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, "a", res.ItemID)
	assert.Equal(t, common.DialectKrungthai, res.Dialect)
	assert.Equal(t, "ABC123", res.Fields.RefID)
	assert.Equal(t, 1, report.Rounds)
}

func TestBatch_RetriesFailedItems(t *testing.T) {
	vision := &fakeVision{failures: map[string]int{"img-a": 2}}
	s := New(nil, nil, vision, nil, testConfig())

	report, err := s.Batch(context.Background(), []Item{
		{ID: "a", Image: []byte("img-a")},
		{ID: "b", Image: []byte("img-b")},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rounds)
	assert.Len(t, report.Results, 2)
	assert.Empty(t, report.Failed)
}

func TestBatch_GivesUpAfterMaxRetries(t *testing.T) {
	s := New(nil, nil, nil, nil, Config{MaxRetries: 2})

	report, err := s.Batch(context.Background(), []Item{{ID: "empty"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rounds)
	assert.Empty(t, report.Results)
	assert.ErrorIs(t, report.Failed["empty"], ErrNoExtractor)
}

func TestBatch_ConcurrencyLimit(t *testing.T) {
	vision := &fakeVision{delay: 5 * time.Millisecond}
	s := New(nil, nil, vision, nil, testConfig())

	var items []Item
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		items = append(items, Item{ID: id, Image: []byte("img-" + id)})
	}
	report, err := s.Batch(context.Background(), items, nil)
	require.NoError(t, err)

	assert.Len(t, report.Results, 6)
	assert.LessOrEqual(t, atomic.LoadInt32(&vision.maxSeen), int32(2))
}

func TestBatch_SkipsSeenItems(t *testing.T) {
	seen := NewSeen()
	seen.Add(Item{ID: "old", Text: ktbText})
	s := New(nil, nil, nil, seen, testConfig())

	report, err := s.Batch(context.Background(), []Item{
		{ID: "renamed", Text: ktbText},
		{ID: "new", Text: "SCB\nจำนวนเงิน\n100.00"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "new", report.Results[0].ItemID)
	assert.True(t, seen.Has(Item{ID: "new"}))
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(nil, nil, &fakeVision{}, nil, Config{Pacing: time.Hour})

	_, err := s.Batch(ctx, []Item{{ID: "a", Image: []byte("x")}}, NewQuota(0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckQuota(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, 7, New(nil, &fakeVerifier{quota: 7}, nil, nil, testConfig()).CheckQuota(ctx).Remaining())
	assert.Equal(t, 0, New(nil, &fakeVerifier{quotaErr: errors.New("down")}, nil, nil, testConfig()).CheckQuota(ctx).Remaining())
	assert.Equal(t, 0, New(nil, nil, nil, nil, testConfig()).CheckQuota(ctx).Remaining())
}

func TestQuota(t *testing.T) {
	q := NewQuota(2)
	assert.True(t, q.Take())
	assert.True(t, q.Take())
	assert.False(t, q.Take())

	q.Set(-3)
	assert.Equal(t, 0, q.Remaining())

	var none *Quota
	assert.False(t, none.Take())
}

func TestSeen_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s, err := LoadSeen(path)
	require.NoError(t, err)
	s.Add(Item{ID: "a", Image: []byte("img")})
	require.NoError(t, s.Save())

	loaded, err := LoadSeen(path)
	require.NoError(t, err)
	assert.True(t, loaded.Has(Item{ID: "a"}))
	assert.True(t, loaded.Has(Item{ID: "copy", Image: []byte("img")}))
	assert.False(t, loaded.Has(Item{ID: "b"}))
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("slip1.JPG", "jpeg")
	write("slip1.qr", " QR-1\n")
	write("slip2.txt", ktbText)
	write("notes.md", "ignored")

	items, err := LoadItems(dir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "slip1", items[0].ID)
	assert.Equal(t, []byte("jpeg"), items[0].Image)
	assert.Equal(t, "image/jpeg", items[0].MIMEType)
	assert.Equal(t, "QR-1", items[0].QRPayload)
	assert.Equal(t, "slip2", items[1].ID)
	assert.Equal(t, ktbText, items[1].Text)
}
