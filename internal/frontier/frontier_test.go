package frontier

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

// newTestFrontier creates a frontier with permissive defaults and one seed.
func newTestFrontier(t *testing.T, opts Options) *Frontier {
	t.Helper()
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 5
	}
	if opts.MaxPages == 0 {
		opts.MaxPages = 100
	}
	f, err := New([]string{"https://example.com/"}, opts)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return f
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	if _, err := New([]string{"ftp://example.com/"}, Options{MaxDepth: 1, MaxPages: 10}); err == nil {
		t.Error("New() should reject a non-HTTP seed")
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	t.Run("admits new URLs and rejects duplicates", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		canonical, reason := f.Submit("https://example.com/page", 1, "https://example.com/")
		if reason != Admitted {
			t.Fatalf("reason = %v, want Admitted", reason)
		}
		if canonical != "https://example.com/page" {
			t.Errorf("canonical = %q", canonical)
		}

		// The same page with a fragment and tracking params is a duplicate.
		_, reason = f.Submit("https://example.com/page?utm_source=x#top", 1, "https://example.com/")
		if reason != RejectedDuplicate {
			t.Errorf("reason = %v, want RejectedDuplicate", reason)
		}
	})

	t.Run("rejects beyond max depth", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{MaxDepth: 2, AllowSubdomains: true})
		if _, reason := f.Submit("https://example.com/deep", 3, "https://example.com/"); reason != RejectedTooDeep {
			t.Errorf("reason = %v, want RejectedTooDeep", reason)
		}
	})

	t.Run("rejects excluded URLs", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{
			AllowSubdomains: true,
			ExcludePatterns: []*regexp.Regexp{regexp.MustCompile(`\.pdf$`)},
		})
		if _, reason := f.Submit("https://example.com/manual.pdf", 1, "https://example.com/"); reason != RejectedExcluded {
			t.Errorf("reason = %v, want RejectedExcluded", reason)
		}
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		if _, reason := f.Submit("javascript:void(0)", 1, "https://example.com/"); reason != RejectedInvalid {
			t.Errorf("reason = %v, want RejectedInvalid", reason)
		}
	})

	t.Run("domain policy", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		if _, reason := f.Submit("https://blog.example.com/x", 1, "https://example.com/"); reason != Admitted {
			t.Errorf("subdomain reason = %v, want Admitted", reason)
		}
		if _, reason := f.Submit("https://other.org/x", 1, "https://example.com/"); reason != RejectedExternal {
			t.Errorf("external reason = %v, want RejectedExternal", reason)
		}

		strict := newTestFrontier(t, Options{AllowSubdomains: false})
		if _, reason := strict.Submit("https://blog.example.com/x", 1, "https://example.com/"); reason != RejectedExternal {
			t.Errorf("subdomain without AllowSubdomains = %v, want RejectedExternal", reason)
		}

		open := newTestFrontier(t, Options{FollowExternal: true})
		if _, reason := open.Submit("https://other.org/x", 1, "https://example.com/"); reason != Admitted {
			t.Errorf("external with FollowExternal = %v, want Admitted", reason)
		}
	})

	t.Run("rejects after page limit reached", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{MaxPages: 1, AllowSubdomains: true})
		target, err := f.Next(context.Background())
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		f.Finish(target, model.OutcomeFetched)

		if _, reason := f.Submit("https://example.com/next", 1, target.URL); reason != RejectedPageLimit {
			t.Errorf("reason = %v, want RejectedPageLimit", reason)
		}
	})
}

func TestReserveFetch(t *testing.T) {
	t.Parallel()

	t.Run("grants exactly max pages slots", func(t *testing.T) {
		t.Parallel()

		f, err := New([]string{"https://example.com/"}, Options{MaxDepth: 5, MaxPages: 2})
		if err != nil {
			t.Fatal(err)
		}

		if !f.ReserveFetch() {
			t.Fatal("first slot should be granted")
		}
		if !f.ReserveFetch() {
			t.Fatal("second slot should be granted")
		}
		if f.ReserveFetch() {
			t.Error("third slot should be denied at MaxPages=2")
		}
	})

	t.Run("released slots become available again", func(t *testing.T) {
		t.Parallel()

		f, err := New([]string{"https://example.com/"}, Options{MaxDepth: 5, MaxPages: 1})
		if err != nil {
			t.Fatal(err)
		}

		if !f.ReserveFetch() {
			t.Fatal("slot should be granted")
		}
		f.ReleaseFetch()
		if !f.ReserveFetch() {
			t.Error("slot should be granted again after release")
		}
	})

	t.Run("concurrent claims never exceed the cap", func(t *testing.T) {
		t.Parallel()

		const maxPages = 3
		f, err := New([]string{"https://example.com/"}, Options{MaxDepth: 5, MaxPages: maxPages})
		if err != nil {
			t.Fatal(err)
		}

		var granted atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if f.ReserveFetch() {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()

		if granted.Load() != maxPages {
			t.Errorf("granted = %d, want %d", granted.Load(), maxPages)
		}
	})
}

func TestNext(t *testing.T) {
	t.Parallel()

	t.Run("FIFO order", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		f.Submit("https://example.com/a", 1, "https://example.com/")
		f.Submit("https://example.com/b", 1, "https://example.com/")

		want := []string{"https://example.com/", "https://example.com/a", "https://example.com/b"}
		for _, wantURL := range want {
			target, err := f.Next(context.Background())
			if err != nil {
				t.Fatalf("Next() returned error: %v", err)
			}
			if target.URL != wantURL {
				t.Errorf("Next() = %q, want %q", target.URL, wantURL)
			}
			f.Finish(target, model.OutcomeFetched)
		}
	})

	t.Run("drained when empty with nothing in flight", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		target, err := f.Next(context.Background())
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		f.Finish(target, model.OutcomeFetched)

		if _, err := f.Next(context.Background()); !errors.Is(err, ErrDrained) {
			t.Errorf("Next() error = %v, want ErrDrained", err)
		}
	})

	t.Run("blocks while a fetch is in flight and wakes on submit", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		seed, err := f.Next(context.Background())
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}

		type nextResult struct {
			target *model.CrawlTarget
			err    error
		}
		got := make(chan nextResult, 1)
		go func() {
			target, err := f.Next(context.Background())
			got <- nextResult{target, err}
		}()

		select {
		case r := <-got:
			t.Fatalf("Next() returned early: %+v", r)
		case <-time.After(20 * time.Millisecond):
		}

		f.Submit("https://example.com/found", 1, seed.URL)
		select {
		case r := <-got:
			if r.err != nil {
				t.Fatalf("Next() returned error: %v", r.err)
			}
			if r.target.URL != "https://example.com/found" {
				t.Errorf("Next() = %q", r.target.URL)
			}
			f.Finish(r.target, model.OutcomeFetched)
		case <-time.After(time.Second):
			t.Fatal("Next() did not wake after Submit")
		}
		f.Finish(seed, model.OutcomeFetched)
	})

	t.Run("stop unblocks waiters", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		if _, err := f.Next(context.Background()); err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}

		errCh := make(chan error, 1)
		go func() {
			_, err := f.Next(context.Background())
			errCh <- err
		}()

		f.Stop()
		select {
		case err := <-errCh:
			if !errors.Is(err, ErrStopped) {
				t.Errorf("Next() error = %v, want ErrStopped", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Next() did not return after Stop")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		if _, err := f.Next(context.Background()); err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			_, err := f.Next(ctx)
			errCh <- err
		}()

		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Next() error = %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Next() did not return after cancellation")
		}
	})
}

func TestFinish(t *testing.T) {
	t.Parallel()

	t.Run("first outcome wins", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		target, err := f.Next(context.Background())
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}

		f.Finish(target, model.OutcomeFetched)
		f.Finish(target, model.OutcomeFailed)

		c := f.Counters()
		if c.Fetched != 1 || c.Failed != 0 {
			t.Errorf("Counters = %+v, duplicate Finish must not count", c)
		}
		if got := f.Snapshot()[target.URL]; got != model.OutcomeFetched {
			t.Errorf("outcome = %v, want OutcomeFetched", got)
		}
	})

	t.Run("FinishPending accounts queued targets", func(t *testing.T) {
		t.Parallel()

		f := newTestFrontier(t, Options{AllowSubdomains: true})
		f.Submit("https://example.com/a", 1, "https://example.com/")
		f.Submit("https://example.com/b", 1, "https://example.com/")

		n := f.FinishPending(model.OutcomeSkipped)
		if n != 3 {
			t.Errorf("FinishPending() = %d, want 3", n)
		}
		if c := f.Counters(); c.Skipped != 3 {
			t.Errorf("Skipped = %d, want 3", c.Skipped)
		}
		if f.PendingCount() != 0 {
			t.Errorf("PendingCount() = %d, want 0", f.PendingCount())
		}
	})
}
