package kindsync

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu          sync.Mutex
	issueCalls  int
	issueErr    error
	token       string
	expiresIn   int
	redeemCalls int
	redeemErr   error
	newPoints   int
}

func (a *fakeAPI) IssueToken(postID int) (string, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issueCalls++
	if a.issueErr != nil {
		return "", 0, a.issueErr
	}
	return a.token, a.expiresIn, nil
}

func (a *fakeAPI) Redeem(postID int, token string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.redeemCalls++
	if a.redeemErr != nil {
		return 0, a.redeemErr
	}
	return a.newPoints, nil
}

type fakeDisplay struct {
	mu      sync.Mutex
	counts  map[int]int
	history map[int][]int
	errs    []string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{counts: make(map[int]int), history: make(map[int][]int)}
}

func (d *fakeDisplay) KindnessCount(postID int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.counts[postID]
	return n, ok
}

func (d *fakeDisplay) SetKindnessCount(postID, count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts[postID] = count
	d.history[postID] = append(d.history[postID], count)
}

func (d *fakeDisplay) ShowError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, msg)
}

type fakeControl struct {
	disabled int
	enabled  int
	awarded  int
}

func (c *fakeControl) Disable() { c.disabled++ }

func (c *fakeControl) Enable() { c.enabled++ }

func (c *fakeControl) MarkAwarded() { c.awarded++ }

// serverRejection mimics an API error carrying a server-sent message.
type serverRejection struct{ msg string }

func (e *serverRejection) Error() string { return e.msg }

func (e *serverRejection) ServerMessage() string { return e.msg }

func newTestSync(api *fakeAPI, display *fakeDisplay, transports ...Transport) *Sync {
	return New(api, display, NewMemoryStore(), transports...)
}

func TestAwardSuccess(t *testing.T) {
	api := &fakeAPI{token: "tok-1", expiresIn: 300, newPoints: 10}
	display := newFakeDisplay()
	display.SetKindnessCount(7, 4)
	control := &fakeControl{}

	s := newTestSync(api, display)
	defer s.Close()

	require.NoError(t, s.Award(7, control))

	// Optimistic bump first, authoritative count after.
	assert.Equal(t, []int{4, 5, 10}, display.history[7])
	assert.Equal(t, 1, api.issueCalls, "no cached token means exactly one issuance")
	assert.Equal(t, 1, api.redeemCalls)
	assert.Equal(t, 1, control.disabled)
	assert.Equal(t, 1, control.awarded)
	assert.Zero(t, control.enabled)

	// A spent token must not be reusable.
	_, ok := s.store.Get(tokenKey)
	assert.False(t, ok)
}

func TestAwardPublishedEchoIsFiltered(t *testing.T) {
	bus := NewChannelBus()
	api := &fakeAPI{token: "tok-1", expiresIn: 300, newPoints: 3}
	display := newFakeDisplay()

	s := newTestSync(api, display, bus)
	defer s.Close()

	require.NoError(t, s.Award(7, nil))

	// The publisher hears its own event back from the bus but must not
	// re-apply it: one optimistic set, one authoritative set, nothing more.
	assert.Equal(t, []int{1, 3}, display.history[7])
}

func TestAwardTokenFailureRevertsExactly(t *testing.T) {
	api := &fakeAPI{issueErr: errors.New("boom")}
	display := newFakeDisplay()
	display.SetKindnessCount(7, 4)
	control := &fakeControl{}

	s := newTestSync(api, display)
	defer s.Close()

	err := s.Award(7, control)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, []int{4, 5, 4}, display.history[7])
	assert.Equal(t, 1, control.enabled, "the control must become actionable again")
	assert.Zero(t, control.awarded)
	assert.Contains(t, display.errs, "Unable to get kindness token")
	assert.Zero(t, api.redeemCalls)
}

func TestAwardRedeemRejectionRevertsAndDropsToken(t *testing.T) {
	api := &fakeAPI{token: "tok-1", expiresIn: 300, redeemErr: &serverRejection{msg: "Token already used"}}
	display := newFakeDisplay()
	display.SetKindnessCount(7, 4)
	control := &fakeControl{}

	s := newTestSync(api, display)
	defer s.Close()

	require.Error(t, s.Award(7, control))
	assert.Equal(t, []int{4, 5, 4}, display.history[7])
	assert.Equal(t, 1, control.enabled)
	assert.Contains(t, display.errs, "Token already used")

	// The server refused this token, so it is gone from the cache.
	_, ok := s.store.Get(tokenKey)
	assert.False(t, ok)
}

func TestAwardNetworkErrorRevertsButKeepsToken(t *testing.T) {
	api := &fakeAPI{token: "tok-1", expiresIn: 300, redeemErr: errors.New("dial tcp: timeout")}
	display := newFakeDisplay()
	display.SetKindnessCount(7, 4)

	s := newTestSync(api, display)
	defer s.Close()

	require.Error(t, s.Award(7, nil))
	assert.Equal(t, []int{4, 5, 4}, display.history[7])
	assert.Contains(t, display.errs, "Network error")

	// The token was never judged by the server and stays cached for retry.
	token, ok := s.store.Get(tokenKey)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestEnsureTokenCachesUntilExpiry(t *testing.T) {
	api := &fakeAPI{token: "tok-1", expiresIn: 300}
	s := newTestSync(api, newFakeDisplay())
	defer s.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	assert.Equal(t, "tok-1", s.EnsureToken(7))
	assert.Equal(t, "tok-1", s.EnsureToken(7))
	assert.Equal(t, 1, api.issueCalls, "a live cached token must be reused")

	s.now = func() time.Time { return base.Add(301 * time.Second) }
	api.token = "tok-2"
	assert.Equal(t, "tok-2", s.EnsureToken(7))
	assert.Equal(t, 2, api.issueCalls)
}

func TestEnsureTokenCorruptExpiryReissues(t *testing.T) {
	api := &fakeAPI{token: "tok-fresh", expiresIn: 300}
	s := newTestSync(api, newFakeDisplay())
	defer s.Close()

	s.store.Set(tokenKey, "tok-stale")
	s.store.Set(expiryKey, "not-a-number")

	assert.Equal(t, "tok-fresh", s.EnsureToken(7))
	assert.Equal(t, 1, api.issueCalls)
}

func TestHandleEventMonotonicFilter(t *testing.T) {
	bus := NewChannelBus()
	display := newFakeDisplay()
	s := newTestSync(&fakeAPI{}, display, bus)
	defer s.Close()

	bus.Publish(Event{PostID: 7, NewPoints: 5, Timestamp: 100})
	bus.Publish(Event{PostID: 7, NewPoints: 5, Timestamp: 100}) // replay
	bus.Publish(Event{PostID: 7, NewPoints: 2, Timestamp: 90})  // stale
	bus.Publish(Event{PostID: 7, NewPoints: 6, Timestamp: 110})

	assert.Equal(t, []int{5, 6}, display.history[7])
}

func TestTwoInstancesConverge(t *testing.T) {
	bus := NewChannelBus()
	storage := NewStorageBus(10 * time.Millisecond)

	apiA := &fakeAPI{token: "tok-a", expiresIn: 300, newPoints: 8}
	displayA := newFakeDisplay()
	a := New(apiA, displayA, NewMemoryStore(), bus, storage)
	defer a.Close()

	apiB := &fakeAPI{}
	displayB := newFakeDisplay()
	b := New(apiB, displayB, NewMemoryStore(), bus, storage)
	defer b.Close()

	require.NoError(t, a.Award(7, nil))

	// B shows the authoritative count without calling the API, and applies
	// it once even though both transports delivered the same event.
	count, ok := displayB.KindnessCount(7)
	require.True(t, ok)
	assert.Equal(t, 8, count)
	assert.Equal(t, []int{8}, displayB.history[7])
	assert.Zero(t, apiB.issueCalls)
	assert.Zero(t, apiB.redeemCalls)
}

func TestCoerceCount(t *testing.T) {
	assert.Equal(t, 4, CoerceCount(4))
	assert.Equal(t, 4, CoerceCount(int64(4)))
	assert.Equal(t, 4, CoerceCount(4.6))
	assert.Equal(t, 7, CoerceCount("7"))
	assert.Equal(t, 0, CoerceCount("plenty"))
	assert.Equal(t, 0, CoerceCount(-3))
	assert.Equal(t, 0, CoerceCount(nil))
	assert.Equal(t, 0, CoerceCount(struct{}{}))
}

func TestUpdateDisplayCoerces(t *testing.T) {
	display := newFakeDisplay()
	s := newTestSync(&fakeAPI{}, display)
	defer s.Close()

	s.UpdateDisplay(7, "12")
	s.UpdateDisplay(8, nil)

	count, _ := display.KindnessCount(7)
	assert.Equal(t, 12, count)
	count, _ = display.KindnessCount(8)
	assert.Equal(t, 0, count)
}
