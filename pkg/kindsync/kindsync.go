// Package kindsync implements the kindness-point client flow: issuing and
// caching single-use redemption tokens, redeeming them with an optimistic
// display update, and propagating the authoritative count to every other
// open instance through broadcast transports.
package kindsync

import (
	"errors"
	"log"
	"strconv"
	"sync"
	"time"
)

// Session-storage keys for the cached token.
const (
	tokenKey  = "kindness_token"
	expiryKey = "kindness_token_expiry"
)

// ErrNoToken is returned when token issuance failed and the award was
// rolled back.
var ErrNoToken = errors.New("unable to get kindness token")

// API is the slice of the backend API the sync needs.
type API interface {
	IssueToken(postID int) (token string, expiresIn int, err error)
	Redeem(postID int, token string) (newPoints int, err error)
}

// Display renders kindness counts and errors for the local instance.
type Display interface {
	// KindnessCount returns the currently displayed count for a post.
	KindnessCount(postID int) (int, bool)

	// SetKindnessCount renders a count for a post.
	SetKindnessCount(postID, count int)

	// ShowError surfaces a non-fatal, retryable failure to the user.
	ShowError(msg string)
}

// Control is the UI element that triggered an award. It stays disabled
// after a successful award (one award per page view) and is re-enabled on
// failure so the user can retry.
type Control interface {
	Disable()
	Enable()
	// MarkAwarded leaves the control disabled with its awarded look.
	MarkAwarded()
}

// Sync coordinates kindness awards for one instance (one tab).
type Sync struct {
	api        API
	display    Display
	store      TokenStore
	transports []Transport

	mu          sync.Mutex
	lastApplied int64
	unsubs      []func()

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates a Sync subscribed to the given transports.
func New(api API, display Display, store TokenStore, transports ...Transport) *Sync {
	s := &Sync{
		api:        api,
		display:    display,
		store:      store,
		transports: transports,
		now:        time.Now,
	}
	for _, t := range transports {
		s.unsubs = append(s.unsubs, t.Subscribe(s.handleEvent))
	}
	return s
}

// Close unsubscribes from all transports.
func (s *Sync) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

// handleEvent applies a broadcast event unless something at least as new
// was already applied. Stale and replayed events are dropped silently.
func (s *Sync) handleEvent(e Event) {
	s.mu.Lock()
	if e.Timestamp <= s.lastApplied {
		s.mu.Unlock()
		return
	}
	s.lastApplied = e.Timestamp
	s.mu.Unlock()

	s.display.SetKindnessCount(e.PostID, e.NewPoints)
}

// EnsureToken returns a cached token that has not expired, or requests a
// fresh one scoped to postID and caches it. The empty string means no
// token could be obtained and the caller must not redeem.
func (s *Sync) EnsureToken(postID int) string {
	if token, ok := s.store.Get(tokenKey); ok && token != "" {
		if expStr, ok := s.store.Get(expiryKey); ok {
			// A corrupt expiry reads as "no token".
			if exp, err := strconv.ParseInt(expStr, 10, 64); err == nil && s.now().UnixMilli() < exp {
				return token
			}
		}
	}

	token, expiresIn, err := s.api.IssueToken(postID)
	if err != nil {
		log.Printf("[Kindness] token request failed: %v", err)
		return ""
	}

	expiry := s.now().Add(time.Duration(expiresIn) * time.Second).UnixMilli()
	s.store.Set(tokenKey, token)
	s.store.Set(expiryKey, strconv.FormatInt(expiry, 10))
	return token
}

// Award gives one kindness point to a post: optimistic increment, token,
// redemption. On success the display shows the server-confirmed count and
// the event is broadcast; on any failure the display returns to exactly
// its previous value and the control becomes actionable again.
func (s *Sync) Award(postID int, control Control) error {
	prev, ok := s.display.KindnessCount(postID)
	if !ok {
		prev = 0
	}

	s.display.SetKindnessCount(postID, prev+1)
	if control != nil {
		control.Disable()
	}

	revert := func(msg string) {
		s.display.SetKindnessCount(postID, prev)
		if control != nil {
			control.Enable()
		}
		s.display.ShowError(msg)
	}

	token := s.EnsureToken(postID)
	if token == "" {
		revert("Unable to get kindness token")
		return ErrNoToken
	}

	newPoints, err := s.api.Redeem(postID, token)
	if err != nil {
		msg := "Network error"
		if srv, ok := err.(interface{ ServerMessage() string }); ok {
			// The server rejected this token; it is not worth keeping.
			s.dropToken()
			msg = srv.ServerMessage()
		}
		revert(msg)
		return err
	}

	s.display.SetKindnessCount(postID, newPoints)
	if control != nil {
		control.MarkAwarded()
	}
	s.dropToken()

	event := Event{
		PostID:    postID,
		NewPoints: newPoints,
		Timestamp: s.now().UnixMilli(),
	}

	// Record our own event first so the echo from the transports is
	// filtered as already applied.
	s.mu.Lock()
	if event.Timestamp > s.lastApplied {
		s.lastApplied = event.Timestamp
	}
	s.mu.Unlock()

	for _, t := range s.transports {
		t.Publish(event)
	}
	return nil
}

// UpdateDisplay renders a count for a post, coercing missing or
// non-numeric values to zero rather than displaying garbage.
func (s *Sync) UpdateDisplay(postID int, count any) {
	s.display.SetKindnessCount(postID, CoerceCount(count))
}

// dropToken discards the cached token after use or rejection.
func (s *Sync) dropToken() {
	s.store.Remove(tokenKey)
	s.store.Remove(expiryKey)
}

// CoerceCount turns a loosely typed count into a non-negative int; any
// value that is not a number becomes zero.
func CoerceCount(v any) int {
	var n float64
	switch c := v.(type) {
	case int:
		n = float64(c)
	case int64:
		n = float64(c)
	case float64:
		n = c
	case string:
		parsed, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
