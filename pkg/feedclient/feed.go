package feedclient

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// maxMessageLength is the client-side submission limit; the server
// enforces the same bound independently.
const maxMessageLength = 280

// State is the controller's rendering state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateError
)

// Renderer receives the controller's output. Rendering is a pure function
// of the state handed to it; the controller owns all feed state.
type Renderer interface {
	// ShowLoading renders the placeholder shown while a page loads.
	ShowLoading()

	// RenderPosts replaces the rendered list with one page of posts, in
	// server order.
	RenderPosts(posts []Post)

	// PrependPost inserts a newly arrived post at the top of the list.
	PrependPost(post Post)

	// UpdateKindness refreshes the kindness counter of a rendered post.
	UpdateKindness(postID, points int)

	// RenderPaging renders the paging controls for the current cursor.
	RenderPaging(page, totalPages int)

	// ShowError renders a user-visible, non-fatal error message.
	ShowError(msg string)

	// ShowNewPostsNotice surfaces the "new posts available" affordance.
	ShowNewPostsNotice()

	// ClearNewPostsNotice removes it again, e.g. after a full reload.
	ClearNewPostsNotice()

	// ClearInput empties the composer after a successful submission.
	ClearInput()

	// AtTop reports whether the viewer is scrolled to the top of the feed.
	AtTop() bool
}

// FeedAPI is the slice of the API the controller needs.
type FeedAPI interface {
	FetchPosts(page, limit int) (*FeedResponse, error)
	CreatePost(message string) (*Post, error)
}

// Config carries the controller's tunables.
type Config struct {
	// PollInterval is the live-poll period, 15s when zero.
	PollInterval time.Duration
	// PageSize is the feed page size, 20 when zero.
	PageSize int
}

// Controller drives the feed view: paging, live polling while on page 1,
// and post submission.
type Controller struct {
	api  FeedAPI
	view Renderer
	cfg  Config

	mu         sync.Mutex
	state      State
	page       int
	totalPages int
	rendered   map[int]bool
	loadSeq    uint64

	pollStop chan struct{}
	pollWG   sync.WaitGroup
}

// NewController creates a Controller; call Start to load page 1 and begin
// polling.
func NewController(api FeedAPI, view Renderer, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &Controller{
		api:        api,
		view:       view,
		cfg:        cfg,
		state:      StateIdle,
		page:       1,
		totalPages: 1,
		rendered:   make(map[int]bool),
	}
}

// Start performs the initial page load and arms the live poller.
func (c *Controller) Start() {
	c.LoadPage(1)
}

// Stop cancels the live poller and waits for it to exit.
func (c *Controller) Stop() {
	c.disarmPoll()
}

// State returns the controller's current rendering state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentPage returns the paging cursor.
func (c *Controller) CurrentPage() (page, totalPages int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, c.totalPages
}

// NextPage advances one page when possible.
func (c *Controller) NextPage() {
	page, totalPages := c.CurrentPage()
	if page < totalPages {
		c.LoadPage(page + 1)
	}
}

// PrevPage goes back one page when possible.
func (c *Controller) PrevPage() {
	page, _ := c.CurrentPage()
	if page > 1 {
		c.LoadPage(page - 1)
	}
}

// LoadPage fetches page n, bounded to [1, totalPages], and replaces the
// rendered list. A load superseded by a newer one is discarded so a stale
// response cannot clobber the paging cursor.
func (c *Controller) LoadPage(n int) {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	if n > c.totalPages {
		n = c.totalPages
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state = StateLoading
	c.mu.Unlock()

	c.view.ShowLoading()

	feed, err := c.api.FetchPosts(n, c.cfg.PageSize)

	c.mu.Lock()
	if seq != c.loadSeq {
		// A newer load owns the cursor now.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = StateError
		c.mu.Unlock()
		c.view.ShowError("Error loading feed.")
		return
	}

	c.page = feed.Page
	c.totalPages = totalPages(feed.TotalCount, c.cfg.PageSize)
	c.rendered = make(map[int]bool, len(feed.Posts))
	for _, p := range feed.Posts {
		c.rendered[p.ID] = true
	}
	c.state = StateRendered
	page, total := c.page, c.totalPages
	c.mu.Unlock()

	c.view.RenderPosts(feed.Posts)
	c.view.ClearNewPostsNotice()
	c.view.RenderPaging(page, total)

	// Live polling only runs on page 1.
	if page == 1 {
		c.armPoll()
	} else {
		c.disarmPoll()
	}
}

// SubmitPost validates and submits a message. On success the input is
// cleared, the current page reloaded and one poll cycle run immediately so
// the poster sees their own post without waiting out the interval.
func (c *Controller) SubmitPost(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		c.view.ShowError("Message required.")
		return
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		c.view.ShowError("Your message is a bit too long. Let's keep it kind and concise!")
		return
	}

	if _, err := c.api.CreatePost(message); err != nil {
		var srvErr *ServerError
		if errors.As(err, &srvErr) {
			c.view.ShowError(srvErr.Message)
		} else {
			c.view.ShowError("Network error.")
		}
		return
	}

	c.view.ClearInput()
	page, _ := c.CurrentPage()
	c.LoadPage(page)
	c.PollOnce()
}

// PollOnce runs a single live-poll cycle: fetch page 1, prepend posts not
// yet rendered (newest first), refresh kindness counters of the rest, and
// surface the new-posts notice instead of scrolling when the viewer has
// scrolled away.
func (c *Controller) PollOnce() {
	c.mu.Lock()
	if c.page != 1 {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	feed, err := c.api.FetchPosts(1, c.cfg.PageSize)
	if err != nil {
		log.Printf("[LiveFeed] poll failed: %v", err)
		return
	}

	c.mu.Lock()
	if c.page != 1 {
		// The user paged away while the fetch was in flight.
		c.mu.Unlock()
		return
	}
	var fresh, known []Post
	for _, p := range feed.Posts {
		if c.rendered[p.ID] {
			known = append(known, p)
		} else {
			c.rendered[p.ID] = true
			fresh = append(fresh, p)
		}
	}
	c.mu.Unlock()

	// The server returns newest first; prepend in reverse so the newest
	// post ends up on top.
	for i := len(fresh) - 1; i >= 0; i-- {
		c.view.PrependPost(fresh[i])
	}
	for _, p := range known {
		c.view.UpdateKindness(p.ID, int(p.KindnessPoints))
	}

	if len(fresh) > 0 && !c.view.AtTop() {
		c.view.ShowNewPostsNotice()
	}
}

func (c *Controller) armPoll() {
	c.mu.Lock()
	if c.pollStop != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.pollStop = stop
	c.mu.Unlock()

	c.pollWG.Add(1)
	go func() {
		defer c.pollWG.Done()
		ticker := time.NewTicker(c.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.PollOnce()
			case <-stop:
				return
			}
		}
	}()
}

func (c *Controller) disarmPoll() {
	c.mu.Lock()
	stop := c.pollStop
	c.pollStop = nil
	c.mu.Unlock()
	if stop != nil {
		close(stop)
		c.pollWG.Wait()
	}
}

func totalPages(totalCount int64, limit int) int {
	pages := int((totalCount + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}
