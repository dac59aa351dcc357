// Package nav resolves view routes and carries navigation requests between
// views that must not know about each other.
package nav

import (
	"slices"
	"strings"
	"sync"
)

// View identifies a top-level screen.
type View string

// Views.
const (
	ViewHome        View = "home"
	ViewArticles    View = "articles"
	ViewDataStories View = "data-stories"
	ViewPost        View = "post"
	ViewNotFound    View = "not-found"
)

// Route paths.
const (
	PathHome        = "/"
	PathArticles    = "/articles"
	PathDataStories = "/data-stories"
	postPrefix      = "/post/"
)

// Route is a resolved path.
type Route struct {
	View      View   `json:"view"`
	ArticleID string `json:"article_id,omitempty"`
}

// PostPath returns the reading path for an article.
func PostPath(id string) string {
	return postPrefix + id
}

// Resolve maps a path to a route. Unknown paths resolve to ViewNotFound.
func Resolve(path string) Route {
	switch path {
	case PathHome, "":
		return Route{View: ViewHome}
	case PathArticles:
		return Route{View: ViewArticles}
	case PathDataStories:
		return Route{View: ViewDataStories}
	}
	if id, ok := strings.CutPrefix(path, postPrefix); ok && id != "" && !strings.Contains(id, "/") {
		return Route{View: ViewPost, ArticleID: id}
	}
	return Route{View: ViewNotFound}
}

// Path renders a route back to its path. ViewNotFound has no path.
func (r Route) Path() string {
	switch r.View {
	case ViewHome:
		return PathHome
	case ViewArticles:
		return PathArticles
	case ViewDataStories:
		return PathDataStories
	case ViewPost:
		return PostPath(r.ArticleID)
	}
	return ""
}

// RecoveryAction is the single way out of the not-found view.
type RecoveryAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NotFoundRecovery returns the action offered when an article is missing.
func NotFoundRecovery() RecoveryAction {
	return RecoveryAction{Label: "Return Home", Path: PathHome}
}

// Request asks the shell to show a path.
type Request struct {
	Path string `json:"path"`
}

// PostRequest builds a request for an article's reading path.
func PostRequest(id string) Request {
	return Request{Path: PostPath(id)}
}

// TopicNavigateToPost is the event name map popups use to open an article.
const TopicNavigateToPost = "navigate-to-post"

// Handler receives a published payload.
type Handler func(payload string)

// Bus is a synchronous in-process publish/subscribe hub.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]Handler)}
}

// Subscribe registers h for topic and returns a func that detaches it.
// Detaching twice is harmless.
func (b *Bus) Subscribe(topic string, h Handler) (detach func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		})
	}
}

// Publish delivers payload to every handler of topic in subscription order.
// It returns the number of handlers called.
func (b *Bus) Publish(topic, payload string) int {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs[topic]))
	for id := range b.subs[topic] {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[topic][id])
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
	return len(handlers)
}

// Subscribers returns the number of handlers attached to topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// OnNavigateToPost subscribes to article-open events and forwards them as
// requests to fn.
func (b *Bus) OnNavigateToPost(fn func(Request)) (detach func()) {
	return b.Subscribe(TopicNavigateToPost, func(id string) {
		if id == "" {
			return
		}
		fn(PostRequest(id))
	})
}
