package session

import (
	"context"
	"sync"
)

type (
	// Listener is notified with the current session (nil when signed out).
	Listener func(s *Session)

	// Unsubscribe releases a Listener. Calling it more than once is a no-op.
	Unsubscribe func()

	// Store is the Session Store as seen by a single client.
	Store interface {
		CreateAccount(ctx context.Context, email, password string) (Session, error)
		SignIn(ctx context.Context, email, password string) (Session, error)
		SignOut(ctx context.Context) error
		OnSessionChange(l Listener) Unsubscribe
		Current() *Session
	}

	subscription struct {
		id int
		fn Listener
	}

	// Client holds the session state of one browser client and fans out its changes.
	Client struct {
		auth Authenticator

		mu      sync.Mutex
		current *Session
		subs    []subscription
		nextID  int
	}
)

var _ Store = (*Client)(nil)

// NewClient returns a Client; current is the session resolved from the request, if any.
func NewClient(auth Authenticator, current *Session) *Client {
	c := &Client{auth: auth}
	if current != nil {
		s := *current
		c.current = &s
	}
	return c
}

func (c *Client) CreateAccount(ctx context.Context, email, password string) (Session, error) {
	s, err := c.auth.Register(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}
	c.set(&s)
	return s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	s, err := c.auth.Authenticate(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}
	c.set(&s)
	return s, nil
}

// SignOut revokes the current session. Listeners are notified with nil on success.
func (c *Client) SignOut(ctx context.Context) error {
	cur := c.Current()
	if cur != nil {
		if err := c.auth.Revoke(ctx, *cur); err != nil {
			return err
		}
	}
	c.set(nil)
	return nil
}

// OnSessionChange registers l and immediately calls it with the current session.
func (c *Client) OnSessionChange(l Listener) Unsubscribe {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription{id: id, fn: l})
	cur := c.copyCurrent()
	c.mu.Unlock()

	l(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.subs {
				if sub.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Client) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyCurrent()
}

// ListenerCount reports the number of registered listeners.
func (c *Client) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *Client) set(s *Session) {
	c.mu.Lock()
	if s == nil {
		c.current = nil
	} else {
		cp := *s
		c.current = &cp
	}
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	cur := c.copyCurrent()
	c.mu.Unlock()

	// listeners may subscribe or unsubscribe from within the callback
	for _, sub := range subs {
		sub.fn(cur)
	}
}

// copyCurrent must be called with mu held.
func (c *Client) copyCurrent() *Session {
	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}
