// Package telemetry is the fire-and-forget analytics sink for bobfriend.
//
// One process-wide client replaces the original app's three duplicated
// wrapper singletons. Emit never blocks and never surfaces an error to the
// caller: events flow through a buffered channel to a drain goroutine that
// spools them as JSONL and, when a collector endpoint is configured, posts
// each event with a bounded confirm budget. Anything that cannot keep up
// is dropped and counted.
package telemetry

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// chanSize is the capacity of the async emit channel. At ~200 bytes
	// per event this buffers well beyond anything a single user produces.
	chanSize = 1024

	// confirmBudget bounds how long a collector POST may take before the
	// event is abandoned. Emission must never hold up a screen transition.
	confirmBudget = 300 * time.Millisecond
)

// Event is one recorded analytics event, serialized as a JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Name      string         `json:"event"`
	SessionID string         `json:"session_id,omitempty"` // random hex, same for the whole app run
	Props     map[string]any `json:"props,omitempty"`
}

// Client records named events with optional flat attribute maps.
// Goroutine-safe. Create once with Init (or New in tests) and Close on
// shutdown to flush the spool.
type Client struct {
	sessionID string
	ch        chan Event
	spool     io.Writer
	collector string
	httpc     *http.Client
	limiter   *rate.Limiter
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Client spooling JSONL to w. collectorURL may be empty, in
// which case events are only spooled. Starts the drain goroutine.
func New(w io.Writer, collectorURL string) *Client {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	c := &Client{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan Event, chanSize),
		spool:     w,
		collector: collectorURL,
		httpc:     &http.Client{Timeout: confirmBudget},
		// A single user cannot meaningfully produce more than a handful
		// of events per second; everything past this is a bug or a loop.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		done:    make(chan struct{}),
	}
	go c.drain()
	return c
}

// NewNull creates a Client that discards all output. Callers should still
// Close it to stop the drain goroutine.
func NewNull() *Client {
	return New(io.Discard, "")
}

var (
	defaultClient *Client
	initOnce      sync.Once
)

// Init creates the process-wide client exactly once and returns it.
// Later calls return the first client regardless of arguments.
func Init(w io.Writer, collectorURL string) *Client {
	initOnce.Do(func() {
		defaultClient = New(w, collectorURL)
	})
	return defaultClient
}

// Emit records a named event. Non-blocking: if the channel is full or the
// client is closed the event is dropped and counted. Safe to call
// concurrently with Close; a racing send is recovered and counted as
// dropped rather than panicking the caller.
func (c *Client) Emit(name string, props map[string]any) {
	defer func() {
		if recover() != nil {
			c.dropped.Add(1)
		}
	}()

	if c.closed.Load() {
		c.dropped.Add(1)
		return
	}

	ev := Event{
		Time:      time.Now(),
		Name:      name,
		SessionID: c.sessionID,
		Props:     props,
	}

	select {
	case c.ch <- ev:
	default:
		c.dropped.Add(1)
	}
}

// drain is the background goroutine: spool to disk, then forward to the
// collector when one is configured and the limiter allows it.
func (c *Client) drain() {
	defer close(c.done)
	for ev := range c.ch {
		data, err := json.Marshal(ev)
		if err != nil {
			c.dropped.Add(1)
			continue
		}
		if _, err := c.spool.Write(append(data, '\n')); err != nil {
			c.dropped.Add(1)
		}

		if c.collector == "" || !c.limiter.Allow() {
			continue
		}
		if err := c.post(data); err != nil {
			// Collector failures are swallowed; the spool line already
			// exists and the user flow must not notice.
			c.dropped.Add(1)
		}
	}
}

func (c *Client) post(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), confirmBudget)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collector, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("collector status %d", resp.StatusCode)
	}
	return nil
}

// Dropped returns the number of events dropped since creation.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// SessionID returns the random id shared by every event of this run.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Close flushes pending events and stops the drain goroutine. Emit calls
// racing with Close are dropped, not panicked.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.ch)
		<-c.done

		if d := c.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "bobfriend: %d telemetry events dropped during session %s\n", d, c.sessionID)
		}
	})
}
