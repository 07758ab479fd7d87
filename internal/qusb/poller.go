package qusb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/autotimer/internal/snes"
)

// Defaults for a Poller.
const (
	DefaultInterval       = time.Second
	DefaultReconnectDelay = 2 * time.Second
)

// RaceStatus is what the producer learned about the loaded ROM.
type RaceStatus int32

const (
	RaceUnknown RaceStatus = iota
	RaceROM
	NonRaceROM
)

func (r RaceStatus) String() string {
	switch r {
	case RaceROM:
		return "race"
	case NonRaceROM:
		return "non_race"
	}
	return "unknown"
}

// Poller captures readings from a QUsb2Snes server at a fixed interval.
type Poller struct {
	url       string
	interval  time.Duration
	reconnect time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
	race      atomic.Int32
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the time between polls.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithReconnectDelay sets the wait between failed connection attempts.
func WithReconnectDelay(d time.Duration) PollerOption {
	return func(p *Poller) { p.reconnect = d }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// WithNow sets the timestamp source for readings.
func WithNow(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) { p.logger = l }
}

// NewPoller returns a Poller for the server at url, e.g. "ws://localhost:8080".
func NewPoller(url string, opts ...PollerOption) *Poller {
	p := &Poller{
		url:       url,
		interval:  DefaultInterval,
		reconnect: DefaultReconnectDelay,
		timeout:   DefaultTimeout,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Race returns the race status read on the most recent connection.
func (p *Poller) Race() RaceStatus {
	return RaceStatus(p.race.Load())
}

// URL formats a server address.
func URL(host string, port int) string {
	return fmt.Sprintf("ws://%s:%d", host, port)
}

// Run polls until ctx is cancelled, sending each reading on out. It returns
// ctx.Err() on cancellation. Connection failures are logged and retried.
func (p *Poller) Run(ctx context.Context, out chan<- snes.Reading) error {
	for {
		client, err := p.connect(ctx)
		if err != nil {
			return err
		}
		err = p.poll(ctx, client, out)
		client.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("request failed, reconnecting", "error", err)
	}
}

// connect dials until a device is attached or ctx is done.
func (p *Poller) connect(ctx context.Context) (*Client, error) {
	for {
		client, err := Dial(ctx, p.url, p.timeout)
		if err == nil {
			p.attached(client)
			return client, nil
		}
		if errors.Is(err, ErrNoDevice) {
			p.logger.Info("no device found, retrying", "url", p.url)
		} else {
			p.logger.Warn("connection failed", "url", p.url, "error", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.reconnect):
		}
	}
}

func (p *Poller) attached(client *Client) {
	info, err := client.Info()
	if err != nil {
		p.logger.Warn("device info failed", "device", client.Device(), "error", err)
	}
	p.logger.Info("attached", "device", client.Device(), "info", info)

	race, err := client.IsRaceROM()
	switch {
	case err != nil:
		p.logger.Warn("could not read race flag", "error", err)
		p.race.Store(int32(RaceUnknown))
	case race:
		p.race.Store(int32(RaceROM))
	default:
		p.race.Store(int32(NonRaceROM))
	}
}

// poll captures readings until a request fails or ctx is done.
func (p *Poller) poll(ctx context.Context, client *Client, out chan<- snes.Reading) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		snapshot, err := client.ReadSnapshot()
		if err != nil {
			return err
		}
		select {
		case out <- snes.Reading{At: p.now(), Snapshot: snapshot}:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
