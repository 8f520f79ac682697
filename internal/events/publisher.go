// Package events publishes confirmed transaction mutations to an AMQP topic
// exchange so other services can follow the ledger.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "dompet/internal/log"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrClosed      = errors.New("publisher closed")
	// ErrDialInProgress is returned while another caller is reconnecting.
	ErrDialInProgress = errors.New("reconnect in progress")
)

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialFunc opens a connection and a channel with the exchange declared.
type dialFunc func(url, exchange string) (*amqp091.Connection, channel, error)

type Publisher struct {
	url        string
	exchange   string
	routingKey string
	dial       dialFunc
	logger     *applog.Logger
	now        func() time.Time

	mu           sync.Mutex
	conn         *amqp091.Connection
	ch           channel
	closed       bool
	dialing      bool
	state        int32
	failureCount int
	lastFailure  time.Time
	dialAttempts int
	nextDial     time.Time
}

// Dial connects to url and declares a durable topic exchange. The returned
// publisher reconnects on its own after connection failures.
func Dial(url, exchange, routingKey string, logger *applog.Logger) (*Publisher, error) {
	p := newPublisher(url, exchange, routingKey, dialExchange, logger)
	if _, err := p.acquire(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(url, exchange, routingKey string, dial dialFunc, logger *applog.Logger) *Publisher {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Publisher{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
		dial:       dial,
		logger:     logger.WithComponent(applog.ComponentEvents),
		now:        time.Now,
	}
}

func dialExchange(url, exchange string) (*amqp091.Connection, channel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

// acquire returns the open channel, dialing when there is none. The mutex is
// released while dialing; a concurrent caller gets ErrDialInProgress.
func (p *Publisher) acquire() (channel, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.isCircuitOpenLocked() {
		p.mu.Unlock()
		return nil, ErrCircuitOpen
	}
	if p.ch != nil {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	if p.dialing {
		p.mu.Unlock()
		return nil, ErrDialInProgress
	}
	if p.now().Before(p.nextDial) {
		next := p.nextDial
		p.mu.Unlock()
		return nil, fmt.Errorf("reconnect backing off until %s", next.Format(time.RFC3339))
	}
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.dial(p.url, p.exchange)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.nextDial = p.now().Add(exponentialBackoff(p.dialAttempts))
		p.dialAttempts++
		p.recordFailureLocked()
		return nil, err
	}
	if p.closed {
		ch.Close()
		if conn != nil {
			conn.Close()
		}
		return nil, ErrClosed
	}
	p.conn, p.ch = conn, ch
	p.dialAttempts = 0
	p.nextDial = time.Time{}
	return ch, nil
}

// TransactionChanged publishes c with the configured routing key. No lock is
// held while dialing or publishing.
func (p *Publisher) TransactionChanged(ctx context.Context, c Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	ch, err := p.acquire()
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err = ch.PublishWithContext(pubCtx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    c.OccurredAt,
			Body:         body,
		},
	)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.recordFailureLocked()
		if isConnectionError(err) && p.ch == ch {
			p.dropLocked()
		}
		return fmt.Errorf("publish change: %w", err)
	}
	p.recordSuccessLocked()

	p.logger.DebugContext(ctx, "Published transaction change",
		applog.FieldOperation, string(c.Op),
		applog.FieldTxID, c.ID,
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return nil
}

// isCircuitOpenLocked reports whether publishing is currently refused. An
// open circuit moves to half-open once openTimeout has passed.
func (p *Publisher) isCircuitOpenLocked() bool {
	if p.state != StateOpen {
		return false
	}
	if p.now().Sub(p.lastFailure) > openTimeout {
		p.state = StateHalfOpen
		return false
	}
	return true
}

func (p *Publisher) recordFailureLocked() {
	p.failureCount++
	p.lastFailure = p.now()
	if p.state == StateHalfOpen || p.failureCount >= maxFailures {
		if p.state != StateOpen {
			p.logger.Warn("Change feed circuit opened", "failures", p.failureCount)
		}
		p.state = StateOpen
	}
}

func (p *Publisher) recordSuccessLocked() {
	p.failureCount = 0
	p.state = StateClosed
}

func (p *Publisher) dropLocked() {
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.dropLocked()
	return nil
}

// exponentialBackoff doubles from one second per attempt, capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "connection closed", "eof", "broken pipe", "use of closed network connection", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
