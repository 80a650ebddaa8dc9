package netutil

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var errKeepaliveNotSupported = errors.New("keepalive not supported")

// LimiterMetrics receives the configured maximum and the number of open
// and waiting connections
type LimiterMetrics struct {
	MaxConns        prometheus.Gauge
	ConcurrentConns prometheus.Gauge
	WaitingConns    prometheus.Gauge
}

// Limiter is a pool of connection slots shared by its listeners. A slot is
// taken before the inner Accept is called and returned when the accepted
// connection is closed, so a listener waiting in Accept holds a slot too.
type Limiter struct {
	slots   chan struct{}
	metrics LimiterMetrics
}

// NewLimiter returns a Limiter allowing maxConns open connections
func NewLimiter(maxConns int, metrics LimiterMetrics) *Limiter {
	metrics.MaxConns.Set(float64(maxConns))

	return &Limiter{
		slots:   make(chan struct{}, maxConns),
		metrics: metrics,
	}
}

// Listen returns a listener accepting from inner only while a slot is free
func (l *Limiter) Listen(inner net.Listener) net.Listener {
	return &limitListener{
		Listener: inner,
		limiter:  l,
		closed:   make(chan struct{}),
	}
}

// take blocks until a slot is free or done is closed
func (l *Limiter) take(done <-chan struct{}) bool {
	l.metrics.WaitingConns.Inc()
	defer l.metrics.WaitingConns.Dec()

	select {
	case l.slots <- struct{}{}:
		l.metrics.ConcurrentConns.Inc()
		return true
	case <-done:
		return false
	}
}

func (l *Limiter) give() {
	<-l.slots
	l.metrics.ConcurrentConns.Dec()
}

type limitListener struct {
	net.Listener
	limiter   *Limiter
	closed    chan struct{}
	closeOnce sync.Once
}

func (ln *limitListener) Accept() (net.Conn, error) {
	taken := ln.limiter.take(ln.closed)

	// a closed inner listener fails immediately, with or without a slot
	conn, err := ln.Listener.Accept()
	if err != nil {
		if taken {
			ln.limiter.give()
		}

		return nil, err
	}

	if !taken {
		// closed while a connection was already queued
		conn.Close()
		return nil, net.ErrClosed
	}

	return &limitConn{Conn: conn, release: ln.limiter.give}, nil
}

func (ln *limitListener) Close() error {
	ln.closeOnce.Do(func() { close(ln.closed) })

	return ln.Listener.Close()
}

type limitConn struct {
	net.Conn
	release     func()
	releaseOnce sync.Once
}

func (c *limitConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)

	return err
}

func (c *limitConn) SetKeepAlive(enabled bool) error {
	tcp, ok := c.Conn.(*net.TCPConn)
	if !ok {
		return errKeepaliveNotSupported
	}

	return tcp.SetKeepAlive(enabled)
}

func (c *limitConn) SetKeepAlivePeriod(period time.Duration) error {
	tcp, ok := c.Conn.(*net.TCPConn)
	if !ok {
		return errKeepaliveNotSupported
	}

	return tcp.SetKeepAlivePeriod(period)
}
