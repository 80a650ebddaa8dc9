package main

import (
	stdlog "log"
	"net"
	"net/http"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-cgi/internal/netutil"
)

type keepAliveListener struct {
	net.Listener
}

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if kc, ok := conn.(keepAliveSetter); ok {
		kc.SetKeepAlive(true)
		kc.SetKeepAlivePeriod(3 * time.Minute)
	}

	return conn, nil
}

func (a *theApp) newServer(handler http.Handler) *http.Server {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		ErrorLog:          stdlog.New(log.StandardLogger().WriterLevel(log.WarnLevel), "", 0),
	}

	// one request per connection
	server.SetKeepAlivesEnabled(false)

	return server
}

func (a *theApp) wrapListener(l net.Listener, limiter *netutil.Limiter) net.Listener {
	if limiter != nil {
		l = limiter.Listen(l)
	}

	l = &keepAliveListener{l}

	if a.config.General.ProxyProtocol {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	return l
}
