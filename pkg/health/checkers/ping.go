package checkers

import (
	"context"
	"time"
)

// Pinger is anything with a context-aware Ping, e.g. the sqlite order repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker adapts a Pinger to health.Checker.
type PingChecker struct {
	name string
	p    Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, p: p}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.p.Ping(ctx)
}
