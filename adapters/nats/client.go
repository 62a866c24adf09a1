package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/lrukv/internal/codec"
	"github.com/codewandler/lrukv/ports/kv"
)

type ClientConfig struct {
	Connect       Connector     // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	SubjectPrefix string        // SubjectPrefix must match the server's.
	Timeout       time.Duration // Timeout applies when the caller's context has no deadline. Default 5s.
}

// Client sends requests to a Server and implements kv.Service.
type Client struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	prefix  string
	timeout time.Duration
	codec   codec.Codec
}

func NewClient(cfg ClientConfig) (*Client, error) {
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Client{
		nc:      nc,
		closeNc: closeNc,
		prefix:  cfg.SubjectPrefix,
		timeout: cfg.Timeout,
		codec:   codec.JSONCodec{},
	}, nil
}

func (c *Client) Put(ctx context.Context, key, value string) error {
	_, err := c.request(ctx, opPut, &requestFrame{Key: key, Value: value})
	return err
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	rf, err := c.request(ctx, opGet, &requestFrame{Key: key})
	if err != nil {
		return "", err
	}
	return rf.Value, nil
}

func (c *Client) Health(ctx context.Context) (kv.Health, error) {
	rf, err := c.request(ctx, opHealth, nil)
	if err != nil {
		return kv.Health{}, err
	}
	return kv.Health{Status: rf.Status}, nil
}

func (c *Client) request(ctx context.Context, op string, req *requestFrame) (replyFrame, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload []byte
	if req != nil {
		var err error
		if payload, err = c.codec.Marshal(req); err != nil {
			return replyFrame{}, fmt.Errorf("encode request: %w", err)
		}
	}

	msg, err := c.nc.RequestWithContext(ctx, subject(c.prefix, op), payload)
	if err != nil {
		if errors.Is(err, natsgo.ErrNoResponders) {
			return replyFrame{}, fmt.Errorf("nats: no server listening on %s: %w", subject(c.prefix, op), err)
		}
		return replyFrame{}, err
	}

	var rf replyFrame
	if err := c.codec.Unmarshal(msg.Data, &rf); err != nil {
		return replyFrame{}, fmt.Errorf("decode reply: %w", err)
	}
	return rf, rf.error()
}

func (c *Client) Close() error {
	if c.nc != nil {
		c.closeNc()
	}
	return nil
}

var _ kv.Service = (*Client)(nil)
