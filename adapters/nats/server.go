package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/lrukv/internal/codec"
	"github.com/codewandler/lrukv/ports/kv"
)

var ErrServerClosed = errors.New("nats: server closed")

type ServerConfig struct {
	Service       kv.Service   // Service handles every request.
	Connect       Connector    // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	Log           *slog.Logger // Log for diagnostics (optional)
	SubjectPrefix string       // SubjectPrefix for request subjects, e.g. "lrukv" -> lrukv.put
}

// Server answers put/get/health requests on NATS subjects.
type Server struct {
	svc     kv.Service
	nc      *natsgo.Conn
	closeNc closeFunc
	log     *slog.Logger
	prefix  string
	codec   codec.Codec

	mu   sync.Mutex
	subs []*natsgo.Subscription

	closed atomic.Bool
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("nats: service is required")
	}
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Server{
		svc:     cfg.Service,
		nc:      nc,
		closeNc: closeNc,
		log:     log.With(slog.String("transport", "nats")),
		prefix:  cfg.SubjectPrefix,
		codec:   codec.JSONCodec{},
	}, nil
}

// Start subscribes to all request subjects. Subscriptions end when ctx is
// done or Close is called.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}

	handlers := map[string]func(context.Context, requestFrame) replyFrame{
		opPut:    s.put,
		opGet:    s.get,
		opHealth: s.health,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for op, h := range handlers {
		subj := subject(s.prefix, op)
		sub, err := s.nc.Subscribe(subj, s.handler(ctx, op, h))
		if err != nil {
			return fmt.Errorf("nats: subscribe %s: %w", subj, err)
		}
		s.subs = append(s.subs, sub)
	}
	if err := s.nc.Flush(); err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}

	s.log.Info("nats boundary started", slog.String("prefix", subject(s.prefix, "*")))

	go func() {
		<-ctx.Done()
		s.unsubscribe()
	}()
	return nil
}

func (s *Server) handler(ctx context.Context, op string, h func(context.Context, requestFrame) replyFrame) natsgo.MsgHandler {
	return func(msg *natsgo.Msg) {
		var req requestFrame
		var rf replyFrame
		if op == opHealth {
			rf = h(ctx, req)
		} else if err := s.codec.Unmarshal(msg.Data, &req); err != nil {
			rf = replyFrame{Code: codeInvalid, Err: fmt.Sprintf("decode request: %s", err)}
		} else {
			rf = h(ctx, req)
		}

		if msg.Reply == "" {
			return
		}
		b, err := s.codec.Marshal(rf)
		if err != nil {
			s.log.Error("failed to encode reply", slog.String("op", op), slog.Any("error", err))
			return
		}
		if err := msg.Respond(b); err != nil {
			s.log.Error("failed to publish reply", slog.String("op", op), slog.Any("error", err))
		}
	}
}

func (s *Server) put(ctx context.Context, req requestFrame) replyFrame {
	if err := s.svc.Put(ctx, req.Key, req.Value); err != nil {
		return replyFromError(err)
	}
	return replyFrame{Status: "success"}
}

func (s *Server) get(ctx context.Context, req requestFrame) replyFrame {
	value, err := s.svc.Get(ctx, req.Key)
	if err != nil {
		return replyFromError(err)
	}
	return replyFrame{Value: value}
}

func (s *Server) health(ctx context.Context, _ requestFrame) replyFrame {
	h, err := s.svc.Health(ctx)
	if err != nil {
		return replyFromError(err)
	}
	return replyFrame{Status: h.Status}
}

func (s *Server) unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return ErrServerClosed
	}
	s.unsubscribe()
	if s.nc != nil {
		_ = s.nc.Flush()
		s.closeNc()
	}
	return nil
}
