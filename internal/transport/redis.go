package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	traceKeyPrefix   = "paperdesk:trace:"
	sessionKeyPrefix = "paperdesk:session:"
)

type RedisTransport struct {
	rdb *redis.Client
}

func NewRedisTransport(rdb *redis.Client) *RedisTransport {
	return &RedisTransport{
		rdb: rdb,
	}
}

func (t *RedisTransport) GetMessageStream(id string) (MessageStream, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("invalid stream ID")
	}
	rs := &RedisStream{
		id:          id,
		lastRedisID: "0",
		rdb:         t.rdb,
	}
	return rs, nil
}

func (t *RedisTransport) SetTrace(ctx context.Context, trace *RequestTrace) error {
	key := traceKeyPrefix + trace.ID
	if err := t.rdb.HSet(ctx, key, trace).Err(); err != nil {
		return fmt.Errorf("failed to store trace '%s': %w", trace.ID, err)
	}
	return t.rdb.Expire(ctx, key, TraceExpiry).Err()
}

func (t *RedisTransport) GetTrace(ctx context.Context, traceId string) (*RequestTrace, error) {
	res := t.rdb.HGetAll(ctx, traceKeyPrefix+traceId)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace '%s': %w", traceId, err)
	}

	vals, err := res.Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("trace '%s' does not exist", traceId)
	}

	var trace RequestTrace
	if err := res.Scan(&trace); err != nil {
		return nil, fmt.Errorf("failed to parse trace '%s': %w", traceId, err)
	}
	return &trace, nil
}

func (t *RedisTransport) SetSession(ctx context.Context, session *Session) error {
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	key := sessionKeyPrefix + session.ID
	if err := t.rdb.HSet(ctx, key, session).Err(); err != nil {
		return fmt.Errorf("failed to store session '%s': %w", session.ID, err)
	}
	return t.rdb.Expire(ctx, key, SessionExpiry).Err()
}

func (t *RedisTransport) GetSession(ctx context.Context, sessionId string) (*Session, error) {
	res := t.rdb.HGetAll(ctx, sessionKeyPrefix+sessionId)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session '%s': %w", sessionId, err)
	}

	vals, err := res.Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrSessionNotFound
	}

	var session Session
	if err := res.Scan(&session); err != nil {
		return nil, fmt.Errorf("failed to parse session '%s': %w", sessionId, err)
	}
	return &session, nil
}

type RedisStream struct {
	id          string
	lastRedisID string

	rdb *redis.Client
}

func (s *RedisStream) Send(ctx context.Context, payload MessageStreamPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	res, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.id,
		ID:     "*",
		Values: map[string]any{
			"payload": string(payloadJSON),
		},
	}).Result()

	if err != nil {
		return err
	}

	slog.Debug("received result from redis", "res", res)
	return nil
}

func (s *RedisStream) Recv(ctx context.Context) (*MessageStreamPayload, error) {
	rstreams, err := s.rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{s.id, s.lastRedisID},
		Count:   1,
		Block:   0,
	}).Result()
	if err != nil {
		return nil, err
	}

	msg := rstreams[0].Messages[0]
	s.lastRedisID = msg.ID
	payloadJSON, ok := msg.Values["payload"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to read payload from stream message")
	}

	var payload MessageStreamPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to deserialize stream message payload")
	}

	return &payload, nil
}

func (s *RedisStream) Text(ctx context.Context) (string, error) {
	var acc string
	for {
		payload, err := s.Recv(ctx)
		if err != nil {
			return acc, err
		}

		switch payload.Status {
		case StatusErr:
			return acc, fmt.Errorf("stream '%s' reported an error: %s", s.id, payload.Content)
		case StatusDone:
			return acc, nil
		}

		if payload.Type == MessageTypeContent {
			acc += payload.Content
		}
	}
}

func (s *RedisStream) GetID() string {
	return s.id
}
