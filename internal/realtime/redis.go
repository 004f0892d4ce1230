package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const eventsChannel = "project_events"

func NewRedis(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// Publisher pushes project events through Redis so every API instance
// sees activity from its peers. Publish failures are logged and dropped.
type Publisher struct {
	RDB *redis.Client
	Log *zap.SugaredLogger
}

func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p.RDB == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		p.Log.Warnw("marshal event", "error", err)
		return
	}
	if err := p.RDB.Publish(ctx, eventsChannel, b).Err(); err != nil {
		p.Log.Warnw("publish event", "error", err)
	}
}

// Subscribe feeds events published by any instance into the local hub.
// Runs until ctx is cancelled.
func Subscribe(ctx context.Context, rdb *redis.Client, hub *Hub, log *zap.SugaredLogger) {
	sub := rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnw("receive event", "error", err)
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Warnw("decode event", "error", err)
			continue
		}
		hub.BroadcastEvent(ev)
	}
}
