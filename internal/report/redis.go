package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xtding233/mlbsim/internal/game"
)

// DefaultStream is the stream key prefix; records go to "<prefix>.<game id>"
// unless RedisStream.PerGame is false.
const DefaultStream = "mlbsim.plays"

// RedisStream publishes records to a Redis stream for live consumers.
type RedisStream struct {
	client  *redis.Client
	Stream  string
	PerGame bool  // one stream per game id
	MaxLen  int64 // approximate trim, 0 keeps everything
}

func NewRedisStream(client *redis.Client) *RedisStream {
	return &RedisStream{client: client, Stream: DefaultStream, MaxLen: 10000}
}

func (p *RedisStream) key(gameID string) string {
	if p.PerGame {
		return fmt.Sprintf("%s.%s", p.Stream, gameID)
	}
	return p.Stream
}

func (p *RedisStream) ReportPlay(ctx context.Context, rec game.PlayRecord) error {
	return p.publish(ctx, rec.GameID, "play", rec)
}

func (p *RedisStream) ReportHalfInning(ctx context.Context, rec game.HalfInningRecord) error {
	return p.publish(ctx, rec.GameID, "half_inning", rec)
}

func (p *RedisStream) publish(ctx context.Context, gameID, typ string, rec any) error {
	args, err := p.args(gameID, typ, rec)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", typ, args.Stream, err)
	}
	return nil
}

func (p *RedisStream) args(gameID, typ string, rec any) (*redis.XAddArgs, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", typ, err)
	}
	return &redis.XAddArgs{
		Stream: p.key(gameID),
		MaxLen: p.MaxLen,
		Approx: p.MaxLen > 0,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": gameID,
			"type":    typ,
		},
	}, nil
}
