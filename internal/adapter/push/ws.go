package push

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/metrics"
)

// WSChannel receives push messages over a websocket. A dropped
// connection is re-dialed with a capped fibonacci backoff until the
// subscription context is cancelled.
type WSChannel struct {
	url       string
	courierID string
	token     string
	log       logger.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func NewWSChannel(url, courierID, token string, log logger.Logger) *WSChannel {
	return &WSChannel{
		url:       url,
		courierID: courierID,
		token:     token,
		log:       log,
	}
}

func (c *WSChannel) Subscribe(ctx context.Context, handler Handler) error {
	const op = "push.WSChannel.Subscribe"

	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("%s: already subscribed", op)
	}
	c.cancel = cancel
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		cancel()
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	c.setConn(conn)

	c.log.Info(wrap.WithAction(ctx, types.ActionPushConnected), "push channel connected", "url", c.url)

	go c.readLoop(ctx, handler)
	return nil
}

func (c *WSChannel) Close(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.cancel = nil
	c.conn = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *WSChannel) readLoop(ctx context.Context, handler Handler) {
	for {
		conn := c.getConn()
		if conn == nil {
			return
		}

		var msg models.PushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}

			c.log.Warn(wrap.WithAction(ctx, types.ActionPushDisconnected),
				"push read failed, reconnecting", "error", err.Error())
			conn.Close()

			next, dialErr := c.dial(ctx)
			if dialErr != nil {
				c.log.Error(ctx, "push channel reconnect gave up", dialErr)
				return
			}
			c.setConn(next)
			c.log.Info(wrap.WithAction(ctx, types.ActionPushReconnected), "push channel reconnected")
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.log.Warn(wrap.WithAction(ctx, types.ActionPushDropped),
				"push message not handled", "type", msg.Type.String(), "error", err.Error())
		}
	}
}

// dial connects with a capped fibonacci backoff. It only gives up when
// the context is cancelled.
func (c *WSChannel) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	header.Set("X-Courier-ID", c.courierID)

	backoff := retry.WithCappedDuration(30*time.Second, retry.NewFibonacci(time.Second))

	var conn *websocket.Conn
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		conn, _, err = websocket.DefaultDialer.DialContext(ctx, c.url, header)
		if err != nil {
			metrics.PushReconnectsTotal.Inc()
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *WSChannel) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *WSChannel) getConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
