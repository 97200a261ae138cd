package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quickeats/courier-client/config"
	"github.com/quickeats/courier-client/internal/adapter/dispatch"
	diag "github.com/quickeats/courier-client/internal/adapter/http"
	"github.com/quickeats/courier-client/internal/adapter/osrm"
	"github.com/quickeats/courier-client/internal/adapter/push"
	"github.com/quickeats/courier-client/internal/service/mapview"
	"github.com/quickeats/courier-client/internal/service/route"
	"github.com/quickeats/courier-client/internal/service/session"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/rabbit"
)

var ErrUnknownPushMode = errors.New("unknown push mode")

// App wires the adapters into the courier session and owns the
// process lifecycle.
type App struct {
	cfg config.Config
	log logger.Logger

	session     *session.Session
	channel     push.Channel
	diagnostics *diag.Diagnostics
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	tokens := dispatch.NewStaticTokenSource(cfg.Courier.AuthToken, log)
	dispatchClient := dispatch.New(cfg.Dispatch.BaseURL, tokens, cfg.Dispatch.RequestTimeout)
	routeProvider := osrm.New(cfg.Routing.BaseURL, cfg.Routing.RequestTimeout)

	routes := route.NewTracker(routeProvider, cfg.Animation.Duration, log)
	view := mapview.NewView(mapview.Config{
		FitPaddingPx:  cfg.Map.FitPaddingPx,
		FitTransition: cfg.Map.FitTransition,
	}, routes)

	sess := session.New(session.Config{
		CourierID:      cfg.Courier.ID,
		OfferDeadline:  cfg.Offer.DeadlineSeconds,
		RequestTimeout: cfg.Dispatch.RequestTimeout,
	}, dispatchClient, routes, view, log)

	channel, err := newPushChannel(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init push channel: %w", err)
	}

	return &App{
		cfg:         cfg,
		log:         log,
		session:     sess,
		channel:     channel,
		diagnostics: diag.NewDiagnostics(cfg.Diagnostics.Port, log),
	}, nil
}

func newPushChannel(ctx context.Context, cfg config.Config, log logger.Logger) (push.Channel, error) {
	switch cfg.Push.Mode {
	case "websocket":
		return push.NewWSChannel(cfg.Push.WebsocketURL, cfg.Courier.ID, cfg.Courier.AuthToken, log), nil
	case "rabbitmq":
		client, err := rabbit.New(ctx, cfg.Push.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, err
		}
		return push.NewRabbitChannel(client, cfg.Courier.ID, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPushMode, cfg.Push.Mode)
	}
}

// Run starts the session and blocks until a shutdown signal or a fatal
// listener error.
func (a *App) Run(ctx context.Context) error {
	ctx = wrap.WithCourierID(ctx, a.cfg.Courier.ID)
	errCh := make(chan error, 1)

	a.diagnostics.Run(ctx, errCh)

	// Recover an in-flight order before accepting pushes.
	a.session.Start(ctx)

	if err := a.channel.Subscribe(ctx, a.session.HandlePush); err != nil {
		return fmt.Errorf("failed to subscribe to push channel: %w", err)
	}

	go a.drainNotices(ctx)

	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "courier client closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "courier client started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

// drainNotices logs notices so the channel never blocks the protocols.
// The UI layer replaces this consumer on device builds.
func (a *App) drainNotices(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-a.session.Notices():
			a.log.Info(ctx, "notice", "kind", string(n.Kind), "message", n.Message)
		}
	}
}

func (a *App) close(ctx context.Context) {
	if a.channel != nil {
		if err := a.channel.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to close push channel", "error", err.Error())
		}
	}
	if a.diagnostics != nil {
		if err := a.diagnostics.Stop(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully stop diagnostics listener", "error", err.Error())
		}
	}
}
