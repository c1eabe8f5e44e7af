// package bot binds chat commands to the rotation lookup and the item
// appraisal pipeline. Each inbound group message event is dispatched by its
// leading word; replies go back to the group the event came from.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wdjwxh/d2rtz-bot/config"
	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
	"github.com/wdjwxh/d2rtz-bot/onebot"
	"github.com/wdjwxh/d2rtz-bot/terrorzone"
)

// followUpWait is how long an appraisal invocation waits for a screenshot
// after prompting for one.
const followUpWait = 30 * time.Second

// Chat is the messaging surface the bot talks through.
type Chat interface {
	SendGroupMessage(ctx context.Context, groupID int64, text string) (int64, error)
	GetMessage(ctx context.Context, messageID int64) ([]onebot.Segment, error)
	DeleteMessage(ctx context.Context, messageID int64) error
}

// RotationFetcher supplies the current Terror Zone rotation.
type RotationFetcher interface {
	FetchRotation(ctx context.Context) (*terrorzone.Rotation, error)
}

// Appraiser runs the screenshot-to-verdict pipeline.
type Appraiser interface {
	AppraiseImage(ctx context.Context, imageURL string, messageID uuid.UUID) (string, error)
	AppraiseText(ctx context.Context, rawText string, messageID uuid.UUID) (string, error)
}

// HandlerFunc handles one command invocation. The returned string is sent to
// the group verbatim; a non-nil error marks the invocation failed in metrics.
type HandlerFunc func(ctx context.Context, ev *onebot.MessageEvent, arg string) (string, error)

// Bot is the command layer.
type Bot struct {
	chat      Chat
	rotations RotationFetcher
	appraiser Appraiser
	areas     map[int]terrorzone.AreaInfo

	groupID  int64
	testMode bool
	waitFor  time.Duration

	handlers map[string]HandlerFunc
	pending  *followUps
	logger   *logging.Logger
}

// New wires the command layer together. A zero cfg.GroupID means events from
// any group are handled.
func New(chat Chat, rotations RotationFetcher, appraiser Appraiser,
	areas map[int]terrorzone.AreaInfo, cfg *config.Config, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default()
	}

	b := &Bot{
		chat:      chat,
		rotations: rotations,
		appraiser: appraiser,
		areas:     areas,
		groupID:   cfg.GroupID,
		testMode:  cfg.TestMode,
		waitFor:   followUpWait,
		pending:   newFollowUps(),
		logger:    logger,
	}
	b.handlers = b.MakeCommandHandlers()
	return b
}

// MakeCommandHandlers returns a map of command names to their respective functions
func (b *Bot) MakeCommandHandlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"d2rtz": b.handleRotation,
		"鉴定":    b.handleAppraisal,
	}
}

// HandleEvent dispatches one inbound group message. It satisfies
// onebot.EventHandler and is called on a goroutine of its own, so handlers
// may block (the follow-up wait relies on this).
func (b *Bot) HandleEvent(ev *onebot.MessageEvent) {
	if b.groupID != 0 && ev.GroupID != b.groupID {
		return
	}

	// a pending appraisal waiting on a screenshot gets first claim
	if b.pending.deliver(ev) {
		return
	}

	name, arg := splitCommand(ev.PlainText())
	handler, ok := b.handlers[name]
	if !ok {
		return
	}

	metrics.CommandTotal.WithLabelValues(name).Inc()
	timer := prometheus.NewTimer(metrics.CommandDuration.WithLabelValues(name))
	defer timer.ObserveDuration()

	ctx := context.Background()
	reply, err := handler(ctx, ev, arg)
	if err != nil {
		metrics.CommandErrors.WithLabelValues(name).Inc()
		b.logger.Error("command failed", "command", name, "group", ev.GroupID, "error", err.Error())
	}
	if reply == "" {
		return
	}
	if _, err := b.chat.SendGroupMessage(ctx, ev.GroupID, reply); err != nil {
		b.logger.Error("failed to send reply", "command", name, "group", ev.GroupID, "error", err.Error())
	}
}

func (b *Bot) handleRotation(ctx context.Context, _ *onebot.MessageEvent, _ string) (string, error) {
	rot, err := b.rotations.FetchRotation(ctx)
	if err != nil {
		return "查询TZ轮换失败，请稍后再试", err
	}
	status, err := terrorzone.FormatStatus(rot, b.areas)
	if err != nil {
		return "TZ数据异常，请稍后再试", err
	}
	return status, nil
}

func splitCommand(text string) (string, string) {
	name, arg, _ := strings.Cut(text, " ")
	return name, strings.TrimSpace(arg)
}
