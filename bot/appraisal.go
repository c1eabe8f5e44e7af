package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wdjwxh/d2rtz-bot/onebot"
)

const (
	followUpPrompt   = "请在30秒内发送装备截图"
	missingImageText = "没有收到装备截图，鉴定已取消"
	appraisalFailed  = "鉴定失败，请稍后再试"
)

// handleAppraisal runs the 鉴定 command: find a screenshot (inline, quoted,
// or via a 30 second follow-up prompt), then OCR, clean, and appraise it. In
// test mode the text argument stands in for the OCR output.
func (b *Bot) handleAppraisal(ctx context.Context, ev *onebot.MessageEvent, arg string) (string, error) {
	messageID := uuid.New()
	log := b.logger.WithRequestID(messageID)

	if b.testMode && arg != "" {
		verdict, err := b.appraiser.AppraiseText(ctx, arg, messageID)
		if err != nil {
			return appraisalFailed, err
		}
		return verdict, nil
	}

	imageURL := ev.ImageURL()
	if imageURL == "" {
		imageURL = b.quotedImage(ctx, ev)
	}
	if imageURL == "" {
		imageURL = b.waitForImage(ctx, ev)
	}
	if imageURL == "" {
		return missingImageText, nil
	}

	log.Info("appraising screenshot", "group", ev.GroupID, "user", ev.UserID)
	verdict, err := b.appraiser.AppraiseImage(ctx, imageURL, messageID)
	if err != nil {
		return appraisalFailed, err
	}
	return verdict, nil
}

// quotedImage looks for an image in the message the invocation quoted.
func (b *Bot) quotedImage(ctx context.Context, ev *onebot.MessageEvent) string {
	replyID := ev.ReplyID()
	if replyID == "" {
		return ""
	}
	id, err := strconv.ParseInt(replyID, 10, 64)
	if err != nil {
		return ""
	}
	segs, err := b.chat.GetMessage(ctx, id)
	if err != nil {
		b.logger.Warn("failed to fetch quoted message", "message_id", id, "error", err.Error())
		return ""
	}
	return onebot.ImageURLFromSegments(segs)
}

// waitForImage prompts for a screenshot and suspends this invocation until
// the same user posts one in the same group, or the wait runs out. The prompt
// message is deleted best-effort afterwards either way.
func (b *Bot) waitForImage(ctx context.Context, ev *onebot.MessageEvent) string {
	ch, cancel := b.pending.register(ev.GroupID, ev.UserID)
	defer cancel()

	promptID, err := b.chat.SendGroupMessage(ctx, ev.GroupID, followUpPrompt)
	if err != nil {
		b.logger.Warn("failed to send follow-up prompt", "group", ev.GroupID, "error", err.Error())
	}
	if promptID != 0 {
		defer func() {
			// the invocation's context may already be gone here
			if err := b.chat.DeleteMessage(context.Background(), promptID); err != nil {
				b.logger.Debug("failed to delete follow-up prompt", "message_id", promptID, "error", err.Error())
			}
		}()
	}

	timer := time.NewTimer(b.waitFor)
	defer timer.Stop()
	select {
	case follow := <-ch:
		return follow.ImageURL()
	case <-timer.C:
		return ""
	case <-ctx.Done():
		return ""
	}
}
