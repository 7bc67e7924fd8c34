package lib

import (
	"context"

	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/senders"
)

type sendToDevice struct {
	cfg     *config.Config
	log     *zap.Logger
	tokens  TokenStore
	history HistoryStore
	senders senders.Registry
}

// SendToDevice pushes one message to one token, then resolves the token's
// owning account and appends a history record there. The stages run in order
// with no retry and no compensation: deliver, attribute, persist.
//
// A token the provider accepts but no account owns fails the whole call with
// an attribution error — the push went out, yet the caller sees a failure.
// That asymmetry is a deliberate property of this design, kept for parity
// with existing callers.
func (svc *sendToDevice) SendToDevice(ctx context.Context, title, body, token, targetActivity string, extraData map[string]string) (string, error) {
	sender, ok := svc.senders[senders.PlatformFCM]
	if !ok {
		return "", errs.New(errs.KindDelivery, "no push sender configured")
	}

	raw, err := sender.Send(ctx, token, title, body, extraData)
	if err != nil {
		return "", err
	}

	accountID, err := svc.tokens.FindAccountForToken(ctx, token)
	if err != nil {
		return "", err
	}
	if accountID == "" {
		return "", errs.Newf(errs.KindAttribution, "failed to find accountId for deviceToken: %s", token)
	}

	record, err := svc.history.SaveNotification(ctx, accountID, title, body, targetActivity, extraData)
	if err != nil {
		return "", errs.Wrap(errs.KindHistoryWrite, err, "delivered but failed to record notification history")
	}

	svc.log.Sugar().Infow("Delivered notification", "accountId", accountID, "notificationId", record.ID)
	return raw, nil
}
