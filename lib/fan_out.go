package lib

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/models"
)

type fanOut struct {
	cfg    *config.Config
	log    *zap.Logger
	tokens TokenStore
	send   *sendToDevice
}

// SendToAccount delivers to every token registered under one account,
// sequentially. An account with no tokens is not an error.
func (svc *fanOut) SendToAccount(ctx context.Context, accountID, title, body, targetActivity string, extraData map[string]string) (*models.FanoutReport, error) {
	tokens, err := svc.tokens.ListTokensForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &models.FanoutReport{Status: fmt.Sprintf("No device tokens found for AccountID %s.", accountID)}, nil
	}

	report, err := svc.deliverEach(ctx, tokens, title, body, targetActivity, extraData)
	if err != nil {
		return nil, err
	}
	report.Status = fmt.Sprintf("Notification sent to AccountID %s.", accountID)
	return report, nil
}

// SendToAll delivers to every token of every account. Accounts are walked in
// ascending id order so broadcast order is deterministic.
func (svc *fanOut) SendToAll(ctx context.Context, title, body, targetActivity string, extraData map[string]string) (*models.FanoutReport, error) {
	all, err := svc.tokens.ListAllTokens(ctx)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(all))
	for accountID := range all {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	var tokens []string
	for _, accountID := range accountIDs {
		tokens = append(tokens, all[accountID]...)
	}
	if len(tokens) == 0 {
		return &models.FanoutReport{Status: "No device tokens found."}, nil
	}

	report, err := svc.deliverEach(ctx, tokens, title, body, targetActivity, extraData)
	if err != nil {
		return nil, err
	}
	report.Status = "Notification sent to all devices."
	return report, nil
}

// deliverEach sends to each token one after another. In strict mode the first
// failure aborts the remaining tokens and propagates, so callers cannot tell
// how many sends happened before it. In non-strict mode every token is
// attempted and the report carries one outcome per token.
func (svc *fanOut) deliverEach(ctx context.Context, tokens []string, title, body, targetActivity string, extraData map[string]string) (*models.FanoutReport, error) {
	report := &models.FanoutReport{}

	for _, token := range tokens {
		_, err := svc.send.SendToDevice(ctx, title, body, token, targetActivity, extraData)
		if err != nil {
			if svc.cfg.Fanout.Strict {
				return nil, err
			}
			svc.log.Sugar().Warnw("Fan-out send failed", "token", token, "err", err)
			report.Outcomes = append(report.Outcomes, models.SendOutcome{Token: token, Error: err.Error()})
			continue
		}

		if !svc.cfg.Fanout.Strict {
			report.Outcomes = append(report.Outcomes, models.SendOutcome{Token: token, Delivered: true})
		}
	}
	return report, nil
}
