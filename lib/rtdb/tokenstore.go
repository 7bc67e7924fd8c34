package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/lib/models"
)

// TokenStore manages the deviceTokens/{accountId}/{deviceToken} subtree. The
// account→tokens relation is never stored on its own; both directions of the
// lookup are read-time projections over the same paths.
type TokenStore struct {
	log    *zap.Logger
	client *Client
}

func NewTokenStore(lc fx.Lifecycle, log *zap.Logger, client *Client) *TokenStore {
	return &TokenStore{log, client}
}

// SaveToken upserts the token under its owning account. Re-saving an existing
// token just refreshes deviceInfo and lastUpdated.
func (s *TokenStore) SaveToken(ctx context.Context, accountID, token, deviceInfo string) error {
	record := models.TokenRecord{
		DeviceInfo:  deviceInfo,
		LastUpdated: time.Now().UTC(),
	}
	if err := s.client.put(ctx, fmt.Sprintf("deviceTokens/%s/%s", accountID, token), record); err != nil {
		return errs.Remote(errs.KindStoreWrite, err, "failed to save device token")
	}
	return nil
}

// DeleteToken removes the token, typically on logout. The store treats
// deleting an absent path as a successful no-op, and so does this.
func (s *TokenStore) DeleteToken(ctx context.Context, accountID, token string) error {
	if err := s.client.delete(ctx, fmt.Sprintf("deviceTokens/%s/%s", accountID, token)); err != nil {
		return errs.Remote(errs.KindStoreWrite, err, "failed to delete device token")
	}
	return nil
}

// ListTokensForAccount returns the account's tokens sorted ascending. An
// account with no subtree yields an empty slice, not an error.
func (s *TokenStore) ListTokensForAccount(ctx context.Context, accountID string) ([]string, error) {
	var children map[string]json.RawMessage
	if err := s.client.get(ctx, "deviceTokens/"+accountID, &children); err != nil {
		return nil, errs.Remote(errs.KindStoreRead, err, "failed to fetch device tokens")
	}
	return tokenKeys(children), nil
}

// ListAllTokens reads the entire deviceTokens subtree in one call and returns
// every account's tokens.
func (s *TokenStore) ListAllTokens(ctx context.Context) (map[string][]string, error) {
	var accounts map[string]map[string]json.RawMessage
	if err := s.client.get(ctx, "deviceTokens", &accounts); err != nil {
		return nil, errs.Remote(errs.KindStoreRead, err, "failed to fetch device tokens")
	}

	out := make(map[string][]string, len(accounts))
	for accountID, children := range accounts {
		out[accountID] = tokenKeys(children)
	}
	return out, nil
}

// FindAccountForToken resolves the account a token was last saved under, or ""
// when nobody owns it. This is a full scan of the deviceTokens subtree on
// every call — O(total tokens) — which keeps the lookup consistent with
// concurrent writes at the cost of the read. Callers needing better than that
// should put a maintained reverse index behind the same interface.
func (s *TokenStore) FindAccountForToken(ctx context.Context, token string) (string, error) {
	all, err := s.ListAllTokens(ctx)
	if err != nil {
		return "", err
	}

	for accountID, tokens := range all {
		for _, t := range tokens {
			if t == token {
				return accountID, nil
			}
		}
	}
	return "", nil
}

// tokenKeys keeps only children whose value is a JSON object; anything else
// under an account is not a token record.
func tokenKeys(children map[string]json.RawMessage) []string {
	tokens := make([]string, 0, len(children))
	for token, raw := range children {
		if isJSONObject(raw) {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return tokens
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
