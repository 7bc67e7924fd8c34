package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/lib/models"
)

// HistoryStore manages the notifications/{accountId}/{notificationId} subtree.
// Records are written once and never updated or deleted by this service.
type HistoryStore struct {
	log    *zap.Logger
	client *Client
}

func NewHistoryStore(lc fx.Lifecycle, log *zap.Logger, client *Client) *HistoryStore {
	return &HistoryStore{log, client}
}

// SaveNotification writes a fresh history record with a generated id and the
// current UTC timestamp. IsRead starts false and stays false; nothing sets it.
func (s *HistoryStore) SaveNotification(ctx context.Context, accountID, title, body, targetActivity string, extraData map[string]string) (*models.Notification, error) {
	record := &models.Notification{
		ID:             uuid.NewString(),
		Title:          title,
		Body:           body,
		TargetActivity: targetActivity,
		ExtraData:      extraData,
		Timestamp:      time.Now().UTC(),
		IsRead:         false,
	}

	if err := s.client.put(ctx, fmt.Sprintf("notifications/%s/%s", accountID, record.ID), record); err != nil {
		return nil, errs.Remote(errs.KindStoreWrite, err, "failed to save notification")
	}
	return record, nil
}

// ListNotifications returns the account's history in ascending key order. The
// key is authoritative for the record id. A record that fails to decode is
// logged and skipped so one corrupt entry cannot blank the whole listing.
func (s *HistoryStore) ListNotifications(ctx context.Context, accountID string) ([]models.Notification, error) {
	var children map[string]json.RawMessage
	if err := s.client.get(ctx, "notifications/"+accountID, &children); err != nil {
		return nil, errs.Remote(errs.KindStoreRead, err, "failed to retrieve notifications")
	}

	ids := make([]string, 0, len(children))
	for id := range children {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		var record models.Notification
		if err := json.Unmarshal(children[id], &record); err != nil {
			s.log.Sugar().Warnw("Skipping unparseable notification record", "id", id, "err", err)
			continue
		}
		record.ID = id
		out = append(out, record)
	}
	return out, nil
}
