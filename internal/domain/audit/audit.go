package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one recorded admin action.
type Event struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Filter struct {
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record writes one event. Failures are the caller's to log; auditing
// never blocks the action it describes.
func (s *Service) Record(ctx context.Context, actor, action, entityType, entityID, requestID, ip string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		detailsJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
		INSERT INTO audit_log (actor, action, entity_type, entity_id, request_id, ip, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		actor, action, entityType, entityID, requestID, ip, detailsJSON)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns recent events, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.DB.Query(ctx, `
		SELECT id, actor, action, entity_type, entity_id, request_id, ip, COALESCE(details, 'null'::jsonb), created_at
		FROM audit_log
		WHERE ($1 = '' OR action = $1)
		  AND ($2 = '' OR entity_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, filter.Action, filter.EntityType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.RequestID, &e.IP, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
