package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// Store persists canonical messages in Postgres. The unique index on
// wa_message_id is the dedup mechanism for provider redelivery; Store holds
// no locks of its own.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("component", "message_store")),
	}
}

// Save inserts the message. A unique violation on wa_message_id maps to
// ErrDuplicate so the caller can treat redelivery as a no-op.
func (s *Store) Save(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.WAMessageID) == "" {
		return fmt.Errorf("wa message id is required")
	}
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	raw := msg.Raw
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	const query = `
		INSERT INTO messages (
			id, wa_message_id, sender, type,
			body, caption, mime_type, media_id, storage_key,
			filename, sha256,
			latitude, longitude, location_name, location_address, location_url,
			occurred_at, raw
		)
		VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11,
			$12, $13, $14, $15, $16,
			$17, $18
		)
	`

	_, err := s.pool.Exec(ctx, query,
		id, msg.WAMessageID, msg.Sender, string(msg.Type),
		nullText(msg.Body), nullText(msg.Caption), nullText(msg.MimeType), nullText(msg.MediaID), nullText(msg.StorageKey),
		nullText(msg.Filename), nullText(msg.SHA256),
		nullFloat(msg.Latitude), nullFloat(msg.Longitude), nullText(msg.LocationName), nullText(msg.LocationAddress), nullText(msg.LocationURL),
		msg.OccurredAt, raw,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicate
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetByWAMessageID reads back a stored message by its WhatsApp message id.
func (s *Store) GetByWAMessageID(ctx context.Context, waMessageID string) (Message, error) {
	const query = `
		SELECT id, wa_message_id, sender, type,
			body, caption, mime_type, media_id, storage_key,
			filename, sha256,
			latitude, longitude, location_name, location_address, location_url,
			occurred_at, raw
		FROM messages
		WHERE wa_message_id = $1
	`

	var msg Message
	var body, caption, mimeType, mediaID, key pgtype.Text
	var filename, sha256 pgtype.Text
	var locName, locAddress, locURL pgtype.Text
	var latitude, longitude pgtype.Float8
	err := s.pool.QueryRow(ctx, query, waMessageID).Scan(
		&msg.ID, &msg.WAMessageID, &msg.Sender, &msg.Type,
		&body, &caption, &mimeType, &mediaID, &key,
		&filename, &sha256,
		&latitude, &longitude, &locName, &locAddress, &locURL,
		&msg.OccurredAt, &msg.Raw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, fmt.Errorf("query message: %w", err)
	}

	msg.Body = body.String
	msg.Caption = caption.String
	msg.MimeType = mimeType.String
	msg.MediaID = mediaID.String
	msg.StorageKey = key.String
	msg.Filename = filename.String
	msg.SHA256 = sha256.String
	msg.LocationName = locName.String
	msg.LocationAddress = locAddress.String
	msg.LocationURL = locURL.String
	if latitude.Valid {
		msg.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		msg.Longitude = &longitude.Float64
	}
	return msg, nil
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func nullFloat(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *f, Valid: true}
}
