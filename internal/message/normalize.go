package message

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// rawMessage mirrors the provider's message object. Nested objects are
// pointers so a missing level reads as absent.
type rawMessage struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	From      string        `json:"from"`
	Timestamp string        `json:"timestamp"`
	Text      *textBody     `json:"text"`
	Image     *mediaBody    `json:"image"`
	Audio     *mediaBody    `json:"audio"`
	Video     *mediaBody    `json:"video"`
	Document  *documentBody `json:"document"`
	Location  *locationBody `json:"location"`
}

type textBody struct {
	Body string `json:"body"`
}

type mediaBody struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
}

type documentBody struct {
	mediaBody
	Filename string `json:"filename"`
}

type locationBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	URL       string   `json:"url"`
}

// media returns the nested object keyed by the declared type tag. Image,
// audio and video share field shape, so one accessor covers all three.
func (m rawMessage) media() *mediaBody {
	switch Type(m.Type) {
	case TypeImage:
		return m.Image
	case TypeAudio:
		return m.Audio
	case TypeVideo:
		return m.Video
	default:
		return nil
	}
}

// Normalize maps one raw provider message into the canonical form. It is
// pure and total: unknown or missing type tags yield TypeUnrecognized, and
// mis-shaped nested objects degrade to absent fields rather than failing.
// now supplies OccurredAt when the provider timestamp is unusable.
func Normalize(raw json.RawMessage, now time.Time) Message {
	var rm rawMessage
	// Best-effort decode: encoding/json keeps the fields it could read
	// when a sibling field has the wrong shape.
	_ = json.Unmarshal(raw, &rm)

	msg := Message{
		WAMessageID: rm.ID,
		Sender:      rm.From,
		Type:        TypeUnrecognized,
		OccurredAt:  occurredAt(rm.Timestamp, now),
		Raw:         raw,
	}

	switch Type(rm.Type) {
	case TypeText:
		msg.Type = TypeText
		if rm.Text != nil {
			msg.Body = rm.Text.Body
		}
	case TypeImage, TypeAudio, TypeVideo:
		msg.Type = Type(rm.Type)
		if media := rm.media(); media != nil {
			msg.Caption = media.Caption
			msg.MimeType = media.MimeType
			msg.MediaID = media.ID
		}
	case TypeDocument:
		msg.Type = TypeDocument
		if doc := rm.Document; doc != nil {
			msg.Caption = doc.Caption
			msg.MimeType = doc.MimeType
			msg.MediaID = doc.ID
			msg.Filename = doc.Filename
			msg.SHA256 = doc.SHA256
		}
	case TypeLocation:
		msg.Type = TypeLocation
		if loc := rm.Location; loc != nil {
			msg.Latitude = loc.Latitude
			msg.Longitude = loc.Longitude
			msg.LocationName = loc.Name
			msg.LocationAddress = loc.Address
			msg.LocationURL = loc.URL
		}
	}

	return msg
}

// occurredAt converts the provider's epoch-seconds string, falling back to
// the ingestion time when it is missing or unparsable.
func occurredAt(ts string, now time.Time) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
	if err != nil || secs <= 0 {
		return now
	}
	return time.Unix(secs, 0).UTC()
}
