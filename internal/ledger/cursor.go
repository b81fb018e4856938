package ledger

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// cursor pins the (createdAt, id) sort key of the last item of a page. A
// request carrying it resumes with entries strictly below that pair in
// (createdAt desc, id desc) order, so concurrent appends never produce
// duplicates or gaps.
type cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

func encodeCursor(createdAt time.Time, id string) string {
	raw, err := json.Marshal(cursor{CreatedAt: createdAt.UTC(), ID: id})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor reports ok=false for anything undecodable; callers treat that
// as an absent cursor and restart from the newest entry.
func decodeCursor(s string) (cursor, bool) {
	if s == "" {
		return cursor{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, false
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return cursor{}, false
	}
	if c.CreatedAt.IsZero() || c.ID == "" {
		return cursor{}, false
	}
	return c, true
}
