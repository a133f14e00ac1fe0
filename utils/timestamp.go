package utils

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Formati stringova koji se prihvataju pri parsiranju datuma.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ResolveTimestamp pretvara heterogeno enkodiran datum u time.Time.
// Podržava: time.Time, BSON DateTime/Timestamp, RFC3339 i srodne stringove,
// epoch brojeve (sekunde ili milisekunde) i mape sa seconds/nanoseconds parovima.
// Vraća (zero, false) kada vrednost ne postoji ili ne može da se parsira.
func ResolveTimestamp(raw interface{}) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case primitive.DateTime:
		return v.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0), true
	case string:
		return parseTimestampString(v)
	case int64:
		return epochToTime(v), true
	case int32:
		return epochToTime(int64(v)), true
	case int:
		return epochToTime(int64(v)), true
	case float64:
		return epochToTime(int64(v)), true
	case map[string]interface{}:
		return resolveSecondsMap(v)
	case primitive.M:
		return resolveSecondsMap(map[string]interface{}(v))
	case bson.D:
		return resolveSecondsMap(v.Map())
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// epochToTime razlikuje epoch sekunde od milisekundi po redu veličine.
func epochToTime(v int64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(v)
	}
	return time.Unix(v, 0)
}

// resolveSecondsMap prepoznaje serijalizovane timestamp objekte oblika
// {seconds, nanoseconds} odnosno {_seconds, _nanoseconds}.
func resolveSecondsMap(m map[string]interface{}) (time.Time, bool) {
	seconds, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	return time.Unix(seconds, nanos), true
}

func numberField(m map[string]interface{}, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, exists := m[key]
		if !exists {
			continue
		}
		switch n := raw.(type) {
		case int64:
			return n, true
		case int32:
			return int64(n), true
		case int:
			return int64(n), true
		case float64:
			return int64(n), true
		}
	}
	return 0, false
}

// BonusDateKey je ključ dnevnog bonus unosa u ledger-u.
func BonusDateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseBonusDateKey parsira ključ iz ledger-a nazad u datum.
func ParseBonusDateKey(key string) (time.Time, bool) {
	ts, err := time.Parse("2006-01-02", key)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
