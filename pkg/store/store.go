// Package store provides the keyed, path-addressed document collection the
// timer engine persists into. Documents live under per-user collection paths
// such as users/<uid>/timeEntries and are stored as JSON on disk via diskv.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/ticktock/pkg/interval"
)

// Fields is a partial or complete set of document fields.
type Fields map[string]any

type serverTimestampMarker struct{}

// ServerTimestamp is a field-value marker resolved to the store's clock at
// the moment the write is applied.
var ServerTimestamp = serverTimestampMarker{}

// Filter restricts a query to documents whose field matches (==) or does not
// match (!=) the given value. A nil value matches JSON null or an absent
// field.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Order sorts query results by a field.
type Order struct {
	Field string
	Desc  bool
}

// Query is a filtered, ordered, limited read over one collection.
type Query struct {
	Filters []Filter
	OrderBy []Order
	Limit   int
}

// Doc is a document returned by a query.
type Doc struct {
	ID     string
	Fields Fields
}

// Store defines the persistence contract consumed by the timer engine.
type Store interface {
	CreateWithID(ctx context.Context, collection, id string, fields Fields) error
	CreateAutoID(ctx context.Context, collection string, fields Fields) (string, error)
	Update(ctx context.Context, path string, fields Fields) error
	Delete(ctx context.Context, path string) error
	GetOne(ctx context.Context, path string) (Fields, bool, error)
	Query(ctx context.Context, collection string, q Query) ([]Doc, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Store backed by diskv using the provided config.
func Load(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) CreateWithID(ctx context.Context, collection, id string, fields Fields) error {
	if id == "" {
		return errors.New("store: document id required")
	}
	if strings.Contains(id, "-") {
		return fmt.Errorf("store: document id %q must not contain '-'", id)
	}
	data, err := json.Marshal(resolveFields(fields, time.Now()))
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}
	if err := p.d.Write(toKey(collection, id), data); err != nil {
		return fmt.Errorf("store: write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *persistence) CreateAutoID(ctx context.Context, collection string, fields Fields) (string, error) {
	// Keys join segments with '-', so ids are dash-free hex.
	id := fmt.Sprintf("%x", uuid.New())
	if err := p.CreateWithID(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (p *persistence) Update(ctx context.Context, path string, fields Fields) error {
	collection, id, err := splitPath(path)
	if err != nil {
		return err
	}
	key := toKey(collection, id)
	val, err := p.d.Read(key)
	if err != nil {
		return fmt.Errorf("store: update missing document %s: %w", path, err)
	}
	doc := make(Fields)
	if err := json.Unmarshal(val, &doc); err != nil {
		return fmt.Errorf("store: decode %s: %w", path, err)
	}
	for k, v := range resolveFields(fields, time.Now()) {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

func (p *persistence) Delete(ctx context.Context, path string) error {
	collection, id, err := splitPath(path)
	if err != nil {
		return err
	}
	key := toKey(collection, id)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

func (p *persistence) GetOne(ctx context.Context, path string) (Fields, bool, error) {
	collection, id, err := splitPath(path)
	if err != nil {
		return nil, false, err
	}
	key := toKey(collection, id)
	if !p.d.Has(key) {
		return nil, false, nil
	}
	val, err := p.d.Read(key)
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", path, err)
	}
	doc := make(Fields)
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, false, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return doc, true, nil
}

func (p *persistence) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	prefix := encodePath(collection) + "-"
	docs := make([]Doc, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		val, err := p.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", key, err)
		}
		fields := make(Fields)
		if err := json.Unmarshal(val, &fields); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", key, err)
		}
		if !matches(fields, q.Filters) {
			continue
		}
		pk := keyToPathTransform(key)
		docs = append(docs, Doc{ID: pk.FileName, Fields: fields})
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(docs, func(i, j int) bool {
			for _, o := range q.OrderBy {
				c := compareValues(docs[i].Fields[o.Field], docs[j].Fields[o.Field])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return docs[i].ID < docs[j].ID
		})
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			v = nil
		}
		equal := valuesEqual(v, f.Value)
		switch f.Op {
		case "==":
			if !equal {
				return false
			}
		case "!=":
			if equal {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders nil before everything, numbers numerically, RFC3339
// strings chronologically, and everything else lexically.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		if at, err := interval.ParseTime(as); err == nil {
			if bt, err := interval.ParseTime(bs); err == nil {
				switch {
				case at.Before(bt):
					return -1
				case at.After(bt):
					return 1
				default:
					return 0
				}
			}
		}
		return strings.Compare(as, bs)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func resolveFields(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestampMarker); ok {
			out[k] = interval.FormatTime(now)
			continue
		}
		out[k] = v
	}
	return out
}

// pathEncoding is base64 with a filesystem-safe alphabet; the key separator
// '-' must never appear in an encoded segment.
var pathEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789._").WithPadding(base64.NoPadding)

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// encodePath maps a collection path like users/u1/timeEntries onto the key
// segments diskv lays out as directories.
func encodePath(collection string) string {
	segments := strings.Split(collection, "/")
	encoded := make([]string, len(segments))
	for i, seg := range segments {
		encoded[i] = pathEncoding.EncodeToString([]byte(seg))
	}
	return strings.Join(encoded, "-")
}

func decodeSegment(s string) string {
	raw, err := pathEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(raw)
}

// toKey makes `collection-id` with every collection segment encoded.
func toKey(collection, id string) string {
	return fmt.Sprintf("%s-%s", encodePath(collection), id)
}

// splitPath splits a document path into its collection and id.
func splitPath(path string) (string, string, error) {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", fmt.Errorf("store: invalid document path %q", path)
	}
	return path[:idx], path[idx+1:], nil
}
