// Package links implements the link service: creating, resolving, listing
// and deleting short links on top of the key-value store.
//
// Persisted keys:
//   - link:{code}        hash with url, owner_id, created_at, expires_at
//   - user:{id}:links    set of codes owned by the user (owner index)
//
// The link record and the owner index are always updated together; the two
// store calls are sequential without a cross-call transaction, see DESIGN.md.
package links

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/thoas/go-funk"

	"github.com/mpetrenko/shortly/internal/apperr"
	"github.com/mpetrenko/shortly/internal/kvstore"
	"github.com/mpetrenko/shortly/internal/logger"
)

const (
	linkKeyPrefix    = "link:"
	ownerIndexPrefix = "user:"
	ownerIndexSuffix = ":links"

	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeGenerationAttempts bounds the collision-retry loop of the
	// random code generator.
	maxCodeGenerationAttempts = 100
)

const (
	fieldURL       = "url"
	fieldOwnerID   = "owner_id"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// reservedCodes are route words a custom short code may not shadow.
var reservedCodes = []string{"signup", "login", "logout", "user", "add", "delete", "links", "ping"}

// expiresInDurations is the closed enumeration of accepted expiration
// windows. Anything else (except "never" and the empty string) is rejected.
var expiresInDurations = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// Link is a stored short link. ExpiresAt is zero when the link never
// expires. IsExpired is computed at read time; expired links are kept in the
// store until explicitly deleted.
type Link struct {
	ShortCode string
	OwnerID   string
	URL       string
	CreatedAt int64
	ExpiresAt int64
	IsExpired bool
}

// Service provides link management on top of an injected store adapter.
type Service struct {
	db         kvstore.Store
	codeLength int
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the service's time source. Tests use it to simulate
// the passage of time past a link's expiration.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a link service backed by the given store. Generated short
// codes are codeLength characters long.
func New(db kvstore.Store, codeLength int, options ...Option) *Service {
	s := &Service{
		db:         db,
		codeLength: codeLength,
		now:        time.Now,
	}
	for _, option := range options {
		option(s)
	}

	return s
}

func linkKey(code string) string {
	return linkKeyPrefix + code
}

func ownerIndexKey(ownerID string) string {
	return ownerIndexPrefix + ownerID + ownerIndexSuffix
}

func (s *Service) parseExpiresIn(expiresIn string) (int64, error) {
	expiresIn = strings.ToLower(strings.TrimSpace(expiresIn))
	if expiresIn == "" || expiresIn == "never" {
		return 0, nil
	}

	duration, known := expiresInDurations[expiresIn]
	if !known {
		return 0, apperr.Validation("expires_in must be one of 1h, 24h, 7d, 30d, never")
	}

	return s.now().Add(duration).Unix(), nil
}

func (s *Service) isExpired(expiresAt int64) bool {
	return expiresAt != 0 && !s.now().Before(time.Unix(expiresAt, 0))
}

func validateCustomCode(code string) error {
	if strings.ContainsAny(code, "./") {
		return apperr.Validation("short code must not contain '.' or '/'")
	}
	if funk.ContainsString(reservedCodes, strings.ToLower(code)) {
		return apperr.Validation("short code is a reserved word")
	}

	return nil
}

func randomCode(length int) (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// redrawn to keep every character equally likely.
	const maxUnbiasedByte = 256 - 256%len(codeAlphabet)

	code := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}

func (s *Service) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeGenerationAttempts; attempt++ {
		code, err := randomCode(s.codeLength)
		if err != nil {
			return "", fmt.Errorf("drawing random code: %w", err)
		}

		taken, err := s.db.Exists(ctx, linkKey(code))
		if err != nil {
			return "", fmt.Errorf("checking code availability: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("no free short code after %d attempts", maxCodeGenerationAttempts)
}

// CreateLink persists a new short link for ownerID. When customCode is empty
// a random code is generated; otherwise the custom code must be free.
// expiresIn is one of "1h", "24h", "7d", "30d", "never" or empty.
func (s *Service) CreateLink(
	ctx context.Context,
	ownerID,
	originalURL,
	customCode,
	expiresIn string,
) (*Link, error) {
	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" {
		return nil, apperr.Validation("url is required")
	}

	expiresAt, err := s.parseExpiresIn(expiresIn)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(customCode)
	if code != "" {
		if err := validateCustomCode(code); err != nil {
			return nil, err
		}
		taken, err := s.db.Exists(ctx, linkKey(code))
		if err != nil {
			return nil, fmt.Errorf("checking code availability: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("short code already exists")
		}
	} else {
		code, err = s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	link := &Link{
		ShortCode: code,
		OwnerID:   ownerID,
		URL:       originalURL,
		CreatedAt: s.now().Unix(),
		ExpiresAt: expiresAt,
	}

	fields := map[string]string{
		fieldURL:       link.URL,
		fieldOwnerID:   link.OwnerID,
		fieldCreatedAt: strconv.FormatInt(link.CreatedAt, 10),
		fieldExpiresAt: "",
	}
	if expiresAt != 0 {
		fields[fieldExpiresAt] = strconv.FormatInt(expiresAt, 10)
	}

	if err := s.db.HSet(ctx, linkKey(code), fields); err != nil {
		return nil, fmt.Errorf("saving link record: %w", err)
	}
	if err := s.db.SAdd(ctx, ownerIndexKey(ownerID), code); err != nil {
		return nil, fmt.Errorf("saving owner index: %w", err)
	}

	return link, nil
}

// GetLink returns the link stored under code. Expired links are returned
// with IsExpired set; only Resolve treats expiration as an error.
func (s *Service) GetLink(ctx context.Context, code string) (*Link, error) {
	record, err := s.db.HGetAll(ctx, linkKey(code))
	if err != nil {
		return nil, fmt.Errorf("reading link record: %w", err)
	}
	if len(record) == 0 {
		return nil, apperr.NotFound("short code not found")
	}

	return s.recordToLink(code, record), nil
}

// ListLinks returns all links owned by ownerID, including expired ones,
// ordered by creation time descending (ties broken by code).
func (s *Service) ListLinks(ctx context.Context, ownerID string) ([]Link, error) {
	codes, err := s.db.SMembers(ctx, ownerIndexKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("reading owner index: %w", err)
	}

	result := make([]Link, 0, len(codes))
	for _, code := range codes {
		record, err := s.db.HGetAll(ctx, linkKey(code))
		if err != nil {
			return nil, fmt.Errorf("reading link record: %w", err)
		}
		// An index entry without a record is the leftover of an
		// interrupted delete; skip it.
		if len(record) == 0 {
			continue
		}
		result = append(result, *s.recordToLink(code, record))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ShortCode < result[j].ShortCode
	})

	return result, nil
}

// DeleteLink removes the link stored under code together with its owner
// index entry. Only the owner may delete a link.
func (s *Service) DeleteLink(ctx context.Context, ownerID, code string) error {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		return err
	}
	if link.OwnerID != ownerID {
		return apperr.Forbidden("you don't own this link")
	}

	if err := s.db.Del(ctx, linkKey(code)); err != nil {
		return fmt.Errorf("deleting link record: %w", err)
	}
	if err := s.db.SRem(ctx, ownerIndexKey(ownerID), code); err != nil {
		return fmt.Errorf("deleting owner index entry: %w", err)
	}

	return nil
}

// Resolve returns the link stored under code for the public redirect path.
// Unlike GetLink it fails with an expired error when the expiration
// timestamp has passed; the record itself is kept (lazy expiration).
func (s *Service) Resolve(ctx context.Context, code string) (*Link, error) {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.IsExpired {
		return nil, apperr.Expired("this link has expired")
	}

	return link, nil
}

// GetLinkOwner returns the id of the user owning code.
func (s *Service) GetLinkOwner(ctx context.Context, code string) (string, error) {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		return "", err
	}

	return link.OwnerID, nil
}

// parseTimestampField reads a unix-seconds field of a link record. An empty
// value means "never"; an unparsable value is logged and treated the same.
func parseTimestampField(code, field, value string) int64 {
	if value == "" {
		return 0
	}

	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logger.Log.Warnw(
			"corrupt timestamp in link record",
			"code", code,
			"field", field,
			"value", value,
			"err", err,
		)
		return 0
	}

	return ts
}

func (s *Service) recordToLink(code string, record map[string]string) *Link {
	createdAt := parseTimestampField(code, fieldCreatedAt, record[fieldCreatedAt])
	expiresAt := parseTimestampField(code, fieldExpiresAt, record[fieldExpiresAt])

	return &Link{
		ShortCode: code,
		OwnerID:   record[fieldOwnerID],
		URL:       record[fieldURL],
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		IsExpired: s.isExpired(expiresAt),
	}
}
