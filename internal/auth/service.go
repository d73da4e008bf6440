package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	tokenLength      = 40
	sessionKeyPrefix = "gymsplits-session||"
	tokensSetKey     = "gymsplits-sessions"
)

// Service keeps opaque bearer sessions in redis. A session value is
// "<user id>:<created at unix>".
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func sessionValue(userID uuid.UUID, createdAt time.Time) string {
	return fmt.Sprintf("%s:%d", userID, createdAt.Unix())
}

func parseSessionValue(val string) (uuid.UUID, time.Time, error) {
	userIDStr, createdAtStr, ok := strings.Cut(val, ":")
	if !ok {
		return uuid.Nil, time.Time{}, fmt.Errorf("malformed session value [%s]", val)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("parse session created at: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}

func (as *Service) Login(ctx context.Context, userID uuid.UUID, createdAt time.Time) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionValue(userID, createdAt), 0)
	if err := cmdSet.Err(); err != nil {
		return "", fmt.Errorf("%w: store session: %w", apperr.ErrStorage, err)
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", fmt.Errorf("%w: add session token: %w", apperr.ErrStorage, err)
	}

	return token, nil
}

// Resolve maps a bearer token to the id of the user it was issued to.
func (as *Service) Resolve(ctx context.Context, token string) (_ uuid.UUID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", apperr.ErrUnauthenticated)
	}

	cmd := as.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, fmt.Errorf("%w: unknown token", apperr.ErrUnauthenticated)
		}
		return uuid.Nil, fmt.Errorf("%w: get session: %w", apperr.ErrStorage, err)
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		log.Errorf("resolve token: %s", err)
		return uuid.Nil, fmt.Errorf("%w: invalid session", apperr.ErrUnauthenticated)
	}

	if as.now().Sub(createdAt) > as.ttl {
		return uuid.Nil, fmt.Errorf("%w: session expired", apperr.ErrUnauthenticated)
	}

	return userID, nil
}

func (as *Service) Logout(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cmdDel := as.redisClient.Del(ctx, sessionKeyPrefix+token)
	if err := cmdDel.Err(); err != nil {
		return fmt.Errorf("%w: delete session: %w", apperr.ErrStorage, err)
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return fmt.Errorf("%w: remove session token: %w", apperr.ErrStorage, err)
	}

	if cmdDel.Val() == 0 {
		return fmt.Errorf("%w: unknown token", apperr.ErrUnauthenticated)
	}

	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old.
// Returns the number of removed sessions.
func (as *Service) ScanAndClean(ctx context.Context) int {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return 0
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return 0
	}

	log.Infof("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		cmd := as.redisClient.Get(ctx, sessionKeyPrefix+token)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// session key gone, only the set entry is left
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("auth service, scan and clean token: %s", err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil || as.now().Sub(createdAt) > as.ttl {
			toRemove = append(toRemove, token)
		}
	}

	removed := 0
	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("auth service, clean session: %s", err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean session token: %s", err)
			continue
		}
		removed++
	}

	log.Infof("auth service, scan and clean done, removed %d sessions", removed)
	return removed
}
