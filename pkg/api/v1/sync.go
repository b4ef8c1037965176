package apiv1

import (
	"errors"
	"net/http"
	"time"

	"github.com/bsm/redislock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Titan-M/mailsift/pkg/common"
	"github.com/Titan-M/mailsift/pkg/gmail"
	"github.com/Titan-M/mailsift/pkg/repository"
	syncsvc "github.com/Titan-M/mailsift/pkg/sync"
	"github.com/Titan-M/mailsift/pkg/types"
)

type SyncGroup struct {
	routerGroup *echo.Group
	backend     repository.BackendRepository
	service     *syncsvc.Service
	oauth       *gmail.GoogleOAuth
	locker      *redislock.Client
	config      types.SyncConfig
}

type SyncRequest struct {
	Limit        int    `json:"limit"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

type SyncStatusResponse struct {
	UserID        string `json:"user_id"`
	LastEmailSync string `json:"last_email_sync,omitempty"`
}

func NewSyncGroup(
	routerGroup *echo.Group,
	backend repository.BackendRepository,
	service *syncsvc.Service,
	oauth *gmail.GoogleOAuth,
	rdb *common.RedisClient,
	config types.SyncConfig,
) *SyncGroup {
	g := &SyncGroup{
		routerGroup: routerGroup,
		backend:     backend,
		service:     service,
		oauth:       oauth,
		config:      config,
	}
	if rdb != nil {
		g.locker = redislock.New(rdb)
	}
	g.registerRoutes()
	return g
}

func (g *SyncGroup) registerRoutes() {
	g.routerGroup.POST("", g.RunSync)
	g.routerGroup.GET("/status", g.SyncStatus)
}

// RunSync triggers one synchronous ingestion run for the user. Concurrent
// runs for the same user are rejected with 409; runs for different users
// may proceed in parallel.
func (g *SyncGroup) RunSync(c echo.Context) error {
	ctx := c.Request().Context()
	userId := c.Param("user_id")
	if userId == "" {
		return ErrorResponse(c, http.StatusBadRequest, "user_id required")
	}

	var req SyncRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = g.config.DefaultLimit
	}
	if g.config.MaxLimit > 0 && limit > g.config.MaxLimit {
		limit = g.config.MaxLimit
	}

	if g.locker != nil {
		ttl := g.config.LockTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		lock, err := g.locker.Obtain(ctx, common.Keys.SyncUserLock(userId), ttl, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return ErrorResponse(c, http.StatusConflict, "sync already in progress for this user")
		} else if err != nil {
			return ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		defer lock.Release(ctx)
	}

	creds, err := g.resolveCredentials(c, userId, &req)
	if err != nil {
		return ErrorResponse(c, http.StatusUnauthorized, err.Error())
	}

	report, err := g.service.Run(ctx, creds, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userId).Msg("sync run failed")
		return ErrorResponse(c, http.StatusBadGateway, err.Error())
	}

	return SuccessResponse(c, report)
}

// SyncStatus returns the user's last completed sync time
func (g *SyncGroup) SyncStatus(c echo.Context) error {
	userId := c.Param("user_id")

	profile, err := g.backend.GetProfile(c.Request().Context(), userId)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}

	resp := SyncStatusResponse{UserID: userId}
	if profile != nil && profile.LastEmailSync != nil {
		resp.LastEmailSync = profile.LastEmailSync.Format(time.RFC3339)
	}
	return SuccessResponse(c, resp)
}

// resolveCredentials prefers tokens supplied in the request, persisting them
// for later runs, and falls back to stored credentials with a refresh when
// they are close to expiry.
func (g *SyncGroup) resolveCredentials(c echo.Context, userId string, req *SyncRequest) (*types.GmailCredentials, error) {
	ctx := c.Request().Context()

	if req.AccessToken != "" {
		creds := &types.GmailCredentials{
			UserId:       userId,
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
		}
		if req.ExpiresAt != "" {
			if expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt); err == nil {
				creds.ExpiresAt = expiresAt
			}
		}
		if err := g.backend.SaveCredentials(ctx, creds); err != nil {
			log.Warn().Err(err).Str("user_id", userId).Msg("failed to persist credentials")
		}
		return creds, nil
	}

	creds, err := g.backend.GetCredentials(ctx, userId)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, errors.New("no credentials on file")
	}

	if g.oauth != nil && g.oauth.IsConfigured() && gmail.NeedsRefresh(creds) {
		refreshed, err := g.oauth.Refresh(ctx, creds)
		if err != nil {
			return nil, err
		}
		creds = refreshed
		if err := g.backend.SaveCredentials(ctx, creds); err != nil {
			log.Warn().Err(err).Str("user_id", userId).Msg("failed to persist refreshed credentials")
		}
	}

	return creds, nil
}
