package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/imgvault/internal/auth"
	"github.com/dmitrijs2005/imgvault/internal/buildinfo"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

type AccountService struct {
	auth     auth.Provider
	docs     docstore.Store
	log      logging.Logger
	platform string
}

// NewAccountService returns the account overview service. platform is the
// configured client platform, e.g. "linux" or "web".
func NewAccountService(p auth.Provider, docs docstore.Store, log logging.Logger, platform string) *AccountService {
	return &AccountService{auth: p, docs: docs, log: log, platform: platform}
}

// Overview reads the profile once and combines it with build data. A
// missing profile leaves Email empty.
func (s *AccountService) Overview(ctx context.Context, userID string) (models.AccountOverview, error) {
	info := buildinfo.Get()
	ov := models.AccountOverview{
		AppVersion: info.Version,
		Platform:   s.platform,
		OS:         info.Platform(),
	}

	p, err := s.docs.GetProfile(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return ov, nil
	}
	if err != nil {
		s.log.Warn(ctx, "profile read failed", "user_id", userID, "error", err)
		return ov, err
	}
	ov.Email = p.Email
	return ov, nil
}

// SignOut asks the collaborator to end the session. Rejections are logged.
func (s *AccountService) SignOut(ctx context.Context) {
	if err := s.auth.SignOut(ctx); err != nil {
		s.log.Error(ctx, "sign-out failed", "error", err)
	}
}
