// Package services contains the application services behind the ImgVault
// shell: the credential forms, the image listing, the image detail actions
// and the account overview.
package services

import (
	"context"

	"github.com/dmitrijs2005/imgvault/internal/auth"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

const (
	MsgEmailRequired    = "You have not entered an email address."
	MsgPasswordRequired = "You have not entered a password."
	MsgRetypeRequired   = "You need to confirm your password by re-typing it in the field below."
	MsgPasswordMismatch = "The passwords do not match."
)

// CredentialService backs the sign-in and create-account forms.
//
// Fields are validated in form order and the first failure is returned as a
// *ValidationError without contacting the auth collaborator. Collaborator
// rejections come back as *AuthError. Navigation after success is left to
// the session gate.
type CredentialService interface {
	SignIn(ctx context.Context, req models.SignInRequest) error
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.CreateAccountResult, error)
}

type credentialService struct {
	auth auth.Provider
	docs docstore.Store
	log  logging.Logger
}

func NewCredentialService(p auth.Provider, docs docstore.Store, log logging.Logger) CredentialService {
	return &credentialService{auth: p, docs: docs, log: log}
}

func (s *credentialService) SignIn(ctx context.Context, req models.SignInRequest) error {
	if req.Email == "" {
		return &ValidationError{Msg: MsgEmailRequired}
	}
	if req.Password == "" {
		return &ValidationError{Msg: MsgPasswordRequired}
	}

	if _, err := s.auth.SignIn(ctx, req.Email, req.Password); err != nil {
		s.log.Info(ctx, "sign-in rejected", "email", req.Email, "error", err)
		return &AuthError{Err: err}
	}
	return nil
}

// CreateAccount creates the account and then its profile document. A
// failed profile write does not undo the account: it is logged and
// reported through ProfileWritten.
func (s *credentialService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.CreateAccountResult, error) {
	switch {
	case req.Email == "":
		return nil, &ValidationError{Msg: MsgEmailRequired}
	case req.Password == "":
		return nil, &ValidationError{Msg: MsgPasswordRequired}
	case req.RetypePassword == "":
		return nil, &ValidationError{Msg: MsgRetypeRequired}
	case req.Password != req.RetypePassword:
		return nil, &ValidationError{Msg: MsgPasswordMismatch}
	}

	u, err := s.auth.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		s.log.Info(ctx, "account creation rejected", "email", req.Email, "error", err)
		return nil, &AuthError{Err: err}
	}

	res := &models.CreateAccountResult{UserID: u.ID, ProfileWritten: true}
	if err := s.docs.SetProfile(ctx, &models.Profile{UserID: u.ID, Email: req.Email}); err != nil {
		s.log.Warn(ctx, "profile write failed", "user_id", u.ID, "error", err)
		res.ProfileWritten = false
	}
	return res, nil
}
