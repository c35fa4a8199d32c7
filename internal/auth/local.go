package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/cryptox"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/dmitrijs2005/imgvault/internal/repositories/repomanager"
)

const minPasswordLength = 6

// Options configure token lifetimes of a LocalProvider.
type Options struct {
	SecretKey                    []byte
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
}

type tokenPair struct {
	idToken      string
	refreshToken string
}

// LocalProvider implements Provider over the users and refresh_tokens tables.
type LocalProvider struct {
	db   *sql.DB
	rm   repomanager.RepositoryManager
	opts Options
	log  logging.Logger

	mu      sync.Mutex
	user    *models.User
	tokens  *tokenPair
	subs    map[int]Listener
	nextSub int
}

func NewLocalProvider(db *sql.DB, rm repomanager.RepositoryManager, opts Options, log logging.Logger) *LocalProvider {
	return &LocalProvider{
		db:   db,
		rm:   rm,
		opts: opts,
		log:  log,
		subs: make(map[int]Listener),
	}
}

func (p *LocalProvider) Subscribe(l Listener) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = l
	current := p.user
	p.mu.Unlock()

	l(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, common.ErrWeakPassword
	}

	salt, verifier := cryptox.NewPasswordVerifier([]byte(password))

	var user *models.User
	var pair *tokenPair
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := p.rm.Users(tx).Create(ctx, &models.User{Email: email, Salt: salt, Verifier: verifier})
		if err != nil {
			return err
		}
		user = u
		pair, err = p.generateTokenPair(ctx, u.ID, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	p.log.Info(ctx, "account created", "user_id", user.ID)
	p.setSession(user, pair)
	return publicUser(user), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.rm.Users(p.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing close to the found case
			cryptox.CheckPassword([]byte(password), common.GenerateRandByteArray(cryptox.SaltSize), nil)
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !cryptox.CheckPassword([]byte(password), user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := p.generateTokenPair(ctx, user.ID, p.db)
	if err != nil {
		return nil, err
	}

	p.log.Info(ctx, "signed in", "user_id", user.ID)
	p.setSession(user, pair)
	return publicUser(user), nil
}

// SignOut clears the local session first, so the user is signed out even
// when revoking the refresh token fails.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	pair := p.tokens
	p.mu.Unlock()

	p.setSession(nil, nil)

	if pair == nil {
		return nil
	}
	if err := p.rm.RefreshTokens(p.db).Delete(ctx, pair.refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

func (p *LocalProvider) CurrentUser(ctx context.Context) (*models.User, error) {
	p.mu.Lock()
	user, pair := p.user, p.tokens
	p.mu.Unlock()

	if pair == nil {
		return nil, nil
	}

	_, err := GetUserIDFromToken(pair.idToken, p.opts.SecretKey)
	switch {
	case err == nil:
		return publicUser(user), nil
	case !errors.Is(err, common.ErrTokenExpired):
		p.setSession(nil, nil)
		return nil, err
	}

	fresh, err := p.refresh(ctx, pair.refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrorNotFound) {
			p.log.Info(ctx, "session expired", "user_id", user.ID)
			p.setSession(nil, nil)
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, err
	}

	p.mu.Lock()
	if p.tokens == pair {
		p.tokens = fresh
	}
	p.mu.Unlock()
	return publicUser(user), nil
}

// refresh rotates refreshToken transactionally and mints a new ID token.
func (p *LocalProvider) refresh(ctx context.Context, refreshToken string) (*tokenPair, error) {
	token, err := p.rm.RefreshTokens(p.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *tokenPair
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := p.rm.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = p.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (p *LocalProvider) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*tokenPair, error) {
	id, err := GenerateToken(userID, p.opts.SecretKey, p.opts.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating id token: %w", err)
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	if err := p.rm.RefreshTokens(tx).Create(ctx, userID, refresh, p.opts.RefreshTokenValidityDuration); err != nil {
		return nil, err
	}
	return &tokenPair{idToken: id, refreshToken: refresh}, nil
}

// setSession swaps the session and notifies subscribers outside the lock.
func (p *LocalProvider) setSession(user *models.User, pair *tokenPair) {
	p.mu.Lock()
	changed := (p.user == nil) != (user == nil) || (user != nil && p.user.ID != user.ID)
	p.user = user
	p.tokens = pair
	listeners := make([]Listener, 0, len(p.subs))
	for _, l := range p.subs {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	if !changed {
		return
	}
	out := publicUser(user)
	for _, l := range listeners {
		l(out)
	}
}

// publicUser strips credential material before a user leaves the provider.
func publicUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
