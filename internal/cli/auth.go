package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/dmitrijs2005/imgvault/internal/services"
	"github.com/dmitrijs2005/imgvault/internal/session"
)

// reportFormError prints validation and auth rejections as is and anything
// else with a generic prefix.
func (a *App) reportFormError(ctx context.Context, action string, err error) {
	var ve *services.ValidationError
	var ae *services.AuthError
	switch {
	case errors.As(err, &ve), errors.As(err, &ae):
		fmt.Fprintln(a.out, err.Error())
	default:
		a.log.Error(ctx, action+" failed", "error", err)
		fmt.Fprintf(a.out, "%s failed: %v\n", action, err)
	}
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	if err := a.credentials.SignIn(ctx, models.SignInRequest{Email: email, Password: password}); err != nil {
		a.reportFormError(ctx, "Sign-in", err)
		return err
	}

	a.email = email
	fmt.Fprintf(a.out, "Signed in as %s\n", email)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	retype, err := GetPassword(a.reader, "Retype password", a.out)
	if err != nil {
		return err
	}

	res, err := a.credentials.CreateAccount(ctx, models.CreateAccountRequest{
		Email:          email,
		Password:       password,
		RetypePassword: retype,
	})
	if err != nil {
		a.reportFormError(ctx, "Account creation", err)
		return err
	}

	a.email = email
	a.log.Info(ctx, "account created", "user_id", res.UserID, "profile_written", res.ProfileWritten)
	fmt.Fprintf(a.out, "Account created, signed in as %s\n", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.account.SignOut(ctx)
	a.forgetUser()
	a.route = session.RouteSignedOut
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Account(ctx context.Context) error {
	uid, ok := a.userID(ctx)
	if !ok {
		return nil
	}
	ov, err := a.account.Overview(ctx, uid)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load your profile: %v\n", err)
	}
	fmt.Fprintf(a.out, "Email:    %s\n", ov.Email)
	fmt.Fprintf(a.out, "Version:  %s\n", ov.AppVersion)
	fmt.Fprintf(a.out, "Platform: %s\n", ov.Platform)
	fmt.Fprintf(a.out, "OS:       %s\n", ov.OS)
	return nil
}
