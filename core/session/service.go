package session

import (
	"context"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Mohan-b-dev/std-dash/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("account not found")
	ErrEmailExists        = core.NewAuthError("an account with this email already exists")
	ErrInvalidCredentials = core.NewAuthError("invalid email or password")
)

type (
	// Repository persists accounts. Implementations return ErrNotFound for unknown accounts.
	Repository interface {
		CreateAccount(ctx context.Context, acc Account) (Account, error)
		GetAccountByUID(ctx context.Context, uid string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		UpdateAccount(ctx context.Context, acc Account) (Account, error)
	}

	// Revoker tracks signed-out tokens until they expire.
	Revoker interface {
		Revoke(ctx context.Context, tokenID string, until time.Time) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
	}

	// Authenticator is the server side of the Session Store.
	Authenticator interface {
		Register(ctx context.Context, creds Credentials) (Session, error)
		Authenticate(ctx context.Context, creds Credentials) (Session, error)
		Revoke(ctx context.Context, s Session) error
	}

	Service struct {
		conf       *core.Config
		repo       Repository
		revoker    Revoker
		tokens     *TokenIssuer
		mailSvc    core.EmailService
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Authenticator = (*Service)(nil)

func NewService(
	conf *core.Config,
	repo Repository,
	revoker Revoker,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		conf:       conf,
		repo:       repo,
		revoker:    revoker,
		tokens:     NewTokenIssuer(conf),
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
	}
}

// Register creates a student account and opens its first Session.
func (svc *Service) Register(ctx context.Context, creds Credentials) (Session, error) {
	creds.Clean()
	na := newAccount{Email: creds.Email, Password: creds.Password}
	if err := svc.validate.Struct(na); err != nil {
		return Session{}, core.TranslateValidationErrors(err, svc.translator)
	}

	if _, err := svc.repo.GetAccountByEmail(ctx, creds.Email); err == nil {
		return Session{}, ErrEmailExists
	} else if !core.IsNotFound(err) {
		return Session{}, core.NewAuthError("account creation failed: "+err.Error(), err)
	}

	now := time.Now().UTC()
	acc := Account{
		Email:     creds.Email,
		Role:      RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	if err := acc.SetPassword(creds.Password); err != nil {
		return Session{}, errors.Wrap(err, "hashing password")
	}
	acc, err := svc.repo.CreateAccount(ctx, acc)
	if err != nil {
		return Session{}, core.NewAuthError("account creation failed: "+err.Error(), err)
	}

	svc.sendWelcome(acc)
	return svc.tokens.Issue(acc)
}

// Authenticate checks the credentials and opens a Session.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	creds.Clean()
	if creds.Email == "" || creds.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	acc, err := svc.repo.GetAccountByEmail(ctx, creds.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, core.NewAuthError("sign-in failed: "+err.Error(), err)
	}
	if err = acc.CheckPassword(creds.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	acc.LastLogin = time.Now().UTC()
	if acc, err = svc.repo.UpdateAccount(ctx, acc); err != nil {
		return Session{}, core.NewAuthError("sign-in failed: "+err.Error(), err)
	}
	return svc.tokens.Issue(acc)
}

// Resolve returns the Session carried by a token that is still valid and not signed out.
func (svc *Service) Resolve(ctx context.Context, token string) (Session, error) {
	s, err := svc.tokens.Parse(token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := svc.revoker.IsRevoked(ctx, s.TokenID)
	if err != nil {
		return Session{}, errors.Wrap(err, "checking token revocation")
	}
	if revoked {
		return Session{}, ErrInvalidToken
	}
	return s, nil
}

// Revoke signs the session out: its token is rejected until it expires.
func (svc *Service) Revoke(ctx context.Context, s Session) error {
	if s.TokenID == "" {
		return nil
	}
	if err := svc.revoker.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
		return core.NewAuthError("sign-out failed: "+err.Error(), err)
	}
	return nil
}

func (svc *Service) sendWelcome(acc Account) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: acc.Email}},
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: map[string]string{"Email": acc.Email},
	})
}
