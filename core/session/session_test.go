package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	emailsvc "github.com/Mohan-b-dev/std-dash/services/email"
	logsvc "github.com/Mohan-b-dev/std-dash/services/logger"
	inmemdb "github.com/Mohan-b-dev/std-dash/storage/database/inmem"
	testutil "github.com/Mohan-b-dev/std-dash/tests"
)

type fixture struct {
	conf    *core.Config
	repo    session.Repository
	mailSvc *emailsvc.ConsoleService
	svc     *session.Service
}

func newFixture() fixture {
	conf := core.NewTestConfig()
	db := inmemdb.Open()
	repo := inmemdb.NewAccountRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logsvc.NewDiscardLogger())
	validate, translator := testutil.NewValidator()
	svc := session.NewService(conf, repo, inmemdb.NewRevoker(db), mailSvc, validate, translator)
	return fixture{conf: conf, repo: repo, mailSvc: mailSvc, svc: svc}
}

func TestTokenIssuer(t *testing.T) {
	conf := core.NewTestConfig()
	ti := session.NewTokenIssuer(conf)
	acc := session.Account{UID: "u1", Email: "t@test.test", Role: session.RoleAdmin}

	s, err := ti.Issue(acc)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.NotEmpty(t, s.TokenID)
	assert.True(t, s.IsAdmin())

	parsed, err := ti.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s, parsed)

	otherConf := core.NewTestConfig()
	otherConf.SecretKey = "other"
	forged, err := session.NewTokenIssuer(otherConf).Issue(acc)
	require.NoError(t, err)

	expConf := core.NewTestConfig()
	expConf.Server.JWTExpirationDelta = -time.Minute
	expired, err := session.NewTokenIssuer(expConf).Issue(acc)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty"},
		{name: "garbage", token: "lmaooolol"},
		{name: "wrong key", token: forged.Token},
		{name: "expired", token: expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ti.Parse(tt.token)
			assert.Equal(t, session.ErrInvalidToken, err)
		})
	}
}

func TestService_Register(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	testutil.CreateAccount(t, f.repo, "taken@test.test", "Pass@123", session.RoleStudent)

	tests := []struct {
		name      string
		creds     session.Credentials
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{name: "missing email", creds: session.Credentials{Password: "Pass@123"}, wantErr: true, wantField: "email"},
		{name: "invalid email", creds: session.Credentials{Email: "nope", Password: "Pass@123"}, wantErr: true, wantField: "email"},
		{name: "short password", creds: session.Credentials{Email: "a@test.test", Password: "abc"}, wantErr: true, wantField: "password"},
		{name: "password with space", creds: session.Credentials{Email: "a@test.test", Password: "abc def"}, wantErr: true, wantField: "password"},
		{name: "password like email", creds: session.Credentials{Email: "johndoe@test.test", Password: "johndoe1"}, wantErr: true, wantField: "password"},
		{name: "email taken", creds: session.Credentials{Email: " Taken@Test.test", Password: "Pass@123"}, wantErr: true, wantMsg: "an account with this email already exists"},
		{name: "valid", creds: session.Credentials{Email: "New@Test.test ", Password: "Pass@123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := f.svc.Register(ctx, tt.creds)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantField != "" {
					var vErr *core.ValidationError
					require.ErrorAs(t, err, &vErr)
					assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
				}
				if tt.wantMsg != "" {
					assert.True(t, core.IsAuthError(err))
					assert.Equal(t, tt.wantMsg, err.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new@test.test", s.Email)
			assert.Equal(t, session.RoleStudent, s.Role)
			assert.NotEmpty(t, s.UID)

			acc, err := f.repo.GetAccountByEmail(ctx, "new@test.test")
			require.NoError(t, err)
			assert.NoError(t, acc.CheckPassword("Pass@123"))

			sent := f.mailSvc.SentMessages()
			require.Len(t, sent, 1)
			assert.Equal(t, "new@test.test", sent[0].To[0].Address)
			assert.Contains(t, sent[0].TextContent, "new@test.test")
		})
	}
}

func TestService_AuthenticateResolveRevoke(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := testutil.CreateAccount(t, f.repo, "admin@test.test", "Pass@123", session.RoleAdmin)

	for _, creds := range []session.Credentials{
		{},
		{Email: "admin@test.test", Password: "wrong"},
		{Email: "nobody@test.test", Password: "Pass@123"},
	} {
		_, err := f.svc.Authenticate(ctx, creds)
		assert.Equal(t, session.ErrInvalidCredentials, err)
	}

	s, err := f.svc.Authenticate(ctx, session.Credentials{Email: "Admin@test.test", Password: "Pass@123"})
	require.NoError(t, err)
	assert.Equal(t, acc.UID, s.UID)
	assert.True(t, s.IsAdmin())

	updated, err := f.repo.GetAccountByUID(ctx, acc.UID)
	require.NoError(t, err)
	assert.False(t, updated.LastLogin.IsZero())

	resolved, err := f.svc.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.UID, resolved.UID)

	require.NoError(t, f.svc.Revoke(ctx, s))
	_, err = f.svc.Resolve(ctx, s.Token)
	assert.Equal(t, session.ErrInvalidToken, err)
}

type authStub struct {
	sess      session.Session
	err       error
	revokeErr error
	revoked   int
}

func (a *authStub) Register(_ context.Context, _ session.Credentials) (session.Session, error) {
	return a.sess, a.err
}

func (a *authStub) Authenticate(_ context.Context, _ session.Credentials) (session.Session, error) {
	return a.sess, a.err
}

func (a *authStub) Revoke(_ context.Context, _ session.Session) error {
	a.revoked++
	return a.revokeErr
}

func TestClient_Subscriptions(t *testing.T) {
	ctx := context.Background()
	auth := &authStub{sess: session.Session{UID: "u1", Email: "t@test.test", Role: session.RoleStudent}}
	client := session.NewClient(auth, nil)

	var calls []string
	unsub1 := client.OnSessionChange(func(s *session.Session) {
		if s == nil {
			calls = append(calls, "1:nil")
		} else {
			calls = append(calls, "1:"+s.UID)
		}
	})
	unsub2 := client.OnSessionChange(func(s *session.Session) {
		if s == nil {
			calls = append(calls, "2:nil")
		} else {
			calls = append(calls, "2:"+s.UID)
		}
	})
	assert.Equal(t, []string{"1:nil", "2:nil"}, calls)
	assert.Equal(t, 2, client.ListenerCount())

	calls = nil
	_, err := client.SignIn(ctx, "t@test.test", "pwd")
	require.NoError(t, err)
	assert.Equal(t, []string{"1:u1", "2:u1"}, calls)
	require.NotNil(t, client.Current())
	assert.Equal(t, "u1", client.Current().UID)

	unsub1()
	unsub1() // no-op
	assert.Equal(t, 1, client.ListenerCount())

	calls = nil
	require.NoError(t, client.SignOut(ctx))
	assert.Equal(t, []string{"2:nil"}, calls)
	assert.Nil(t, client.Current())
	assert.Equal(t, 1, auth.revoked)

	unsub2()
	assert.Equal(t, 0, client.ListenerCount())
}

func TestClient_Failures(t *testing.T) {
	ctx := context.Background()
	current := &session.Session{UID: "u1"}
	auth := &authStub{err: core.NewAuthError("invalid email or password"), revokeErr: core.NewAuthError("offline")}
	client := session.NewClient(auth, current)

	var notified int
	unsub := client.OnSessionChange(func(*session.Session) { notified++ })
	defer unsub()

	_, err := client.SignIn(ctx, "t@test.test", "bad")
	assert.EqualError(t, err, "invalid email or password")
	_, err = client.CreateAccount(ctx, "t@test.test", "bad")
	assert.Error(t, err)
	assert.EqualError(t, client.SignOut(ctx), "offline")

	assert.Equal(t, 1, notified) // initial call only
	require.NotNil(t, client.Current())
	assert.Equal(t, "u1", client.Current().UID)
}
