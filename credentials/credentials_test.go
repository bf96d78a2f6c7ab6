package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goAuthState/session"
	"github.com/MrEthical07/goAuthState/token"
)

func fastParams() Params {
	return Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func newExchanger(t *testing.T) (*StaticExchanger, *token.Manager) {
	t.Helper()
	mgr, err := token.NewManager(token.Config{
		TTL:           time.Hour,
		SigningMethod: token.MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
	})
	require.NoError(t, err)
	ex, err := NewStaticExchanger(mgr, fastParams())
	require.NoError(t, err)
	return ex, mgr
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret(fastParams(), "correct-horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := VerifySecret("correct-horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret("wrong-horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	upgrade, err := NeedsRehash(DefaultParams(), hash)
	require.NoError(t, err)
	assert.True(t, upgrade)

	upgrade, err = NeedsRehash(fastParams(), hash)
	require.NoError(t, err)
	assert.False(t, upgrade)
}

func TestHashSecretRejectsWeakInput(t *testing.T) {
	_, err := HashSecret(Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}, "long-enough")
	assert.ErrorIs(t, err, ErrWeakParams)

	_, err = HashSecret(fastParams(), "short")
	assert.Error(t, err)
}

func TestVerifySecretMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
	} {
		_, err := VerifySecret("secret-value", in)
		assert.ErrorIs(t, err, ErrMalformedHash, in)
	}
}

func TestStaticExchangerSuccess(t *testing.T) {
	ex, mgr := newExchanger(t)
	user := session.UserProfile{ID: 3, Username: "keiri", Email: "keiri@example.com", Role: "KEITOSAN"}
	require.NoError(t, ex.AddUser("Keiri@Example.com ", "approve-all-the-things", user))

	res, err := ex.Exchange(context.Background(), "keiri@example.com", "approve-all-the-things")
	require.NoError(t, err)
	assert.Equal(t, user, res.User)

	claims, err := mgr.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "KEITOSAN", claims.Role)
}

func TestStaticExchangerRejections(t *testing.T) {
	ex, _ := newExchanger(t)
	user := session.UserProfile{ID: 4, Username: "emp", Role: "EMPLOYEE"}
	require.NoError(t, ex.AddUser("emp", "employee-secret", user))

	_, err := ex.Exchange(context.Background(), "emp", "not-the-secret")
	assert.True(t, Rejected(err))

	_, err = ex.Exchange(context.Background(), "ghost", "employee-secret")
	assert.True(t, Rejected(err))

	ex.Disable("emp")
	_, err = ex.Exchange(context.Background(), "emp", "employee-secret")
	assert.True(t, Rejected(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ex.Exchange(ctx, "emp", "employee-secret")
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, CodeUnavailable, f.Code)
}

func TestAddUserValidatesProfile(t *testing.T) {
	ex, _ := newExchanger(t)
	assert.Error(t, ex.AddUser("", "some-secret", session.UserProfile{Username: "x"}))
	assert.Error(t, ex.AddUser("nobody", "some-secret", session.UserProfile{ID: 1}))
	assert.Error(t, ex.AddHashed("x", "not-a-hash", session.UserProfile{ID: 1, Username: "x"}))
}

func TestExchangerFunc(t *testing.T) {
	var ex Exchanger = ExchangerFunc(func(context.Context, string, string) (Result, error) {
		return Result{}, &Failure{Code: CodeUnavailable}
	})
	_, err := ex.Exchange(context.Background(), "a", "b")
	assert.EqualError(t, err, "unavailable")
	assert.False(t, Rejected(err))
}
