package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage/memstore"
)

var testConfig = Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}

// fixture 内存存储 + 临时目录磁盘存储
type fixture struct {
	store    *memstore.Store
	disk     *assets.Disk
	root     string
	accounts *Accounts
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	disk, err := assets.NewDisk(root)
	require.NoError(t, err)

	store := memstore.New()
	cleaner := assets.NewCleaner(disk, model.DefaultAvatarPath, model.DefaultAdminAvatarPath)
	return &fixture{
		store:    store,
		disk:     disk,
		root:     root,
		accounts: NewAccounts(store, cleaner),
		resolver: NewResolver(store, testConfig),
	}
}

func (f *fixture) register(t *testing.T, email, password string) *model.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), Registration{
		Name: "User " + email, Email: email, Password: password, Phone: "555-0100",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) seedAdmin(t *testing.T) *model.Admin {
	t.Helper()
	a, err := f.accounts.EnsureAdmin(context.Background(), AdminSeed{
		Name: "Admin", Email: "admin@gmail.com", Phone: "71852963", Password: "admin1",
	})
	require.NoError(t, err)
	return a
}

func imageUpload(name, body string) *assets.Upload {
	return &assets.Upload{Name: name, Size: int64(len(body)), ContentType: "image/png", Body: strings.NewReader(body)}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))
}

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testConfig, "abc")
	require.NoError(t, err)

	claims, err := ParseToken(testConfig, token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Subject)
	assert.Equal(t, "access", claims.Type)
}

func TestToken_Rejections(t *testing.T) {
	expired, err := GenerateAccessToken(Config{JWTSecret: testConfig.JWTSecret, AccessTokenTTL: -time.Minute}, "abc")
	require.NoError(t, err)

	otherSecret, err := GenerateAccessToken(Config{JWTSecret: "other", AccessTokenTTL: time.Hour}, "abc")
	require.NoError(t, err)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Type:             "refresh",
	}).SignedString([]byte(testConfig.JWTSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"},
		Type:             "access",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"wrong type":   wrongType,
		"none alg":     noneAlg,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(testConfig, tok)
			assert.Error(t, err)
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetPrincipal(ctx))

	p := &model.Principal{ID: "x", Role: model.RoleClient}
	assert.Same(t, p, GetPrincipal(WithPrincipal(ctx, p)))
}
