package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/provider"
	"github.com/AlexZinkM/multi-wallet/internal/session"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAdapter struct {
	kind     wallet.Provider
	address  string
	loginErr error

	mu       sync.Mutex
	loggedIn bool
	active   int
	maxSeen  int
	logouts  int
}

func (f *fakeAdapter) Kind() wallet.Provider { return f.kind }

func (f *fakeAdapter) Login(ctx context.Context, m provider.LoginMethod) error {
	f.mu.Lock()
	f.active++
	if f.active > f.maxSeen {
		f.maxSeen = f.active
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeAdapter) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.logouts++
	return nil
}

func (f *fakeAdapter) StandardWallet(context.Context) *wallet.StandardWallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loggedIn || f.address == "" {
		return nil
	}
	return wallet.New(f.kind, f.address, nil, nil)
}

func (f *fakeAdapter) SigningProvider(ctx context.Context, w *wallet.StandardWallet) (wallet.Signer, error) {
	return w.SigningProvider(ctx)
}

type fakeAuthAPI struct{}

func (fakeAuthAPI) InitOTPAuth(context.Context, model.InitOTPRequest) (*model.InitOTPResponse, error) {
	return &model.InitOTPResponse{OTPID: "o1", OrganizationID: "org1"}, nil
}

func (fakeAuthAPI) OTPAuth(context.Context, model.OTPAuthRequest) (*model.CredentialResponse, error) {
	return &model.CredentialResponse{CredentialBundle: "bundle1"}, nil
}

func (fakeAuthAPI) OAuthLogin(context.Context, model.OAuthLoginRequest) (*model.CredentialResponse, error) {
	return nil, errors.New("not used")
}

func (fakeAuthAPI) CreateSubOrg(context.Context, model.CreateSubOrgRequest) (*model.CreateSubOrgResponse, error) {
	return nil, errors.New("not used")
}

type fakeMWAClient struct {
	address string
}

func (c *fakeMWAClient) Authorize(context.Context, client.MWAIdentity, string) (*client.MWAAuthorization, error) {
	return &client.MWAAuthorization{AuthToken: "tok", Address: c.address}, nil
}

func (c *fakeMWAClient) Deauthorize(context.Context, string) error { return nil }

func (c *fakeMWAClient) SignAndSendTransactions(_ context.Context, _ client.MWAIdentity, _ string, payloads [][]byte) ([]solana.Signature, *client.MWAAuthorization, error) {
	return make([]solana.Signature, len(payloads)), &client.MWAAuthorization{AuthToken: "tok", Address: c.address}, nil
}

func newStore() *session.Store {
	return session.NewStore(nil, zap.NewNop())
}

func TestNewRequiresAdapter(t *testing.T) {
	_, err := New(wallet.ProviderPrivy, []provider.Adapter{&fakeAdapter{kind: wallet.ProviderDynamic}}, newStore(), zap.NewNop())
	assert.ErrorIs(t, err, ErrNoAdapter)

	a, err := New(wallet.ProviderDynamic, []provider.Adapter{&fakeAdapter{kind: wallet.ProviderDynamic}}, newStore(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, wallet.ProviderDynamic, a.Provider())
	assert.Equal(t, StatusLoggedOut, a.Status().Status)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	ad := &fakeAdapter{kind: wallet.ProviderPrivy, address: "Addr1"}
	a, err := New(wallet.ProviderPrivy, []provider.Adapter{ad}, store, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, a.Login(ctx, provider.LoginMethod{Kind: provider.LoginGoogle, Token: "t"}))
	assert.Equal(t, StatusLoggedIn, a.Status().Status)

	user := a.User()
	assert.True(t, user.IsLoggedIn)
	assert.Equal(t, "privy", user.Provider)
	assert.Equal(t, "Addr1", user.Address)

	w := a.Wallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, "Addr1", w.Address())

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.User().IsLoggedIn)
	assert.Equal(t, StatusLoggedOut, a.Status().Status)
	assert.Nil(t, a.Wallet(ctx))
}

func TestLoginFailureKeepsStatus(t *testing.T) {
	ad := &fakeAdapter{kind: wallet.ProviderPrivy, loginErr: errors.New("denied")}
	a, err := New(wallet.ProviderPrivy, []provider.Adapter{ad}, newStore(), zap.NewNop())
	require.NoError(t, err)

	err = a.Login(context.Background(), provider.LoginMethod{Kind: provider.LoginGoogle})
	require.Error(t, err)

	st := a.Status()
	assert.Equal(t, StatusLoggedOut, st.Status)
	assert.Equal(t, "denied", st.Message)
	assert.False(t, a.User().IsLoggedIn)
}

func TestLoginsAreSerialized(t *testing.T) {
	ad := &fakeAdapter{kind: wallet.ProviderPrivy, address: "Addr1"}
	a, err := New(wallet.ProviderPrivy, []provider.Adapter{ad}, newStore(), zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Login(context.Background(), provider.LoginMethod{Kind: provider.LoginGoogle})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ad.maxSeen)
}

type otpAdapter struct {
	*fakeAdapter
}

func (o otpAdapter) InitOTP(context.Context, provider.OTPType, string) (string, error) {
	o.mu.Lock()
	o.active++
	if o.active > o.maxSeen {
		o.maxSeen = o.active
	}
	o.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	o.mu.Lock()
	o.active--
	o.mu.Unlock()
	return "o1", nil
}

func (o otpAdapter) VerifyOTP(ctx context.Context, _ string) error {
	return o.Login(ctx, provider.LoginMethod{Kind: provider.LoginEmail})
}

func TestInitOTPSerializedWithLogin(t *testing.T) {
	ad := otpAdapter{&fakeAdapter{kind: wallet.ProviderTurnkey, address: "Addr1"}}
	a, err := New(wallet.ProviderTurnkey, []provider.Adapter{ad}, newStore(), zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = a.Login(context.Background(), provider.LoginMethod{Kind: provider.LoginGoogle})
		}()
		go func() {
			defer wg.Done()
			_, _ = a.InitOTP(context.Background(), provider.OTPTypeEmail, "a@b.c")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ad.maxSeen)

	// a code requested while logged in leaves the session status alone
	_, err = a.InitOTP(context.Background(), provider.OTPTypeEmail, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, StatusLoggedIn, a.Status().Status)
}

func TestOTPUnsupported(t *testing.T) {
	a, err := New(wallet.ProviderPrivy, []provider.Adapter{&fakeAdapter{kind: wallet.ProviderPrivy}}, newStore(), zap.NewNop())
	require.NoError(t, err)

	_, err = a.InitOTP(context.Background(), provider.OTPTypeEmail, "a@b.c")
	assert.ErrorIs(t, err, provider.ErrUnsupportedLoginMethod)
	assert.ErrorIs(t, a.VerifyOTP(context.Background(), "1"), provider.ErrUnsupportedLoginMethod)
	assert.ErrorIs(t, a.LoginWithPasskey(context.Background(), model.Passkey{}), provider.ErrUnsupportedLoginMethod)

	err = a.Login(context.Background(), provider.LoginMethod{Kind: provider.LoginWallet})
	assert.ErrorIs(t, err, provider.ErrUnsupportedLoginMethod)
}

func TestTurnkeyOTPLogin(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	tk := provider.NewTurnkey(fakeAuthAPI{}, nil, time.Minute, zap.NewNop())
	a, err := New(wallet.ProviderTurnkey, []provider.Adapter{tk}, store, zap.NewNop())
	require.NoError(t, err)

	otpID, err := a.InitOTP(ctx, provider.OTPTypeEmail, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "o1", otpID)
	assert.Equal(t, StatusAwaitingOTP, a.Status().Status)

	require.NoError(t, a.VerifyOTP(ctx, "123456"))

	user := a.User()
	assert.True(t, user.IsLoggedIn)
	assert.Equal(t, "turnkey", user.Provider)
	assert.Equal(t, tk.IdentityAddress(), user.Address)
	_, err = solana.PublicKeyFromBase58(user.Address)
	assert.NoError(t, err)

	st := a.Status()
	assert.Equal(t, StatusLoggedIn, st.Status)
	assert.Contains(t, st.Message, "no Solana wallet")
	assert.Nil(t, a.Wallet(ctx))
}

func TestWalletLoginGoesToMWA(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	address := solana.NewWallet().PublicKey().String()
	primary := &fakeAdapter{kind: wallet.ProviderPrivy}
	m := provider.NewMWA(&fakeMWAClient{address: address}, client.MWAIdentity{Name: "app"}, true, zap.NewNop())

	a, err := New(wallet.ProviderPrivy, []provider.Adapter{primary, m}, store, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, a.Login(ctx, provider.LoginMethod{Kind: provider.LoginWallet}))
	assert.Equal(t, "mwa", a.User().Provider)
	assert.Equal(t, address, a.User().Address)

	w := a.Wallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, wallet.ProviderMWA, w.Provider())

	_, err = a.SigningProvider(ctx, w)
	assert.ErrorIs(t, err, wallet.ErrExternalSigning)

	sigs, err := a.SignAndSendExternal(ctx, [][]byte{{1}})
	require.NoError(t, err)
	assert.Len(t, sigs, 1)
}

func TestPersistedMWAWallet(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Dispatch(ctx, session.LoginSuccess{Provider: "mwa", Address: "Persisted1"})

	m := provider.NewMWA(&fakeMWAClient{}, client.MWAIdentity{}, true, zap.NewNop())
	a, err := New(wallet.ProviderMWA, []provider.Adapter{m}, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, StatusLoggedIn, a.Status().Status)

	assert.Nil(t, a.AdapterWallet(ctx))
	w := a.Wallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, "Persisted1", w.Address())
	assert.Equal(t, wallet.ProviderMWA, w.Provider())
}
