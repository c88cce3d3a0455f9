package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/client"
	"github.com/AlexZinkM/multi-wallet/internal/client/clienttest"
	"github.com/AlexZinkM/multi-wallet/internal/model"
	"github.com/AlexZinkM/multi-wallet/internal/wallet"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func transferTx(t *testing.T, from solana.PublicKey) *solana.Transaction {
	t.Helper()
	to := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, from, to).Build()},
		solana.Hash{},
		solana.TransactionPayer(from),
	)
	require.NoError(t, err)
	return tx
}

func TestParseLoginKind(t *testing.T) {
	k, err := ParseLoginKind(" Google ")
	require.NoError(t, err)
	assert.Equal(t, LoginGoogle, k)
	assert.True(t, k.IsOAuth())
	assert.False(t, LoginEmail.IsOAuth())

	_, err = ParseLoginKind("twitter")
	assert.ErrorIs(t, err, ErrUnsupportedLoginMethod)

	ot, err := ParseOTPType("sms")
	require.NoError(t, err)
	assert.Equal(t, OTPTypeSMS, ot)
	_, err = ParseOTPType("fax")
	assert.Error(t, err)
}

// privy

type fakePrivyWallet struct {
	address string
	signer  wallet.Signer
}

func (w *fakePrivyWallet) Address() string { return w.address }

func (w *fakePrivyWallet) GetProvider(context.Context) (wallet.Signer, error) {
	return w.signer, nil
}

type fakePrivyClient struct {
	wallets  []PrivyWallet
	logins   []LoginMethod
	loginErr error
}

func (c *fakePrivyClient) Login(_ context.Context, m LoginMethod) error {
	c.logins = append(c.logins, m)
	return c.loginErr
}
func (c *fakePrivyClient) Logout(context.Context) error { return nil }
func (c *fakePrivyClient) Wallets(context.Context) []PrivyWallet { return c.wallets }

func TestPrivy(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	signer := wallet.NewKeySigner(key, wallet.DefaultSendOptions)
	c := &fakePrivyClient{}
	p := NewPrivy(c, zap.NewNop())

	assert.Equal(t, wallet.ProviderPrivy, p.Kind())
	assert.Nil(t, p.StandardWallet(ctx))

	err := p.Login(ctx, LoginMethod{Kind: LoginWallet})
	assert.ErrorIs(t, err, ErrUnsupportedLoginMethod)

	require.NoError(t, p.Login(ctx, LoginMethod{Kind: LoginEmail, Contact: "a@b.c"}))
	require.Len(t, c.logins, 1)

	c.wallets = []PrivyWallet{&fakePrivyWallet{address: key.PublicKey().String(), signer: signer}}
	w := p.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, key.PublicKey().String(), w.Address())

	got, err := p.SigningProvider(ctx, w)
	require.NoError(t, err)
	assert.Same(t, signer, got)

	_, err = p.SigningProvider(ctx, wallet.New(wallet.ProviderDynamic, "x", nil, nil))
	assert.Error(t, err)
	_, err = p.SigningProvider(ctx, nil)
	assert.ErrorIs(t, err, wallet.ErrNoWallet)

	c.loginErr = errors.New("boom")
	assert.Error(t, p.Login(ctx, LoginMethod{Kind: LoginGoogle, Token: "t"}))
}

// dynamic

// signOnly exposes SignTransaction but not SignAndSendTransaction
type signOnly struct {
	key *wallet.KeySigner
}

func (s signOnly) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	return s.key.SignTransaction(ctx, tx)
}

type fakeDynamicWallet struct {
	address string
	signer  DynamicSigner
}

func (w *fakeDynamicWallet) Address() string { return w.address }
func (w *fakeDynamicWallet) GetSigner(context.Context) (DynamicSigner, error) {
	return w.signer, nil
}

type fakeDynamicClient struct {
	wallets []DynamicWallet
	known   string
}

func (c *fakeDynamicClient) Login(context.Context, LoginMethod) error { return nil }
func (c *fakeDynamicClient) Logout(context.Context) error { return nil }
func (c *fakeDynamicClient) Wallets(context.Context) []DynamicWallet { return c.wallets }
func (c *fakeDynamicClient) WalletAddress() string { return c.known }

func TestDynamicManualBroadcast(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	address := key.PublicKey().String()
	c := &fakeDynamicClient{wallets: []DynamicWallet{
		&fakeDynamicWallet{address: address, signer: signOnly{key: wallet.NewKeySigner(key, wallet.DefaultSendOptions)}},
	}}
	d := NewDynamic(c, wallet.DefaultSendOptions, zap.NewNop())

	w := d.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, address, w.Address())
	assert.NotNil(t, w.RawWallet())

	signer, err := d.SigningProvider(ctx, w)
	require.NoError(t, err)

	conn := &clienttest.Connection{Blockhash: solana.Hash{7}}
	tx := transferTx(t, key.PublicKey())
	sig, err := signer.SignAndSendTransaction(ctx, tx, conn)
	require.NoError(t, err)
	assert.Equal(t, byte(1), sig[0])

	sent := conn.Sent()
	require.Len(t, sent, 1)
	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(sent[0]))
	require.NoError(t, err)
	assert.Equal(t, solana.Hash{7}, decoded.Message.RecentBlockhash)
	assert.NoError(t, decoded.VerifySignatures())
}

func TestDynamicNativeSigner(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	native := wallet.NewKeySigner(key, wallet.DefaultSendOptions)
	c := &fakeDynamicClient{wallets: []DynamicWallet{
		&fakeDynamicWallet{address: key.PublicKey().String(), signer: native},
	}}
	d := NewDynamic(c, client.SendOptions{}, zap.NewNop())

	signer, err := d.SigningProvider(ctx, d.StandardWallet(ctx))
	require.NoError(t, err)

	conn := &clienttest.Connection{}
	_, err = signer.SignAndSendTransaction(ctx, transferTx(t, key.PublicKey()), conn)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.SendCalls())
}

func TestDynamicDegradedWallet(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	address := key.PublicKey().String()
	c := &fakeDynamicClient{known: address}
	d := NewDynamic(c, wallet.DefaultSendOptions, zap.NewNop())

	w := d.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, address, w.Address())
	assert.Nil(t, w.RawWallet())

	_, err := d.SigningProvider(ctx, w)
	assert.ErrorIs(t, err, wallet.ErrProviderUnavailable)

	// the SDK finishes loading: the same degraded wallet now resolves
	c.wallets = []DynamicWallet{&fakeDynamicWallet{address: address, signer: signOnly{key: wallet.NewKeySigner(key, wallet.DefaultSendOptions)}}}
	signer, err := d.SigningProvider(ctx, w)
	require.NoError(t, err)
	assert.NotNil(t, signer)

	c.wallets, c.known = nil, ""
	assert.Nil(t, d.StandardWallet(ctx))
}

// turnkey

type fakeAuthAPI struct {
	initReq  model.InitOTPRequest
	otpReq   model.OTPAuthRequest
	oauthReq model.OAuthLoginRequest
	subOrgID string
	err      error
}

func (a *fakeAuthAPI) InitOTPAuth(_ context.Context, req model.InitOTPRequest) (*model.InitOTPResponse, error) {
	a.initReq = req
	if a.err != nil {
		return nil, a.err
	}
	return &model.InitOTPResponse{OTPID: "o1", OrganizationID: "org1"}, nil
}

func (a *fakeAuthAPI) OTPAuth(_ context.Context, req model.OTPAuthRequest) (*model.CredentialResponse, error) {
	a.otpReq = req
	if a.err != nil {
		return nil, a.err
	}
	return &model.CredentialResponse{CredentialBundle: "bundle1"}, nil
}

func (a *fakeAuthAPI) OAuthLogin(_ context.Context, req model.OAuthLoginRequest) (*model.CredentialResponse, error) {
	a.oauthReq = req
	if a.err != nil {
		return nil, a.err
	}
	return &model.CredentialResponse{CredentialBundle: "bundle2", OrganizationID: "org2"}, nil
}

func (a *fakeAuthAPI) CreateSubOrg(context.Context, model.CreateSubOrgRequest) (*model.CreateSubOrgResponse, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &model.CreateSubOrgResponse{SubOrganizationID: a.subOrgID}, nil
}

type fakeTurnkeyClient struct {
	accounts  []TurnkeyAccount
	injected  []string
	orgs      []string
	injectErr error
}

func (c *fakeTurnkeyClient) InjectCredentials(_ context.Context, orgID, bundle string, key solana.PrivateKey) error {
	c.injected = append(c.injected, bundle)
	return c.injectErr
}

func (c *fakeTurnkeyClient) WalletAccounts(_ context.Context, orgID string) ([]TurnkeyAccount, error) {
	c.orgs = append(c.orgs, orgID)
	return c.accounts, nil
}

func (c *fakeTurnkeyClient) Signer(context.Context, string, string) (wallet.Signer, error) {
	return wallet.NewKeySigner(solana.NewWallet().PrivateKey, wallet.DefaultSendOptions), nil
}

func (c *fakeTurnkeyClient) Logout(context.Context) error { return nil }

func TestTurnkeyOTPWithoutClient(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{}
	tk := NewTurnkey(api, nil, 15*time.Minute, zap.NewNop())

	err := tk.VerifyOTP(ctx, "123456")
	assert.ErrorIs(t, err, ErrNoPendingOTP)

	otpID, err := tk.InitOTP(ctx, OTPTypeEmail, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "o1", otpID)
	assert.Equal(t, "OTP_TYPE_EMAIL", api.initReq.OTPType)

	require.NoError(t, tk.VerifyOTP(ctx, "123456"))
	assert.Equal(t, "o1", api.otpReq.OTPID)
	assert.Equal(t, "org1", api.otpReq.OrganizationID)
	assert.Equal(t, "900", api.otpReq.ExpirationSeconds)
	assert.Equal(t, api.otpReq.TargetPublicKey, tk.IdentityAddress())
	assert.Nil(t, tk.StandardWallet(ctx))

	// the pending OTP is consumed
	assert.ErrorIs(t, tk.VerifyOTP(ctx, "123456"), ErrNoPendingOTP)
}

func TestTurnkeyVerifyFailureKeepsPendingOTP(t *testing.T) {
	ctx := context.Background()
	sol := solana.NewWallet().PublicKey().String()
	c := &fakeTurnkeyClient{
		accounts:  []TurnkeyAccount{{Address: sol, AddressFormat: AddressFormatSolana}},
		injectErr: errors.New("session store unavailable"),
	}
	api := &fakeAuthAPI{}
	tk := NewTurnkey(api, c, time.Minute, zap.NewNop())

	_, err := tk.InitOTP(ctx, OTPTypeSMS, "+15550100")
	require.NoError(t, err)

	err = tk.VerifyOTP(ctx, "123456")
	require.ErrorContains(t, err, "failed to activate session")
	assert.NotErrorIs(t, err, ErrNoPendingOTP)
	assert.Nil(t, tk.StandardWallet(ctx))

	// the same OTP session can be retried
	c.injectErr = nil
	require.NoError(t, tk.VerifyOTP(ctx, "123456"))
	assert.Equal(t, "o1", api.otpReq.OTPID)
	assert.Equal(t, []string{"bundle1", "bundle1"}, c.injected)

	w := tk.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, sol, w.Address())
	assert.ErrorIs(t, tk.VerifyOTP(ctx, "123456"), ErrNoPendingOTP)
}

func TestTurnkeySelectsSolanaAccount(t *testing.T) {
	ctx := context.Background()
	sol := solana.NewWallet().PublicKey().String()
	c := &fakeTurnkeyClient{accounts: []TurnkeyAccount{
		{Address: "0xabc", AddressFormat: "ADDRESS_FORMAT_ETHEREUM"},
		{Address: sol, AddressFormat: AddressFormatSolana},
	}}
	tk := NewTurnkey(&fakeAuthAPI{}, c, time.Minute, zap.NewNop())

	require.NoError(t, tk.Login(ctx, LoginMethod{Kind: LoginGoogle, Token: "oidc"}))
	assert.Equal(t, []string{"bundle2"}, c.injected)
	assert.Equal(t, []string{"org2"}, c.orgs)

	w := tk.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, sol, w.Address())
	assert.Equal(t, sol, tk.IdentityAddress())

	signer, err := tk.SigningProvider(ctx, w)
	require.NoError(t, err)
	assert.NotNil(t, signer)

	require.NoError(t, tk.Logout(ctx))
	assert.Nil(t, tk.StandardWallet(ctx))
	assert.Empty(t, tk.IdentityAddress())
}

func TestTurnkeyNoSolanaAccount(t *testing.T) {
	ctx := context.Background()
	c := &fakeTurnkeyClient{accounts: []TurnkeyAccount{{Address: "0xabc", AddressFormat: "ADDRESS_FORMAT_ETHEREUM"}}}
	tk := NewTurnkey(&fakeAuthAPI{subOrgID: "sub1"}, c, time.Minute, zap.NewNop())

	require.NoError(t, tk.LoginWithPasskey(ctx, model.Passkey{Challenge: "c"}))
	assert.Equal(t, []string{"sub1"}, c.orgs)
	assert.Empty(t, c.injected)
	assert.Nil(t, tk.StandardWallet(ctx))
	assert.Contains(t, tk.StatusMessage(), "No Solana wallet")
}

func TestTurnkeyRejectsPasswordlessLogin(t *testing.T) {
	tk := NewTurnkey(&fakeAuthAPI{}, nil, time.Minute, zap.NewNop())
	err := tk.Login(context.Background(), LoginMethod{Kind: LoginEmail, Contact: "a@b.c"})
	assert.ErrorIs(t, err, ErrUnsupportedLoginMethod)

	api := &fakeAuthAPI{err: &client.HTTPError{Endpoint: "/api/auth/oAuthLogin", StatusCode: 401}}
	tk = NewTurnkey(api, nil, time.Minute, zap.NewNop())
	err = tk.Login(context.Background(), LoginMethod{Kind: LoginApple, Token: "t"})
	assert.True(t, client.IsHTTPError(err))
}

// mwa

type fakeMWAClient struct {
	address     string
	tokens      []string
	deauthorize []string
}

func (c *fakeMWAClient) Authorize(_ context.Context, _ client.MWAIdentity, token string) (*client.MWAAuthorization, error) {
	c.tokens = append(c.tokens, token)
	return &client.MWAAuthorization{AuthToken: "tok", Address: c.address}, nil
}

func (c *fakeMWAClient) Deauthorize(_ context.Context, token string) error {
	c.deauthorize = append(c.deauthorize, token)
	return nil
}

func (c *fakeMWAClient) SignAndSendTransactions(_ context.Context, _ client.MWAIdentity, token string, payloads [][]byte) ([]solana.Signature, *client.MWAAuthorization, error) {
	c.tokens = append(c.tokens, token)
	sigs := make([]solana.Signature, len(payloads))
	for i := range sigs {
		sigs[i][0] = byte(i + 1)
	}
	return sigs, &client.MWAAuthorization{AuthToken: "tok2", Address: c.address}, nil
}

func TestMWAPlatformGate(t *testing.T) {
	m := NewMWA(&fakeMWAClient{}, client.MWAIdentity{Name: "app"}, false, zap.NewNop())
	err := m.Login(context.Background(), LoginMethod{Kind: LoginWallet})
	assert.ErrorIs(t, err, wallet.ErrPlatformUnsupported)

	_, err = m.SignAndSendExternal(context.Background(), [][]byte{{1}})
	assert.ErrorIs(t, err, wallet.ErrPlatformUnsupported)

	assert.Nil(t, m.SessionWallet(model.AuthSession{Provider: "mwa", Address: "A", IsLoggedIn: true}))
}

func TestMWA(t *testing.T) {
	ctx := context.Background()
	address := solana.NewWallet().PublicKey().String()
	c := &fakeMWAClient{address: address}
	m := NewMWA(c, client.MWAIdentity{Name: "app"}, true, zap.NewNop())

	assert.ErrorIs(t, m.Login(ctx, LoginMethod{Kind: LoginGoogle}), ErrUnsupportedLoginMethod)
	require.NoError(t, m.Login(ctx, LoginMethod{Kind: LoginWallet}))
	assert.Equal(t, address, m.IdentityAddress())

	w := m.StandardWallet(ctx)
	require.NotNil(t, w)
	assert.Equal(t, wallet.ProviderMWA, w.Provider())

	_, err := m.SigningProvider(ctx, w)
	require.Error(t, err)
	assert.Equal(t, "MWA uses external wallet for signing", err.Error())

	sigs, err := m.SignAndSendExternal(ctx, [][]byte{{1}, {2}})
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, []string{"", "tok"}, c.tokens)

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, []string{"tok2"}, c.deauthorize)
	assert.Nil(t, m.StandardWallet(ctx))
}

func TestMWASessionWallet(t *testing.T) {
	m := NewMWA(&fakeMWAClient{}, client.MWAIdentity{}, true, zap.NewNop())

	w := m.SessionWallet(model.AuthSession{Provider: "mwa", Address: "A", IsLoggedIn: true})
	require.NotNil(t, w)
	assert.Equal(t, "A", w.Address())
	assert.Nil(t, w.RawWallet())

	assert.Nil(t, m.SessionWallet(model.AuthSession{Provider: "privy", Address: "A", IsLoggedIn: true}))
	assert.Nil(t, m.SessionWallet(model.AuthSession{Provider: "mwa", Address: "A"}))
}
