package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWallet answers MWA JSON-RPC calls with fixed results
func fakeWallet(t *testing.T, account solana.PublicKey, sig solana.Signature, decline bool) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var req mwaRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
			switch {
			case decline:
				resp["error"] = map[string]any{"code": -1, "message": "authorization declined"}
			case req.Method == "authorize":
				resp["result"] = map[string]any{
					"auth_token": "tok-1",
					"accounts":   []map[string]string{{"address": base64.StdEncoding.EncodeToString(account[:])}},
				}
			case req.Method == "sign_and_send_transactions":
				raw, _ := json.Marshal(req.Params)
				var p mwaSignAndSendParams
				_ = json.Unmarshal(raw, &p)
				sigs := make([]string, len(p.Payloads))
				for i := range sigs {
					sigs[i] = base64.StdEncoding.EncodeToString(sig[:])
				}
				resp["result"] = map[string]any{"signatures": sigs}
			default:
				resp["result"] = map[string]any{}
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestMWABridgeClient_AuthorizeAndSend(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	var sig solana.Signature
	sig[0] = 7

	srv := fakeWallet(t, account, sig, false)
	defer srv.Close()

	c := NewMWABridgeClient(wsURL(srv), "")
	ctx := context.Background()

	auth, err := c.Authorize(ctx, MWAIdentity{Name: "test"}, "")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", auth.AuthToken)
	assert.Equal(t, account.String(), auth.Address)

	sigs, refreshed, err := c.SignAndSendTransactions(ctx, MWAIdentity{Name: "test"}, auth.AuthToken, [][]byte{{1, 2, 3}})
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, sig, sigs[0])
	assert.Equal(t, "tok-1", refreshed.AuthToken)
}

func TestMWABridgeClient_Declined(t *testing.T) {
	srv := fakeWallet(t, solana.PublicKey{}, solana.Signature{}, true)
	defer srv.Close()

	_, err := NewMWABridgeClient(wsURL(srv), "").Authorize(context.Background(), MWAIdentity{Name: "test"}, "")
	require.Error(t, err)

	var mwaErr *MWAError
	require.ErrorAs(t, err, &mwaErr)
	assert.Contains(t, mwaErr.Message, "declined")
}

func TestMWABridgeClient_Unreachable(t *testing.T) {
	_, err := NewMWABridgeClient("ws://127.0.0.1:1/mwa", "").Authorize(context.Background(), MWAIdentity{Name: "test"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach wallet app")
}
