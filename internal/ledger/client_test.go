package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcCall struct {
	Method string `json:"method"`
	Params []struct {
		Account string          `json:"account"`
		Limit   int             `json:"limit"`
		Marker  json.RawMessage `json:"marker"`
	} `json:"params"`
}

func decodeCall(t *testing.T, r *http.Request) rpcCall {
	t.Helper()
	var call rpcCall
	require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
	require.Equal(t, "account_nfts", call.Method)
	require.Len(t, call.Params, 1)
	return call
}

func TestAccountNFTsSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		assert.Equal(t, "rHolder", call.Params[0].Account)
		assert.Equal(t, pageLimit, call.Params[0].Limit)

		fmt.Fprint(w, `{"result":{
			"account":"rHolder",
			"account_nfts":[
				{"Flags":8,"Issuer":"rISS","NFTokenID":"00A","NFTokenTaxon":7,"nft_serial":1},
				{"Flags":8,"Issuer":"rOther","NFTokenID":"00B","NFTokenTaxon":3,"nft_serial":2}
			],
			"status":"success","validated":true
		}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	tokens, err := client.AccountNFTs(context.Background(), "rHolder")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "rISS", tokens[0].Issuer)
	assert.Equal(t, uint32(7), tokens[0].Taxon)
	assert.Equal(t, "00A", tokens[0].TokenID)
}

func TestAccountNFTsFollowsMarkers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		calls++
		switch calls {
		case 1:
			assert.Empty(t, call.Params[0].Marker)
			fmt.Fprint(w, `{"result":{
				"account_nfts":[{"Issuer":"rISS","NFTokenID":"00A","NFTokenTaxon":7}],
				"marker":"page-2","status":"success"
			}}`)
		case 2:
			assert.JSONEq(t, `"page-2"`, string(call.Params[0].Marker))
			fmt.Fprint(w, `{"result":{
				"account_nfts":[{"Issuer":"rISS","NFTokenID":"00B","NFTokenTaxon":7}],
				"status":"success"
			}}`)
		default:
			t.Errorf("unexpected extra rpc call %d", calls)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	tokens, err := client.AccountNFTs(context.Background(), "rHolder")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "00A", tokens[0].TokenID)
	assert.Equal(t, "00B", tokens[1].TokenID)
}

func TestAccountNFTsAccountNotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{
			"error":"actNotFound","error_message":"Account not found.","status":"error"
		}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	tokens, err := client.AccountNFTs(context.Background(), "rUnknown")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestAccountNFTsRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{
			"error":"invalidParams","error_message":"Invalid parameters.","status":"error"
		}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.AccountNFTs(context.Background(), "rHolder")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "invalidParams", rpcErr.Code)
}

func TestAccountNFTsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.AccountNFTs(context.Background(), "rHolder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAccountNFTsUnboundedPaginationAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always return a marker; the client must give up eventually.
		fmt.Fprint(w, `{"result":{"account_nfts":[],"marker":"again","status":"success"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.AccountNFTs(context.Background(), "rHolder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not terminate")
}

func TestHoldingsMatchingFiltersIssuerAndTaxon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{
			"account_nfts":[
				{"Issuer":"rISS","NFTokenID":"00A","NFTokenTaxon":7},
				{"Issuer":"rISS","NFTokenID":"00B","NFTokenTaxon":8},
				{"Issuer":"rOther","NFTokenID":"00C","NFTokenTaxon":7},
				{"Issuer":"rISS","NFTokenID":"00D","NFTokenTaxon":7}
			],
			"status":"success"
		}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	matching, err := client.HoldingsMatching(context.Background(), "rHolder", "rISS", 7)
	require.NoError(t, err)
	require.Len(t, matching, 2)
	assert.Equal(t, "00A", matching[0].TokenID)
	assert.Equal(t, "00D", matching[1].TokenID)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient("", nil)
	require.Error(t, err)
}
