// Package ledger queries XRPL NFT holdings over the JSON-RPC API. The
// client is read-only and idempotent: one logical lookup issues one or more
// account_nfts calls (following pagination markers) and never mutates
// ledger state.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// pageLimit is the per-request cap on returned tokens. rippled clamps
// account_nfts to 400 for non-admin connections.
const pageLimit = 400

// maxPages bounds marker-following so a misbehaving endpoint cannot spin a
// lookup forever.
const maxPages = 25

// Client issues account_nfts queries against one XRPL JSON-RPC endpoint.
// Connections are pooled by the shared http.Client rather than dialed per
// lookup.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a ledger client for the given JSON-RPC endpoint. If
// httpClient is nil, http.DefaultClient is used.
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("ledger: RPC endpoint is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}, nil
}

// AccountNFTs returns every NFT held by the account, following pagination
// markers. A non-existent account yields an empty slice: not holding a
// wallet is indistinguishable from holding an empty one for gating
// purposes.
func (c *Client) AccountNFTs(ctx context.Context, account string) ([]NFToken, error) {
	var (
		tokens []NFToken
		marker json.RawMessage
	)

	for page := 0; page < maxPages; page++ {
		result, err := c.accountNFTsPage(ctx, account, marker)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, result.AccountNFTs...)

		if len(result.Marker) == 0 {
			return tokens, nil
		}
		marker = result.Marker
	}
	return nil, fmt.Errorf("ledger: account_nfts for %q did not terminate after %d pages", account, maxPages)
}

// HoldingsMatching returns the account's tokens whose issuer and taxon
// exactly match the given policy values.
func (c *Client) HoldingsMatching(ctx context.Context, account, issuer string, taxon uint32) ([]NFToken, error) {
	all, err := c.AccountNFTs(ctx, account)
	if err != nil {
		return nil, err
	}

	matching := make([]NFToken, 0, len(all))
	for _, token := range all {
		if token.Issuer == issuer && token.Taxon == taxon {
			matching = append(matching, token)
		}
	}
	return matching, nil
}

func (c *Client) accountNFTsPage(ctx context.Context, account string, marker json.RawMessage) (*accountNFTsResult, error) {
	request := rpcRequest{
		Method: "account_nfts",
		Params: []any{accountNFTsParams{
			Account: account,
			Limit:   pageLimit,
			Marker:  marker,
		}},
	}

	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode account_nfts request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("ledger: create request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("ledger: account_nfts request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("ledger: read account_nfts response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger: unexpected %d response from %s: %s",
			response.StatusCode, c.endpoint, string(body))
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("ledger: parse account_nfts response: %w", err)
	}

	result := envelope.Result
	if result.Status == "error" {
		if result.ErrorCode == codeAccountNotFound {
			return &accountNFTsResult{Account: account}, nil
		}
		return nil, &RPCError{Code: result.ErrorCode, Message: result.ErrorMessage}
	}
	return &result, nil
}

const maxResponseBytes = 8 << 20
