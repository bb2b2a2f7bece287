package ledger

import (
	"encoding/json"
	"fmt"
)

// NFToken is one entry from an account_nfts response.
type NFToken struct {
	Flags     uint32 `json:"Flags"`
	Issuer    string `json:"Issuer"`
	TokenID   string `json:"NFTokenID"`
	Taxon     uint32 `json:"NFTokenTaxon"`
	URI       string `json:"URI,omitempty"`
	NFTSerial uint64 `json:"nft_serial"`
}

// RPCError is an XRPL JSON-RPC application error ("status":"error" in the
// result envelope).
type RPCError struct {
	Code    string `json:"error"`
	Message string `json:"error_message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("ledger rpc error %s: %s", e.Code, e.Message)
}

// codeAccountNotFound means the queried account does not exist on ledger.
// For holdings purposes that is a verified empty answer, not a failure.
const codeAccountNotFound = "actNotFound"

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type accountNFTsParams struct {
	Account string          `json:"account"`
	Limit   int             `json:"limit,omitempty"`
	Marker  json.RawMessage `json:"marker,omitempty"`
}

type rpcEnvelope struct {
	Result accountNFTsResult `json:"result"`
}

type accountNFTsResult struct {
	Account     string          `json:"account"`
	AccountNFTs []NFToken       `json:"account_nfts"`
	Marker      json.RawMessage `json:"marker,omitempty"`
	Status      string          `json:"status"`
	Validated   bool            `json:"validated"`

	ErrorCode    string `json:"error"`
	ErrorMessage string `json:"error_message"`
}
