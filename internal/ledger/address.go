package ledger

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrBadWalletAddress reports a Matrix user ID whose localpart is not an
// XRPL classic address. Membership gating maps chat identity to wallet by
// convention: the localpart of "@rXXXX...:domain" is the wallet address.
type ErrBadWalletAddress struct {
	UserID string
	Reason string
}

func (e *ErrBadWalletAddress) Error() string {
	return fmt.Sprintf("user %q has no derivable wallet address: %s", e.UserID, e.Reason)
}

// classicAddressPattern matches XRPL classic addresses: base58 with the
// ripple alphabet (no 0, O, I, l), leading 'r', 25-35 characters total.
var classicAddressPattern = regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,34}$`)

// WalletFromUserID derives the XRPL wallet address from a Matrix user ID of
// the form "@localpart:domain". The localpart must itself be a classic
// address; anything else is a defined error so callers can distinguish
// "cannot hold tokens" from a ledger failure.
func WalletFromUserID(userID string) (string, error) {
	if !strings.HasPrefix(userID, "@") {
		return "", &ErrBadWalletAddress{UserID: userID, Reason: "missing leading @"}
	}
	localpart, _, found := strings.Cut(userID[1:], ":")
	if !found {
		return "", &ErrBadWalletAddress{UserID: userID, Reason: "missing :domain suffix"}
	}
	if !classicAddressPattern.MatchString(localpart) {
		return "", &ErrBadWalletAddress{UserID: userID, Reason: "localpart is not an XRPL classic address"}
	}
	return localpart, nil
}
