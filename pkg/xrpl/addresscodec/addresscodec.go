// Package addresscodec converts between raw 20-byte account IDs and classic
// XRPL/Xahau addresses, and derives ledger object keys.
//
// Classic addresses use the same base58check construction as Bitcoin
// (version byte, double SHA-256 checksum) with a different alphabet, so the
// encoding is delegated to btcutil/base58 and translated character-wise.
package addresscodec

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
)

const (
	xrplAlphabet    = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"
	bitcoinAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	accountIDVersion = 0x00

	// AccountIDLength is the size of a raw account ID.
	AccountIDLength = 20
)

var toXRPL, toBitcoin [256]byte

func init() {
	for i := 0; i < len(xrplAlphabet); i++ {
		toXRPL[bitcoinAlphabet[i]] = xrplAlphabet[i]
		toBitcoin[xrplAlphabet[i]] = bitcoinAlphabet[i]
	}
}

// AccountID is the raw 160-bit identifier behind a classic address.
type AccountID [AccountIDLength]byte

// String returns the classic address.
func (a AccountID) String() string {
	return translate(base58.CheckEncode(a[:], accountIDVersion), &toXRPL)
}

// Hex returns the uppercase hex form used in ledger keys.
func (a AccountID) Hex() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// EncodeAccountID returns the classic address of a raw account ID.
func EncodeAccountID(id []byte) (string, error) {
	if len(id) != AccountIDLength {
		return "", errors.Wrapf(errs.InvalidArgument, "account id must be %d bytes, got %d", AccountIDLength, len(id))
	}
	var a AccountID
	copy(a[:], id)
	return a.String(), nil
}

// DecodeAddress parses a classic address into its account ID.
func DecodeAddress(address string) (AccountID, error) {
	var a AccountID
	for i := 0; i < len(address); i++ {
		if toBitcoin[address[i]] == 0 {
			return a, errors.Wrapf(errs.InvalidArgument, "invalid character %q in address %q", address[i], address)
		}
	}
	payload, version, err := base58.CheckDecode(translate(address, &toBitcoin))
	if err != nil {
		return a, errors.Wrapf(errs.InvalidArgument, "invalid address %q: %v", address, err)
	}
	if version != accountIDVersion || len(payload) != AccountIDLength {
		return a, errors.Wrapf(errs.InvalidArgument, "address %q is not an account address", address)
	}
	copy(a[:], payload)
	return a, nil
}

// IsValidAddress reports whether address is a well formed classic address.
func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// SHA512Half hashes the concatenated parts and keeps the first 32 bytes.
func SHA512Half(parts ...[]byte) [32]byte {
	h := sha512.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// signerListSpace is the ledger key namespace of SignerList objects ('S').
var signerListSpace = []byte{0x00, 'S'}

// SignerListIndex derives the ledger index of the account's signer list
// (list ID zero) as uppercase hex.
func SignerListIndex(account AccountID) string {
	key := SHA512Half(signerListSpace, account[:], []byte{0, 0, 0, 0})
	return strings.ToUpper(hex.EncodeToString(key[:]))
}

func translate(s string, table *[256]byte) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = table[s[i]]
	}
	return string(b)
}
