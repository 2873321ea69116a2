package nfts

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/pkg/xrpl/addresscodec"
)

// TokenIDLength is the size of a packed NFTokenID.
const TokenIDLength = 32

// TokenID is the unpacked form of an NFTokenID:
// Flags(2) TransferFee(2) Issuer(20) scrambled Taxon(4) Sequence(4).
type TokenID struct {
	Flags       uint16
	TransferFee uint16
	Issuer      string
	Taxon       uint32
	Sequence    uint32
}

// ParseTokenID unpacks a hex NFTokenID and unscrambles its taxon.
func ParseTokenID(id string) (TokenID, error) {
	raw, err := hex.DecodeString(id)
	if err != nil {
		return TokenID{}, errors.Wrapf(errs.InvalidArgument, "invalid NFTokenID %q: %v", id, err)
	}
	if len(raw) != TokenIDLength {
		return TokenID{}, errors.Wrapf(errs.InvalidArgument, "invalid NFTokenID %q: expected %d bytes, got %d", id, TokenIDLength, len(raw))
	}
	issuer, err := addresscodec.EncodeAccountID(raw[4:24])
	if err != nil {
		return TokenID{}, errors.WithStack(err)
	}
	sequence := binary.BigEndian.Uint32(raw[28:32])
	return TokenID{
		Flags:       binary.BigEndian.Uint16(raw[0:2]),
		TransferFee: binary.BigEndian.Uint16(raw[2:4]),
		Issuer:      issuer,
		Taxon:       UnscrambleTaxon(binary.BigEndian.Uint32(raw[24:28]), sequence),
		Sequence:    sequence,
	}, nil
}

// UnscrambleTaxon reverses the taxon scrambling applied at mint time.
// The arithmetic is modulo 2^32.
func UnscrambleTaxon(taxon, sequence uint32) uint32 {
	return taxon ^ (384160001*sequence + 2459)
}

// OwnerFromPageIndex returns the account encoded in the first 20 bytes of an NFTokenPage index.
func OwnerFromPageIndex(index string) (string, error) {
	if len(index) < addresscodec.AccountIDLength*2 {
		return "", errors.Wrapf(errs.InvalidArgument, "invalid NFTokenPage index %q", index)
	}
	raw, err := hex.DecodeString(index[:addresscodec.AccountIDLength*2])
	if err != nil {
		return "", errors.Wrapf(errs.InvalidArgument, "invalid NFTokenPage index %q: %v", index, err)
	}
	return addresscodec.EncodeAccountID(raw)
}
