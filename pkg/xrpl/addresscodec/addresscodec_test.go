package addresscodec

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCodec(t *testing.T) {
	testcases := []struct {
		address   string
		accountID string
	}{
		{address: "rrrrrrrrrrrrrrrrrrrrrhoLvTp", accountID: "0000000000000000000000000000000000000000"},
		{address: "rrrrrrrrrrrrrrrrrrrrBZbvji", accountID: "0000000000000000000000000000000000000001"},
		{address: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", accountID: "B5F762798A53D543A014CAF8B297CFF8F2F937E8"},
	}
	for _, tc := range testcases {
		t.Run(tc.address, func(t *testing.T) {
			raw, err := hex.DecodeString(tc.accountID)
			require.NoError(t, err)

			address, err := EncodeAccountID(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.address, address)

			decoded, err := DecodeAddress(tc.address)
			require.NoError(t, err)
			assert.Equal(t, tc.accountID, decoded.Hex())
		})
	}
}

func TestDecodeAddressInvalid(t *testing.T) {
	testcases := []string{
		"",
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyT0",
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTj",
		"not an address",
	}
	for _, address := range testcases {
		t.Run(address, func(t *testing.T) {
			assert.False(t, IsValidAddress(address))
		})
	}
}

func TestEncodeAccountIDLength(t *testing.T) {
	_, err := EncodeAccountID(make([]byte, 19))
	assert.Error(t, err)
}

func TestSignerListIndex(t *testing.T) {
	a, err := DecodeAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")
	require.NoError(t, err)
	b, err := DecodeAddress("rrrrrrrrrrrrrrrrrrrrBZbvji")
	require.NoError(t, err)

	index := SignerListIndex(a)
	assert.Len(t, index, 64)
	assert.Equal(t, strings.ToUpper(index), index)
	assert.Equal(t, index, SignerListIndex(a))
	assert.NotEqual(t, index, SignerListIndex(b))

	raw := append(append([]byte{0x00, 0x53}, a[:]...), 0, 0, 0, 0)
	expected := SHA512Half(raw)
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(expected[:])), index)
	assert.Equal(t, "778365D5180F5DF3016817D1F318527AD7410D83F8636CF48C43E8AF72AB49BF", index)
}
