package worldauth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wowauth/authd/internal/srp"
)

func TestVerifyClientProofAccepts(t *testing.T) {
	var key srp.SessionKey
	for i := range key {
		key[i] = byte(i)
	}

	proof := ClientProof("ARLYON", 0xAABBCCDD, 0x11223344, key)
	assert.True(t, VerifyClientProof("ARLYON", 0xAABBCCDD, 0x11223344, key, proof))
}

func TestVerifyClientProofRejectsWrongSeed(t *testing.T) {
	var key srp.SessionKey
	proof := ClientProof("ARLYON", 1, 2, key)
	assert.False(t, VerifyClientProof("ARLYON", 1, 3, key, proof))
}

func TestVerifyClientProofRejectsWrongSessionKey(t *testing.T) {
	var key, other srp.SessionKey
	other[0] = 1

	proof := ClientProof("ARLYON", 1, 2, key)
	assert.False(t, VerifyClientProof("ARLYON", 1, 2, other, proof))
}

func TestVerifyClientProofIsCaseInsensitiveOnUsername(t *testing.T) {
	var key srp.SessionKey
	proof := ClientProof("arlyon", 1, 2, key)
	assert.True(t, VerifyClientProof("ARLYON", 1, 2, key, proof))
}

func TestEncodeDecodeChallengeRoundTrip(t *testing.T) {
	seed, err := NewRealmSeed()
	assert.NoError(t, err)

	body := EncodeChallenge(seed)
	got, err := DecodeChallenge(body)
	assert.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestDecodeChallengeRejectsWrongSize(t *testing.T) {
	_, err := DecodeChallenge([]byte{1, 2, 3})
	assert.Error(t, err)
}
