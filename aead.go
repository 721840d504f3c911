// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/rosettascript/ruc/internal/gf128"
	"github.com/rosettascript/ruc/internal/shake"
)

// aeadMaterial derives the AEAD sub-keys on first use: a full key expansion
// of SHAKE256(K || "RUC-GCM-ENC", 64) for encryption and the GF(2^128)
// point H from SHAKE256(K || "RUC-GCM-AUTH", 32) for the tag. The sub-key
// expansion inherits the parent's S-box thresholds.
func (km *KeyMaterial) aeadMaterial() (*KeyMaterial, gf128.Element, error) {
	km.aeadOnce.Do(func() {
		encKey := shake.Sum(KeySize, km.key[:], []byte(shake.TagGCMEncKey))
		km.aeadEnc, km.aeadErr = ExpandKeyWithOptions(encKey, km.opts)
		authKey := shake.Sum(32, km.key[:], []byte(shake.TagGCMAuthKey))
		km.aeadH = gf128.FromBytes(authKey[:16])
	})
	return km.aeadEnc, km.aeadH, km.aeadErr
}

// Seal encrypts and authenticates plaintext under a 16-byte nonce, binding
// additionalData into the tag. The payload is PKCS#7 padded and encrypted
// in counter mode under the derived encryption sub-key, with payload blocks
// numbered from 1; the block-0 keystream masks the tag, the way GCM
// reserves its zero counter. The envelope is nonce || ciphertext || tag.
// The nonce must be unique per key.
func (km *KeyMaterial) Seal(nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonceLength, len(nonce), NonceSize)
	}
	enc, h, err := km.aeadMaterial()
	if err != nil {
		return nil, err
	}
	initial, err := enc.MixIV(shake.Sum(IVSize, nonce, []byte(shake.TagGCMIV)))
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize+len(plaintext)+padLen(len(plaintext))+TagSize)
	copy(out, nonce)
	ct := out[NonceSize : len(out)-TagSize]
	copy(ct, pad(plaintext))
	enc.ctrXOR(initial, ct, 1)

	mask := enc.ctrKeystream(initial, 0)
	tag := authTag(h, additionalData, ct, mask)
	copy(out[len(out)-TagSize:], tag[:])
	return out, nil
}

// Open verifies and decrypts an envelope produced by Seal. The tag is
// recomputed and compared in constant time before any decryption happens;
// on mismatch ErrAuthenticationFailed is returned and no plaintext bytes
// are released.
func (km *KeyMaterial) Open(envelope, additionalData []byte) ([]byte, error) {
	if len(envelope) < NonceSize+BlockSize+TagSize ||
		(len(envelope)-NonceSize-TagSize)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: AEAD envelope of %d bytes", ErrInvalidCiphertextLength, len(envelope))
	}
	nonce := envelope[:NonceSize]
	ct := envelope[NonceSize : len(envelope)-TagSize]
	tag := envelope[len(envelope)-TagSize:]

	enc, h, err := km.aeadMaterial()
	if err != nil {
		return nil, err
	}
	initial, err := enc.MixIV(shake.Sum(IVSize, nonce, []byte(shake.TagGCMIV)))
	if err != nil {
		return nil, err
	}

	mask := enc.ctrKeystream(initial, 0)
	want := authTag(h, additionalData, ct, mask)
	if subtle.ConstantTimeCompare(want[:], tag) != 1 {
		return nil, ErrAuthenticationFailed
	}

	padded := make([]byte, len(ct))
	copy(padded, ct)
	enc.ctrXOR(initial, padded, 1)
	return unpad(padded)
}

// authTag computes the polynomial tag over pad16(aad) || pad16(ct) ||
// u64be(|aad| in bits) || u64be(|ct| in bits) with the GF(2^128) point h,
// then XORs in the first 16 bytes of the block-0 keystream.
func authTag(h gf128.Element, aad, ct []byte, mask [BlockSize]byte) [TagSize]byte {
	var y gf128.Element
	absorb := func(data []byte) {
		for len(data) > 0 {
			var blk [16]byte
			n := copy(blk[:], data)
			data = data[n:]
			y = gf128.Mul(y.Xor(gf128.FromBytes(blk[:])), h)
		}
	}
	absorb(aad)
	absorb(ct)

	var lengths [16]byte
	binary.BigEndian.PutUint64(lengths[:8], uint64(len(aad))*8)
	binary.BigEndian.PutUint64(lengths[8:], uint64(len(ct))*8)
	y = gf128.Mul(y.Xor(gf128.FromBytes(lengths[:])), h)

	tag := y.Bytes()
	for i := range tag {
		tag[i] ^= mask[i]
	}
	return tag
}
