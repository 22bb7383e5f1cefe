// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package seal encrypts archive payloads with AES-256 in CBC mode.
//
// The key is the SHA-256 digest of the password. The sealed form is
//
//	IV (16 bytes) | CBC( pad length (16 bytes, big-endian) | payload | pad zero bytes )
//
// There is no integrity tag: a wrong password decrypts to garbage,
// which is caught only when the pad length or the decoded stream fails to make sense.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/elliotnunn/huffarc/internal/archerr"
)

const (
	blockSize  = aes.BlockSize
	prefixSize = 16
)

// Key derives the 32-byte AES key from a UTF-8 password.
func Key(password string) [sha256.Size]byte {
	return sha256.Sum256([]byte(password))
}

// Seal encrypts payload under password with a fresh IV read from rnd
// (crypto/rand.Reader if nil).
func Seal(payload []byte, password string, rnd io.Reader) ([]byte, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	key := Key(password)
	c, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	pad := (blockSize - len(payload)%blockSize) % blockSize
	out := make([]byte, blockSize+prefixSize+len(payload)+pad)
	iv, body := out[:blockSize], out[blockSize:]
	if _, err := io.ReadFull(rnd, iv); err != nil {
		return nil, err
	}

	binary.BigEndian.PutUint64(body[8:prefixSize], uint64(pad))
	copy(body[prefixSize:], payload)
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(body, body)
	return out, nil
}

// Open reverses Seal. Anything that cannot have come from Seal with this password
// is reported as archerr.ErrCorruptedStream, never as a distinct wrong-password error.
func Open(sealed []byte, password string) ([]byte, error) {
	if len(sealed) < blockSize+prefixSize {
		return nil, archerr.Corrupt("sealed archive of %d bytes is too short", len(sealed))
	}
	if len(sealed)%blockSize != 0 {
		return nil, archerr.Corrupt("sealed archive of %d bytes is not a whole number of blocks", len(sealed))
	}

	key := Key(password)
	c, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	iv := sealed[:blockSize]
	body := make([]byte, len(sealed)-blockSize)
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(body, sealed[blockSize:])

	hi, pad := binary.BigEndian.Uint64(body[:8]), binary.BigEndian.Uint64(body[8:prefixSize])
	payload := body[prefixSize:]
	if hi != 0 || pad >= blockSize || pad > uint64(len(payload)) {
		return nil, archerr.Corrupt("impossible pad length")
	}
	for _, c := range payload[len(payload)-int(pad):] {
		if c != 0 {
			return nil, archerr.Corrupt("nonzero padding")
		}
	}
	return payload[:len(payload)-int(pad)], nil
}
