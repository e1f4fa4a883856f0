// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignHMAC returns the hex encoded HMAC-SHA256 of data under key.
func SignHMAC(data []byte, key string) string {
	return hex.EncodeToString(hmacSum(data, key))
}

// VerifyHMAC reports whether signature is the hex HMAC-SHA256 of data under
// key. A "sha256=" prefix on signature is accepted.
func VerifyHMAC(data []byte, signature, key string) bool {
	if key == "" || signature == "" {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}

	return hmac.Equal(got, hmacSum(data, key))
}

func hmacSum(data []byte, key string) []byte {
	hasher := hmac.New(sha256.New, []byte(key))
	hasher.Write(data)
	return hasher.Sum(nil)
}
