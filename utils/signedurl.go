package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"DropDock/config"
)

// timeNow is swapped in tests to simulate clock movement.
var timeNow = time.Now

// signDownload computes the HMAC tag over the asset id and expiry jointly.
// The tag must never cover either value alone, otherwise a valid tag for one
// expiry could be paired with a different expiry value.
func signDownload(assetID uint64, expiresAt int64) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.SignSecret))
	fmt.Fprintf(mac, "%d:%d", assetID, expiresAt)
	return hex.EncodeToString(mac.Sum(nil))
}

// MintDownloadToken derives a download token for a file asset. The expiry is
// returned separately and travels in the URL as plain epoch seconds; it is
// still covered by the tag.
func MintDownloadToken(assetID uint64, ttl time.Duration) (token string, expiresAt int64) {
	expiresAt = timeNow().Add(ttl).Unix()
	return signDownload(assetID, expiresAt), expiresAt
}

// VerifyDownloadToken checks a download token. It returns false for a
// non-numeric expiry, a past expiry, or a tag mismatch; it never reveals
// which of the three failed.
func VerifyDownloadToken(assetID uint64, token, expires string) bool {
	expiresAt, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if expiresAt < timeNow().Unix() {
		return false
	}
	expected := signDownload(assetID, expiresAt)
	return hmac.Equal([]byte(expected), []byte(token))
}

// BuildDownloadURL assembles the relative signed URL for a file asset.
func BuildDownloadURL(assetID uint64, token string, expiresAt int64) string {
	return fmt.Sprintf("/api/files/%d?token=%s&expires=%d", assetID, token, expiresAt)
}
