package utils

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"DropDock/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerifyDownloadToken(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"

	token, expiresAt := MintDownloadToken(42, time.Minute)
	assert.True(t, VerifyDownloadToken(42, token, strconv.FormatInt(expiresAt, 10)))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"

	token, expiresAt := MintDownloadToken(42, time.Minute)
	expires := strconv.FormatInt(expiresAt, 10)

	tampered := "0" + token[1:]
	if tampered == token {
		tampered = "1" + token[1:]
	}
	assert.False(t, VerifyDownloadToken(42, tampered, expires))

	// A token minted for one asset must not open another.
	assert.False(t, VerifyDownloadToken(43, token, expires))
}

func TestVerifyRejectsTamperedExpiry(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"

	token, expiresAt := MintDownloadToken(42, time.Minute)

	// Pushing the expiry forward invalidates the tag.
	assert.False(t, VerifyDownloadToken(42, token, strconv.FormatInt(expiresAt+3600, 10)))
	assert.False(t, VerifyDownloadToken(42, token, "not-a-number"))
	assert.False(t, VerifyDownloadToken(42, token, ""))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"

	token, expiresAt := MintDownloadToken(42, time.Minute)
	expires := strconv.FormatInt(expiresAt, 10)

	prev := timeNow
	timeNow = func() time.Time { return time.Now().Add(2 * time.Minute) }
	defer func() { timeNow = prev }()

	assert.False(t, VerifyDownloadToken(42, token, expires))
}

func TestVerifyDependsOnSecret(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"
	token, expiresAt := MintDownloadToken(42, time.Minute)
	expires := strconv.FormatInt(expiresAt, 10)

	config.AppConfig.SignSecret = "rotated-secret"
	defer func() { config.AppConfig.SignSecret = "test-secret" }()
	assert.False(t, VerifyDownloadToken(42, token, expires))
}

func TestBuildDownloadURL(t *testing.T) {
	config.AppConfig.SignSecret = "test-secret"
	token, expiresAt := MintDownloadToken(7, time.Minute)

	url := BuildDownloadURL(7, token, expiresAt)
	require.Contains(t, url, "/api/files/7")
	assert.Contains(t, url, "token="+token)
	assert.Contains(t, url, fmt.Sprintf("expires=%d", expiresAt))
}
