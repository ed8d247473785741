package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("application/pdf"))
	assert.NoError(t, ValidateContentType("IMAGE/JPEG; charset=binary"))
	assert.Error(t, ValidateContentType("video/mp4"))
	assert.Error(t, ValidateContentType(""))
}

func TestValidateFileSize(t *testing.T) {
	assert.Error(t, ValidateFileSize(0, 100))
	assert.NoError(t, ValidateFileSize(100, 100))
	assert.Error(t, ValidateFileSize(101, 100))
	assert.NoError(t, ValidateFileSize(1<<40, 0))
}

func TestObjectKeyKeepsExtensionAndFolder(t *testing.T) {
	key := objectKey("customers/7", `C:\scans\passport.pdf`)

	assert.True(t, strings.HasPrefix(key, "customers/7/passport_"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.NotEqual(t, key, objectKey("customers/7", "passport.pdf"))
}
