package validation

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/noonfolio/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestValidateClientContentType(t *testing.T) {
	for _, ct := range []string{
		"text/csv",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"text/plain",
	} {
		assert.NoError(t, ValidateClientContentType(ct), ct)
	}

	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType("image/png"))
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	t.Run("zip signature is an xlsx workbook", func(t *testing.T) {
		reader := bytes.NewReader(append([]byte{0x50, 0x4B, 0x03, 0x04}, make([]byte, 64)...))
		ct, err := ValidateFileContentByMagicBytes(reader)
		require.NoError(t, err)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ct)
	})

	t.Run("OLE signature is a legacy xls workbook", func(t *testing.T) {
		reader := bytes.NewReader(append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...))
		ct, err := ValidateFileContentByMagicBytes(reader)
		require.NoError(t, err)
		assert.Equal(t, "application/vnd.ms-excel", ct)
	})

	t.Run("plain CSV text passes", func(t *testing.T) {
		reader := bytes.NewReader([]byte("awb_nr,sku\nA1,W1\n"))
		_, err := ValidateFileContentByMagicBytes(reader)
		assert.NoError(t, err)
	})

	t.Run("read pointer is reset for the parser", func(t *testing.T) {
		reader := bytes.NewReader([]byte("awb_nr,sku\nA1,W1\n"))
		_, err := ValidateFileContentByMagicBytes(reader)
		require.NoError(t, err)
		pos, err := reader.Seek(0, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("image content is rejected", func(t *testing.T) {
		png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
		_, err := ValidateFileContentByMagicBytes(bytes.NewReader(png))
		assert.Error(t, err)
	})

	t.Run("nil file is an error", func(t *testing.T) {
		_, err := ValidateFileContentByMagicBytes(nil)
		assert.Error(t, err)
	})
}
