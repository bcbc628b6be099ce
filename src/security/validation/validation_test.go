package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtension(t *testing.T) {
	assert.NoError(t, ValidateExtension("ReportHistory.xlsx"))
	assert.NoError(t, ValidateExtension("history.CSV"))
	assert.ErrorIs(t, ValidateExtension("report.xls"), ErrUnsupportedExtension)
	assert.ErrorIs(t, ValidateExtension("report"), ErrUnsupportedExtension)
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType(""))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Error(t, ValidateClientContentType("image/png"))
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	csvFile := bytes.NewReader([]byte("Position ID,Symbol\nP-1,EURUSD\n"))
	detected, err := ValidateFileContentByMagicBytes(csvFile, "history.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	// The reader is rewound for the parser.
	rest, err := io.ReadAll(csvFile)
	require.NoError(t, err)
	assert.Equal(t, "Position ID,Symbol\nP-1,EURUSD\n", string(rest))

	zipMagic := []byte("PK\x03\x04\x14\x00\x06\x00\x08\x00\x00\x00!\x00")
	_, err = ValidateFileContentByMagicBytes(bytes.NewReader(zipMagic), "report.xlsx")
	assert.NoError(t, err)

	_, err = ValidateContent([]byte("Time,Symbol\n"), "report.xlsx")
	assert.ErrorIs(t, err, ErrContentMismatch)

	utf16 := []byte{0xff, 0xfe, 'T', 0, 'i', 0, 'm', 0, 'e', 0, '\t', 0, 'S', 0, '\n', 0}
	detected, err = ValidateContent(utf16, "ReportHistory.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	_, err = ValidateContent([]byte{0x00, 0x01, 0x02, 0x03, 0xfe}, "report.csv")
	assert.ErrorIs(t, err, ErrContentMismatch)

	_, err = ValidateContent([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "report.csv")
	assert.ErrorIs(t, err, ErrContentMismatch)
}

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "'=HYPERLINK(\"x\")", SanitizeForFormulaInjection("=HYPERLINK(\"x\")"))
	assert.Equal(t, "'-1.2", SanitizeForFormulaInjection("-1.2"))
	assert.Equal(t, "EURUSD", SanitizeForFormulaInjection("EURUSD"))

	assert.Equal(t, "report.csv", CleanFilename("C:\\Users\\me\\report.csv"))
	assert.Equal(t, "report.csv", CleanFilename("../../report\x00.csv"))
	assert.Equal(t, "", CleanFilename(""))
}
