package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/dochazka/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Datum;Zaměstnanec;Typ;Hodiny\n2024-04-02;Jan Novák;Běžná práce;7,5\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1250(t *testing.T) {
	// Only characters that share a code point in Windows-1250 and ISO-8859-2,
	// so either detection outcome decodes the same text.
	want := "Datum;Zaměstnanec;Typ\n2024-04-02;Jan Novák;Lékař\n"

	encoded, err := charmap.Windows1250.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	assert.Equal(t, want, readAll(t, encoded))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Datum;Hodiny\n")...)
	assert.Equal(t, "Datum;Hodiny\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	want := "Datum;Zaměstnanec\n"

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	assert.Equal(t, want, readAll(t, encoded))
}
