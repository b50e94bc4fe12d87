package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/cruce/internal/encoding"
)

const spanish = "Número;Descripción;Estado\nAnulación de pedido;Facturación pendiente;Aprobada\n"

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String(strings.Repeat(spanish, 8))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(spanish)
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte(spanish),
			want:        spanish,
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, spanish...),
			want:        spanish,
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF16LE",
			input:       []byte(utf16le),
			want:        spanish,
			wantCharset: encoding.CharsetUTF16LE,
		},
		{
			name:  "Windows1252",
			input: []byte(latin1),
			want:  strings.Repeat(spanish, 8),
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.CharsetUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestNewUTF8Reader_MultiByteAtSampleBoundary(t *testing.T) {
	// "ó" is two bytes; place it across the 4096 byte peek window.
	input := strings.Repeat("a", 4095) + "ó;Aprobada\n"

	r, charset, err := encoding.NewUTF8Reader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
