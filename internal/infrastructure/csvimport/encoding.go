package csvimport

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/reventa-inventario/internal/domain"
)

// Encoding codificación de la planilla exportada por la plataforma.
type Encoding string

const (
	EncodingAuto Encoding = "auto" // UTF-8 (con o sin BOM) si es válido; si no, Big5
	EncodingUTF8 Encoding = "utf-8"
	EncodingBig5 Encoding = "big5"
)

// ParseEncoding acepta auto, utf-8/utf8 y big5 (sin distinguir mayúsculas). Vacío = auto.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8", "utf-8-bom":
		return EncodingUTF8, nil
	case "big5", "big-5", "cp950":
		return EncodingBig5, nil
	default:
		return "", fmt.Errorf("codificación %q no soportada: %w", s, domain.ErrInvalidInput)
	}
}

// decode devuelve el contenido en UTF-8 sin BOM.
func decode(src io.Reader, enc Encoding) (io.Reader, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("leer planilla: %w", err)
	}
	if enc == EncodingAuto {
		enc = EncodingBig5
		if utf8.Valid(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))) {
			enc = EncodingUTF8
		}
	}
	var dec transform.Transformer
	switch enc {
	case EncodingBig5:
		dec = traditionalchinese.Big5.NewDecoder()
	default:
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	}
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, fmt.Errorf("decodificar planilla (%s): %w", enc, err)
	}
	return bytes.NewReader(out), nil
}
