// Package vocabulary carga el vocabulario del descomponedor de paquetes desde YAML.
package vocabulary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/reventa-inventario/internal/domain/bundle"
)

// Load lee el vocabulario desde path. Con path vacío devuelve bundle.DefaultVocabulary().
// Los campos ausentes en el archivo toman el valor por defecto.
func Load(path string) (bundle.Vocabulary, error) {
	if path == "" {
		return bundle.DefaultVocabulary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return bundle.Vocabulary{}, fmt.Errorf("abrir vocabulario: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parsea un vocabulario YAML, lo completa con los valores por defecto y lo valida.
// Claves desconocidas son error.
func Decode(r io.Reader) (bundle.Vocabulary, error) {
	var v bundle.Vocabulary
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return bundle.Vocabulary{}, fmt.Errorf("parsear vocabulario: %w", err)
	}
	v = withDefaults(v)
	if err := v.Validate(); err != nil {
		return bundle.Vocabulary{}, err
	}
	return v, nil
}

// Encode escribe el vocabulario como YAML.
func Encode(w io.Writer, v bundle.Vocabulary) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("serializar vocabulario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func withDefaults(v bundle.Vocabulary) bundle.Vocabulary {
	def := bundle.DefaultVocabulary()
	if len(v.UnitWords) == 0 {
		v.UnitWords = def.UnitWords
	}
	if v.Numerals == nil {
		v.Numerals = def.Numerals
	}
	if v.QuantifierToken == "" {
		v.QuantifierToken = def.QuantifierToken
	}
	if v.GroupSeparator == "" {
		v.GroupSeparator = def.GroupSeparator
	}
	if v.PartSeparator == "" {
		v.PartSeparator = def.PartSeparator
	}
	return v
}
