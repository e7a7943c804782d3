// Package bundle descompone descripciones libres de paquetes ("bundles") en
// productos atómicos y reparte el ingreso de la línea entre ellos.
//
// Orden de reglas del Decomposer (de mayor a menor precedencia):
//
//	grupos "/" → numerales escritos → cuantificador "各N" → partes "+" →
//	herencia de sufijo → patrón <nombre><cant><unidad> → entero final → cantidad por defecto
package bundle

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// SubItem un producto extraído de la descripción con su cantidad por paquete.
type SubItem struct {
	Name     string
	Quantity int
}

// Decomposer pipeline de expresiones regulares compilado a partir de un Vocabulary.
// Es puro y total: Decompose nunca falla y siempre devuelve al menos un SubItem.
type Decomposer struct {
	vocab        Vocabulary
	numeralRe    *regexp.Regexp // <numeral>[espacios]<unidad>
	quantifierRe *regexp.Regexp // 各<N>[unidad]
	unitRe       *regexp.Regexp // <nombre><N><unidad>, repetible; el nombre no termina en dígito pegado a N
	trailingRe   *regexp.Regexp // <nombre><espacio><N>
}

const space = `[\s\x{3000}]`

// NewDecomposer compila el pipeline. Falla sólo si el vocabulario es inválido.
func NewDecomposer(vocab Vocabulary) (*Decomposer, error) {
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	units := alternation(vocab.UnitWords)
	d := &Decomposer{
		vocab:      vocab,
		unitRe:     regexp.MustCompile(`(.*?(?:[^\d\s\x{3000}]|\d` + space + `+))` + space + `*(\d+)` + space + `*(?:` + units + `)`),
		trailingRe: regexp.MustCompile(`^(.*\S)` + space + `+(\d+)$`),
	}
	if len(vocab.Numerals) > 0 {
		words := make([]string, 0, len(vocab.Numerals))
		for w := range vocab.Numerals {
			words = append(words, w)
		}
		d.numeralRe = regexp.MustCompile(`(` + alternation(words) + `)(` + space + `*)(` + units + `)`)
	}
	if tok := strings.TrimSpace(vocab.QuantifierToken); tok != "" {
		d.quantifierRe = regexp.MustCompile(regexp.QuoteMeta(tok) + space + `*(\d+)(?:` + space + `*(?:` + units + `))?`)
	}
	return d, nil
}

// NewDefaultDecomposer construye el Decomposer con DefaultVocabulary.
func NewDefaultDecomposer() *Decomposer {
	d, err := NewDecomposer(DefaultVocabulary())
	if err != nil {
		panic("bundle: vocabulario por defecto inválido: " + err.Error())
	}
	return d
}

// Vocabulary devuelve el vocabulario con el que se compiló el pipeline.
func (d *Decomposer) Vocabulary() Vocabulary {
	return d.vocab
}

// Decompose convierte una descripción libre en la secuencia ordenada de (nombre, cantidad por paquete).
// Si ninguna regla aplica devuelve la entrada recortada con cantidad 1.
func (d *Decomposer) Decompose(raw string) []SubItem {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, d.vocab.GroupSeparator) {
		var out []SubItem
		for _, group := range strings.Split(text, d.vocab.GroupSeparator) {
			out = append(out, d.Decompose(group)...)
		}
		return out
	}
	if items := d.decomposeGroup(text); len(items) > 0 {
		return items
	}
	return []SubItem{{Name: text, Quantity: 1}}
}

func (d *Decomposer) decomposeGroup(text string) []SubItem {
	text = d.normalizeNumerals(text)
	text, defaultQty := d.extractQuantifier(text)

	var parts []string
	for _, p := range strings.Split(text, d.vocab.PartSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	parts = inheritSuffix(parts)

	out := make([]SubItem, 0, len(parts))
	for _, p := range parts {
		out = append(out, d.extractPart(p, defaultQty)...)
	}
	return out
}

// normalizeNumerals reescribe "兩盒" como "2盒"; sólo aplica si el numeral precede a una unidad
// (con espacios opcionales entre ambos, para vocabularios con palabras separadas).
// Un numeral pegado a otro numeral ("十二盒" sin "十二" en el vocabulario) se deja intacto.
func (d *Decomposer) normalizeNumerals(text string) string {
	if d.numeralRe == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range d.numeralRe.FindAllStringSubmatchIndex(text, -1) {
		if d.endsWithNumeral(text[:loc[0]]) {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(strconv.Itoa(d.vocab.Numerals[text[loc[2]:loc[3]]]))
		b.WriteString(text[loc[4]:loc[1]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func (d *Decomposer) endsWithNumeral(s string) bool {
	for w := range d.vocab.Numerals {
		if w != "" && strings.HasSuffix(s, w) {
			return true
		}
	}
	return false
}

// extractQuantifier quita el token "各N" y devuelve N como cantidad por defecto (1 si no hay token).
func (d *Decomposer) extractQuantifier(text string) (string, int) {
	if d.quantifierRe == nil {
		return text, 1
	}
	loc := d.quantifierRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, 1
	}
	n, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		return text, 1
	}
	left := strings.TrimRightFunc(text[:loc[0]], unicode.IsSpace)
	right := strings.TrimLeftFunc(text[loc[1]:], unicode.IsSpace)
	if left != "" && right != "" {
		return left + " " + right, n
	}
	return left + right, n
}

// inheritSuffix: "A+B+C Sufijo" → "A Sufijo", "B Sufijo", "C Sufijo".
// Las partes que ya tienen espacio interno no se tocan.
func inheritSuffix(parts []string) []string {
	if len(parts) < 2 {
		return parts
	}
	last := parts[len(parts)-1]
	idx := strings.IndexFunc(last, unicode.IsSpace)
	if idx < 0 {
		return parts
	}
	suffix := strings.TrimSpace(last[idx:])
	if suffix == "" {
		return parts
	}
	out := make([]string, len(parts))
	copy(out, parts)
	for i := 0; i < len(out)-1; i++ {
		if !strings.ContainsFunc(out[i], unicode.IsSpace) {
			out[i] = out[i] + " " + suffix
		}
	}
	return out
}

// extractPart aplica patrón de unidad → entero final → cantidad por defecto.
func (d *Decomposer) extractPart(part string, defaultQty int) []SubItem {
	var out []SubItem
	for _, m := range d.unitRe.FindAllStringSubmatch(part, -1) {
		name := strings.TrimSpace(m[1])
		n, err := strconv.Atoi(m[2])
		if name == "" || err != nil {
			continue
		}
		out = append(out, SubItem{Name: name, Quantity: n})
	}
	if len(out) > 0 {
		return out
	}
	if m := d.trailingRe.FindStringSubmatch(part); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return []SubItem{{Name: strings.TrimSpace(m[1]), Quantity: n}}
		}
	}
	return []SubItem{{Name: part, Quantity: defaultQty}}
}
