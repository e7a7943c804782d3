package bundle

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Vocabulary agrupa las palabras y separadores que usa el Decomposer.
// Se inyecta explícitamente para que cada línea de productos o idioma tenga su propio set.
type Vocabulary struct {
	UnitWords       []string       `yaml:"unit_words"`       // 盒, 個, 張, 組...
	Numerals        map[string]int `yaml:"numerals"`         // 兩 -> 2
	QuantifierToken string         `yaml:"quantifier_token"` // 各 ("cada N")
	GroupSeparator  string         `yaml:"group_separator"`  // /
	PartSeparator   string         `yaml:"part_separator"`   // +
}

// DefaultVocabulary vocabulario en chino tradicional y simplificado usado por la tienda.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		UnitWords: []string{
			"盒", "個", "个", "張", "张", "組", "组", "套", "包", "入",
			"片", "枚", "瓶", "罐", "袋", "本", "支", "件",
		},
		Numerals: map[string]int{
			"一": 1, "二": 2, "兩": 2, "两": 2, "三": 3, "四": 4, "五": 5,
			"六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
			"十一": 11, "十二": 12, "十三": 13, "十四": 14, "十五": 15,
			"十六": 16, "十七": 17, "十八": 18, "十九": 19, "二十": 20,
		},
		QuantifierToken: "各",
		GroupSeparator:  "/",
		PartSeparator:   "+",
	}
}

// Validate verifica que el vocabulario permita compilar el pipeline.
func (v Vocabulary) Validate() error {
	if len(nonEmpty(v.UnitWords)) == 0 {
		return fmt.Errorf("vocabulario: unit_words vacío")
	}
	if v.GroupSeparator == "" || v.PartSeparator == "" {
		return fmt.Errorf("vocabulario: separadores requeridos")
	}
	if v.GroupSeparator == v.PartSeparator {
		return fmt.Errorf("vocabulario: group_separator y part_separator deben ser distintos")
	}
	for word, n := range v.Numerals {
		if strings.TrimSpace(word) == "" || n < 0 {
			return fmt.Errorf("vocabulario: numeral inválido %q=%d", word, n)
		}
	}
	return nil
}

// alternation arma "a|b|c" escapando cada palabra; las más largas primero para que ganen en la alternancia.
func alternation(words []string) string {
	list := nonEmpty(words)
	sort.SliceStable(list, func(i, j int) bool {
		return len(list[i]) > len(list[j])
	})
	quoted := make([]string, len(list))
	for i, w := range list {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
