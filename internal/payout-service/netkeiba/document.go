package netkeiba

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
)

// Parse implementa keiba.ParseFunc usando goquery.
func Parse(r io.Reader) (keiba.Element, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return element{doc.Selection}, nil
}

type element struct{ s *goquery.Selection }

func (e element) Find(selector string) []keiba.Element {
	found := e.s.Find(selector)
	out := make([]keiba.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{s})
	})
	return out
}

func (e element) First(selector string) (keiba.Element, bool) {
	found := e.s.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return element{found}, true
}

func (e element) Text() string { return e.s.Text() }

// o parser HTML troca NUL por U+FFFD, então o byte 0 nunca aparece no texto
const brMark = '\x00'

// Lines separa o conteúdo por <br>. Quebras de linha dentro do texto também
// separam entradas, mas só um <br> sem texto produz uma entrada vazia.
func (e element) Lines() []string {
	var b strings.Builder
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch {
			case goquery.NodeName(c) == "br":
				b.WriteByte(brMark)
			case goquery.NodeName(c) == "#text":
				b.WriteString(c.Text())
			default:
				walk(c)
			}
		})
	}
	walk(e.s)

	var out []string
	for _, seg := range strings.Split(b.String(), string(rune(brMark))) {
		n := len(out)
		for _, l := range strings.Split(seg, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		if len(out) == n {
			out = append(out, "")
		}
	}
	// <br> final não cria entrada
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
