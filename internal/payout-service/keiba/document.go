package keiba

import (
	"context"
	"io"
)

// Element é a capacidade mínima de consulta sobre o documento de resultados,
// independente da biblioteca de parsing.
type Element interface {
	// Find retorna os descendentes que casam com o seletor, em ordem de documento.
	Find(selector string) []Element
	// First retorna o primeiro descendente que casa com o seletor.
	First(selector string) (Element, bool)
	Text() string
	// Lines retorna o conteúdo quebrado por <br>. Um segmento vazio entre dois <br>
	// vira "" para manter o alinhamento posicional com a célula vizinha.
	Lines() []string
}

// ParseFunc converte um stream de markup no elemento raiz.
type ParseFunc func(r io.Reader) (Element, error)

// Source busca o documento de resultado de uma corrida.
type Source interface {
	Fetch(ctx context.Context, raceID string) (io.ReadCloser, error)
}
