package mock

import "github.com/fwojciec/bpydocs"

var _ bpydocs.Parser = (*Parser)(nil)

// Parser is a mock implementation of bpydocs.Parser.
type Parser struct {
	ParseFn func(html string) ([]*bpydocs.DocEntry, error)
}

func (p *Parser) Parse(html string) ([]*bpydocs.DocEntry, error) {
	return p.ParseFn(html)
}
