package domain

import "strings"

// Token describe un token conocido por la aplicación.
type Token struct {
	Address  string
	Symbol   string
	Decimals int
}

// TokenList es la lista local de tokens conocidos contra la que se hace
// el join de las órdenes del relay.
type TokenList struct {
	tokens []Token
	byAddr map[string]Token
}

// NewTokenList construye la lista con lookup case-insensitive por dirección.
func NewTokenList(tokens []Token) *TokenList {
	byAddr := make(map[string]Token, len(tokens))
	for _, t := range tokens {
		byAddr[strings.ToLower(t.Address)] = t
	}
	return &TokenList{tokens: tokens, byAddr: byAddr}
}

// Len devuelve cuántos tokens hay en la lista.
func (l *TokenList) Len() int {
	return len(l.tokens)
}

// Lookup busca un token por dirección, case-insensitive.
func (l *TokenList) Lookup(address string) (Token, bool) {
	t, ok := l.byAddr[strings.ToLower(address)]
	return t, ok
}

// LookupOrFirst busca un token y, si la dirección no es conocida, devuelve
// el primer token de la lista como fallback degradado. El segundo valor
// indica si hubo match real.
func (l *TokenList) LookupOrFirst(address string) (Token, bool) {
	if t, ok := l.Lookup(address); ok {
		return t, true
	}
	if len(l.tokens) == 0 {
		return Token{}, false
	}
	return l.tokens[0], false
}
