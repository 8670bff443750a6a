package canon

import (
	"errors"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

// Resolver maps every accepted spelling of a book to its canon entry.
// Accepted spellings are the code, the name and their lowercase forms.
type Resolver struct {
	canon  *Canon
	lookup map[string]int
}

func NewResolver(c *Canon) *Resolver {
	r := &Resolver{canon: c, lookup: make(map[string]int)}
	for _, e := range c.Entries() {
		for _, key := range []string{e.Code, e.Name, strings.ToLower(e.Code), strings.ToLower(e.Name)} {
			r.lookup[key] = e.BookNum
		}
	}
	return r
}

// Resolve tries the token as typed, then lowercased. There is no fuzzy
// matching: "Nehmiah" does not resolve to Nehemiah.
func (r *Resolver) Resolve(token string) (Entry, error) {
	if token == "" {
		return Entry{}, ErrBookNotFound
	}

	num, ok := r.lookup[token]
	if !ok {
		num, ok = r.lookup[strings.ToLower(token)]
	}
	if !ok {
		return Entry{}, ErrBookNotFound
	}

	e, _ := r.canon.Entry(num)
	return e, nil
}

func (r *Resolver) Canon() *Canon {
	return r.canon
}
