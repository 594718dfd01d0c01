package templating

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches anything shaped like a token in either grammar.
// Double-brace tokens are tried first so `{{a.b}}` is never read as `{a.b}`.
var tokenPattern = regexp.MustCompile(`\{\{[A-Za-z0-9_.]+\}\}|\{[A-Za-z0-9_.]+\}`)

// Engine substitutes tokens from an alias table in a single pass.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	aliases []Alias
	index   map[string]string // token -> variable
	tokens  []string          // longest first
}

// NewEngine builds an engine from the given alias table. A token may appear
// more than once only if every row maps it to the same variable.
func NewEngine(aliases []Alias) (*Engine, error) {
	e := &Engine{
		aliases: make([]Alias, 0, len(aliases)),
		index:   make(map[string]string, len(aliases)),
	}

	for _, a := range aliases {
		if !tokenPattern.MatchString(a.Token) || tokenPattern.FindString(a.Token) != a.Token {
			return nil, fmt.Errorf("invalid token %q", a.Token)
		}
		if a.Variable == "" {
			return nil, fmt.Errorf("token %q has no variable", a.Token)
		}
		if v, ok := e.index[a.Token]; ok {
			if v != a.Variable {
				return nil, fmt.Errorf("token %q mapped to both %q and %q", a.Token, v, a.Variable)
			}
			continue
		}
		e.index[a.Token] = a.Variable
		e.aliases = append(e.aliases, a)
		e.tokens = append(e.tokens, a.Token)
	}

	sort.SliceStable(e.tokens, func(i, j int) bool {
		return len(e.tokens[i]) > len(e.tokens[j])
	})

	return e, nil
}

// Default returns an engine over DefaultAliases.
func Default() *Engine {
	e, err := NewEngine(DefaultAliases())
	if err != nil {
		panic(err)
	}
	return e
}

// With returns a new engine with extra rows appended to the table.
func (e *Engine) With(extra []Alias) (*Engine, error) {
	all := make([]Alias, 0, len(e.aliases)+len(extra))
	all = append(all, e.aliases...)
	all = append(all, extra...)
	return NewEngine(all)
}

// Render replaces every occurrence of every known token with its value.
// Missing variables render as "". Substituted values are never rescanned,
// and tokens outside the table are left as they are.
func (e *Engine) Render(template string, vars Variables) string {
	if template == "" {
		return ""
	}

	pairs := make([]string, 0, len(e.tokens)*2)
	for _, tok := range e.tokens {
		pairs = append(pairs, tok, vars.Get(e.index[tok]))
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// Unresolved returns, in order of first appearance, the token-shaped
// fragments of template that are not in the alias table.
func (e *Engine) Unresolved(template string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range tokenPattern.FindAllString(template, -1) {
		if _, known := e.index[m]; known || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Aliases returns a copy of the table in declaration order.
func (e *Engine) Aliases() []Alias {
	out := make([]Alias, len(e.aliases))
	copy(out, e.aliases)
	return out
}

// Documented returns the rows that carry a description, optionally
// restricted to one vocabulary.
func (e *Engine) Documented(vocab Vocabulary) []Alias {
	var out []Alias
	for _, a := range e.aliases {
		if a.Description == "" {
			continue
		}
		if vocab != "" && a.Vocabulary != vocab {
			continue
		}
		out = append(out, a)
	}
	return out
}
