package resolvers

import (
	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
	"github.com/sahilm/fuzzy"
)

// argFunc computes the argument list for a parsed name
type argFunc func(name models.ContractName, r *refs) []any

// ArgumentResolver maps contract kinds to constructor (direct) or initializer (proxy) arguments
type ArgumentResolver struct {
	direct map[models.ContractKind]argFunc
	proxy  map[models.ContractKind]argFunc
}

// NewArgumentResolver creates a resolver with the protocol's argument tables
func NewArgumentResolver() *ArgumentResolver {
	return &ArgumentResolver{
		direct: directArgs,
		proxy:  proxyArgs,
	}
}

// Resolve computes the arguments for name against the current address book.
// Referencing a name absent from the book is an error; an entry without a value resolves to the zero address.
func (r *ArgumentResolver) Resolve(name string, mode models.DeployMode, book *models.AddressBook) (*models.Resolution, error) {
	parsed := models.ParseContractName(name)
	table := r.direct
	if mode == models.DeployModeProxy {
		table = r.proxy
	}

	fn, ok := table[parsed.Kind]
	if !ok {
		return &models.Resolution{
			Kind:        parsed.Kind,
			Known:       false,
			Args:        []any{},
			Suggestions: r.suggest(name, table),
		}, nil
	}

	lookups := &refs{book: book, requester: name}
	args := fn(parsed, lookups)
	if lookups.err != nil {
		return nil, lookups.err
	}

	return &models.Resolution{
		Kind:         parsed.Kind,
		Known:        true,
		Args:         args,
		Placeholders: lookups.placeholders,
	}, nil
}

// suggest returns the closest known names for an unknown one
func (r *ArgumentResolver) suggest(name string, table map[models.ContractKind]argFunc) []string {
	candidates := make([]string, 0, len(table))
	for kind := range table {
		candidates = append(candidates, kind.String())
	}

	matches := fuzzy.Find(name, candidates)
	var suggestions []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// refs resolves address book references, keeping the first error
type refs struct {
	book         *models.AddressBook
	requester    string
	placeholders []string
	err          error
}

func (r *refs) addr(name string) any {
	found := r.book.Get(name)
	switch found.State {
	case models.AddressPresent:
		return found.Address
	case models.AddressEmpty:
		r.placeholders = append(r.placeholders, name)
		return models.ZeroAddress
	default:
		if r.err == nil {
			r.err = domain.MissingAddressError{Name: name, Requester: r.requester}
		}
		return nil
	}
}

func (r *refs) addrs(names ...string) []any {
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, r.addr(name))
	}
	return out
}

var _ usecase.ArgumentResolver = (*ArgumentResolver)(nil)
