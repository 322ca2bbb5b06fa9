package domain

import "context"

// PaperProvider retrieves a stored paper. An empty id selects the most
// recently stored paper. A (nil, nil) return means the paper is absent.
type PaperProvider interface {
	FetchPaper(ctx context.Context, id string) (*Paper, error)
}

// PaperProviderFunc adapts a function to PaperProvider.
type PaperProviderFunc func(ctx context.Context, id string) (*Paper, error)

func (f PaperProviderFunc) FetchPaper(ctx context.Context, id string) (*Paper, error) {
	return f(ctx, id)
}
