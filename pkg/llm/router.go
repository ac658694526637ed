package llm

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ProviderResolver maps a public model id to the provider owning it and the
// model name the provider expects.
type ProviderResolver interface {
	ResolveModel(modelID string) (providerID string, upstreamID string, ok bool)
}

// ClientFactory builds the concrete client for one provider.
type ClientFactory func(providerID string) (Client, error)

// Router is a Client that dispatches each call to the provider backing the
// requested model. Provider clients are built lazily and reused; the router
// itself holds no other mutable state.
type Router struct {
	resolver ProviderResolver
	factory  ClientFactory

	mu      sync.Mutex
	clients map[string]Client
}

// NewRouter creates a routing client on top of per-provider backends.
func NewRouter(resolver ProviderResolver, factory ClientFactory) *Router {
	return &Router{
		resolver: resolver,
		factory:  factory,
		clients:  make(map[string]Client),
	}
}

// Complete dispatches a non-streaming completion.
func (r *Router) Complete(ctx context.Context, modelID string, messages []ChatMessage) (*Completion, error) {
	client, upstreamID, err := r.route(modelID)
	if err != nil {
		return nil, err
	}

	completion, err := client.Complete(ctx, upstreamID, messages)
	if completion != nil {
		// callers attribute results by the public id they asked for
		completion.ModelID = modelID
	}
	return completion, err
}

// Stream dispatches a streaming completion. Chunk attribution is rewritten to
// the public model id so downstream consumers never see provider-local names.
func (r *Router) Stream(ctx context.Context, modelID string, messages []ChatMessage) (<-chan StreamChunk, error) {
	client, upstreamID, err := r.route(modelID)
	if err != nil {
		return nil, err
	}

	upstream, err := client.Stream(ctx, upstreamID, messages)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		for chunk := range upstream {
			chunk.ModelID = modelID
			if chunk.Completion != nil {
				chunk.Completion.ModelID = modelID
			}
			out <- chunk
		}
	}()
	return out, nil
}

func (r *Router) route(modelID string) (Client, string, error) {
	providerID, upstreamID, ok := r.resolver.ResolveModel(modelID)
	if !ok {
		return nil, "", errors.Wrap(ErrUnknownModel, modelID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	client, cached := r.clients[providerID]
	if !cached {
		var err error
		client, err = r.factory(providerID)
		if err != nil {
			return nil, "", err
		}
		r.clients[providerID] = client
	}
	return client, upstreamID, nil
}
