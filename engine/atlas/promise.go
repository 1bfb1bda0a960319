package atlas

import "context"

// AtlasPromise is a handle to an atlas being built in the background.
type AtlasPromise interface {
	Atlas() (*Atlas, error)                    // waits for the build
	Await(ctx context.Context) (*Atlas, error) // waits for the build or for ctx
}

type atlasPlusErr struct {
	atlas *Atlas
	err   error
}

type atlasLoader struct {
	ctx    context.Context
	done   chan struct{}
	result *atlasPlusErr
}

// BuildAsync starts building an atlas in the background and returns at
// once. The build itself cannot be cancelled; ctx limits how long the
// promise's Atlas method waits for it.
func BuildAsync(ctx context.Context, shapes []Shape, config Config) AtlasPromise {
	loader := atlasLoader{ctx: ctx, done: make(chan struct{}), result: &atlasPlusErr{}}
	go func() {
		defer close(loader.done)
		loader.result.atlas, loader.result.err = Build(shapes, config)
	}()
	return loader
}

func (loader atlasLoader) Atlas() (*Atlas, error) {
	return loader.Await(loader.ctx)
}

func (loader atlasLoader) Await(ctx context.Context) (*Atlas, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-loader.done:
		return loader.result.atlas, loader.result.err
	}
}
