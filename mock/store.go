package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of prodex.ResultStore.
type ResultStore struct {
	SaveFn   func(ctx context.Context, result *prodex.PageResult) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ResultStore) Save(ctx context.Context, result *prodex.PageResult) error {
	return s.SaveFn(ctx, result)
}

func (s *ResultStore) Commit() error {
	return s.CommitFn()
}

func (s *ResultStore) Abort() error {
	return s.AbortFn()
}
