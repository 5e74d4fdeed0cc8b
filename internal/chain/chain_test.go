// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("With fail fast", func(t *testing.T) {
		var ran []string
		err := New(WithFailFast()).
			Add("first", func(context.Context) error { ran = append(ran, "first"); return nil }).
			Add("second", func(context.Context) error { ran = append(ran, "second"); return boom }).
			Add("third", func(context.Context) error { ran = append(ran, "third"); return nil }).
			Run(ctx)
		require.ErrorIs(t, err, boom)
		assert.EqualError(t, err, "second: boom")
		assert.Equal(t, []string{"first", "second"}, ran)
	})
	t.Run("With run all", func(t *testing.T) {
		other := errors.New("other")
		err := New().
			Add("first", func(context.Context) error { return boom }).
			Add("second", func(context.Context) error { return other }).
			Run(ctx)
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, other)
	})
	t.Run("With conditional step", func(t *testing.T) {
		called := false
		err := New().
			AddIf(false, "skipped", func(context.Context) error { called = true; return boom }).
			Run(ctx)
		require.NoError(t, err)
		assert.False(t, called)
	})
	t.Run("With context", func(t *testing.T) {
		type key struct{}
		value := context.WithValue(ctx, key{}, "v")
		err := New().Add("ctx", func(ctx context.Context) error {
			assert.Equal(t, "v", ctx.Value(key{}))
			return nil
		}).Run(value)
		require.NoError(t, err)
	})
}
