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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("With local address", func(t *testing.T) {
		addr := Local("Sys")
		assert.Equal(t, "akka://Sys", addr.String())
		assert.True(t, addr.HasLocalScope())
		assert.False(t, addr.HasGlobalScope())
		assert.Empty(t, addr.HostPort())
	})
	t.Run("With global address", func(t *testing.T) {
		addr := New("akka.tcp", "Sys", "127.0.0.1", 2552)
		assert.Equal(t, "akka.tcp://Sys@127.0.0.1:2552", addr.String())
		assert.Equal(t, "127.0.0.1:2552", addr.HostPort())
		assert.True(t, addr.HasGlobalScope())
		assert.True(t, addr.Equals(Local("Sys").WithHostPort("127.0.0.1", 2552).withProtocol("akka.tcp")))
	})
	t.Run("With compare", func(t *testing.T) {
		a := New("akka", "A", "", 0)
		b := New("akka", "B", "", 0)
		assert.Negative(t, a.Compare(b))
		assert.Positive(t, b.Compare(a))
		assert.Zero(t, a.Compare(Local("A")))
		assert.Negative(t, a.WithHostPort("h", 1).Compare(a.WithHostPort("h", 2)))
	})
	t.Run("With parse", func(t *testing.T) {
		addr, err := ParseAddress("akka://Sys@host:1234")
		require.NoError(t, err)
		assert.Equal(t, "Sys", addr.System())
		assert.Equal(t, "host", addr.Host())
		assert.Equal(t, 1234, addr.Port())

		_, err = ParseAddress("http://Sys")
		require.ErrorIs(t, err, ErrInvalidScheme)

		_, err = ParseAddress("akka://Sys@host")
		require.ErrorIs(t, err, ErrInvalidAddress)

		_, err = ParseAddress("akka://Sys@host:port")
		require.ErrorIs(t, err, ErrInvalidAddress)

		_, err = ParseAddress("Sys")
		require.ErrorIs(t, err, ErrInvalidAddress)
	})
}

func (x *Address) withProtocol(protocol string) *Address {
	return New(protocol, x.system, x.host, x.port)
}
