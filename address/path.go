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
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// RootName is the name of every root path
const RootName = "/"

// UndefinedUID is the uid of a path that does not point at a specific incarnation
const UndefinedUID int64 = 0

// validSymbols are the non alphanumeric characters allowed in a path element
const validSymbols = "\"-_.*$+:@&=,!~';"

// Path is the hierarchical name of an actor.
//
// A Path is either a root path (no parent, named "/") or a child path that
// references its parent. Two paths are equal when they have the same address
// and the same sequence of names: the uid takes no part in path equality.
type Path struct {
	address *Address
	parent  *Path
	name    string
	uid     int64
	depth   int
	str     string
}

// NewRootPath creates the root path of the given address
func NewRootPath(addr *Address) *Path {
	return &Path{
		address: addr,
		name:    RootName,
		str:     addr.String() + RootName,
	}
}

// Child returns a new path for the child with the given name.
// The child path has an undefined uid.
func (p *Path) Child(name string) *Path {
	child := &Path{
		address: p.address,
		parent:  p,
		name:    name,
		depth:   p.depth + 1,
	}

	if p.parent == nil {
		child.str = p.str + name
	} else {
		child.str = p.str + "/" + name
	}
	return child
}

// Descendant returns the path reached by appending every given name
func (p *Path) Descendant(names ...string) *Path {
	current := p
	for _, name := range names {
		current = current.Child(name)
	}
	return current
}

// Parent returns the parent path or nil when the path is a root
func (p *Path) Parent() *Path {
	return p.parent
}

// Root returns the root path of the hierarchy
func (p *Path) Root() *Path {
	current := p
	for current.parent != nil {
		current = current.parent
	}
	return current
}

// IsRoot returns true when the path has no parent
func (p *Path) IsRoot() bool {
	return p.parent == nil
}

// Name returns the last segment of the path
func (p *Path) Name() string {
	return p.name
}

// UID returns the incarnation id of the path
func (p *Path) UID() int64 {
	return p.uid
}

// Depth returns the number of segments below the root
func (p *Path) Depth() int {
	return p.depth
}

// Address returns the address of the path
func (p *Path) Address() *Address {
	return p.address
}

// WithUID returns a copy of the path carrying the given uid.
// A root path only accepts the undefined uid.
func (p *Path) WithUID(uid int64) (*Path, error) {
	if p.parent == nil {
		if uid != UndefinedUID {
			return nil, ErrRootUID
		}
		return p, nil
	}

	if uid == p.uid {
		return p, nil
	}

	clone := *p
	clone.uid = uid
	return &clone, nil
}

// Elements returns the name segments from the root down to this path.
// The root itself is not part of the elements.
func (p *Path) Elements() []string {
	elements := make([]string, p.depth)
	current := p
	for i := p.depth - 1; i >= 0; i-- {
		elements[i] = current.name
		current = current.parent
	}
	return elements
}

// Equals returns true when both paths have the same address and elements.
// The uid is ignored.
func (p *Path) Equals(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}

	left, right := p, other
	for {
		if left == right {
			return true
		}
		if left.parent == nil || right.parent == nil {
			return left.parent == nil && right.parent == nil && left.address.Equals(right.address)
		}
		if left.name != right.name {
			return false
		}
		left, right = left.parent, right.parent
	}
}

// Compare defines a total order over paths.
//
// Root paths compare by address and always sort after child paths. Child
// paths compare by name first, walking towards the root until a difference
// is found.
func (p *Path) Compare(other *Path) int {
	left, right := p, other
	for {
		if left == right {
			return 0
		}

		switch {
		case left.parent == nil && right.parent == nil:
			return left.address.Compare(right.address)
		case left.parent == nil:
			return 1
		case right.parent == nil:
			return -1
		}

		if c := strings.Compare(left.name, right.name); c != 0 {
			return c
		}
		left, right = left.parent, right.parent
	}
}

// String returns the path with its address, for example akka://Sys/user/a
func (p *Path) String() string {
	return p.str
}

// StringWithoutAddress returns the path without its address, for example /user/a
func (p *Path) StringWithoutAddress() string {
	return p.str[len(p.address.String()):]
}

// StringWithAddress renders the path using the given address when the path
// itself has local scope. Paths with global scope keep their own address.
func (p *Path) StringWithAddress(addr *Address) string {
	if p.address.HasGlobalScope() || addr == nil {
		return p.str
	}
	return addr.String() + p.StringWithoutAddress()
}

// StringWithUID returns the canonical representation followed by the uid fragment
func (p *Path) StringWithUID() string {
	if p.uid == UndefinedUID {
		return p.str
	}
	return p.str + "#" + strconv.FormatInt(p.uid, 10)
}

// Hash returns a hash consistent with Equals
func (p *Path) Hash() uint64 {
	return xxh3.HashString(p.str)
}

// IsValidPathElement returns true when the given string can be used as an
// actor name: it is not empty, it does not start with the reserved '$' prefix
// and every character is either alphanumeric, one of the allowed symbols or
// part of a percent-encoded byte.
func IsValidPathElement(s string) bool {
	if s == "" || s[0] == '$' {
		return false
	}
	return validElementChars(s)
}

func validElementChars(s string) bool {
	length := len(s)
	for pos := 0; pos < length; {
		c := s[pos]
		switch {
		case isValidChar(c):
			pos++
		case c == '%' && pos+2 < length && isHexChar(s[pos+1]) && isHexChar(s[pos+2]):
			pos += 3
		default:
			return false
		}
	}
	return true
}

func isValidChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		strings.IndexByte(validSymbols, c) >= 0
}

func isHexChar(c byte) bool {
	return (c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F') ||
		(c >= '0' && c <= '9')
}
