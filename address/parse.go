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
	"fmt"
	"strconv"
	"strings"
)

// ParseAddress parses the textual form of an Address:
//
//	protocol://system[@host:port]
func ParseAddress(s string) (*Address, error) {
	protocol, rest, ok := strings.Cut(s, "://")
	if !ok || protocol == "" {
		return nil, fmt.Errorf("(address=%s) %w", s, ErrInvalidAddress)
	}

	if !strings.HasPrefix(protocol, DefaultProtocol) {
		return nil, fmt.Errorf("(address=%s) %w", s, ErrInvalidScheme)
	}

	system, hostPort, hasHost := strings.Cut(rest, "@")
	if system == "" {
		return nil, fmt.Errorf("(address=%s) %w", s, ErrInvalidAddress)
	}

	if !hasHost {
		return New(protocol, system, "", 0), nil
	}

	host, portStr, hasPort := strings.Cut(hostPort, ":")
	if host == "" || !hasPort {
		return nil, fmt.Errorf("(address=%s) %w", s, ErrInvalidAddress)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("(address=%s) %w", s, ErrInvalidAddress)
	}

	return New(protocol, system, host, port), nil
}

// Parse parses the textual form of a Path:
//
//	protocol://system[@host:port]/segment/segment[#uid]
//
// The protocol must start with "akka". The optional uid fragment is carried
// by the returned path.
func Parse(s string) (*Path, error) {
	withoutUID, fragment, hasUID := strings.Cut(s, "#")

	_, rest, ok := strings.Cut(withoutUID, "://")
	if !ok {
		return nil, fmt.Errorf("(path=%s) %w", s, ErrInvalidPath)
	}

	slash := strings.IndexByte(rest, '/')
	var authorityEnd int
	if slash < 0 {
		authorityEnd = len(withoutUID)
	} else {
		authorityEnd = len(withoutUID) - len(rest) + slash
	}

	addr, err := ParseAddress(withoutUID[:authorityEnd])
	if err != nil {
		return nil, err
	}

	path := NewRootPath(addr)
	for _, element := range strings.Split(withoutUID[authorityEnd:], "/") {
		if element == "" {
			continue
		}
		if !validElementChars(element) {
			return nil, fmt.Errorf("(path=%s, element=%s) %w", s, element, ErrInvalidPath)
		}
		path = path.Child(element)
	}

	if !hasUID {
		return path, nil
	}

	uid, err := strconv.ParseInt(fragment, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("(path=%s) %w", s, ErrInvalidPath)
	}
	return path.WithUID(uid)
}
