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

// Package address provides the immutable naming primitives of an actor system.
//
// An Address locates an actor system:
//
//	<protocol>://<system>[@<host>:<port>]
//
// A Path names a single actor inside a system. It is made of an Address, an
// ordered list of name segments and an incarnation id (uid) that tells apart
// successive actors created under the same name:
//
//	akka://<system>@<host>:<port>/user/parent/child#<uid>
//
// Every value in this package is immutable and safe for concurrent use.
package address

import (
	"strconv"
	"strings"
)

// DefaultProtocol is the protocol of local actor systems
const DefaultProtocol = "akka"

// Address identifies an actor system.
// An Address without a host is local to the running process.
type Address struct {
	protocol string
	system   string
	host     string
	port     int
	str      string
}

// New creates an Address. An empty host means the address has local scope.
func New(protocol, system, host string, port int) *Address {
	addr := &Address{
		protocol: protocol,
		system:   system,
		host:     host,
		port:     port,
	}
	addr.str = addr.render()
	return addr
}

// Local creates a local Address for the given actor system name
func Local(system string) *Address {
	return New(DefaultProtocol, system, "", 0)
}

// Protocol returns the address protocol
func (x *Address) Protocol() string {
	return x.protocol
}

// System returns the actor system name
func (x *Address) System() string {
	return x.system
}

// Host returns the host. It is empty for local addresses.
func (x *Address) Host() string {
	return x.host
}

// Port returns the port. It is zero for local addresses.
func (x *Address) Port() int {
	return x.port
}

// HostPort returns the host:port part of the address
func (x *Address) HostPort() string {
	if x.host == "" {
		return ""
	}
	return x.host + ":" + strconv.Itoa(x.port)
}

// HasLocalScope returns true when the address has no host information
func (x *Address) HasLocalScope() bool {
	return x.host == ""
}

// HasGlobalScope returns true when the address can be reached from another process
func (x *Address) HasGlobalScope() bool {
	return x.host != ""
}

// WithHostPort returns a copy of the address bound to the given host and port
func (x *Address) WithHostPort(host string, port int) *Address {
	return New(x.protocol, x.system, host, port)
}

// Equals is used to compare two addresses
func (x *Address) Equals(other *Address) bool {
	if x == nil || other == nil {
		return x == other
	}
	return x.protocol == other.protocol &&
		x.system == other.system &&
		x.host == other.host &&
		x.port == other.port
}

// Compare orders addresses by protocol, system, host then port.
// It returns a negative number, zero or a positive number.
func (x *Address) Compare(other *Address) int {
	if c := strings.Compare(x.protocol, other.protocol); c != 0 {
		return c
	}
	if c := strings.Compare(x.system, other.system); c != 0 {
		return c
	}
	if c := strings.Compare(x.host, other.host); c != 0 {
		return c
	}
	switch {
	case x.port < other.port:
		return -1
	case x.port > other.port:
		return 1
	default:
		return 0
	}
}

// String returns the canonical representation of the address
func (x *Address) String() string {
	return x.str
}

func (x *Address) render() string {
	var sb strings.Builder
	sb.WriteString(x.protocol)
	sb.WriteString("://")
	sb.WriteString(x.system)
	if x.host != "" {
		sb.WriteByte('@')
		sb.WriteString(x.host)
		if x.port > 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(x.port))
		}
	}
	return sb.String()
}
