// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "strings"

// Ident is a possibly-namespaced name, the shape shared by symbols and
// keywords alike.
type Ident struct {
	Namespace string // "" if this identifier has no namespace
	Name      string
}

// HasNamespace reports whether the identifier was written as ns/name.
func (id Ident) HasNamespace() bool {
	return id.Namespace != ""
}

func (id Ident) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

// Equal compares two identifiers structurally.
func (id Ident) Equal(other Ident) bool {
	return id.Namespace == other.Namespace && id.Name == other.Name
}

// Symbol is the identifier payload of a Symbol value.
type Symbol struct {
	Ident
}

// Keyword is the identifier payload of a Keyword value. Keywords additionally
// carry a forward/backward direction bit, encoded in the leading underscore
// of Name (see IsForward/IsBackward/Reversed).
type Keyword struct {
	Ident
}

// NewKeyword builds a namespaced keyword.
func NewKeyword(namespace, name string) Keyword {
	return Keyword{Ident{Namespace: namespace, Name: name}}
}

// PlainKeyword builds a keyword with no namespace.
func PlainKeyword(name string) Keyword {
	return Keyword{Ident{Name: name}}
}

// IsForward reports whether this keyword's name does not begin with `_`.
func (k Keyword) IsForward() bool {
	return !k.IsBackward()
}

// IsBackward reports whether this keyword's name begins with `_`, i.e. it
// denotes the reverse direction of a reference attribute.
func (k Keyword) IsBackward() bool {
	return strings.HasPrefix(k.Name, "_")
}

// Reversed flips the forward/backward bit: `:foo/_bar` becomes `:foo/bar`
// and vice versa.
func (k Keyword) Reversed() Keyword {
	if k.IsBackward() {
		return Keyword{Ident{Namespace: k.Namespace, Name: strings.TrimPrefix(k.Name, "_")}}
	}
	return Keyword{Ident{Namespace: k.Namespace, Name: "_" + k.Name}}
}

func (k Keyword) String() string {
	return ":" + k.Ident.String()
}
