// Copyright 2026 The resched Authors
// This file is part of resched.
//
// resched is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// resched is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with resched.  If not, see <http://www.gnu.org/licenses/>.

// Package codec implements the pack/unpack layer shared by queue and
// scheduler: a total, invertible mapping between application values and the
// byte strings the store holds. Out of scope: the encoding of the byte
// strings themselves beyond the four declared kinds (string/integer/real/
// structured) — callers needing a richer structured format supply their own
// encoder/decoder hook.
package codec

import (
	"fmt"
	"strconv"

	"github.com/gamechanger/resched/errs"
)

// Kind is the declared content kind of a Codec, mirroring the ContentType
// vocabulary of the original implementation (STRING, JSON, INT, FLOAT).
type Kind string

const (
	String     Kind = "string"
	Integer    Kind = "integer"
	Real       Kind = "real"
	Structured Kind = "structured"
)

func (k Kind) valid() bool {
	switch k {
	case String, Integer, Real, Structured:
		return true
	default:
		return false
	}
}

// Encoder renders a structured value to its canonical textual form.
type Encoder func(v any) ([]byte, error)

// Decoder is the inverse of Encoder.
type Decoder func(b []byte) (any, error)

// Codec packs application values into byte strings and unpacks them back,
// per the declared Kind. It is immutable once constructed and safe for
// concurrent use.
type Codec struct {
	kind    Kind
	encoder Encoder
	decoder Decoder
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithEncoder installs a structured-value encoder hook (the Go analogue of
// the original's content_type_args['encoder']). Only meaningful for
// Structured codecs.
func WithEncoder(enc Encoder) Option {
	return func(c *Codec) { c.encoder = enc }
}

// WithDecoder installs a structured-value decoder hook (content_type_args
// ['decode_hook'] in the original).
func WithDecoder(dec Decoder) Option {
	return func(c *Codec) { c.decoder = dec }
}

// New constructs a Codec for the given Kind. It returns an error wrapping
// errs.ErrConfig for an unrecognised kind, per the configuration-error design: this
// fails synchronously at construction, never at pack/unpack time.
func New(kind Kind, opts ...Option) (*Codec, error) {
	if !kind.valid() {
		return nil, errs.ConfigError(fmt.Sprintf("unknown content kind %q", kind))
	}
	c := &Codec{kind: kind}
	for _, opt := range opts {
		opt(c)
	}
	if c.kind == Structured {
		if c.encoder == nil {
			c.encoder = defaultJSONEncoder
		}
		if c.decoder == nil {
			c.decoder = defaultJSONDecoder
		}
	}
	return c, nil
}

// Kind reports the codec's declared content kind.
func (c *Codec) Kind() Kind { return c.kind }

// Pack renders v in the codec's canonical textual form. pack(nil) == nil.
// A value that is already a byte string ([]byte or string) passes through
// unchanged, matching the original's isinstance(value, basestring) shortcut.
func (c *Codec) Pack(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	}
	switch c.kind {
	case Integer:
		return []byte(fmt.Sprintf("%d", v)), nil
	case Real:
		return []byte(fmt.Sprintf("%v", v)), nil
	case String:
		return []byte(fmt.Sprintf("%v", v)), nil
	case Structured:
		b, err := c.encoder(v)
		if err != nil {
			return nil, errs.CodecError("encode structured value", err)
		}
		return b, nil
	default:
		return nil, errs.ConfigError(fmt.Sprintf("unknown content kind %q", c.kind))
	}
}

// Unpack is the inverse of Pack. unpack(nil) == nil.
func (c *Codec) Unpack(b []byte) (any, error) {
	if b == nil {
		return nil, nil
	}
	switch c.kind {
	case String:
		return string(b), nil
	case Integer:
		n, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return nil, errs.CodecError("parse integer", err)
		}
		return n, nil
	case Real:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return nil, errs.CodecError("parse real", err)
		}
		return f, nil
	case Structured:
		v, err := c.decoder(b)
		if err != nil {
			return nil, errs.CodecError("decode structured value", err)
		}
		return v, nil
	default:
		return nil, errs.ConfigError(fmt.Sprintf("unknown content kind %q", c.kind))
	}
}
