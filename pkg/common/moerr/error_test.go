// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     uint16
		expected bool
	}{
		{name: "nil is ok", err: nil, code: Ok, expected: true},
		{name: "nil is not an error code", err: nil, code: ErrInvalidArg, expected: false},
		{name: "invalid arg", err: NewInvalidArgNoCtx("load factor", 0), code: ErrInvalidArg, expected: true},
		{name: "out of range", err: NewOutOfRangeNoCtx("index", "%d", 3), code: ErrOutOfRange, expected: true},
		{name: "invalid state", err: NewInvalidStateNoCtx("nested"), code: ErrInvalidState, expected: true},
		{name: "wrong code", err: NewInvalidStateNoCtx("nested"), code: ErrOutOfRange, expected: false},
		{name: "go error", err: errors.New("some error"), code: ErrInternal, expected: false},
		{name: "expected eof", err: GetOkExpectedEOF(), code: OkExpectedEOF, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMoErrCode(tt.err, tt.code))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewInvalidArgNoCtx("load factor", 1.5)
	require.Equal(t, "invalid argument load factor, bad value 1.5", err.Error())
	require.Equal(t, ErrInvalidArg, err.ErrorCode())
	require.False(t, err.Succeeded())

	err = NewOutOfRangeNoCtx("index", "%d not in [0, %d)", 7, 3)
	require.Equal(t, "data out of range: index, 7 not in [0, 3)", err.Error())

	require.True(t, GetOkExpectedEOF().Succeeded())
}

func TestErrorsIs(t *testing.T) {
	a := NewInvalidStateNoCtx("a")
	b := NewInvalidStateNoCtx("b")
	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, NewInvalidArgNoCtx("x", 1)))
}

func TestDetail(t *testing.T) {
	ctx := WithDetail(context.Background(), "table size 8")
	err := NewInvalidState(ctx, "broken")
	require.Equal(t, "table size 8", err.Detail())
	require.Equal(t, "invalid state broken: table size 8", err.Display())
	require.Equal(t, "invalid state broken", NewInvalidStateNoCtx("broken").Display())
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, ConvertGoError(ctx, nil))

	me := NewInvalidArgNoCtx("x", 1)
	require.Equal(t, error(me), ConvertGoError(ctx, me))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrInternal))

	require.Equal(t, me, ConvertPanicError(ctx, me))
	require.True(t, IsMoErrCode(ConvertPanicError(ctx, "boom"), ErrInternal))
	require.Equal(t, me, DowncastError(me))
	require.True(t, IsMoErrCode(DowncastError(io.EOF), ErrInternal))
}
