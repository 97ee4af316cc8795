// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindsAreDistinct(t *testing.T) {
	err := ErrSchemaError.New("bad column")
	require.True(t, ErrSchemaError.Is(err))
	require.False(t, ErrTypeError.Is(err))
}

func TestErrorKindMessageIncludesArgs(t *testing.T) {
	err := ErrResolutionError.New("unknown column \"x\"")
	require.Contains(t, err.Error(), "unknown column")
	require.Contains(t, err.Error(), "resolution error")
}

func TestErrorKindIsMatchesConstructedError(t *testing.T) {
	err := ErrConstraintError.New("duplicate key")
	require.True(t, ErrConstraintError.Is(err))
}
