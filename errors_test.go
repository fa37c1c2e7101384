// errors_test.go
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"testing"

	"github.com/agilira/go-errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesAreNamedConsistently(t *testing.T) {
	codes := []errors.ErrorCode{
		ErrCodeRegistryExhausted,
		ErrCodeRecordTooLarge,
		ErrCodeHandlerFailure,
		ErrCodeEncoderPoisoned,
		ErrCodeMalformedInput,
		ErrCodeMissingBase,
		ErrCodeUnresolvedFormat,
	}
	seen := map[errors.ErrorCode]bool{}
	for _, c := range codes {
		require.NotEmpty(t, string(c))
		require.False(t, seen[c], "duplicate error code %s", c)
		seen[c] = true
	}
}

func TestIsCodeMatchesErrorCode(t *testing.T) {
	err := newRecordTooLargeError(100, 50)
	require.True(t, IsCode(err, ErrCodeRecordTooLarge))
	require.False(t, IsCode(err, ErrCodeMissingBase))
}

func TestSetErrorHandlerOverridesDefault(t *testing.T) {
	var captured *errors.Error
	SetErrorHandler(func(err *errors.Error) {
		captured = err
	})
	defer SetErrorHandler(nil)

	handleInternalError(newMissingBaseError())
	require.NotNil(t, captured)
	require.True(t, errors.HasCode(captured, ErrCodeMissingBase))
}

func TestSetErrorHandlerNilRestoresDefault(t *testing.T) {
	SetErrorHandler(func(err *errors.Error) {})
	SetErrorHandler(nil)
	require.NotNil(t, GetErrorHandler())
}
