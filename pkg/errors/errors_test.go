// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"export failed", errors.ErrCodeExportFailed, "write hits.sdf"},
		{"missing column", errors.ErrCodeMissingColumn, "column Smiles not found"},
		{"invalid param", errors.CodeInvalidParam, "batch must be positive"},
		{"unsupported format", errors.ErrCodeUnsupportedFormat, "mol2"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNew_StackContainsCaller(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeLoadFailed, "test")
	require.NotNil(t, ae)
	assert.Contains(t, ae.Stack, "errors_test.go")
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeLoadFailed, "record %d of %s", 3, "a.sdf")
	assert.Equal(t, "record 3 of a.sdf", ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.ErrCodeExportFailed, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("disk full")
	wrapped := errors.Wrap(root, errors.ErrCodeExportFailed, "write failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeExportFailed, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_UnknownCodeKeepsInnerCode(t *testing.T) {
	t.Parallel()

	inner := errors.MissingColumn("Smiles")
	outer := errors.Wrap(inner, errors.CodeUnknown, "projecting table")

	assert.Equal(t, errors.ErrCodeMissingColumn, outer.Code)
}

func TestWrap_ExplicitCodeOverridesInner(t *testing.T) {
	t.Parallel()

	inner := errors.MissingColumn("Smiles")
	outer := errors.Wrap(inner, errors.ErrCodeLoadFailed, "loading")

	assert.Equal(t, errors.ErrCodeLoadFailed, outer.Code)
	assert.True(t, errors.IsCode(outer, errors.ErrCodeMissingColumn))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError
// ─────────────────────────────────────────────────────────────────────────────

func TestError_Format(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *errors.AppError
		want string
	}{
		{
			name: "message only",
			err:  errors.New(errors.ErrCodeNoSharedColumns, "no common columns"),
			want: "[CONV_006] no common columns",
		},
		{
			name: "with detail",
			err:  errors.New(errors.ErrCodeMissingColumn, "column not found").WithDetail("column=ID"),
			want: "[CONV_005] column not found: column=ID",
		},
		{
			name: "with cause",
			err:  errors.Wrap(fmt.Errorf("EOF"), errors.ErrCodeLoadFailed, "read"),
			want: "[CONV_008] read: EOF",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Builders
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := errors.New(errors.CodeInvalidParam, "bad")
	withDetail := base.WithDetail("x")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "x", withDetail.Detail)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("y")))
}

func TestWithCause_SetsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("boom")
	ae := errors.New(errors.ErrCodeExportFailed, "oops").WithCause(cause)
	assert.True(t, stderrors.Is(ae, cause))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrapping(t *testing.T) {
	t.Parallel()

	ae := errors.InvalidRelation("~=")
	wrapped := fmt.Errorf("parsing flags: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeInvalidRelation))
	assert.False(t, errors.IsCode(wrapped, errors.ErrCodeMissingColumn))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeMissingColumn))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeUnsupportedFormat, errors.GetCode(errors.UnsupportedFormat("mol2")))
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.ExitOK, errors.ExitStatus(nil))
	assert.Equal(t, errors.ExitFailure, errors.ExitStatus(stderrors.New("plain")))
	assert.Equal(t, errors.ExitUsage, errors.ExitStatus(errors.InvalidRelation("~")))
	assert.Equal(t, errors.ExitDataErr, errors.ExitStatus(errors.MissingColumn("ID")))
}

func TestInvalidSMILES_DetailQuotesInput(t *testing.T) {
	t.Parallel()

	ae := errors.InvalidSMILES("C1CC", "unclosed ring")
	assert.Equal(t, errors.ErrCodeMoleculeInvalidSMILES, ae.Code)
	assert.True(t, strings.Contains(ae.Detail, `"C1CC"`))
	assert.True(t, strings.Contains(ae.Detail, "unclosed ring"))
}

//Personal.AI order the ending
