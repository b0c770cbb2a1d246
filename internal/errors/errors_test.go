package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrOpenFailed)
	suite.NotNil(err)
	suite.Equal(ErrOpenFailed, err.Code)
	suite.Equal("device open failed", err.Message)
	suite.Empty(err.Details)

	err = New(ErrReadFailed, "short read", "device: /dev/ttyS0")
	suite.Equal("short read; device: /dev/ttyS0", err.Details)

	err = New(ErrorCode(42))
	suite.Equal("unknown error", err.Message)
}

func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrWriteFailed, "wrote %d of %d bytes", 3, 5)
	suite.Equal(ErrWriteFailed, err.Code)
	suite.Equal("wrote 3 of 5 bytes", err.Details)
}

func (suite *ErrorsTestSuite) TestWrap() {
	original := errors.New("permission denied")
	wrapped := Wrap(original, ErrOpenFailed)
	suite.Equal(ErrOpenFailed, wrapped.Code)
	suite.Equal("permission denied", wrapped.Details)
	suite.Equal(original, wrapped.Cause)
	suite.True(errors.Is(wrapped, original))

	suite.Nil(Wrap(nil, ErrOpenFailed))

	// an existing AppError keeps its code
	appErr := New(ErrReadFailed, "timeout")
	rewrapped := Wrap(appErr, ErrCloseFailed, "closing")
	suite.Equal(ErrReadFailed, rewrapped.Code)
	suite.Equal("closing; timeout", rewrapped.Details)
}

func (suite *ErrorsTestSuite) TestWrapf() {
	original := errors.New("no such file or directory")
	wrapped := Wrapf(original, ErrOpenFailed, "open %s", "/dev/ttyO2")
	suite.Equal("open /dev/ttyO2", wrapped.Details)
	suite.Equal(original, wrapped.Unwrap())
}

func (suite *ErrorsTestSuite) TestWithCause() {
	cause := errors.New("input/output error")
	err := New(ErrCloseFailed).WithCause(cause)
	suite.Equal("input/output error", err.Details)

	err = New(ErrCloseFailed, "close /dev/ttyS1").WithCause(cause)
	suite.Equal("close /dev/ttyS1", err.Details)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrDataMismatch)
	suite.True(Is(err, ErrDataMismatch))
	suite.False(Is(err, ErrReadFailed))
	suite.False(Is(nil, ErrDataMismatch))
	suite.False(Is(errors.New("plain"), ErrArgument))

	// found through fmt wrapping
	suite.True(Is(fmt.Errorf("run: %w", err), ErrDataMismatch))
}

func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{Code: ErrReadFailed, Message: "device read failed"}
	suite.Equal("[-3] device read failed", err.Error())

	err.Details = "bytes read: 2"
	suite.Equal("[-3] device read failed: bytes read: 2", err.Error())
}

func (suite *ErrorsTestSuite) TestExitCode() {
	suite.Equal(0, ExitCode(nil))
	suite.Equal(1, ExitCode(New(ErrArgument)))
	suite.Equal(-1, ExitCode(New(ErrOpenFailed)))
	suite.Equal(-2, ExitCode(New(ErrCloseFailed)))
	suite.Equal(-3, ExitCode(New(ErrReadFailed)))
	suite.Equal(-4, ExitCode(New(ErrWriteFailed)))
	suite.Equal(-5, ExitCode(New(ErrDataMismatch)))
	suite.Equal(1, ExitCode(errors.New("plain")))
	suite.Equal(-4, New(ErrWriteFailed).ExitCode())
}

func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrorCode(0), GetCode(nil))
	suite.Equal(ErrOpenFailed, GetCode(New(ErrOpenFailed)))
	suite.Equal(ErrArgument, GetCode(errors.New("plain")))
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
