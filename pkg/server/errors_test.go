package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerErrorMessage(t *testing.T) {
	err := NewError(ErrorTypeSpec, "bad document", "missing title")
	assert.Equal(t, "specification: bad document (missing title)", err.Error())

	err = NewError(ErrorTypeNetwork, "timed out", "")
	assert.Equal(t, "network: timed out", err.Error())
}

func TestNewHTTPErrorCarriesStatus(t *testing.T) {
	err := NewHTTPError(503, "upstream unavailable", "")
	assert.Equal(t, 503, err.StatusCode)
	assert.Equal(t, ErrorTypeExecution, err.Type)
}

func TestWrapReclassifiesContextErrors(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, ErrorTypeExecution, "call failed")
	assert.Equal(t, ErrorTypeNetwork, err.Type)

	err = Wrap(errors.New("boom"), ErrorTypeExecution, "call failed")
	assert.Equal(t, ErrorTypeExecution, err.Type)

	assert.Nil(t, Wrap(nil, ErrorTypeExecution, "ignored"))
}

func TestIsTypeAndGetType(t *testing.T) {
	var err error = NewError(ErrorTypeValidation, "bad payload", "")
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeNetwork))
	assert.Equal(t, ErrorTypeValidation, GetType(err))
	assert.Equal(t, ErrorTypeInternal, GetType(errors.New("plain")))
}
