// internal/driver/locate_test.go
package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

// mockBackend records queries. Pointer operations are not expected here.
type mockBackend struct {
	pointer.Page
	mock.Mock
}

func (m *mockBackend) QueryCSS(ctx context.Context, selector string) ([]pointer.Element, error) {
	args := m.Called(ctx, selector)
	found, _ := args.Get(0).([]pointer.Element)
	return found, args.Error(1)
}

func (m *mockBackend) QueryXPath(ctx context.Context, expr string) ([]pointer.Element, error) {
	args := m.Called(ctx, expr)
	found, _ := args.Get(0).([]pointer.Element)
	return found, args.Error(1)
}

type handle struct{ name string }

func TestLocateNormalizesStrategies(t *testing.T) {
	ctx := context.Background()
	el := &handle{"target"}

	tests := []struct {
		using, value string
		method       string
		query        string
	}{
		{ByCSSSelector, "form > input", "QueryCSS", "form > input"},
		{ByXPath, "//input[@type='text']", "QueryXPath", "//input[@type='text']"},
		{ByID, `say "hi"`, "QueryCSS", `[id="say \"hi\""]`},
		{ByName, `back\slash`, "QueryCSS", `[name="back\\slash"]`},
		{ByClassName, "primary", "QueryCSS", `[class~="primary"]`},
		{ByTagName, "textarea", "QueryCSS", "textarea"},
	}
	for _, tt := range tests {
		t.Run(tt.using, func(t *testing.T) {
			backend := new(mockBackend)
			backend.On(tt.method, mock.Anything, tt.query).Return([]pointer.Element{el}, nil).Once()
			d := New(backend, zaptest.NewLogger(t))

			found, err := d.locate(ctx, tt.using, tt.value)
			require.NoError(t, err)
			assert.Equal(t, []pointer.Element{el}, found)
			backend.AssertExpectations(t)
		})
	}
}

func TestLocateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("backend rejection is an invalid selector", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("QueryCSS", mock.Anything, "div[").Return(nil, errors.New("expected ]")).Once()
		d := New(backend, zaptest.NewLogger(t))

		_, err := d.locate(ctx, ByCSSSelector, "div[")
		assert.ErrorIs(t, err, ErrInvalidSelector)
		assert.Equal(t, StatusInvalidSelector, statusOf(err))
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("QueryXPath", mock.Anything, "//a").Return(nil, context.Canceled).Once()
		d := New(backend, zaptest.NewLogger(t))

		_, err := d.locate(ctx, ByXPath, "//a")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrInvalidSelector)
	})

	t.Run("empty tag name never reaches the backend", func(t *testing.T) {
		backend := new(mockBackend)
		d := New(backend, zaptest.NewLogger(t))

		_, err := d.locate(ctx, ByTagName, "")
		assert.ErrorIs(t, err, ErrInvalidSelector)
		backend.AssertNotCalled(t, "QueryCSS", mock.Anything, mock.Anything)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, statusOf(nil))
	assert.Equal(t, StatusNoSuchElement, statusOf(ErrNoSuchElement))
	assert.Equal(t, StatusUnknownCommand, statusOf(ErrUnknownCommand))
	assert.Equal(t, StatusStaleElementReference, statusOf(ErrStaleElement))
	assert.Equal(t, StatusUnknownError, statusOf(pointer.ErrNoTarget))
	assert.Equal(t, StatusUnknownError, statusOfResult(pointer.Result{Status: 99}))
}
