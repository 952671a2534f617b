// internal/pointer/controller_test.go
package pointer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_InitialState(t *testing.T) {
	c, _ := setupController(t)
	assert.NotEmpty(t, c.ID())
	assert.Nil(t, c.LastElement())
	assert.Equal(t, ButtonNone, c.ActiveButton())
}

func TestPressRelease_ButtonCoupling(t *testing.T) {
	c, page := setupController(t)
	_, _, target := newFixture()
	target.client = Point{X: 40, Y: 60}
	ctx := context.Background()

	res, err := c.Press(ctx, Coordinates{X: 5, Y: 7, Element: target})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, ButtonLeft, c.ActiveButton())

	require.Len(t, page.events, 1)
	down := page.events[0]
	assert.Equal(t, EventMouseDown, down.Type)
	assert.Equal(t, ButtonLeft, down.Button)
	assert.Equal(t, 45.0, down.X)
	assert.Equal(t, 67.0, down.Y)

	res, err = c.Release(ctx, Coordinates{X: 5, Y: 7, Element: target})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, ButtonNone, c.ActiveButton())

	require.Len(t, page.events, 3)
	assert.Equal(t, []EventType{EventMouseDown, EventMouseMove, EventMouseUp}, types(page.events))
	up := page.events[2]
	assert.Equal(t, down.Button, up.Button, "mouseup must report the pressed button")
	assert.Equal(t, down.X, up.X)
	assert.Equal(t, down.Y, up.Y)
}

func TestRelease_WithoutPressReportsNoButton(t *testing.T) {
	c, page := setupController(t)
	_, _, target := newFixture()

	_, err := c.Release(context.Background(), Coordinates{Element: target})
	require.NoError(t, err)
	for _, ev := range page.events {
		assert.Equal(t, ButtonNone, ev.Button)
	}
}

func TestPress_FallsBackToLastElement(t *testing.T) {
	c, page := setupController(t)
	_, _, target := newFixture()
	ctx := context.Background()

	_, err := c.Move(ctx, target, 0, 0)
	require.NoError(t, err)
	page.events = nil

	_, err = c.Press(ctx, Coordinates{X: 1, Y: 1})
	require.NoError(t, err)
	require.Len(t, page.events, 1)
	assert.Equal(t, "target", page.events[0].Target)
}

func TestPress_NoTarget(t *testing.T) {
	c, _ := setupController(t)

	_, err := c.Press(context.Background(), Coordinates{})
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.Equal(t, ButtonNone, c.ActiveButton())

	_, err = c.Release(context.Background(), Coordinates{})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestPress_DispatchFailureResetsButton(t *testing.T) {
	c, page := setupController(t)
	_, _, target := newFixture()
	boom := errors.New("target closed")
	page.MockFire = func(el *fakeElement, typ EventType, init EventInit) (bool, error) {
		return false, boom
	}

	_, err := c.Press(context.Background(), Coordinates{Element: target})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ButtonNone, c.ActiveButton())
}

func TestRelease_DispatchFailureStillClearsButton(t *testing.T) {
	c, page := setupController(t)
	_, _, target := newFixture()
	ctx := context.Background()

	_, err := c.Press(ctx, Coordinates{Element: target})
	require.NoError(t, err)

	page.MockFire = func(el *fakeElement, typ EventType, init EventInit) (bool, error) {
		return false, errors.New("target closed")
	}
	_, err = c.Release(ctx, Coordinates{Element: target})
	assert.Error(t, err)
	assert.Equal(t, ButtonNone, c.ActiveButton())
}

func TestButton_Buttons(t *testing.T) {
	assert.Equal(t, int64(0), ButtonNone.Buttons())
	assert.Equal(t, int64(1), ButtonLeft.Buttons())
	assert.Equal(t, int64(2), ButtonRight.Buttons())
	assert.Equal(t, int64(4), ButtonMiddle.Buttons())
	assert.Equal(t, "left", ButtonLeft.String())
}
