package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInput(t *testing.T) {
	t.Helper()
	require.True(t, EventSystemInitialize())
	require.NoError(t, InputInitialize())
	// Singletons survive between tests, drop any state left behind.
	*inputState = InputState{}
	require.NoError(t, EventSystemShutdown())
	t.Cleanup(func() {
		*inputState = InputState{}
		_ = EventSystemShutdown()
	})
}

func TestKeyPressEdge(t *testing.T) {
	setupInput(t)

	assert.False(t, InputWasKeyPressed(KEY_SPACE))

	InputProcessKey(KEY_SPACE, true)
	assert.True(t, InputIsKeyDown(KEY_SPACE))
	assert.True(t, InputWasKeyPressed(KEY_SPACE))

	// After the frame rollover the key is held but no longer an edge.
	require.NoError(t, InputUpdate(0))
	assert.True(t, InputIsKeyDown(KEY_SPACE))
	assert.False(t, InputWasKeyPressed(KEY_SPACE))

	InputProcessKey(KEY_SPACE, false)
	assert.False(t, InputIsKeyDown(KEY_SPACE))
	assert.True(t, InputIsKeyUp(KEY_SPACE))
}

func TestKeyRepeatIgnored(t *testing.T) {
	setupInput(t)

	fired := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, func(context EventContext) {
		fired++
	})

	InputProcessKey(KEY_F2, true)
	InputProcessKey(KEY_F2, true)
	InputProcessKey(KEY_F2, true)
	assert.Equal(t, 1, fired)
}

func TestKeyEventsCarryKeyCode(t *testing.T) {
	setupInput(t)

	var got KeyCode
	EventRegister(EVENT_CODE_KEY_PRESSED, func(context EventContext) {
		got = context.Data.(*KeyEvent).KeyCode
	})

	InputProcessKey(KEY_F5, true)
	assert.Equal(t, KEY_F5, got)
}

func TestMouseButtonAndPosition(t *testing.T) {
	setupInput(t)

	InputProcessButton(BUTTON_LEFT, true)
	assert.True(t, InputIsButtonDown(BUTTON_LEFT))
	assert.False(t, InputWasButtonDown(BUTTON_LEFT))

	InputProcessMouseMove(120, 45)
	x, y := InputGetMousePosition()
	assert.Equal(t, int32(120), x)
	assert.Equal(t, int32(45), y)

	require.NoError(t, InputUpdate(0))
	InputProcessMouseMove(130, 50)

	px, py := InputGetPreviousMousePosition()
	assert.Equal(t, int32(120), px)
	assert.Equal(t, int32(45), py)
	assert.True(t, InputWasButtonDown(BUTTON_LEFT))
}

func TestEventFireWithoutHandlers(t *testing.T) {
	setupInput(t)
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_RESIZED}))
}

func TestEventHandlersFireInOrder(t *testing.T) {
	setupInput(t)

	var order []int
	EventRegister(EVENT_CODE_ASSET_RELOADED, func(context EventContext) {
		order = append(order, 1)
	})
	EventRegister(EVENT_CODE_ASSET_RELOADED, func(context EventContext) {
		order = append(order, 2)
	})

	assert.True(t, EventFire(EventContext{Type: EVENT_CODE_ASSET_RELOADED, Data: "textures/pbr/bricks_albedo_bc3.ktx"}))
	assert.Equal(t, []int{1, 2}, order)
}
