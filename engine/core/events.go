package core

import "sync"

// EventCode identifies the kind of event being fired. Codes below 0x80 are
// reserved for the engine, applications should use codes beyond that.
type EventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data is *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data is *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data is *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data is *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data is *MouseEvent.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel scrolled. Data is *MouseEvent.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS. Data is *SystemEvent.
	EVENT_CODE_RESIZED EventCode = 0x08
	// An asset file changed on disk. Data is the asset path as string.
	EVENT_CODE_ASSET_RELOADED EventCode = 0x09
	// The active display object changed. Data is the new object index as int.
	EVENT_CODE_OBJECT_CYCLED EventCode = 0x0A
	// A tunable shader parameter changed. Data is the parameter name as
	// string.
	EVENT_CODE_PARAMETER_CHANGED EventCode = 0x0B

	MAX_EVENT_CODE EventCode = 0xFF
)

// KeyEvent is the payload of key pressed/released events.
type KeyEvent struct {
	KeyCode KeyCode
}

// MouseEvent is the payload of button, move and wheel events.
type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

// SystemEvent is the payload of window system events.
type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// EventHandler is invoked for every fired event of the registered code.
type EventHandler func(context EventContext)

type eventSystemState struct {
	mu       sync.Mutex
	handlers map[EventCode][]EventHandler
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			handlers: make(map[EventCode][]EventHandler),
		}
	})
	return eventState != nil
}

func EventSystemShutdown() error {
	if eventState != nil {
		eventState.mu.Lock()
		eventState.handlers = make(map[EventCode][]EventHandler)
		eventState.mu.Unlock()
	}
	return nil
}

// EventRegister adds a handler for the given code. Handlers fire in
// registration order.
func EventRegister(code EventCode, handler EventHandler) bool {
	if eventState == nil || handler == nil {
		return false
	}
	eventState.mu.Lock()
	eventState.handlers[code] = append(eventState.handlers[code], handler)
	eventState.mu.Unlock()
	return true
}

// EventFire dispatches the context to every handler registered for its code.
// Dispatch is synchronous so that input driven state changes land before the
// next frame is recorded.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	handlers := make([]EventHandler, len(eventState.handlers[context.Type]))
	copy(handlers, eventState.handlers[context.Type])
	eventState.mu.Unlock()

	for _, h := range handlers {
		h(context)
	}
	return len(handlers) > 0
}
