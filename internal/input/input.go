package input

import (
	"fmt"
	"strings"
	"sync"
)

// Action is a logical control, independent of the physical key that
// triggers it.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump // also ascends while flying
	ActionDescend
	ActionToggleFly
	ActionBreak
	ActionPlace
	ActionCount // sentinel for array sizing
)

var actionNames = [ActionCount]string{
	ActionMoveForward:  "move_forward",
	ActionMoveBackward: "move_backward",
	ActionMoveLeft:     "move_left",
	ActionMoveRight:    "move_right",
	ActionJump:         "jump",
	ActionDescend:      "descend",
	ActionToggleFly:    "toggle_fly",
	ActionBreak:        "break",
	ActionPlace:        "place",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps an action name such as "move_forward" to its Action.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("input: unknown action %q", name)
}

// DefaultBindings maps key names to action names.
func DefaultBindings() map[string]string {
	return map[string]string{
		"w":           "move_forward",
		"s":           "move_backward",
		"a":           "move_left",
		"d":           "move_right",
		"space":       "jump",
		"left_shift":  "descend",
		"f":           "toggle_fly",
		"mouse_left":  "break",
		"mouse_right": "place",
	}
}

// Listener receives input events for as long as its Subscription is open.
type Listener interface {
	HandleAction(a Action, pressed bool)
	HandleLook(dx, dy float64)
}

// Subscription is the handle returned by Subscribe. Closing it stops
// delivery; it is safe to close more than once.
type Subscription struct {
	im   *InputManager
	id   int
	once sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() { s.im.unsubscribe(s.id) })
}

// InputManager maps named keys to actions, tracks per-frame action state
// and fans events out to subscribers. Keys are named by the embedding
// window layer ("w", "space", "mouse_left", ...).
type InputManager struct {
	mu sync.RWMutex

	keyToActions map[string][]Action
	// heldKeys remembers the actions each held key engaged, so a release
	// undoes exactly what its press did even if bindings changed meanwhile.
	heldKeys map[string][]Action

	held         [ActionCount]int
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	listeners map[int]Listener
	nextID    int
}

// NewInputManager creates an InputManager with the given key bindings
// (key name to action name). A nil map selects DefaultBindings.
func NewInputManager(bindings map[string]string) (*InputManager, error) {
	im := &InputManager{
		keyToActions: make(map[string][]Action),
		heldKeys:     make(map[string][]Action),
		listeners:    make(map[int]Listener),
	}
	if bindings == nil {
		bindings = DefaultBindings()
	}
	for key, name := range bindings {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", key, err)
		}
		im.BindKey(key, a)
	}
	return im, nil
}

// BindKey binds a key to an action. A key may drive several actions and
// an action may have several keys.
func (im *InputManager) BindKey(key string, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	key = strings.ToLower(key)
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all actions bound to key.
func (im *InputManager) UnbindKey(key string) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.keyToActions, strings.ToLower(key))
}

// Subscribe registers l for action and look events.
func (im *InputManager) Subscribe(l Listener) *Subscription {
	im.mu.Lock()
	defer im.mu.Unlock()
	id := im.nextID
	im.nextID++
	im.listeners[id] = l
	return &Subscription{im: im, id: id}
}

func (im *InputManager) unsubscribe(id int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.listeners, id)
}

// SubscriberCount returns the number of open subscriptions.
func (im *InputManager) SubscriberCount() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.listeners)
}

func (im *InputManager) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(im.listeners))
	for _, l := range im.listeners {
		out = append(out, l)
	}
	return out
}

// HandleKeyEvent records a press or release of key and notifies
// subscribers of every action whose state changed. An action stays active
// while any of its keys is held; key repeats are ignored.
func (im *InputManager) HandleKeyEvent(key string, pressed bool) {
	key = strings.ToLower(key)

	im.mu.Lock()
	var changed []Action
	if pressed {
		if _, down := im.heldKeys[key]; !down {
			actions := im.keyToActions[key]
			im.heldKeys[key] = actions
			for _, act := range actions {
				im.held[act]++
				if im.held[act] == 1 {
					im.justPressed[act] = true
					changed = append(changed, act)
				}
			}
		}
	} else if actions, down := im.heldKeys[key]; down {
		delete(im.heldKeys, key)
		for _, act := range actions {
			if im.held[act] == 0 {
				continue
			}
			im.held[act]--
			if im.held[act] == 0 {
				im.justReleased[act] = true
				changed = append(changed, act)
			}
		}
	}
	listeners := im.snapshotListeners()
	im.mu.Unlock()

	for _, act := range changed {
		for _, l := range listeners {
			l.HandleAction(act, pressed)
		}
	}
}

// HandleMouseMove forwards a pointer delta to subscribers.
func (im *InputManager) HandleMouseMove(dx, dy float64) {
	im.mu.RLock()
	listeners := im.snapshotListeners()
	im.mu.RUnlock()

	for _, l := range listeners {
		l.HandleLook(dx, dy)
	}
}

// PostUpdate clears the edge flags. Call once at the end of each frame.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
}

// IsActive reports whether the action is currently held.
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.held[action] > 0
}

// JustPressed reports whether the action was pressed during this frame.
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

// JustReleased reports whether the action was released during this frame.
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}
