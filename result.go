package hxtodo

// Result is returned from action handlers to control the response.
//
// Handlers change the page by writing through the View; Result only
// carries what goes around those patches:
//
//	// Success
//	return OK()
//
//	// Success with an event for listeners on the page
//	return OK().Trigger("todo:created", map[string]any{"id": todo.ID})
//
//	// Failure that leaves the list untouched
//	return Err(err).Flash(FlashError, "Could not save the task")
type Result struct {
	err         error
	flashes     []Flash
	trigger     string
	triggerData map[string]any
}

// OK creates a success result.
func OK() Result {
	return Result{}
}

// Err creates a failed result. The controller logs err; the response
// still carries any flashes.
func Err(err error) Result {
	return Result{err: err}
}

// Flash adds a toast notification to the result.
func (r Result) Flash(level, message string) Result {
	r.flashes = append(r.flashes, Flash{Level: level, Message: message})
	return r
}

// Trigger emits an event via the HX-Trigger header. With data, listeners
// receive it as evt.detail.
func (r Result) Trigger(event string, data ...map[string]any) Result {
	r.trigger = event
	if len(data) > 0 {
		r.triggerData = data[0]
	}
	return r
}

// GetErr returns the error from the result.
func (r Result) GetErr() error {
	return r.err
}

// GetFlashes returns the flash messages.
func (r Result) GetFlashes() []Flash {
	return r.flashes
}

// GetTrigger returns the trigger event name.
func (r Result) GetTrigger() string {
	return r.trigger
}

// GetTriggerData returns the trigger event data.
func (r Result) GetTriggerData() map[string]any {
	return r.triggerData
}
