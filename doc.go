// Package tubes provides flow control for pipelines of items with backpressure.
// Pipelines pass items one at a time from founts (producers) to drains (consumers).
//
// A pipeline stage is written as a Tube: a value with hooks that are called when the stage
// starts, for each item it receives, and when its upstream stops. Each hook returns a lazy
// sequence of outputs, which may be empty. Outputs are either plain items, or futures created
// with Suspend, whose values are delivered once they resolve, in their original position.
//
// A Siphon drives a tube, exposing a Drain that receives items and a Fount that delivers the
// tube's output. Series wraps a number of tubes in siphons and connects them in order.
//
// Any drain can pause its fount by calling PauseFlow. The fount stops delivering items until
// every Pause it handed out has been unpaused. Siphons buffer the output of their tube while
// paused and pass the pause on to their own fount, so that producers never race ahead of
// consumers. StopFlow stops a fount for good; the stop travels upstream, and the stop reason
// travels downstream once all buffered output has been delivered.
//
// A Diverter drives a tube whose flow can be redirected to a different drain mid-stream,
// without losing or duplicating buffered output.
//
// Pipelines are single-threaded: all calls happen inline on the caller's goroutine, and
// futures must be resolved on it as well. Pipelines are not safe for concurrent use.
package tubes
