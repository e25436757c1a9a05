// package events manages WebSocket subscriptions to the robot's pubsub
// socket. The firmware streams named event categories (touch, bump, IMU,
// actuator positions, ...) over ws://<host>/pubsub; this package maps
// friendlier sensor names onto the firmware's event-type strings and
// condition filters, and dispatches incoming frames to registered handlers.
package events
