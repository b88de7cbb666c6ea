// Package session orchestrates synchronized capture from a pair of depth
// cameras.
//
// The controller discovers connected devices, opens exactly two of them
// with the configured pipeline backend, and runs one capture worker
// goroutine per device. Workers are independent: they share no frame data,
// only the session State flags (shutdown, paused), and each one blocks
// solely in its own bounded frame wait.
//
// Lifecycle is strict: shutdown is requested (signal, frame limit, timeout
// or viewer close), both workers are joined, and only then are the devices
// stopped and closed. Stopping or closing a device while its worker may
// still be blocked in a frame wait is a driver-level race, so the join
// barrier is not optional.
//
// Pause/resume is driven by an intent channel: the signal path only posts
// the intent, and a dedicated watcher goroutine performs the device
// stop/start calls and flips the paused flag.
package session
