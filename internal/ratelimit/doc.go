// Package ratelimit provides a Redis-backed fixed-window limiter used to cap
// how many generations a user may start per window.
package ratelimit
