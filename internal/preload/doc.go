// Package preload scores routes ahead of the reviewer.
//
// A Preloader walks the route catalog in order, loads and scores each route,
// and publishes it to a ReadyQueue. The queue is bounded by slot
// reservations: a slot is taken before a route is loaded and given back when
// the reviewer receives the route, so decoded routes held by the producer
// never exceed the queue capacity.
package preload
