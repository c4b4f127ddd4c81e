// Package workers runs the client's background processes: the sync
// coordinator event loop and the periodic queue drain. It defines the Worker
// interface and a Workers aggregate that starts them in a unified way.
package workers

// Worker is implemented by any background process of the client.
//
// Run starts the worker. Implementations either spawn their goroutines and
// return, or block for the duration of their work.
type Worker interface {
	Run()
}
