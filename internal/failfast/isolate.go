package failfast

// RunIsolated runs body on its own goroutine and waits for it to return or
// stop through runtime.Goexit, the way a [TB.Fatal] implementation stops it.
// It then runs the cleanups handed out by nextCleanup the same way, one at a
// time, until nextCleanup returns nil.
//
// Fakes of TB use this to give Fatal the testing package's semantics.
func RunIsolated(body func(), nextCleanup func() func()) {
	isolate(body)

	for cleanup := nextCleanup(); cleanup != nil; cleanup = nextCleanup() {
		isolate(cleanup)
	}
}

func isolate(fn func()) {
	done := make(chan struct{})

	go func() {
		defer close(done)

		fn()
	}()

	<-done
}
